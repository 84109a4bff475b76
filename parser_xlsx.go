package sqlfill

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/sqlfill/domain/model"
)

// ParseXLSX parses the first sheet of an Excel workbook. The first non-empty
// row is the header. Rows shorter than the header are padded with nulls since
// Excel omits trailing empty cells; longer rows are skipped.
func ParseXLSX(data []byte) (ParseResult, error) {
	xlsxFile, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: failed to open XLSX file: %v", model.ErrFormat, err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return ParseResult{}, fmt.Errorf("%w: no sheets found in XLSX file", model.ErrFormat)
	}

	sheetName := sheetNames[0]
	iter, err := xlsxFile.Rows(sheetName)
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: failed to open rows iterator for sheet %s: %v", model.ErrFormat, sheetName, err)
	}
	defer iter.Close()

	var (
		header model.Header
		result ParseResult
	)
	for iter.Next() {
		cells, err := iter.Columns()
		if err != nil {
			return ParseResult{}, fmt.Errorf("%w: failed to read row in sheet %s: %v", model.ErrFormat, sheetName, err)
		}
		if isBlankRow(cells) {
			continue
		}
		if header == nil {
			header = make(model.Header, len(cells))
			for i, c := range cells {
				header[i] = strings.TrimSpace(c)
			}
			continue
		}
		if len(cells) > len(header) {
			result.Skipped++
			continue
		}
		values := make([]model.Value, len(header))
		for i := range header {
			if i < len(cells) {
				values[i] = model.Coerce(cells[i], false)
			}
		}
		result.Rows = append(result.Rows, model.NewRow(header, values))
	}
	if err := iter.Error(); err != nil {
		return ParseResult{}, fmt.Errorf("%w: failed to iterate sheet %s: %v", model.ErrFormat, sheetName, err)
	}

	if result.Rows.Len() == 0 && result.Skipped == 0 {
		return ParseResult{}, fmt.Errorf("%w: sheet %s needs a header row and at least one data row", model.ErrFormat, sheetName)
	}
	return result, nil
}

// isBlankRow reports whether every cell is empty after trimming.
func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
