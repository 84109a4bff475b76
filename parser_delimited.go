package sqlfill

import (
	"fmt"
	"strings"

	"github.com/nao1215/sqlfill/domain/model"
)

// File format delimiters
const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
)

// ParseResult is the outcome of parsing one source.
type ParseResult struct {
	// Rows are the parsed rows in source order
	Rows model.RowSet
	// Skipped counts data lines dropped because their field count did not
	// match the header
	Skipped int
}

// ParseCSV parses comma separated text. The first non-blank line is the
// header. Double quotes toggle quoting so commas inside them are literal.
func ParseCSV(text string) (ParseResult, error) {
	return parseDelimited(text, FileTypeCSV)
}

// ParseTSV parses tab separated text. Fields are split on every tab; quotes
// have no special meaning.
func ParseTSV(text string) (ParseResult, error) {
	return parseDelimited(text, FileTypeTSV)
}

// parseDelimited holds the logic shared by the CSV and TSV parsers.
func parseDelimited(text string, ft FileType) (ParseResult, error) {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return ParseResult{}, fmt.Errorf("%w: %s data needs a header line and at least one data line",
			model.ErrFormat, strings.ToUpper(ft.String()))
	}

	isCSV := ft == FileTypeCSV
	header := splitLine(lines[0], ft)
	for i, h := range header {
		if isCSV {
			h = strings.Trim(strings.TrimSpace(h), `"'`)
		}
		header[i] = strings.TrimSpace(h)
	}

	var result ParseResult
	rows := make(model.RowSet, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitLine(line, ft)
		if len(fields) != len(header) {
			result.Skipped++
			continue
		}
		values := make([]model.Value, len(fields))
		for i, f := range fields {
			values[i] = model.Coerce(f, isCSV)
		}
		rows = append(rows, model.NewRow(header, values))
	}
	result.Rows = rows
	return result, nil
}

// nonBlankLines splits text into lines, dropping a trailing carriage return
// and every line that is empty after trimming whitespace.
func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitLine splits one line into raw field tokens.
func splitLine(line string, ft FileType) []string {
	if ft == FileTypeTSV {
		return strings.Split(line, string(tsvDelimiter))
	}
	return splitCSVLine(line)
}

// splitCSVLine splits on commas outside double quotes. Quote characters are
// kept in the token; value coercion strips them.
func splitCSVLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == csvDelimiter && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}
