package sqlfill

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"

	"github.com/nao1215/sqlfill/domain/model"
)

// ParseParquet reads a whole Parquet file into rows. Column names form the
// header and Arrow nulls become null values.
func ParseParquet(ctx context.Context, data []byte) (ParseResult, error) {
	if len(data) == 0 {
		return ParseResult{}, fmt.Errorf("%w: empty parquet file", model.ErrFormat)
	}

	// Parquet requires random access, bytes.Reader provides ReadAt and Seek.
	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: failed to create parquet reader: %v", model.ErrFormat, err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: failed to create arrow reader: %v", model.ErrFormat, err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: failed to read table: %v", model.ErrFormat, err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make(model.Header, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	rows := make(model.RowSet, 0, table.NumRows())
	for tableReader.Next() {
		batch := tableReader.Record()
		for i := 0; i < int(batch.NumRows()); i++ {
			values := make([]model.Value, batch.NumCols())
			for j, col := range batch.Columns() {
				values[j] = arrowValue(col, i)
			}
			rows = append(rows, model.NewRow(header, values))
		}
	}
	if err := tableReader.Err(); err != nil {
		return ParseResult{}, fmt.Errorf("%w: error reading table records: %v", model.ErrFormat, err)
	}
	return ParseResult{Rows: rows}, nil
}

// arrowValue converts the i-th element of an Arrow array to a Value.
func arrowValue(col arrow.Array, i int) model.Value {
	if col.IsNull(i) {
		return model.Null()
	}
	switch a := col.(type) {
	case *array.Boolean:
		return model.NewBool(a.Value(i))
	case *array.Int8:
		return model.NewNumber(float64(a.Value(i)))
	case *array.Int16:
		return model.NewNumber(float64(a.Value(i)))
	case *array.Int32:
		return model.NewNumber(float64(a.Value(i)))
	case *array.Int64:
		return model.NewNumber(float64(a.Value(i)))
	case *array.Uint8:
		return model.NewNumber(float64(a.Value(i)))
	case *array.Uint16:
		return model.NewNumber(float64(a.Value(i)))
	case *array.Uint32:
		return model.NewNumber(float64(a.Value(i)))
	case *array.Uint64:
		return model.NewNumber(float64(a.Value(i)))
	case *array.Float32:
		return model.NewNumber(float64(a.Value(i)))
	case *array.Float64:
		return model.NewNumber(a.Value(i))
	case *array.String:
		return model.NewString(a.Value(i))
	case *array.LargeString:
		return model.NewString(a.Value(i))
	default:
		return model.NewString(col.ValueStr(i))
	}
}
