// Package sqlfill turns tabular data into SQL scripts by substituting each
// row into a template.
//
// sqlfill reads CSV, TSV, JSON, Excel (XLSX) and Parquet sources, coerces
// every field to null, number or string, and expands a template containing
// {key} or {{key}} placeholders into one or more named scripts (variants).
//
// # Features
//
//   - Parse CSV, TSV, JSON, Parquet, and Excel (XLSX) data
//   - Automatic handling of compressed files (gzip, bzip2, xz, zstandard)
//   - Format sniffing for pasted text without a file name
//   - Per-row and aggregate placeholder expansion
//   - Null-aware variants and fixed-size batches
//   - Export of variants to (optionally compressed) .sql files
//
// # Basic Usage
//
//	loader := sqlfill.NewLoader()
//	ds, err := loader.LoadFile(ctx, "users.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	variants, err := sqlfill.Expand(ds.Rows,
//	    "INSERT INTO users (id, name) VALUES ({id}, {name})", sqlfill.DefaultBatchSize)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(variants[0].Script)
//
// # Placeholders
//
// A template containing at least one {{key}} token is expanded in aggregate
// mode: every {{key}} becomes the comma separated unique non-null values of
// key, which suits IN (...) lists. Any other template is expanded per row:
// the text inside VALUES (...) is repeated once per row with every {key}
// replaced by that row's value. Strings are single quoted with embedded
// quotes doubled, nulls become NULL and numbers are written plainly.
//
// # Variants
//
// Per-row expansion yields, in order:
//   - ALL: every row
//   - WITHOUT-NULL: rows where no placeholder value is null
//   - WITH-NULL: rows where at least one placeholder value is null
//   - Batch-1, Batch-2, ...: consecutive chunks of ALL when the row count
//     exceeds the batch size
//
// Empty variants are omitted.
//
// # Errors
//
// Parse failures wrap model.ErrFormat. Validation problems are returned as
// model.ValidationErrors, a list of messages that matches
// model.ErrValidation with errors.Is.
package sqlfill
