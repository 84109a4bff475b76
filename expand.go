package sqlfill

import (
	"fmt"
	"strings"

	"github.com/nao1215/sqlfill/domain/model"
)

const (
	// DefaultBatchSize is the default number of rows per Batch-N variant
	DefaultBatchSize = 1000
	// rowSeparator joins substituted VALUES rows
	rowSeparator = ",\n"
	// valuesHeader starts the rebuilt VALUES list
	valuesHeader = "VALUES\n"
)

// Expand substitutes rows into template and returns the generated scripts in
// the fixed order ALL, WITHOUT-NULL, WITH-NULL, Batch-1, Batch-2, ...
//
// A template with at least one {{key}} token is expanded in aggregate mode:
// each such token becomes the comma-joined unique non-null values of key and
// any {key} token is left untouched. Otherwise every {key} token inside the
// VALUES (...) clause is substituted once per row. Templates without the word
// VALUES are repeated once per row as free-standing statements.
//
// batchSize values below 1 disable batching.
func Expand(rows model.RowSet, template string, batchSize int) ([]model.Variant, error) {
	if rows == nil {
		return nil, fmt.Errorf("%w: %w", model.ErrRuntimeUnavailable, model.ErrValidation)
	}
	if rows.Len() == 0 {
		return nil, model.ValidationErrors{msgEmptyRows}
	}
	if errs := ValidateTemplate(template); len(errs) > 0 {
		return nil, errs
	}

	tpl := tokenize(template)
	if tpl.mode() == model.ModeAggregate {
		return expandAggregate(rows, tpl), nil
	}
	return expandPerRow(rows, template, batchSize)
}

// expandAggregate handles templates containing {{key}} tokens.
func expandAggregate(rows model.RowSet, tpl tokenizedTemplate) []model.Variant {
	variants := []model.Variant{{
		Name:     model.VariantAll,
		Script:   tpl.render(tokenAggregate, func(key string) string { return joinUnique(rows, key) }),
		RowCount: rows.Len(),
	}}

	keys := tpl.keys(tokenAggregate)
	for _, key := range keys {
		if !anyNonNull(rows, key) {
			return variants
		}
	}

	clean := make(model.RowSet, 0, rows.Len())
	for _, row := range rows {
		if !hasNull(row, keys) {
			clean = append(clean, row)
		}
	}
	return append(variants, model.Variant{
		Name:     model.VariantWithoutNull,
		Script:   tpl.render(tokenAggregate, func(key string) string { return joinUnique(clean, key) }),
		RowCount: clean.Len(),
	})
}

// joinUnique collects the non-null values of key across rows, removes
// duplicates keeping first occurrence, and joins their SQL literals with
// commas.
func joinUnique(rows model.RowSet, key string) string {
	seen := make(map[string]struct{})
	literals := make([]string, 0, rows.Len())
	for _, row := range rows {
		v, ok := row.Lookup(key)
		if !ok || v.IsNull() {
			continue
		}
		id := v.Kind().String() + ":" + v.String()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		literals = append(literals, v.SQLLiteral())
	}
	return strings.Join(literals, ",")
}

// anyNonNull reports whether at least one row holds a non-null value for key.
func anyNonNull(rows model.RowSet, key string) bool {
	for _, row := range rows {
		if v, ok := row.Lookup(key); ok && !v.IsNull() {
			return true
		}
	}
	return false
}

// hasNull reports whether any of keys is missing or null in row.
func hasNull(row model.Row, keys []string) bool {
	for _, key := range keys {
		if v, ok := row.Lookup(key); !ok || v.IsNull() {
			return true
		}
	}
	return false
}

// expandPerRow handles templates without {{key}} tokens.
func expandPerRow(rows model.RowSet, template string, batchSize int) ([]model.Variant, error) {
	loc := valuesClause.FindStringSubmatchIndex(template)
	if loc == nil {
		if strings.Contains(strings.ToLower(template), valuesKeyword) {
			return nil, model.ValidationErrors{msgValuesNotFound}
		}
		return []model.Variant{expandStatements(rows, tokenize(template))}, nil
	}

	prefix := valuesHeader
	if strings.Contains(strings.ToLower(template), insertIntoKeyword) {
		prefix = template[:loc[0]] + valuesHeader
	}
	rowTpl := tokenize(template[loc[2]:loc[3]])
	keys := rowTpl.keys(tokenPerRow)

	rendered := make([]string, rows.Len())
	var clean, dirty []string
	for i, row := range rows {
		rendered[i] = "(" + substituteRow(rowTpl, row) + ")"
		if hasNull(row, keys) {
			dirty = append(dirty, rendered[i])
		} else {
			clean = append(clean, rendered[i])
		}
	}

	variants := []model.Variant{valuesVariant(model.VariantAll, prefix, rendered)}
	if len(clean) > 0 {
		variants = append(variants, valuesVariant(model.VariantWithoutNull, prefix, clean))
	}
	if len(dirty) > 0 {
		variants = append(variants, valuesVariant(model.VariantWithNull, prefix, dirty))
	}

	if batchSize > 0 && batchSize < len(rendered) {
		for i, chunk := range partition(rendered, batchSize) {
			variants = append(variants, valuesVariant(model.BatchName(i+1), prefix, chunk))
		}
	}
	return variants, nil
}

// expandStatements repeats a free-standing statement once per row.
func expandStatements(rows model.RowSet, tpl tokenizedTemplate) model.Variant {
	statements := make([]string, rows.Len())
	for i, row := range rows {
		statements[i] = substituteRow(tpl, row)
	}
	return model.Variant{
		Name:     model.VariantAll,
		Script:   strings.Join(statements, "\n"),
		RowCount: rows.Len(),
	}
}

// substituteRow replaces each {key} token with the row's SQL literal for key.
// Missing keys render as NULL.
func substituteRow(tpl tokenizedTemplate, row model.Row) string {
	return tpl.render(tokenPerRow, func(key string) string {
		return row.Get(key).SQLLiteral()
	})
}

// valuesVariant assembles prefix and rendered row tuples into a variant.
func valuesVariant(name, prefix string, tuples []string) model.Variant {
	return model.Variant{
		Name:     name,
		Script:   prefix + strings.Join(tuples, rowSeparator),
		RowCount: len(tuples),
	}
}

// partition splits items into consecutive chunks of size; the last chunk may
// be shorter.
func partition[T any](items []T, size int) [][]T {
	if size < 1 {
		return [][]T{items}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
