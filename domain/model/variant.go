package model

import "strconv"

// Variant names produced by the expansion engine, in emission order.
const (
	// VariantAll covers every row (or every unique value in aggregate mode)
	VariantAll = "ALL"
	// VariantWithoutNull covers rows with no null placeholder value
	VariantWithoutNull = "WITHOUT-NULL"
	// VariantWithNull covers rows with at least one null placeholder value
	VariantWithNull = "WITH-NULL"
	// batchPrefix prefixes the 1-indexed batch number
	batchPrefix = "Batch-"
)

// BatchName returns the variant name of the n-th batch (1-indexed).
func BatchName(n int) string {
	return batchPrefix + strconv.Itoa(n)
}

// Variant is one generated script plus the number of source rows it covers.
type Variant struct {
	Name     string
	Script   string
	RowCount int
}

// Mode is the expansion mode of a template.
type Mode int

const (
	// ModePerRow substitutes {key} once per emitted row
	ModePerRow Mode = iota
	// ModeAggregate substitutes {{key}} with comma-joined unique values
	ModeAggregate
)

// String returns the mode name
func (m Mode) String() string {
	if m == ModeAggregate {
		return "aggregate"
	}
	return "per-row"
}
