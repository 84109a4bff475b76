package model

// Header is the ordered list of field names of a tabular source.
type Header []string

// NewHeader create new Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Equal compare Header.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Row is an ordered mapping from field name to Value.
// Rows are read-only once built.
type Row struct {
	keys   []string
	values map[string]Value
}

// NewRow builds a Row from parallel key and value slices.
// A repeated key keeps its first position and its last value.
func NewRow(keys []string, values []Value) Row {
	r := Row{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]Value, len(keys)),
	}
	for i, k := range keys {
		var v Value
		if i < len(values) {
			v = values[i]
		}
		if _, dup := r.values[k]; !dup {
			r.keys = append(r.keys, k)
		}
		r.values[k] = v
	}
	return r
}

// Keys returns the field names in their original order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.keys)
}

// Lookup returns the value for key. ok is false when the row has no such
// field, which callers treat as "undefined".
func (r Row) Lookup(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Get returns the value for key, or null when the field is missing.
func (r Row) Get(key string) Value {
	return r.values[key]
}

// Equal compares two rows field by field, including key order.
func (r Row) Equal(o Row) bool {
	if !Header(r.keys).Equal(o.keys) {
		return false
	}
	for _, k := range r.keys {
		if !r.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// RowSet is an ordered sequence of rows parsed from one source.
type RowSet []Row

// Header returns the keys of the first row, or nil for an empty set.
func (rs RowSet) Header() Header {
	if len(rs) == 0 {
		return nil
	}
	return Header(rs[0].Keys())
}

// Len returns the number of rows.
func (rs RowSet) Len() int {
	return len(rs)
}
