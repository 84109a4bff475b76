// Package model provides domain model for sqlfill
package model

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the scalar kind held by a Value.
type Kind int

const (
	// KindNull represents an explicit null (or an empty/"null" text token)
	KindNull Kind = iota
	// KindNumber represents a finite float64
	KindNumber
	// KindString represents text
	KindString
	// KindBool represents a JSON boolean
	KindBool
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a single scalar field value.
// The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// NewNumber creates a number value.
func NewNumber(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// NewString creates a string value.
func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the value kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Bool returns the boolean payload and whether v is a bool.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// String returns the plain textual form of the value. Null renders as "null".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// SQLLiteral renders v for substitution into a SQL script.
// Strings are single-quoted with embedded quotes doubled, null becomes NULL,
// everything else uses its plain textual form.
func (v Value) SQLLiteral() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindString:
		return QuoteString(v.str)
	default:
		return v.String()
	}
}

// QuoteString wraps s in single quotes, doubling any embedded single quote.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// FormatNumber renders f in its canonical shortest decimal form.
// Exponent notation is used only for magnitudes below 1e-6 or at/above 1e21.
func FormatNumber(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads the exponent to two digits ("1e-07"); drop the padding.
		mantissa, exp, ok := strings.Cut(s, "e")
		if !ok {
			return s
		}
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Coerce infers a scalar from a text token taken from delimited input.
// When stripQuotes is set, one matching pair of surrounding straight double
// or single quotes is removed first.
func Coerce(token string, stripQuotes bool) Value {
	if stripQuotes {
		token = StripQuotes(token)
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.EqualFold(token, "null") {
		return Null()
	}
	if f, ok := parseDecimal(token); ok {
		return NewNumber(f)
	}
	return NewString(token)
}

// StripQuotes removes one matching pair of surrounding quotes from s.
// Surrounding whitespace outside the quotes is ignored.
func StripQuotes(s string) string {
	t := strings.TrimSpace(s)
	if len(t) >= 2 {
		first, last := t[0], t[len(t)-1]
		if (first == '"' || first == '\'') && first == last {
			return t[1 : len(t)-1]
		}
	}
	return s
}

// parseDecimal parses token as a finite decimal number. Hex, binary, octal,
// digit separators and the inf/nan spellings are rejected.
func parseDecimal(token string) (float64, bool) {
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
