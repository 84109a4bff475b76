package sqlfill

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/nao1215/sqlfill/domain/model"
)

// jsonObject is a decoded JSON object that remembers key order.
type jsonObject struct {
	keys   []string
	values map[string]any
}

// get returns the value stored under key.
func (o *jsonObject) get(key string) any {
	return o.values[key]
}

// ParseJSON parses a JSON document into rows. A top-level array is the row
// set; a single object becomes a one-row set. The result is checked with
// ValidateRows before conversion.
func ParseJSON(text string) (ParseResult, error) {
	root, err := decodeJSON(text)
	if err != nil {
		return ParseResult{}, err
	}
	return jsonRows(root)
}

// parseJSONFile is ParseJSON plus envelope unwrapping: an object holding an
// array-valued field is replaced by the first such array.
func parseJSONFile(text string) (ParseResult, error) {
	root, err := decodeJSON(text)
	if err != nil {
		return ParseResult{}, err
	}
	return jsonRows(unwrapEnvelope(root))
}

// jsonRows wraps a lone object, validates the shape, and converts elements.
func jsonRows(root any) (ParseResult, error) {
	if obj, ok := root.(*jsonObject); ok {
		root = []any{obj}
	}
	if errs := ValidateRows(root); len(errs) > 0 {
		return ParseResult{}, errs
	}

	elems, _ := root.([]any)
	rows := make(model.RowSet, 0, len(elems))
	for _, elem := range elems {
		obj, ok := elem.(*jsonObject)
		if !ok {
			// Non-object elements after the first behave as rows without fields.
			rows = append(rows, model.NewRow(nil, nil))
			continue
		}
		values := make([]model.Value, len(obj.keys))
		for i, k := range obj.keys {
			values[i] = jsonValue(obj.get(k))
		}
		rows = append(rows, model.NewRow(obj.keys, values))
	}
	return ParseResult{Rows: rows}, nil
}

// unwrapEnvelope returns the first array-valued field of an object, or root
// unchanged.
func unwrapEnvelope(root any) any {
	obj, ok := root.(*jsonObject)
	if !ok {
		return root
	}
	for _, k := range obj.keys {
		if arr, ok := obj.get(k).([]any); ok {
			return arr
		}
	}
	return root
}

// decodeJSON decodes exactly one JSON value from text.
func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	root, err := decodeJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			if strings.TrimSpace(text) == "" {
				return nil, fmt.Errorf("%w: empty JSON document", model.ErrFormat)
			}
			return nil, fmt.Errorf("%w: invalid JSON: unexpected end of input", model.ErrFormat)
		}
		return nil, fmt.Errorf("%w: invalid JSON: %v", model.ErrFormat, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: invalid JSON: unexpected data after top-level value", model.ErrFormat)
	}
	return root, nil
}

// decodeJSONValue reads one value from the token stream. Objects become
// *jsonObject, arrays []any, and scalars keep their token type.
func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &jsonObject{values: map[string]any{}}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", keyTok)
			}
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			if _, dup := obj.values[key]; !dup {
				obj.keys = append(obj.keys, key)
			}
			obj.values[key] = val
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// jsonValue maps a decoded JSON value onto the scalar model. Nested objects
// and arrays are kept as their compact JSON text.
func jsonValue(v any) model.Value {
	switch t := v.(type) {
	case nil:
		return model.Null()
	case string:
		return model.NewString(t)
	case bool:
		return model.NewBool(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil && !math.IsInf(f, 0) {
			return model.NewString(t.String())
		}
		return model.NewNumber(f)
	default:
		var buf bytes.Buffer
		writeJSON(&buf, t)
		return model.NewString(buf.String())
	}
}

// writeJSON re-encodes a decoded value compactly, keeping key order.
func writeJSON(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case *jsonObject:
		buf.WriteByte('{')
		for i, k := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSON(buf, k)
			buf.WriteByte(':')
			writeJSON(buf, t.get(k))
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSON(buf, e)
		}
		buf.WriteByte(']')
	case json.Number:
		buf.WriteString(t.String())
	default:
		var tmp bytes.Buffer
		enc := json.NewEncoder(&tmp)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(t); err != nil {
			buf.WriteString("null")
			return
		}
		buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	}
}
