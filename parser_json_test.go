package sqlfill

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/sqlfill/domain/model"
)

func TestParseJSON(t *testing.T) {
	t.Parallel()

	t.Run("array keeps key order", func(t *testing.T) {
		t.Parallel()

		got, err := ParseJSON(`[{"b":1,"a":"x"},{"b":2.5,"a":null}]`)
		require.NoError(t, err)
		assertRows(t, got.Rows, model.Header{"b", "a"}, []map[string]model.Value{
			{"b": model.NewNumber(1), "a": model.NewString("x")},
			{"b": model.NewNumber(2.5), "a": model.Null()},
		})
	})

	t.Run("single object becomes one row", func(t *testing.T) {
		t.Parallel()

		got, err := ParseJSON(`{"id": 7, "ok": true}`)
		require.NoError(t, err)
		assertRows(t, got.Rows, model.Header{"id", "ok"}, []map[string]model.Value{
			{"id": model.NewNumber(7), "ok": model.NewBool(true)},
		})
	})

	t.Run("nested values become compact json text", func(t *testing.T) {
		t.Parallel()

		got, err := ParseJSON(`[{"a": {"x": [1, 2.0, "<&>"]}, "b": []}]`)
		require.NoError(t, err)
		assertRows(t, got.Rows, model.Header{"a", "b"}, []map[string]model.Value{
			{"a": model.NewString(`{"x":[1,2.0,"<&>"]}`), "b": model.NewString(`[]`)},
		})
	})

	t.Run("numeric strings stay strings", func(t *testing.T) {
		t.Parallel()

		got, err := ParseJSON(`[{"zip": "01234"}]`)
		require.NoError(t, err)
		v := got.Rows[0].Get("zip")
		assert.Equal(t, model.KindString, v.Kind())
		assert.Equal(t, "01234", v.String())
	})

	t.Run("out of range number", func(t *testing.T) {
		t.Parallel()

		got, err := ParseJSON(`[{"n": 1e400}]`)
		require.NoError(t, err)
		n, ok := got.Rows[0].Get("n").Number()
		require.True(t, ok)
		assert.True(t, math.IsInf(n, 1))
	})

	t.Run("duplicate keys keep the last value", func(t *testing.T) {
		t.Parallel()

		got, err := ParseJSON(`[{"a":1,"b":2,"a":3}]`)
		require.NoError(t, err)
		assertRows(t, got.Rows, model.Header{"a", "b"}, []map[string]model.Value{
			{"a": model.NewNumber(3), "b": model.NewNumber(2)},
		})
	})

	t.Run("later non-object elements become empty rows", func(t *testing.T) {
		t.Parallel()

		got, err := ParseJSON(`[{"a":1}, 2, null]`)
		require.NoError(t, err)
		require.Equal(t, 3, got.Rows.Len())
		assert.Equal(t, 0, got.Rows[1].Len())
		assert.Equal(t, 0, got.Rows[2].Len())
	})

	t.Run("envelope is not unwrapped for pasted text", func(t *testing.T) {
		t.Parallel()

		got, err := ParseJSON(`{"data":[{"a":1}]}`)
		require.NoError(t, err)
		require.Equal(t, 1, got.Rows.Len())
		assert.Equal(t, []string{"data"}, got.Rows[0].Keys())
	})
}

func TestParseJSONFile_Envelope(t *testing.T) {
	t.Parallel()

	got, err := parseJSONFile(`{"meta":{"count":2},"items":[{"a":1},{"a":2}],"other":[{"b":1}]}`)
	require.NoError(t, err)
	assertRows(t, got.Rows, model.Header{"a"}, []map[string]model.Value{
		{"a": model.NewNumber(1)},
		{"a": model.NewNumber(2)},
	})

	plain, err := parseJSONFile(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, 1, plain.Rows.Len())
}

func TestParseJSON_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantErr error
		wantMsg string
	}{
		{name: "empty document", text: "  ", wantErr: model.ErrFormat},
		{name: "truncated", text: `[{"a":1}`, wantErr: model.ErrFormat},
		{name: "syntax error", text: `[{"a":}]`, wantErr: model.ErrFormat},
		{name: "trailing data", text: `[{"a":1}] x`, wantErr: model.ErrFormat},
		{name: "scalar", text: `42`, wantErr: model.ErrValidation, wantMsg: msgNotArray},
		{name: "empty array", text: `[]`, wantErr: model.ErrValidation, wantMsg: msgEmptyRows},
		{name: "first element not object", text: `[1, {"a":1}]`, wantErr: model.ErrValidation, wantMsg: msgFirstNotObject},
		{name: "first element null", text: `[null]`, wantErr: model.ErrValidation, wantMsg: msgFirstNotObject},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseJSON(tt.text)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				var verrs model.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, []string{tt.wantMsg}, verrs.Messages())
			}
		})
	}
}
