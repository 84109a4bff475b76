package sqlfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/sqlfill/domain/model"
)

func TestValidateTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		want     []string
	}{
		{name: "empty", template: "", want: []string{msgEmptyTemplate}},
		{name: "whitespace only", template: " \n\t ", want: []string{msgEmptyTemplate}},
		{name: "aggregate is accepted unconditionally", template: "INSERT INTO t SELECT {{id}}"},
		{name: "insert without values", template: "insert into t (a) select 1", want: []string{msgMissingValues}},
		{name: "values without parentheses", template: "INSERT INTO t VALUES {a}", want: []string{msgInvalidValues}},
		{name: "valid insert", template: "INSERT INTO t (a) VALUES ({a})"},
		{name: "values across lines", template: "INSERT INTO t\nvalues\n(\n  {a}\n);"},
		{name: "freeform statement", template: "UPDATE t SET a = {a} WHERE id = {id}"},
		{name: "values without insert is not checked here", template: "SELECT values FROM t"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ValidateTemplate(tt.template)
			if tt.want == nil {
				assert.Empty(t, got)
				require.NoError(t, got.Err())
				return
			}
			assert.Equal(t, tt.want, got.Messages())
			require.ErrorIs(t, got.Err(), model.ErrValidation)
		})
	}
}

func TestValidateRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{name: "not an array", value: map[string]any{"a": 1}, want: []string{msgNotArray}},
		{name: "nil", value: nil, want: []string{msgNotArray}},
		{name: "empty array", value: []any{}, want: []string{msgEmptyRows}},
		{name: "first is null", value: []any{nil, map[string]any{"a": 1}}, want: []string{msgFirstNotObject}},
		{name: "first is scalar", value: []any{"x"}, want: []string{msgFirstNotObject}},
		{name: "first is nil ordered object", value: []any{(*jsonObject)(nil)}, want: []string{msgFirstNotObject}},
		{name: "map object", value: []any{map[string]any{"a": 1}, 2}},
		{name: "ordered object", value: []any{&jsonObject{values: map[string]any{}}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ValidateRows(tt.value)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got.Messages())
		})
	}
}
