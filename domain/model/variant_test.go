package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Batch-1", BatchName(1))
	assert.Equal(t, "Batch-10", BatchName(10))
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "per-row", ModePerRow.String())
	assert.Equal(t, "aggregate", ModeAggregate.String())
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	t.Run("joined message", func(t *testing.T) {
		t.Parallel()

		errs := ValidationErrors{"first", "second"}
		assert.Equal(t, "first; second", errs.Error())
		assert.Equal(t, []string{"first", "second"}, errs.Messages())
	})

	t.Run("matches ErrValidation through wrapping", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("load failed: %w", ValidationErrors{"data must contain at least one row"})
		require.ErrorIs(t, err, ErrValidation)
		assert.False(t, errors.Is(err, ErrFormat))

		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 1)
	})

	t.Run("empty list is no error", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, ValidationErrors(nil).Err())
		require.NoError(t, ValidationErrors{}.Err())
		require.Error(t, ValidationErrors{"x"}.Err())
	})
}
