package errors_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamedex/mamedex/pkg/errors"
)

func TestFormatError(t *testing.T) {
	t.Run("with_offset", func(t *testing.T) {
		err := errors.NewFormatError("machines", 1024, io.ErrUnexpectedEOF)
		assert.Contains(t, err.Error(), "machines")
		assert.Contains(t, err.Error(), "1024")
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("without_offset", func(t *testing.T) {
		err := errors.NewFormatError("history", 0, errors.New("bad xml"))
		assert.Contains(t, err.Error(), "unparsable")
		assert.NotContains(t, err.Error(), "byte")
	})
}

func TestRetrievalError(t *testing.T) {
	cause := errors.New("connection refused")
	err := errors.NewRetrievalError("catver", "progettosnaps", cause)
	assert.Contains(t, err.Error(), "catver")
	assert.Contains(t, err.Error(), "progettosnaps")
	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.IsRetrieval(err))
	assert.True(t, errors.IsRetrieval(fmt.Errorf("wrapped: %w", err)))
}

func TestExportError(t *testing.T) {
	err := errors.NewExportError("out.db", "sqlite", errors.New("disk full"))
	assert.Contains(t, err.Error(), "out.db")
	assert.Contains(t, err.Error(), "sqlite")
	assert.True(t, errors.IsExport(err))
}

func TestFilterSpecError(t *testing.T) {
	err := errors.NewFilterSpecError("by-flag", "unknown flag zork")
	assert.Contains(t, err.Error(), "by-flag")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.True(t, errors.IsFilterSpec(err))
}

func TestWrapHelpers(t *testing.T) {
	t.Run("nil_passthrough", func(t *testing.T) {
		assert.NoError(t, errors.WrapIO("read", "x", nil))
		assert.NoError(t, errors.WrapExport("x", "csv", nil))
		assert.NoError(t, errors.WrapRetrieval("series", "", nil))
	})

	t.Run("wraps_cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := errors.WrapIO("write", "/tmp/out.json", cause)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)

		var ioErr *errors.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "write", ioErr.Operation)
	})
}
