package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "pillarsync.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		assert.Equal(t, "pillarsync.yaml", file)
	})

	t.Run("error string includes cause", func(t *testing.T) {
		cause := stderrors.New("disk full")
		err := WrapError(cause, CategoryFileSystem, "write lesson").Build()

		assert.Equal(t, "[filesystem:error] write lesson: disk full", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("sentinel comparison", func(t *testing.T) {
		sentinel := FileSystemError("pillar page not found").Build()
		err := fmt.Errorf("course a: %w", FileSystemError("pillar page not found").WithContext("path", "x").Build())

		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", ConfigError("bad base url").Build())

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.Equal(t, CategoryConfig, GetCategory(err))
		assert.Equal(t, SeverityFatal, GetSeverity(err))
	})

	t.Run("unclassified defaults", func(t *testing.T) {
		err := stderrors.New("plain")

		assert.False(t, IsClassified(err))
		assert.Equal(t, CategoryInternal, GetCategory(err))
		assert.Equal(t, SeverityError, GetSeverity(err))
	})
}

func TestClassifiedErrorWithContextCopies(t *testing.T) {
	base := NewError(CategoryParse, "bad pillar").WithContext("course", "a").Build()
	derived := base.WithContext("file", "index.html")

	_, ok := base.Context().Get("file")
	assert.False(t, ok)
	v, ok := derived.Context().GetString("course")
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestErrorContextMerge(t *testing.T) {
	var empty ErrorContext
	other := ErrorContext{"a": 1}
	assert.Equal(t, other, empty.Merge(other))

	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	assert.Equal(t, ErrorContext{"a": 1, "b": 3}, merged)
}
