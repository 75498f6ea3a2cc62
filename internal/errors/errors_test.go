package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	t.Parallel()

	base := NewStd("file vanished")
	err := New(base).
		Component("tablestore").
		Category(CategoryFileIO).
		Context("entity", "residuos").
		Build()

	assert.Equal(t, "file vanished", err.Error())
	assert.Equal(t, "tablestore", err.Component)
	assert.Equal(t, CategoryFileIO, err.Category)
	assert.Equal(t, "residuos", err.GetContext()["entity"])
	assert.True(t, Is(err, base))
}

func TestBuilderDefaults(t *testing.T) {
	t.Parallel()

	err := Newf("boom %d", 7).Build()
	assert.Equal(t, "boom 7", err.Error())
	assert.Equal(t, ComponentUnknown, err.Component)
	assert.Equal(t, CategoryGeneric, err.Category)
	assert.Nil(t, err.GetContext())
}

func TestCategoryMatching(t *testing.T) {
	t.Parallel()

	notFound := New(NewStd("no such record")).Category(CategoryNotFound).Build()
	other := New(NewStd("different text")).Category(CategoryNotFound).Build()

	// Two enhanced errors with the same category match via Is.
	assert.True(t, Is(notFound, other))
	assert.True(t, HasCategory(notFound, CategoryNotFound))
	assert.False(t, HasCategory(notFound, CategoryValidation))
}

func TestCategorySurvivesWrapping(t *testing.T) {
	t.Parallel()

	inner := New(NewStd("disk full")).Category(CategoryFileIO).Build()
	wrapped := fmt.Errorf("saving table: %w", inner)

	var ee *EnhancedError
	require.True(t, As(wrapped, &ee))
	assert.Equal(t, CategoryFileIO, ee.Category)
	assert.True(t, HasCategory(wrapped, CategoryFileIO))
}

func TestContextCopyIsIsolated(t *testing.T) {
	t.Parallel()

	err := New(NewStd("x")).Context("k", "v").Build()
	got := err.GetContext()
	got["k"] = "mutated"
	assert.Equal(t, "v", err.GetContext()["k"])
}
