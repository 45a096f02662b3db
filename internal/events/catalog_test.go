package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whenwasit/internal/sqlitetest"
)

func TestFallbackCatalog(t *testing.T) {
	require.NoError(t, Init())
	evs := Fallback()
	require.NotEmpty(t, evs)

	seen := map[string]bool{}
	for _, e := range evs {
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.Name)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}

	// Callers get a copy, not the backing slice.
	evs[0].Name = "mutated"
	assert.NotEqual(t, "mutated", Fallback()[0].Name)
}

func TestCatalogCRUD(t *testing.T) {
	db := sqlitetest.Open(t)
	c := NewCatalog(db)
	ctx := context.Background()

	moon, err := c.Create(ctx, "First Moon landing", 1969, "🌕")
	require.NoError(t, err)
	assert.NotEmpty(t, moon.ID)

	caesar, err := c.Create(ctx, "Assassination of Julius Caesar", -44, "🗡️")
	require.NoError(t, err)
	assert.NotEqual(t, moon.ID, caesar.ID, "ids must be unique even within one millisecond")

	// List orders by name ascending.
	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, caesar.ID, list[0].ID)
	assert.Equal(t, moon.ID, list[1].ID)

	// Partial update leaves untouched fields alone.
	year := 1968
	require.NoError(t, c.Update(ctx, moon.ID, Patch{Year: &year}))
	list, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1968, list[1].Year)
	assert.Equal(t, "First Moon landing", list[1].Name)
	assert.Equal(t, "🌕", list[1].Emoji)

	// Unknown ids are silent no-ops for update and delete.
	name := "ghost"
	require.NoError(t, c.Update(ctx, "does-not-exist", Patch{Name: &name}))
	require.NoError(t, c.Delete(ctx, "does-not-exist"))

	require.NoError(t, c.Delete(ctx, caesar.ID))
	list, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, moon.ID, list[0].ID)
}

func TestCatalogNilDB(t *testing.T) {
	c := NewCatalog(nil)
	ctx := context.Background()
	_, err := c.List(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = c.Create(ctx, "x", 1, "")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, c.Update(ctx, "1", Patch{}), ErrUnavailable)
	assert.ErrorIs(t, c.Delete(ctx, "1"), ErrUnavailable)
}
