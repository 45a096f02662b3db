package daily

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whenwasit/internal/events"
	"whenwasit/internal/sqlitetest"
)

func TestStoreSetGet(t *testing.T) {
	db := sqlitetest.Open(t)
	s := NewStore(db)
	ctx := context.Background()
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	_, ok, err := s.Get(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "2024-03-15", []string{"1", "2", "3", "4", "5"}, at))

	sel, ok, err := s.Get(ctx, "2024-03-15")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, sel.EventIDs)
	assert.True(t, sel.UpdatedAt.Equal(at))

	// Upsert overwrites the row for the same date.
	later := at.Add(time.Hour)
	require.NoError(t, s.Set(ctx, "2024-03-15", []string{"9"}, later))
	sel, ok, err = s.Get(ctx, "2024-03-15")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"9"}, sel.EventIDs)
	assert.True(t, sel.UpdatedAt.Equal(later))
}

func TestStorePruneOther(t *testing.T) {
	db := sqlitetest.Open(t)
	s := NewStore(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Set(ctx, "2024-03-14", []string{"1"}, now))
	require.NoError(t, s.Set(ctx, "2024-03-15", []string{"2"}, now))
	require.NoError(t, s.Set(ctx, "2024-03-16", []string{"3"}, now))

	require.NoError(t, s.PruneOther(ctx, "2024-03-15"))

	for _, date := range []string{"2024-03-14", "2024-03-16"} {
		_, ok, err := s.Get(ctx, date)
		require.NoError(t, err)
		assert.False(t, ok, "row for %s should be pruned", date)
	}
	_, ok, err := s.Get(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.True(t, ok)

	// Pruning again is a harmless no-op.
	require.NoError(t, s.PruneOther(ctx, "2024-03-15"))
}

func TestStoreStripID(t *testing.T) {
	db := sqlitetest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "2024-03-15", []string{"1", "2", "3"}, time.Now()))
	require.NoError(t, s.StripID(ctx, "2024-03-15", "2"))

	sel, ok, err := s.Get(ctx, "2024-03-15")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "3"}, sel.EventIDs)

	// Absent id and absent date are both no-ops.
	require.NoError(t, s.StripID(ctx, "2024-03-15", "42"))
	require.NoError(t, s.StripID(ctx, "2024-03-16", "1"))
}

func TestStoreNilDB(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	_, _, err := s.Get(ctx, "2024-03-15")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Set(ctx, "2024-03-15", nil, time.Now()), ErrUnavailable)
	assert.ErrorIs(t, s.PruneOther(ctx, "2024-03-15"), ErrUnavailable)
}

func seedCatalog(t *testing.T, c *events.Catalog, n int) []events.Event {
	t.Helper()
	out := make([]events.Event, 0, n)
	for _, e := range numberedCatalog(n) {
		created, err := c.Create(context.Background(), e.Name, e.Year, e.Emoji)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestResolverUsesValidStoredRow(t *testing.T) {
	db := sqlitetest.Open(t)
	store := NewStore(db)
	catalog := events.NewCatalog(db)
	evs := seedCatalog(t, catalog, 8)
	r := NewResolver(store, catalog)

	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	ids := []string{evs[4].ID, evs[0].ID, evs[7].ID, evs[2].ID, evs[6].ID}
	require.NoError(t, store.Set(context.Background(), "2024-03-15", ids, now))

	date, picked := r.EventsFor(context.Background(), now)
	assert.Equal(t, "2024-03-15", date)
	require.Len(t, picked, RoundSize)
	for i, id := range ids {
		assert.Equal(t, id, picked[i].ID, "stored order must be preserved")
	}
}

func TestResolverGeneratesAndPersists(t *testing.T) {
	db := sqlitetest.Open(t)
	store := NewStore(db)
	catalog := events.NewCatalog(db)
	seedCatalog(t, catalog, 12)
	r := NewResolver(store, catalog)

	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	// A stale row for yesterday must be pruned by the regeneration.
	require.NoError(t, store.Set(context.Background(), "2024-03-14", []string{"x"}, now))

	date, picked := r.EventsFor(context.Background(), now)
	require.Len(t, picked, RoundSize)

	sel, ok, err := store.Get(context.Background(), date)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, sel.EventIDs, RoundSize)
	for i, e := range picked {
		assert.Equal(t, e.ID, sel.EventIDs[i])
	}

	_, ok, err = store.Get(context.Background(), "2024-03-14")
	require.NoError(t, err)
	assert.False(t, ok, "stale selection rows must be pruned")

	// The next request reuses the persisted row verbatim.
	_, again := r.EventsFor(context.Background(), now)
	assert.Equal(t, picked, again)
}

func TestResolverRegeneratesWhenIDStopsResolving(t *testing.T) {
	db := sqlitetest.Open(t)
	store := NewStore(db)
	catalog := events.NewCatalog(db)
	evs := seedCatalog(t, catalog, 10)
	r := NewResolver(store, catalog)

	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	ids := []string{evs[0].ID, evs[1].ID, evs[2].ID, evs[3].ID, "gone"}
	require.NoError(t, store.Set(context.Background(), "2024-03-15", ids, now))

	_, picked := r.EventsFor(context.Background(), now)
	require.Len(t, picked, RoundSize)
	for _, e := range picked {
		assert.NotEqual(t, "gone", e.ID)
	}

	sel, ok, err := store.Get(context.Background(), "2024-03-15")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, ids, sel.EventIDs, "invalid selection must be replaced")
}

func TestResolverFallsBackWithoutBackend(t *testing.T) {
	require.NoError(t, events.Init())
	r := NewResolver(NewStore(nil), events.NewCatalog(nil))

	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	date, first := r.EventsFor(context.Background(), now)
	_, second := r.EventsFor(context.Background(), now)

	assert.Equal(t, "2024-03-15", date)
	require.Len(t, first, RoundSize)
	assert.Equal(t, first, second, "fallback selection must be deterministic")
	assert.Equal(t, SelectDaily(events.Fallback(), date), first)
}
