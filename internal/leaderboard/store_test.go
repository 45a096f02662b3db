package leaderboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whenwasit/internal/sqlitetest"
)

func TestSubmitDefaults(t *testing.T) {
	db := sqlitetest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	require.NoError(t, s.Submit(ctx, Entry{}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	e := list[0]
	assert.Equal(t, "Anonymous", e.Name)
	assert.Equal(t, 0, e.TotalScore)
	assert.NotNil(t, e.Results)
	assert.Empty(t, e.Results)
	assert.False(t, e.IsPotentialCheater)
	assert.False(t, e.Date.IsZero())
}

func TestSubmitRoundTrip(t *testing.T) {
	db := sqlitetest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	in := Entry{
		Name:       "robin",
		TotalScore: 346,
		Date:       time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC),
		Results: []GameResult{
			{EventID: "18", GuessedYear: 1969, ActualYear: 1969, Score: 100, Emoji: "🌕", TimeSpent: 7},
			{EventID: "1", GuessedYear: 10, ActualYear: -44, Score: 46, Emoji: "🗡️", TimeSpent: 12},
		},
		IsPotentialCheater: true,
	}
	require.NoError(t, s.Submit(ctx, in))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.TotalScore, got.TotalScore)
	assert.Equal(t, in.Results, got.Results)
	assert.True(t, got.IsPotentialCheater)
	assert.True(t, got.Date.Equal(in.Date))
}

func TestListSortedAndTruncated(t *testing.T) {
	db := sqlitetest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		require.NoError(t, s.Submit(ctx, Entry{
			Name:       fmt.Sprintf("p%d", i),
			TotalScore: (i * 37) % 500,
		}))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 100, "list never exceeds the top 100")
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].TotalScore, list[i].TotalScore)
	}
}

func TestListStableTies(t *testing.T) {
	db := sqlitetest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, s.Submit(ctx, Entry{Name: name, TotalScore: 250}))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
	assert.Equal(t, "third", list[2].Name)
}

func TestDeleteAt(t *testing.T) {
	db := sqlitetest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	for i, score := range []int{300, 200, 100} {
		require.NoError(t, s.Submit(ctx, Entry{Name: fmt.Sprintf("p%d", i), TotalScore: score}))
	}

	// Remove the middle of the sorted listing.
	require.NoError(t, s.DeleteAt(ctx, 1))
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 300, list[0].TotalScore)
	assert.Equal(t, 100, list[1].TotalScore)

	assert.ErrorIs(t, s.DeleteAt(ctx, 5), ErrNotFound)
	assert.ErrorIs(t, s.DeleteAt(ctx, -1), ErrNotFound)
}

func TestClear(t *testing.T) {
	db := sqlitetest.Open(t)
	s := NewStore(db)
	ctx := context.Background()

	require.NoError(t, s.Submit(ctx, Entry{TotalScore: 10}))
	require.NoError(t, s.Submit(ctx, Entry{TotalScore: 20}))
	require.NoError(t, s.Clear(ctx))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNilDB(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	assert.ErrorIs(t, s.Submit(ctx, Entry{}), ErrUnavailable)
	_, err := s.List(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}
