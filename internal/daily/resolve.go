// internal/daily/resolve.go
//
// Read path for "today's events".
//
//   1. A stored row with exactly RoundSize ids that all resolve against the
//      current catalog is used verbatim, in stored order.
//   2. Otherwise a fresh uniform shuffle of the catalog is taken, persisted
//      for today (upsert), and rows for every other date are pruned.
//   3. If the backend is unreachable at any point the resolver falls back
//      silently to the deterministic date-seeded selection over the bundled
//      catalog; nothing is persisted.
//
// Two simultaneous first-requests-of-the-day may both regenerate; the upsert
// makes that a last-write-wins race and the prune step is idempotent.

package daily

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"whenwasit/internal/events"
)

// Resolver combines the selection store with the event catalog.
type Resolver struct {
	store   *Store
	catalog *events.Catalog
}

func NewResolver(store *Store, catalog *events.Catalog) *Resolver {
	return &Resolver{store: store, catalog: catalog}
}

// EventsFor returns the date key and the playable events for now.
// It never fails; worst case is the deterministic fallback selection.
func (r *Resolver) EventsFor(ctx context.Context, now time.Time) (string, []events.Event) {
	date := DateKey(now)

	all, err := r.catalog.List(ctx)
	if err != nil || len(all) == 0 {
		if err != nil {
			log.Warn().Err(err).Msg("catalog unreachable, using bundled events")
		}
		return date, SelectDaily(events.Fallback(), date)
	}

	byID := make(map[string]events.Event, len(all))
	for _, e := range all {
		byID[e.ID] = e
	}

	sel, ok, err := r.store.Get(ctx, date)
	if err != nil {
		log.Warn().Err(err).Msg("selection store unreachable, using date-seeded selection")
		return date, SelectDaily(all, date)
	}
	if ok && len(sel.EventIDs) == RoundSize {
		resolved := make([]events.Event, 0, RoundSize)
		for _, id := range sel.EventIDs {
			e, found := byID[id]
			if !found {
				break
			}
			resolved = append(resolved, e)
		}
		if len(resolved) == RoundSize {
			return date, resolved
		}
		// An id stopped resolving (event deleted); regenerate below.
	}

	picks := randomRound(all)
	ids := make([]string, len(picks))
	for i, e := range picks {
		ids[i] = e.ID
	}
	if err := r.store.Set(ctx, date, ids, now); err != nil {
		// No retry; this response proceeds with the in-memory picks.
		log.Warn().Err(err).Str("date", date).Msg("persist daily selection failed")
		return date, picks
	}
	if err := r.store.PruneOther(ctx, date); err != nil {
		log.Warn().Err(err).Msg("prune stale selections failed")
	}
	return date, picks
}

// DailyIDs returns the stored selection row for a date as-is, without
// triggering regeneration. Used by the admin surface.
func (r *Resolver) DailyIDs(ctx context.Context, date string) (Selection, bool) {
	sel, ok, err := r.store.Get(ctx, date)
	if err != nil {
		log.Warn().Err(err).Msg("selection store unreachable")
		return Selection{}, false
	}
	return sel, ok
}

// randomRound shuffles the catalog uniformly and takes the first RoundSize.
func randomRound(all []events.Event) []events.Event {
	shuffled := make([]events.Event, len(all))
	copy(shuffled, all)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > RoundSize {
		shuffled = shuffled[:RoundSize]
	}
	return shuffled
}
