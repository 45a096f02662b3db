package daily

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"whenwasit/internal/events"
)

// RoundSize is how many events make up one daily round.
const RoundSize = 5

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed sums the numeric components of a YYYY-MM-DD date key
// (year + month + day).
func Seed(dateKey string) int {
	seed := 0
	for _, part := range strings.Split(dateKey, "-") {
		n, _ := strconv.Atoi(part)
		seed += n
	}
	return seed
}

// SelectDaily deterministically picks the day's events from the catalog.
// Each event is keyed by (numericID + seed) mod len(catalog) and the catalog
// is stably sorted by that key, so identical inputs always produce identical
// output. Returns the first RoundSize events, or the whole catalog if smaller.
func SelectDaily(catalog []events.Event, dateKey string) []events.Event {
	if len(catalog) == 0 {
		return nil
	}
	seed := Seed(dateKey)
	n := len(catalog)
	out := make([]events.Event, n)
	copy(out, catalog)
	key := func(e events.Event) int { return (numericID(e.ID) + seed) % n }
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	if len(out) > RoundSize {
		out = out[:RoundSize]
	}
	return out
}

// numericID parses a decimal id, or hashes non-numeric ids to a stable
// non-negative integer so admin-created ids still order deterministically.
func numericID(id string) int {
	if n, err := strconv.Atoi(id); err == nil && n >= 0 {
		return n
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % 1_000_000)
}
