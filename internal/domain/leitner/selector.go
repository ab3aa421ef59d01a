package leitner

import (
	"math/rand"
	"sort"
	"time"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// Selector builds practice sessions from a candidate pool.
//
// A Selector is not safe for concurrent use: it owns a *rand.Rand.
type Selector struct {
	rng         *rand.Rand
	maxAttempts int
	keyOf       func(entities.Item) string
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithShuffleAttempts overrides DefaultShuffleAttempts.
func WithShuffleAttempts(n int) SelectorOption {
	return func(s *Selector) { s.maxAttempts = n }
}

// WithDuplicateKey sets the key that must not repeat on adjacent positions.
// By default it is the item's display text, because the catalog may list the
// same word under several categories.
func WithDuplicateKey(keyOf func(entities.Item) string) SelectorOption {
	return func(s *Selector) { s.keyOf = keyOf }
}

// NewSelector creates a Selector. A nil rng is replaced with a time-seeded one.
func NewSelector(rng *rand.Rand, opts ...SelectorOption) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Selector{
		rng:         rng,
		maxAttempts: DefaultShuffleAttempts,
		keyOf:       func(it entities.Item) string { return it.Text },
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Select returns at most count items for one session.
//
// Items are ranked by PriorityOf in descending order and truncated to count;
// the order among equal priorities is unspecified and callers must not rely
// on it. The kept items are then reordered by ShuffleWithoutConsecutiveDuplicates,
// so priority decides membership but not presentation order.
func (s *Selector) Select(
	items []entities.Item,
	progress entities.ProgressMap,
	count int,
	today time.Time,
) []entities.Item {
	if len(items) == 0 || count <= 0 {
		return []entities.Item{}
	}

	top := takeFirst(Rank(items, progress, today), count)

	return ShuffleWithoutConsecutiveDuplicates(s.rng, top, s.keyOf, s.maxAttempts)
}

// Rank returns a copy of items sorted by descending priority.
// The order among equal priorities is unspecified.
func Rank(items []entities.Item, progress entities.ProgressMap, today time.Time) []entities.Item {
	type scored struct {
		item     entities.Item
		priority float64
	}

	ranked := make([]scored, len(items))
	for i, it := range items {
		ranked[i] = scored{
			item:     it,
			priority: PriorityOf(it.ID, progress.Lookup(it.ID), today).Priority,
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].priority > ranked[j].priority
	})

	out := make([]entities.Item, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

// ReviewStats summarizes what is due today, for dashboards.
type ReviewStats struct {
	TotalDue     int         // new items plus due known items
	NewWords     int         // items without a review record
	DueByBox     map[int]int // due known items per box
	OverdueCount int         // due known items past their interval by more than zero days
}

// GetReviewStats aggregates due counts over items.
func GetReviewStats(items []entities.Item, progress entities.ProgressMap, today time.Time) ReviewStats {
	stats := ReviewStats{DueByBox: make(map[int]int)}

	for _, it := range items {
		p := PriorityOf(it.ID, progress.Lookup(it.ID), today)
		if !p.IsDue {
			continue
		}

		stats.TotalDue++
		if p.IsNew {
			stats.NewWords++
			continue
		}

		stats.DueByBox[p.Box]++
		if p.DaysOverdue > 0 {
			stats.OverdueCount++
		}
	}

	return stats
}

// takeFirst returns the first n elements, or the whole slice if it is shorter.
func takeFirst[T any](items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
