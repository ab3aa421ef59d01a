package leitner

import (
	"math"
	"sort"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// LevelOptions tunes the unlock gate.
type LevelOptions struct {
	MasteryThreshold float64 // share of a tier's items that must be mastered
	MasteryBox       int     // minimum box for an item to count as mastered
	MaxLevel         int
}

// DefaultLevelOptions returns the standard gate: 70% of a tier in box 3 or
// higher, 15 tiers.
func DefaultLevelOptions() LevelOptions {
	return LevelOptions{
		MasteryThreshold: 0.7,
		MasteryBox:       3,
		MaxLevel:         15,
	}
}

func (o LevelOptions) withDefaults() LevelOptions {
	def := DefaultLevelOptions()
	if o.MasteryThreshold <= 0 {
		o.MasteryThreshold = def.MasteryThreshold
	}
	if o.MasteryBox <= 0 {
		o.MasteryBox = def.MasteryBox
	}
	if o.MaxLevel <= 0 {
		o.MaxLevel = def.MaxLevel
	}
	return o
}

// LevelInfo is the derived progression tier of a learner.
type LevelInfo struct {
	CurrentLevel        int
	ProgressToNextLevel int // 0..100
	UnlockedCategoryIDs []string
	IsMaxLevel          bool
}

// DeriveLevel computes the learner's tier from scratch.
//
// Levels are scanned from 1 upward; a level with no items is skipped. The first
// level whose mastered share is below the threshold is the current level. If
// every level passes, the learner is at MaxLevel. Nothing is pinned between
// calls, so a learner whose boxes are reset can drop back to a lower level.
func DeriveLevel(
	progress entities.ProgressMap,
	difficulty entities.CategoryDifficulty,
	items []entities.Item,
	opts LevelOptions,
) LevelInfo {
	opts = opts.withDefaults()

	total := make(map[int]int)
	mastered := make(map[int]int)
	for _, it := range items {
		tier, ok := difficulty[it.Category]
		if !ok {
			continue
		}
		total[tier]++
		if rec := progress.Lookup(it.ID); rec != nil && rec.Box >= opts.MasteryBox {
			mastered[tier]++
		}
	}

	info := LevelInfo{
		CurrentLevel:        opts.MaxLevel,
		ProgressToNextLevel: 100,
		IsMaxLevel:          true,
	}

	for level := 1; level <= opts.MaxLevel; level++ {
		if total[level] == 0 {
			continue
		}

		pct := float64(mastered[level]) / float64(total[level])
		if pct < opts.MasteryThreshold {
			info = LevelInfo{
				CurrentLevel:        level,
				ProgressToNextLevel: int(math.Round(pct / opts.MasteryThreshold * 100)),
			}
			break
		}
	}

	info.UnlockedCategoryIDs = UnlockedCategories(difficulty, info.CurrentLevel)

	return info
}

// UnlockedCategories returns the sorted IDs of every category whose tier is at
// most level.
func UnlockedCategories(difficulty entities.CategoryDifficulty, level int) []string {
	ids := make([]string, 0, len(difficulty))
	for id, tier := range difficulty {
		if tier <= level {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
