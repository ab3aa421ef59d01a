// Package admin holds privileged operations that write review records
// directly instead of going through leitner.ApplyReview. Nothing here is
// reachable from the regular practice flow.
package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// BoostBox is the box assigned to boosted items. It is above the default
// mastery box, so every boosted tier counts as mastered.
const BoostBox = 4

var ErrInvalidTargetLevel = errors.New("target level must be at least 1")

// AuditEntry records one boost for the operator log.
type AuditEntry struct {
	ID          uuid.UUID
	TargetLevel int
	Affected    int // number of records written
	At          time.Time
}

// BoostToLevel returns a copy of progress in which every item whose category
// tier is below targetLevel sits in BoostBox and was last seen today.
// Items of unknown categories are left alone. The input map is not modified.
func BoostToLevel(
	progress entities.ProgressMap,
	difficulty entities.CategoryDifficulty,
	items []entities.Item,
	targetLevel int,
	today time.Time,
) (entities.ProgressMap, AuditEntry, error) {
	if targetLevel < 1 {
		return nil, AuditEntry{}, fmt.Errorf("%w: got %d", ErrInvalidTargetLevel, targetLevel)
	}

	next := progress.Clone()
	todayStr := entities.FormatDate(today)
	affected := 0

	for _, it := range items {
		tier, ok := difficulty[it.Category]
		if !ok || tier >= targetLevel {
			continue
		}

		rec := next[it.ID]
		rec.Box = BoostBox
		rec.LastSeen = todayStr
		next[it.ID] = rec
		affected++
	}

	entry := AuditEntry{
		ID:          uuid.New(),
		TargetLevel: targetLevel,
		Affected:    affected,
		At:          today,
	}

	return next, entry, nil
}
