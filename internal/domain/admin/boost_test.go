package admin

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
)

var (
	today      = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	difficulty = entities.CategoryDifficulty{"greetings": 1, "food": 2, "travel": 3}
	items      = []entities.Item{
		{ID: "g1", Category: "greetings"},
		{ID: "g2", Category: "greetings"},
		{ID: "f1", Category: "food"},
		{ID: "t1", Category: "travel"},
		{ID: "x1", Category: "slang"},
	}
)

func TestBoostToLevel(t *testing.T) {
	t.Parallel()

	progress := entities.ProgressMap{
		"g1": {Box: 1, LastSeen: "2024-01-01", CorrectCount: 2, WrongCount: 5},
		"t1": {Box: 2, LastSeen: "2024-01-01"},
	}

	next, entry, err := BoostToLevel(progress, difficulty, items, 3, today)
	require.NoError(t, err)

	assert.Equal(t, entities.ReviewRecord{Box: 4, LastSeen: "2024-03-15", CorrectCount: 2, WrongCount: 5}, next["g1"])
	assert.Equal(t, entities.ReviewRecord{Box: 4, LastSeen: "2024-03-15"}, next["g2"])
	assert.Equal(t, entities.ReviewRecord{Box: 4, LastSeen: "2024-03-15"}, next["f1"])
	assert.Equal(t, entities.ReviewRecord{Box: 2, LastSeen: "2024-01-01"}, next["t1"], "target tier is untouched")
	assert.NotContains(t, next, "x1")

	assert.Equal(t, 3, entry.Affected)
	assert.Equal(t, 3, entry.TargetLevel)
	assert.Equal(t, today, entry.At)
	assert.NotEqual(t, uuid.Nil, entry.ID)

	assert.Equal(t, 1, progress["g1"].Box, "input is not modified")
	assert.NotContains(t, progress, "g2")
}

func TestBoostToLevelReachesTarget(t *testing.T) {
	t.Parallel()

	next, _, err := BoostToLevel(nil, difficulty, items, 3, today)
	require.NoError(t, err)

	info := leitner.DeriveLevel(next, difficulty, items, leitner.DefaultLevelOptions())
	assert.Equal(t, 3, info.CurrentLevel)
}

func TestBoostToLevelLevelOne(t *testing.T) {
	t.Parallel()

	next, entry, err := BoostToLevel(entities.ProgressMap{}, difficulty, items, 1, today)
	require.NoError(t, err)

	assert.Empty(t, next)
	assert.Zero(t, entry.Affected)
}

func TestBoostToLevelInvalidTarget(t *testing.T) {
	t.Parallel()

	_, _, err := BoostToLevel(nil, difficulty, items, 0, today)
	assert.ErrorIs(t, err, ErrInvalidTargetLevel)
}

func TestBoostToLevelUniqueAuditIDs(t *testing.T) {
	t.Parallel()

	_, a, err := BoostToLevel(nil, difficulty, items, 2, today)
	require.NoError(t, err)
	_, b, err := BoostToLevel(nil, difficulty, items, 2, today)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
