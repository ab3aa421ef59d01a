package leitner

import (
	"time"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// ApplyReview records one answer and returns the new progress map and stats.
// The inputs are not modified.
//
// A correct answer moves the item one box up (capped at MaxBox), a wrong
// answer sends it back to box 1. An item without a record is treated as
// box 1 for this transition, so a correct first answer lands in box 2.
func ApplyReview(
	progress entities.ProgressMap,
	stats entities.Stats,
	itemID string,
	correct bool,
	today time.Time,
) (entities.ProgressMap, entities.Stats) {
	todayStr := entities.FormatDate(today)

	rec, ok := progress[itemID]
	if !ok {
		rec = entities.ReviewRecord{Box: 1}
	}

	rec.Box = nextBox(rec.Box, correct)
	rec.LastSeen = todayStr
	if correct {
		rec.CorrectCount++
	} else {
		rec.WrongCount++
	}

	next := progress.Clone()
	next[itemID] = rec

	return next, applyStats(stats, correct, today)
}

func nextBox(box int, correct bool) int {
	if !correct {
		return 1
	}
	return min(box+1, MaxBox)
}

// applyStats advances the daily streak and the answer totals.
func applyStats(stats entities.Stats, correct bool, today time.Time) entities.Stats {
	todayStr := entities.FormatDate(today)

	switch stats.LastPracticeDate {
	case todayStr:
		// already practiced today
	case yesterday(today):
		stats.Streak++
	default:
		stats.Streak = 1
	}
	stats.LastPracticeDate = todayStr

	if correct {
		stats.TotalCorrect++
	} else {
		stats.TotalWrong++
	}

	return stats
}
