package leitner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

func TestApplyReviewBoxTransitions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		progress entities.ProgressMap
		correct  bool
		box      int
	}{
		{name: "new item answered correctly", progress: nil, correct: true, box: 2},
		{name: "new item answered wrong", progress: nil, correct: false, box: 1},
		{name: "box 3 correct", progress: entities.ProgressMap{"w": {Box: 3}}, correct: true, box: 4},
		{name: "box 4 wrong", progress: entities.ProgressMap{"w": {Box: 4}}, correct: false, box: 1},
		{name: "box 5 stays at 5", progress: entities.ProgressMap{"w": {Box: 5}}, correct: true, box: 5},
		{name: "invisible box is capped", progress: entities.ProgressMap{"w": {Box: 9}}, correct: true, box: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next, _ := ApplyReview(tc.progress, entities.Stats{}, "w", tc.correct, testToday)

			require.Contains(t, next, "w")
			assert.Equal(t, tc.box, next["w"].Box)
			assert.Equal(t, "2024-03-15", next["w"].LastSeen)
		})
	}
}

func TestApplyReviewNeverExceedsMaxBox(t *testing.T) {
	t.Parallel()

	progress := entities.ProgressMap{}
	stats := entities.Stats{}
	day := testToday
	for i := 0; i < 12; i++ {
		progress, stats = ApplyReview(progress, stats, "w", true, day)
		assert.LessOrEqual(t, progress["w"].Box, MaxBox)
		day = day.AddDate(0, 0, 1)
	}

	assert.Equal(t, MaxBox, progress["w"].Box)
	assert.Equal(t, 12, progress["w"].CorrectCount)
	assert.Equal(t, 12, stats.Streak)
}

func TestApplyReviewCounters(t *testing.T) {
	t.Parallel()

	progress := entities.ProgressMap{"w": {Box: 2, LastSeen: "2024-03-01", CorrectCount: 4, WrongCount: 1}}
	stats := entities.Stats{TotalCorrect: 10, TotalWrong: 3}

	p1, s1 := ApplyReview(progress, stats, "w", true, testToday)
	assert.Equal(t, 5, p1["w"].CorrectCount)
	assert.Equal(t, 1, p1["w"].WrongCount)
	assert.Equal(t, 11, s1.TotalCorrect)
	assert.Equal(t, 3, s1.TotalWrong)

	p2, s2 := ApplyReview(p1, s1, "w", false, testToday)
	assert.Equal(t, 5, p2["w"].CorrectCount)
	assert.Equal(t, 2, p2["w"].WrongCount)
	assert.Equal(t, 11, s2.TotalCorrect)
	assert.Equal(t, 4, s2.TotalWrong)
}

func TestApplyReviewDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	progress := entities.ProgressMap{"a": {Box: 3, LastSeen: "2024-03-01"}}
	stats := entities.Stats{Streak: 4, LastPracticeDate: "2024-03-14"}

	next, nextStats := ApplyReview(progress, stats, "b", true, testToday)

	assert.Len(t, progress, 1)
	assert.Equal(t, entities.ReviewRecord{Box: 3, LastSeen: "2024-03-01"}, progress["a"])
	assert.Equal(t, 4, stats.Streak)
	assert.Len(t, next, 2)
	assert.Equal(t, progress["a"], next["a"])
	assert.Equal(t, 5, nextStats.Streak)
}

func TestApplyReviewStreak(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		lastPractice string
		streak       int
		expected     int
	}{
		{name: "first practice ever", lastPractice: "", streak: 0, expected: 1},
		{name: "practiced yesterday", lastPractice: "2024-03-14", streak: 3, expected: 4},
		{name: "already practiced today", lastPractice: "2024-03-15", streak: 3, expected: 3},
		{name: "gap of three days", lastPractice: "2024-03-12", streak: 7, expected: 1},
		{name: "garbage date", lastPractice: "soon", streak: 7, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, stats := ApplyReview(nil, entities.Stats{Streak: tc.streak, LastPracticeDate: tc.lastPractice}, "w", true, testToday)

			assert.Equal(t, tc.expected, stats.Streak)
			assert.Equal(t, "2024-03-15", stats.LastPracticeDate)
		})
	}
}

func TestApplyReviewStreakAcrossDays(t *testing.T) {
	t.Parallel()

	dayN := time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC)

	_, s := ApplyReview(nil, entities.Stats{}, "w", true, dayN)
	_, s = ApplyReview(nil, s, "w", false, dayN)
	assert.Equal(t, 1, s.Streak, "second practice on the same day")

	_, s = ApplyReview(nil, s, "w", true, dayN.AddDate(0, 0, 1))
	assert.Equal(t, 2, s.Streak, "leap day counts as the next day")

	_, s = ApplyReview(nil, s, "w", true, dayN.AddDate(0, 0, 4))
	assert.Equal(t, 1, s.Streak, "gap resets")
}
