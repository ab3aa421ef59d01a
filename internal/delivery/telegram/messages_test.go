package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
	"github.com/aliskhannn/leitner-vocab-bot/internal/service"
)

func TestBuildProgressBar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[░░░░░]", buildProgressBar(0, 0, 5))
	assert.Equal(t, "[░░░░░]", buildProgressBar(0, 10, 5))
	assert.Equal(t, "[██░░░]", buildProgressBar(5, 10, 5))
	assert.Equal(t, "[█████]", buildProgressBar(10, 10, 5))
	assert.Equal(t, "[█████]", buildProgressBar(15, 10, 5))
	assert.Equal(t, "[░░░░░]", buildProgressBar(-3, 10, 5))
}

func TestFormatDays(t *testing.T) {
	t.Parallel()

	testCases := map[int]string{
		0:   "0 дней",
		1:   "1 день",
		2:   "2 дня",
		4:   "4 дня",
		5:   "5 дней",
		11:  "11 дней",
		14:  "14 дней",
		21:  "21 день",
		22:  "22 дня",
		111: "111 дней",
	}

	for n, want := range testCases {
		assert.Equal(t, want, formatDays(n))
	}
}

func TestFormatQuestionEscapesText(t *testing.T) {
	t.Parallel()

	item := entities.Item{ID: "x", Text: "<b>pan</b>", Translation: "хлеб"}
	session := entities.PracticeSession{Items: []entities.Item{item, item}, Position: 1}

	text := formatQuestion(session, item)

	assert.Contains(t, text, "Слово 2 / 2")
	assert.Contains(t, text, "&lt;b&gt;pan&lt;/b&gt;")
	assert.NotContains(t, text, "хлеб", "the answer is not revealed")
}

func TestFormatAnswerFeedback(t *testing.T) {
	t.Parallel()

	item := entities.Item{Text: "hola", Translation: "привет"}

	promoted := formatAnswerFeedback(&service.AnswerResult{Item: item, Correct: true, PrevBox: 2, NewBox: 3})
	assert.Contains(t, promoted, "✅")
	assert.Contains(t, promoted, "2 → 3")

	first := formatAnswerFeedback(&service.AnswerResult{Item: item, Correct: true, NewBox: 2})
	assert.Contains(t, first, "Коробка 2")
	assert.NotContains(t, first, "→")

	wrong := formatAnswerFeedback(&service.AnswerResult{Item: item, Correct: false, PrevBox: 4, NewBox: 1})
	assert.Contains(t, wrong, "❌")
	assert.Contains(t, wrong, "привет")
	assert.Contains(t, wrong, "коробку 1")
}

func TestFormatStats(t *testing.T) {
	t.Parallel()

	text := formatStats(&service.Summary{
		Stats:      entities.Stats{Streak: 3, TotalCorrect: 3, TotalWrong: 1},
		BoxCounts:  map[int]int{1: 2, 5: 1},
		Learned:    1,
		TotalItems: 10,
		Level:      leitner.LevelInfo{CurrentLevel: 2},
		Review:     leitner.ReviewStats{TotalDue: 4, NewWords: 2, OverdueCount: 1},
	})

	assert.Contains(t, text, "1 / 10")
	assert.Contains(t, text, "75.0%")
	assert.Contains(t, text, "3 дня")
	assert.Contains(t, text, "новых: 2, просрочено: 1")
	assert.Contains(t, text, "1 — 2 сл. (повтор раз в 1 день)")
	assert.Contains(t, text, "5 — 1 сл. (повтор раз в 16 дней)")
}

func TestFormatLevel(t *testing.T) {
	t.Parallel()

	text := formatLevel(leitner.LevelInfo{
		CurrentLevel:        2,
		ProgressToNextLevel: 50,
		UnlockedCategoryIDs: []string{"food", "greetings"},
	}, map[string]string{"greetings": "Приветствия"})

	assert.Contains(t, text, "Уровень 2")
	assert.Contains(t, text, "50%")
	assert.Contains(t, text, "• Приветствия")
	assert.Contains(t, text, "• food", "falls back to the id")

	maxed := formatLevel(leitner.LevelInfo{CurrentLevel: 15, IsMaxLevel: true}, nil)
	assert.Contains(t, maxed, "максимального уровня")
}

func TestFormatReminder(t *testing.T) {
	t.Parallel()

	text := formatReminder(entities.ReminderPayload{DueCount: 3, NewCount: 2, Streak: 5})

	assert.Contains(t, text, "К повторению: 3")
	assert.Contains(t, text, "Новых слов: 2")
	assert.NotContains(t, text, "Просрочено")
	assert.Contains(t, text, "5 дней")
}

func TestFormatSessionSummary(t *testing.T) {
	t.Parallel()

	session := entities.PracticeSession{Items: make([]entities.Item, 4), Position: 4, Correct: 3, Wrong: 1}

	text := formatSessionSummary(session, 1)
	assert.Contains(t, text, "3 из 4")
	assert.Contains(t, text, "1 день")
}
