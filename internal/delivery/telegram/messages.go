// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
	"github.com/aliskhannn/leitner-vocab-bot/internal/service"
)

// Error messages.
const (
	msgInternalError       = "Что‑то пошло не так. Попробуйте позже."
	msgProgressUnavailable = "Не удалось получить прогресс. Попробуйте позже."
	msgNothingToPractice   = "Сейчас нечего повторять. Загляните позже!"
	msgNoActiveSession     = "Сессия не запущена. Нажмите /practice, чтобы начать."
	msgForbidden           = "Эта команда вам недоступна."
	msgUseBoost            = "Используйте: /boost N, где N — целевой уровень (от 1)."
	msgBackupTooLarge      = "Файл слишком большой для резервной копии."
	msgBackupNotJSON       = "Пришлите резервную копию в формате .json."
	msgUnknownCommand      = "Неизвестная команда.\n\n" + commandList
)

const (
	msgResetPrompt    = "⚠️ Сбросить весь прогресс? Все коробки и статистика будут удалены. Это действие нельзя отменить."
	msgResetDone      = "🗑 Прогресс сброшен. Начните заново: /practice"
	msgResetCancelled = "Сброс отменён."
	msgImportHint     = "📥 Чтобы восстановить прогресс, пришлите файл резервной копии (.json), полученный через /export.\n\n⚠️ Текущий прогресс будет заменён."
	msgLevelUp        = "🎉 <b>Новый уровень: %d!</b> Открыты новые категории слов."
)

const commandList = "/practice — начать практику\n" +
	"/stats — статистика\n" +
	"/level — уровень и открытые категории\n" +
	"/export — скачать резервную копию\n" +
	"/import — восстановить из копии\n" +
	"/reset — сбросить прогресс\n" +
	"/help — помощь"

const msgWelcome = "<b>👋 Добро пожаловать!</b>\n\n" +
	"Этот бот помогает учить слова по системе Лейтнера: каждое слово лежит в одной из пяти коробок. " +
	"Правильный ответ переносит слово в следующую коробку, ошибка возвращает его в первую. " +
	"Чем выше коробка, тем реже слово повторяется: 1, 2, 4, 8 и 16 дней.\n\n" +
	"Новые категории открываются, когда вы освоите 70% слов текущего уровня.\n\n" +
	commandList

const msgHelp = "<b>ℹ️ Как это работает</b>\n\n" +
	"Бот показывает слово, а вы пишете перевод. Небольшие опечатки и ударения не учитываются. " +
	"Если перевод не вспоминается, нажмите «Не знаю».\n\n" +
	commandList

func formatQuestion(session entities.PracticeSession, item entities.Item) string {
	return fmt.Sprintf(
		"<b>Слово %d / %d</b>\n\n🔤 <b>%s</b>\n\nНапишите перевод.",
		session.Position+1,
		len(session.Items),
		esc(item.Text),
	)
}

func formatAnswerFeedback(res *service.AnswerResult) string {
	pair := fmt.Sprintf("<b>%s</b> — %s", esc(res.Item.Text), esc(res.Item.Translation))

	if res.Correct {
		if res.NewBox > res.PrevBox && res.PrevBox > 0 {
			return fmt.Sprintf("✅ Верно! %s\n📦 Коробка %d → %d", pair, res.PrevBox, res.NewBox)
		}
		return fmt.Sprintf("✅ Верно! %s\n📦 Коробка %d", pair, res.NewBox)
	}

	return fmt.Sprintf("❌ Неверно. %s\n📦 Слово вернулось в коробку %d", pair, res.NewBox)
}

func formatSessionSummary(session entities.PracticeSession, streak int) string {
	return fmt.Sprintf(
		"<b>🏁 Сессия завершена!</b>\n\n✅ Правильно: %d из %d\n🔥 Серия: %s",
		session.Correct,
		len(session.Items),
		formatDays(streak),
	)
}

func formatStats(sum *service.Summary) string {
	var sb strings.Builder

	sb.WriteString("<b>📊 Ваша статистика</b>\n\n")
	sb.WriteString(buildProgressBar(sum.Learned, sum.TotalItems, 20))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "✅ <b>Выучено:</b> %d / %d\n", sum.Learned, sum.TotalItems)
	fmt.Fprintf(&sb, "🎯 <b>Точность:</b> %.1f%%\n", sum.Stats.Accuracy())
	fmt.Fprintf(&sb, "🔥 <b>Серия:</b> %s\n", formatDays(sum.Stats.Streak))
	fmt.Fprintf(&sb, "🏆 <b>Уровень:</b> %d\n\n", sum.Level.CurrentLevel)

	fmt.Fprintf(&sb, "📅 <b>На сегодня:</b> %d", sum.Review.TotalDue)
	if sum.Review.TotalDue > 0 {
		fmt.Fprintf(&sb, " (новых: %d, просрочено: %d)", sum.Review.NewWords, sum.Review.OverdueCount)
	}
	sb.WriteString("\n\n<b>📦 Коробки:</b>\n")

	for box := 1; box <= leitner.MaxBox; box++ {
		fmt.Fprintf(&sb, "%d — %d сл. (повтор раз в %s)\n",
			box, sum.BoxCounts[box], formatDays(int(leitner.IntervalForBox(box))))
	}

	return sb.String()
}

func formatLevel(info leitner.LevelInfo, names map[string]string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>🏆 Уровень %d</b>\n\n", info.CurrentLevel)

	if info.IsMaxLevel {
		sb.WriteString("Вы достигли максимального уровня! Все категории открыты.\n")
	} else {
		sb.WriteString(buildProgressBar(info.ProgressToNextLevel, 100, 20))
		fmt.Fprintf(&sb, " %d%%\nдо следующего уровня\n", info.ProgressToNextLevel)
	}

	if len(info.UnlockedCategoryIDs) > 0 {
		sb.WriteString("\n<b>Открытые категории:</b>\n")
		for _, id := range info.UnlockedCategoryIDs {
			name := names[id]
			if name == "" {
				name = id
			}
			fmt.Fprintf(&sb, "• %s\n", esc(name))
		}
	}

	return sb.String()
}

func formatReminder(p entities.ReminderPayload) string {
	var sb strings.Builder

	sb.WriteString("<b>⏰ Пора повторить слова!</b>\n\n")
	if p.DueCount > 0 {
		fmt.Fprintf(&sb, "📦 К повторению: %d\n", p.DueCount)
	}
	if p.OverdueCount > 0 {
		fmt.Fprintf(&sb, "⚠️ Просрочено: %d\n", p.OverdueCount)
	}
	if p.NewCount > 0 {
		fmt.Fprintf(&sb, "🆕 Новых слов: %d\n", p.NewCount)
	}
	if p.Streak > 0 {
		fmt.Fprintf(&sb, "\n🔥 Не прерывайте серию: %s", formatDays(p.Streak))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatDays renders n with the Russian plural of "день".
func formatDays(n int) string {
	word := "дней"
	switch {
	case n%100 >= 11 && n%100 <= 14:
	case n%10 == 1:
		word = "день"
	case n%10 >= 2 && n%10 <= 4:
		word = "дня"
	}
	return fmt.Sprintf("%d %s", n, word)
}
