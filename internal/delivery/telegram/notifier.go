package telegram

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// SendReminder implements service.ReminderNotifier. The previous reminder of
// the user is deleted so only the latest one stays in the chat.
func (h *Handler) SendReminder(userID, chatID int64, payload entities.ReminderPayload) error {
	msg := newHTMLMessage(chatID, formatReminder(payload))
	msg.ReplyMarkup = buildReminderKeyboard()

	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	prev, hadPrev := h.reminders.UpsertAndGetPrev(userID, chatID, sent.MessageID, time.Now())
	if hadPrev {
		if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(prev.ChatID, prev.MessageID)); err != nil {
			h.logger.Debug("failed to delete previous reminder",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return nil
}
