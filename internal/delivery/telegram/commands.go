package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/admin"
	"github.com/aliskhannn/leitner-vocab-bot/internal/service"
)

func (h *Handler) handleStart() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newHTMLMessage(chatID, msgWelcome)
		msg.ReplyMarkup = buildReminderKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newHTMLMessage(chatID, msgHelp))
	}
}

func (h *Handler) handleUnknown() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

// handleExport sends the learner's progress as a JSON document.
func (h *Handler) handleExport(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		data, err := h.progressService.Export(ctx, userID)
		if err != nil {
			return fmt.Errorf("export progress: %w", err)
		}

		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  "leitner-backup.json",
			Bytes: data,
		})
		doc.Caption = "💾 Резервная копия прогресса. Чтобы восстановить её, просто пришлите этот файл боту."

		return h.send(doc)
	}
}

func (h *Handler) handleImportHint() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newHTMLMessage(chatID, msgImportHint))
	}
}

// handleReset asks for confirmation; the reset itself runs from the callback.
func (h *Handler) handleReset() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newHTMLMessage(chatID, msgResetPrompt)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

// handleBoost raises the learner to the target level. Admin only.
func (h *Handler) handleBoost(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		target, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil || target < 1 {
			return h.send(newHTMLMessage(chatID, msgUseBoost))
		}

		entry, err := h.progressService.Boost(ctx, userID, target)
		switch {
		case errors.Is(err, service.ErrForbidden):
			return h.send(newHTMLMessage(chatID, msgForbidden))
		case errors.Is(err, admin.ErrInvalidTargetLevel):
			return h.send(newHTMLMessage(chatID, msgUseBoost))
		case err != nil:
			return fmt.Errorf("boost: %w", err)
		}

		h.sessions.Delete(userID)
		h.logger.Info("boost applied via telegram",
			zap.Int64("user_id", userID),
			zap.String("audit_id", entry.ID.String()),
		)

		text := fmt.Sprintf(
			"🛠 Уровень поднят до %d.\nИзменено слов: %d\nID записи: <code>%s</code>",
			entry.TargetLevel,
			entry.Affected,
			entry.ID,
		)
		return h.send(newHTMLMessage(chatID, text))
	}
}
