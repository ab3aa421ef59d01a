package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock".
	defer func() {
		if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			h.logger.Debug("callback answer error", zap.Error(err))
		}
	}()

	if cb.Message == nil {
		return
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	cd := decodeCallback(cb.Data)

	var fn HandlerFunc

	switch cd.Action {
	case actionPractice:
		fn = h.handlePractice(userID)
	case actionSkip:
		fn = h.handleSkip(userID, cb.Message.MessageID, skipItemID(cd))
	case actionStats:
		fn = h.handleStats(userID)
	case actionLevel:
		fn = h.handleLevel(userID)
	case actionReset:
		fn = h.handleResetCallback(userID, cb.Message.MessageID, cd.param(0))
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// handleSkip records "don't know" for the item of the pressed button.
func (h *Handler) handleSkip(userID int64, messageID int, itemID string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if itemID == "" {
			return nil
		}

		// drop the button so the question cannot be skipped twice
		edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
			InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
		})
		_, _ = h.bot.Request(edit)

		return h.answer(ctx, chatID, userID, itemID, false)
	}
}

func (h *Handler) handleResetCallback(userID int64, messageID int, choice string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch choice {
		case resetConfirm:
			if err := h.progressService.Reset(ctx, userID); err != nil {
				return fmt.Errorf("reset progress: %w", err)
			}
			h.sessions.Delete(userID)
			return h.send(newHTMLEdit(chatID, messageID, msgResetDone))
		case resetCancel:
			return h.send(newHTMLEdit(chatID, messageID, msgResetCancelled))
		default:
			return nil
		}
	}
}
