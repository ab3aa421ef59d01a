package telegram

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// handleStats displays the learner dashboard.
func (h *Handler) handleStats(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering stats", zap.Int64("user_id", userID))

		sum, err := h.progressService.Summary(ctx, userID)
		if err != nil {
			h.logger.Error("failed to build summary",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return h.send(newHTMLMessage(chatID, msgProgressUnavailable))
		}

		msg := newHTMLMessage(chatID, formatStats(sum))
		msg.ReplyMarkup = buildStatsKeyboard()
		return h.send(msg)
	}
}

// handleLevel displays the current level and unlocked categories.
func (h *Handler) handleLevel(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		info, err := h.progressService.Level(ctx, userID)
		if err != nil {
			return fmt.Errorf("derive level: %w", err)
		}

		return h.send(newHTMLMessage(chatID, formatLevel(info, h.categoryNames())))
	}
}

func (h *Handler) categoryNames() map[string]string {
	cats := h.catalog.Categories()
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names
}

// buildProgressBar creates ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	filled = max(0, min(filled, length))

	empty := length - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
