package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/leitner-vocab-bot/internal/backup"
)

const maxBackupSize = 5 << 20

var errBackupTooLarge = errors.New("backup exceeds size limit")

// handleImport replaces the learner's progress with an uploaded backup.
func (h *Handler) handleImport(userID int64, doc *tgbotapi.Document) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !strings.HasSuffix(strings.ToLower(doc.FileName), ".json") {
			return h.send(newHTMLMessage(chatID, msgBackupNotJSON))
		}
		if doc.FileSize > maxBackupSize {
			return h.send(newHTMLMessage(chatID, msgBackupTooLarge))
		}

		data, err := h.download(ctx, doc.FileID)
		if errors.Is(err, errBackupTooLarge) {
			return h.send(newHTMLMessage(chatID, msgBackupTooLarge))
		}
		if err != nil {
			return fmt.Errorf("download backup: %w", err)
		}

		n, err := h.progressService.Import(ctx, userID, data)
		var verr *backup.ValidationError
		if errors.As(err, &verr) {
			h.logger.Info("backup rejected",
				zap.Int64("user_id", userID),
				zap.String("field", verr.Field),
				zap.String("reason", verr.Reason),
			)
			return h.send(newHTMLMessage(chatID, "❌ Не удалось восстановить прогресс.\n"+esc(verr.Error())))
		}
		if err != nil {
			return fmt.Errorf("import backup: %w", err)
		}

		h.sessions.Delete(userID)

		return h.send(newHTMLMessage(chatID, fmt.Sprintf("✅ Прогресс восстановлен. Слов в копии: %d", n)))
	}
}

func (h *Handler) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.bot.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return readBackup(resp.Body, maxBackupSize)
}

// readBackup reads at most limit bytes of r. Telegram may omit the file
// size, so the limit is enforced on the body itself.
func readBackup(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errBackupTooLarge
	}
	return data, nil
}
