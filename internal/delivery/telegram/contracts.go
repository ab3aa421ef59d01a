package telegram

import (
	"context"
	"time"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/admin"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
	"github.com/aliskhannn/leitner-vocab-bot/internal/service"
	"github.com/aliskhannn/leitner-vocab-bot/internal/storage"
)

type ProgressService interface {
	RegisterLearner(ctx context.Context, userID, chatID int64) (bool, error)
	RecordAnswer(ctx context.Context, userID int64, itemID string, correct bool) (*service.AnswerResult, error)
	Summary(ctx context.Context, userID int64) (*service.Summary, error)
	Level(ctx context.Context, userID int64) (leitner.LevelInfo, error)
	Reset(ctx context.Context, userID int64) error
	Export(ctx context.Context, userID int64) ([]byte, error)
	Import(ctx context.Context, userID int64, data []byte) (int, error)
	Boost(ctx context.Context, userID int64, targetLevel int) (admin.AuditEntry, error)
}

type SessionService interface {
	Start(ctx context.Context, userID int64) (*entities.PracticeSession, error)
}

type AnswerValidator interface {
	Validate(userAnswer, translation string) bool
}

type CategoryCatalog interface {
	Categories() []entities.Category
}

type SessionStorage interface {
	Store(userID int64, session *entities.PracticeSession)
	Current(userID int64) (entities.Item, bool)
	Advance(userID int64, itemID string, correct bool) (entities.PracticeSession, bool)
	Delete(userID int64)
}

type ReminderStorage interface {
	Delete(userID int64)
	UpsertAndGetPrev(userID, chatID int64, messageID int, sentAt time.Time) (storage.ReminderMessage, bool)
}
