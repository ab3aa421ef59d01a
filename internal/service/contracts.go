package service

import (
	"context"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// ProgressStore persists learner snapshots.
type ProgressStore interface {
	EnsureLearner(ctx context.Context, learner entities.Learner) (bool, error)
	Load(ctx context.Context, userID int64) (entities.Snapshot, error)
	SaveReview(ctx context.Context, userID int64, itemID string, rec entities.ReviewRecord, stats entities.Stats) error
	Replace(ctx context.Context, userID int64, snap entities.Snapshot) error
	Reset(ctx context.Context, userID int64) error
	ListLearners(ctx context.Context) ([]entities.Learner, error)
}

// Catalog is the read-only word catalog.
type Catalog interface {
	Items() []entities.Item
	Item(id string) (entities.Item, error)
	Difficulty() entities.CategoryDifficulty
	ItemsInCategories(categoryIDs []string) []entities.Item
}

// ReminderNotifier sends reminder notifications to users.
type ReminderNotifier interface {
	SendReminder(userID, chatID int64, payload entities.ReminderPayload) error
}
