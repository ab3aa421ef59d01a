package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/infra/postgres"
)

// ProgressStore persists learner snapshots in PostgreSQL. Multi-statement
// writes run in one transaction.
type ProgressStore struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

// NewProgressStore creates a ProgressStore over pool.
func NewProgressStore(pool *pgxpool.Pool) *ProgressStore {
	return &ProgressStore{
		db: pool,
		tr: postgres.NewTransactor(pool),
	}
}

// EnsureLearner registers the learner and its chat.
func (s *ProgressStore) EnsureLearner(ctx context.Context, learner entities.Learner) (bool, error) {
	return NewLearnerRepository(s.db).Save(ctx, learner)
}

// Load returns the learner's snapshot. An unknown learner has an empty one.
func (s *ProgressStore) Load(ctx context.Context, userID int64) (entities.Snapshot, error) {
	stats, err := NewLearnerRepository(s.db).GetStats(ctx, userID)
	if err != nil && !errors.Is(err, ErrLearnerNotFound) {
		return entities.Snapshot{}, fmt.Errorf("load stats: %w", err)
	}

	words, err := NewProgressRepository(s.db).GetByUserID(ctx, userID)
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("load words: %w", err)
	}

	return entities.Snapshot{Words: words, Stats: stats}, nil
}

// SaveReview stores one updated record together with the new stats.
func (s *ProgressStore) SaveReview(
	ctx context.Context,
	userID int64,
	itemID string,
	rec entities.ReviewRecord,
	stats entities.Stats,
) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := NewLearnerRepository(tx).UpsertStats(ctx, userID, stats); err != nil {
			return err
		}
		return NewProgressRepository(tx).Upsert(ctx, userID, itemID, rec)
	})
}

// Replace overwrites the learner's whole snapshot atomically.
func (s *ProgressStore) Replace(ctx context.Context, userID int64, snap entities.Snapshot) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		progressRepo := NewProgressRepository(tx)

		if err := NewLearnerRepository(tx).UpsertStats(ctx, userID, snap.Stats); err != nil {
			return err
		}
		if err := progressRepo.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return progressRepo.UpsertMany(ctx, userID, snap.Words)
	})
}

// Reset clears the learner's progress and stats.
func (s *ProgressStore) Reset(ctx context.Context, userID int64) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return NewResetRepository(tx).ResetLearner(ctx, userID)
	})
}

// ListLearners returns every registered learner.
func (s *ProgressStore) ListLearners(ctx context.Context) ([]entities.Learner, error) {
	return NewLearnerRepository(s.db).List(ctx)
}
