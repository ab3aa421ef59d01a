package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/infra/postgres"
)

var ErrLearnerNotFound = errors.New("learner not found")

// LearnerRepository provides access to learners and their practice stats.
type LearnerRepository struct {
	db postgres.DBTX
}

// NewLearnerRepository creates a new LearnerRepository.
func NewLearnerRepository(db postgres.DBTX) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// Save inserts a learner or refreshes its chat id.
// It reports whether a new row was created.
func (r *LearnerRepository) Save(ctx context.Context, learner entities.Learner) (bool, error) {
	query := `
		INSERT INTO learners (user_id, chat_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			updated_at = NOW()
		RETURNING (xmax = 0) AS created
	`

	var created bool
	err := r.db.QueryRow(ctx, query, learner.UserID, learner.ChatID).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("save learner: %w", err)
	}

	return created, nil
}

// GetStats returns the practice stats of a learner.
// Returns ErrLearnerNotFound if the learner has never been saved.
func (r *LearnerRepository) GetStats(ctx context.Context, userID int64) (entities.Stats, error) {
	query := `
		SELECT streak, last_practice_date, total_correct, total_wrong
		FROM learners
		WHERE user_id = $1
	`

	var stats entities.Stats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.Streak,
		&stats.LastPracticeDate,
		&stats.TotalCorrect,
		&stats.TotalWrong,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Stats{}, ErrLearnerNotFound
		}
		return entities.Stats{}, fmt.Errorf("get stats: %w", err)
	}

	return stats, nil
}

// UpsertStats stores the practice stats, creating the learner if needed.
// A learner created here uses its user id as chat id, which holds for
// private Telegram chats.
func (r *LearnerRepository) UpsertStats(ctx context.Context, userID int64, stats entities.Stats) error {
	query := `
		INSERT INTO learners (user_id, chat_id, streak, last_practice_date, total_correct, total_wrong)
		VALUES ($1, $1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			streak = EXCLUDED.streak,
			last_practice_date = EXCLUDED.last_practice_date,
			total_correct = EXCLUDED.total_correct,
			total_wrong = EXCLUDED.total_wrong,
			updated_at = NOW()
	`

	_, err := r.db.Exec(
		ctx, query,
		userID,
		stats.Streak,
		stats.LastPracticeDate,
		stats.TotalCorrect,
		stats.TotalWrong,
	)
	if err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}

	return nil
}

// List returns every known learner ordered by user id.
func (r *LearnerRepository) List(ctx context.Context) ([]entities.Learner, error) {
	query := `SELECT user_id, chat_id FROM learners ORDER BY user_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	defer rows.Close()

	var learners []entities.Learner
	for rows.Next() {
		var l entities.Learner
		if err = rows.Scan(&l.UserID, &l.ChatID); err != nil {
			return nil, fmt.Errorf("scan learner: %w", err)
		}
		learners = append(learners, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate learners: %w", err)
	}

	return learners, nil
}
