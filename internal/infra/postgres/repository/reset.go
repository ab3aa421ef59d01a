package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/leitner-vocab-bot/internal/infra/postgres"
)

type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetLearner drops every review record and zeroes the stats.
// The learner row itself is kept so reminders still reach the chat.
func (s *ResetRepository) ResetLearner(ctx context.Context, userID int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM review_records WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete review_records: %w", err)
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE learners
		SET streak = 0, last_practice_date = '', total_correct = 0, total_wrong = 0, updated_at = NOW()
		WHERE user_id = $1
	`, userID); err != nil {
		return fmt.Errorf("reset learners: %w", err)
	}

	return nil
}
