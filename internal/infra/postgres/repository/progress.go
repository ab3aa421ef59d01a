package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/infra/postgres"
)

// ProgressRepository provides access to per-item review records.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const upsertRecordQuery = `
	INSERT INTO review_records (user_id, item_id, box, last_seen, correct_count, wrong_count)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, item_id) DO UPDATE SET
		box = EXCLUDED.box,
		last_seen = EXCLUDED.last_seen,
		correct_count = EXCLUDED.correct_count,
		wrong_count = EXCLUDED.wrong_count
`

// Upsert creates or updates one review record.
func (r *ProgressRepository) Upsert(ctx context.Context, userID int64, itemID string, rec entities.ReviewRecord) error {
	_, err := r.db.Exec(
		ctx, upsertRecordQuery,
		userID,
		itemID,
		rec.Box,
		rec.LastSeen,
		rec.CorrectCount,
		rec.WrongCount,
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	return nil
}

// UpsertMany writes all records of progress in a single batch.
func (r *ProgressRepository) UpsertMany(ctx context.Context, userID int64, progress entities.ProgressMap) error {
	if len(progress) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for itemID, rec := range progress {
		batch.Queue(upsertRecordQuery, userID, itemID, rec.Box, rec.LastSeen, rec.CorrectCount, rec.WrongCount)
	}

	br := r.db.SendBatch(ctx, batch)
	for range progress {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert many: %w", err)
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("upsert many: %w", err)
	}

	return nil
}

// GetByUserID returns all review records of a learner.
func (r *ProgressRepository) GetByUserID(ctx context.Context, userID int64) (entities.ProgressMap, error) {
	query := `
		SELECT item_id, box, last_seen, correct_count, wrong_count
		FROM review_records
		WHERE user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get by user id: %w", err)
	}
	defer rows.Close()

	progress := make(entities.ProgressMap)
	for rows.Next() {
		var (
			itemID string
			rec    entities.ReviewRecord
		)
		err = rows.Scan(&itemID, &rec.Box, &rec.LastSeen, &rec.CorrectCount, &rec.WrongCount)
		if err != nil {
			return nil, fmt.Errorf("get by user id: %w", err)
		}
		progress[itemID] = rec
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("get by user id: %w", err)
	}

	return progress, nil
}

// DeleteByUserID deletes all review records of a learner.
func (r *ProgressRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	query := `DELETE FROM review_records WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("delete by user id: %w", err)
	}

	return nil
}
