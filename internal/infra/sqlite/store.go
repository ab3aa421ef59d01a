package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

type learnerRow struct {
	UserID           int64  `db:"user_id"`
	ChatID           int64  `db:"chat_id"`
	Streak           int    `db:"streak"`
	LastPracticeDate string `db:"last_practice_date"`
	TotalCorrect     int    `db:"total_correct"`
	TotalWrong       int    `db:"total_wrong"`
}

type recordRow struct {
	ItemID       string `db:"item_id"`
	Box          int    `db:"box"`
	LastSeen     string `db:"last_seen"`
	CorrectCount int    `db:"correct_count"`
	WrongCount   int    `db:"wrong_count"`
}

// ProgressStore persists learner snapshots in sqlite.
type ProgressStore struct {
	db *sqlx.DB
}

// NewProgressStore creates a ProgressStore over an opened database.
func NewProgressStore(db *sqlx.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

// EnsureLearner registers the learner and reports whether it is new.
func (s *ProgressStore) EnsureLearner(ctx context.Context, learner entities.Learner) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM learners WHERE user_id = ?)`, learner.UserID)
	if err != nil {
		return false, fmt.Errorf("check learner: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO learners (user_id, chat_id) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET chat_id = excluded.chat_id, updated_at = CURRENT_TIMESTAMP
	`, learner.UserID, learner.ChatID)
	if err != nil {
		return false, fmt.Errorf("save learner: %w", err)
	}

	return !exists, nil
}

// Load returns the learner's snapshot. An unknown learner has an empty one.
func (s *ProgressStore) Load(ctx context.Context, userID int64) (entities.Snapshot, error) {
	snap := entities.Snapshot{Words: make(entities.ProgressMap)}

	var lr learnerRow
	err := s.db.GetContext(ctx, &lr, `
		SELECT user_id, chat_id, streak, last_practice_date, total_correct, total_wrong
		FROM learners WHERE user_id = ?
	`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return entities.Snapshot{}, fmt.Errorf("load stats: %w", err)
	default:
		snap.Stats = entities.Stats{
			Streak:           lr.Streak,
			LastPracticeDate: lr.LastPracticeDate,
			TotalCorrect:     lr.TotalCorrect,
			TotalWrong:       lr.TotalWrong,
		}
	}

	var rows []recordRow
	err = s.db.SelectContext(ctx, &rows, `
		SELECT item_id, box, last_seen, correct_count, wrong_count
		FROM review_records WHERE user_id = ?
	`, userID)
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("load words: %w", err)
	}

	for _, r := range rows {
		snap.Words[r.ItemID] = entities.ReviewRecord{
			Box:          r.Box,
			LastSeen:     r.LastSeen,
			CorrectCount: r.CorrectCount,
			WrongCount:   r.WrongCount,
		}
	}

	return snap, nil
}

// SaveReview stores one updated record together with the new stats.
func (s *ProgressStore) SaveReview(
	ctx context.Context,
	userID int64,
	itemID string,
	rec entities.ReviewRecord,
	stats entities.Stats,
) error {
	return s.withinTx(ctx, func(tx *sqlx.Tx) error {
		if err := upsertStats(ctx, tx, userID, stats); err != nil {
			return err
		}
		return upsertRecord(ctx, tx, userID, itemID, rec)
	})
}

// Replace overwrites the learner's whole snapshot atomically.
func (s *ProgressStore) Replace(ctx context.Context, userID int64, snap entities.Snapshot) error {
	return s.withinTx(ctx, func(tx *sqlx.Tx) error {
		if err := upsertStats(ctx, tx, userID, snap.Stats); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM review_records WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		for itemID, rec := range snap.Words {
			if err := upsertRecord(ctx, tx, userID, itemID, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reset clears the learner's progress and stats.
func (s *ProgressStore) Reset(ctx context.Context, userID int64) error {
	return s.withinTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM review_records WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("delete records: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE learners
			SET streak = 0, last_practice_date = '', total_correct = 0, total_wrong = 0, updated_at = CURRENT_TIMESTAMP
			WHERE user_id = ?
		`, userID)
		if err != nil {
			return fmt.Errorf("reset stats: %w", err)
		}
		return nil
	})
}

// ListLearners returns every registered learner ordered by user id.
func (s *ProgressStore) ListLearners(ctx context.Context) ([]entities.Learner, error) {
	var rows []learnerRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT user_id, chat_id, streak, last_practice_date, total_correct, total_wrong FROM learners ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}

	learners := make([]entities.Learner, len(rows))
	for i, r := range rows {
		learners[i] = entities.Learner{UserID: r.UserID, ChatID: r.ChatID}
	}
	return learners, nil
}

func (s *ProgressStore) withinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func upsertStats(ctx context.Context, tx *sqlx.Tx, userID int64, stats entities.Stats) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO learners (user_id, chat_id, streak, last_practice_date, total_correct, total_wrong)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			streak = excluded.streak,
			last_practice_date = excluded.last_practice_date,
			total_correct = excluded.total_correct,
			total_wrong = excluded.total_wrong,
			updated_at = CURRENT_TIMESTAMP
	`, userID, userID, stats.Streak, stats.LastPracticeDate, stats.TotalCorrect, stats.TotalWrong)
	if err != nil {
		return fmt.Errorf("upsert stats: %w", err)
	}
	return nil
}

func upsertRecord(ctx context.Context, tx *sqlx.Tx, userID int64, itemID string, rec entities.ReviewRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO review_records (user_id, item_id, box, last_seen, correct_count, wrong_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			box = excluded.box,
			last_seen = excluded.last_seen,
			correct_count = excluded.correct_count,
			wrong_count = excluded.wrong_count
	`, userID, itemID, rec.Box, rec.LastSeen, rec.CorrectCount, rec.WrongCount)
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", itemID, err)
	}
	return nil
}
