package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/leitner-vocab-bot/internal/backup"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/admin"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
)

var (
	ErrUnknownItem = errors.New("unknown item")
	ErrForbidden   = errors.New("operation not allowed")
)

// AnswerResult describes the effect of one answer.
type AnswerResult struct {
	Item    entities.Item
	Correct bool
	PrevBox int // 0 for an item seen for the first time
	NewBox  int
	Stats   entities.Stats
	Level   leitner.LevelInfo
	LevelUp bool
}

// Summary is the learner dashboard.
type Summary struct {
	Stats      entities.Stats
	BoxCounts  map[int]int // known items per box, boxes above MaxBox count as MaxBox
	Learned    int         // items at or above the mastery box
	TotalItems int
	Level      leitner.LevelInfo
	Review     leitner.ReviewStats
}

// ProgressService runs learner state through the engine. Every write for a
// learner happens under that learner's lock, so concurrent answers never
// lose updates.
type ProgressService struct {
	store     ProgressStore
	catalog   Catalog
	levelOpts leitner.LevelOptions
	clock     Clock
	canBoost  func(userID int64) bool
	locks     *userLocks
	logger    *zap.Logger
}

// NewProgressService creates a ProgressService. canBoost decides who may use
// Boost; a nil func denies everybody.
func NewProgressService(
	store ProgressStore,
	catalog Catalog,
	levelOpts leitner.LevelOptions,
	clock Clock,
	canBoost func(userID int64) bool,
	logger *zap.Logger,
) *ProgressService {
	if canBoost == nil {
		canBoost = func(int64) bool { return false }
	}

	return &ProgressService{
		store:     store,
		catalog:   catalog,
		levelOpts: levelOpts,
		clock:     clock,
		canBoost:  canBoost,
		locks:     newUserLocks(),
		logger:    logger,
	}
}

// RegisterLearner remembers the chat of a learner. It reports whether the
// learner is new.
func (s *ProgressService) RegisterLearner(ctx context.Context, userID, chatID int64) (bool, error) {
	created, err := s.store.EnsureLearner(ctx, entities.Learner{UserID: userID, ChatID: chatID})
	if err != nil {
		return false, fmt.Errorf("ensure learner: %w", err)
	}
	return created, nil
}

// RecordAnswer applies one answer and persists the changed record.
func (s *ProgressService) RecordAnswer(
	ctx context.Context,
	userID int64,
	itemID string,
	correct bool,
) (*AnswerResult, error) {
	item, err := s.catalog.Item(itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	today := s.clock.Today()
	before := s.level(snap.Words)

	words, stats := leitner.ApplyReview(snap.Words, snap.Stats, itemID, correct, today)

	if err := s.store.SaveReview(ctx, userID, itemID, words[itemID], stats); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}

	after := s.level(words)

	return &AnswerResult{
		Item:    item,
		Correct: correct,
		PrevBox: snap.Words[itemID].Box,
		NewBox:  words[itemID].Box,
		Stats:   stats,
		Level:   after,
		LevelUp: after.CurrentLevel > before.CurrentLevel,
	}, nil
}

// Snapshot returns the learner's stored state.
func (s *ProgressService) Snapshot(ctx context.Context, userID int64) (entities.Snapshot, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return entities.Snapshot{}, fmt.Errorf("load progress: %w", err)
	}
	return snap, nil
}

// Level derives the learner's current tier.
func (s *ProgressService) Level(ctx context.Context, userID int64) (leitner.LevelInfo, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return leitner.LevelInfo{}, err
	}
	return s.level(snap.Words), nil
}

// ReviewStats counts what is due today among the unlocked items.
func (s *ProgressService) ReviewStats(ctx context.Context, userID int64) (leitner.ReviewStats, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return leitner.ReviewStats{}, err
	}

	pool, _ := s.unlockedItems(snap.Words)
	return leitner.GetReviewStats(pool, snap.Words, s.clock.Today()), nil
}

// Summary builds the learner dashboard.
func (s *ProgressService) Summary(ctx context.Context, userID int64) (*Summary, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, level := s.unlockedItems(snap.Words)
	masteryBox := s.levelOpts.MasteryBox
	if masteryBox <= 0 {
		masteryBox = leitner.DefaultLevelOptions().MasteryBox
	}

	sum := &Summary{
		Stats:      snap.Stats,
		BoxCounts:  make(map[int]int, leitner.MaxBox),
		TotalItems: len(s.catalog.Items()),
		Level:      level,
		Review:     leitner.GetReviewStats(pool, snap.Words, s.clock.Today()),
	}
	for _, rec := range snap.Words {
		sum.BoxCounts[min(rec.Box, leitner.MaxBox)]++
		if rec.Box >= masteryBox {
			sum.Learned++
		}
	}

	return sum, nil
}

// Reset wipes the learner's progress.
func (s *ProgressService) Reset(ctx context.Context, userID int64) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.store.Reset(ctx, userID); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}

	s.logger.Info("progress reset", zap.Int64("user_id", userID))
	return nil
}

// Export serializes the learner's state as a backup file.
func (s *ProgressService) Export(ctx context.Context, userID int64) ([]byte, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	return backup.Encode(snap, s.clock.now())
}

// Import replaces the learner's state with a backup. A rejected backup
// leaves the stored state untouched. It returns the number of imported words.
func (s *ProgressService) Import(ctx context.Context, userID int64, data []byte) (int, error) {
	snap, err := backup.Decode(data)
	if err != nil {
		return 0, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.store.Replace(ctx, userID, snap); err != nil {
		return 0, fmt.Errorf("replace progress: %w", err)
	}

	s.logger.Info("progress imported",
		zap.Int64("user_id", userID),
		zap.Int("words", len(snap.Words)),
	)

	return len(snap.Words), nil
}

// Boost marks every tier below targetLevel as mastered. Only allowed users
// may call it.
func (s *ProgressService) Boost(ctx context.Context, userID int64, targetLevel int) (admin.AuditEntry, error) {
	if !s.canBoost(userID) {
		s.logger.Warn("boost denied", zap.Int64("user_id", userID))
		return admin.AuditEntry{}, ErrForbidden
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return admin.AuditEntry{}, fmt.Errorf("load progress: %w", err)
	}

	words, entry, err := admin.BoostToLevel(
		snap.Words,
		s.catalog.Difficulty(),
		s.catalog.Items(),
		targetLevel,
		s.clock.Today(),
	)
	if err != nil {
		return admin.AuditEntry{}, err
	}

	if err := s.store.Replace(ctx, userID, entities.Snapshot{Words: words, Stats: snap.Stats}); err != nil {
		return admin.AuditEntry{}, fmt.Errorf("replace progress: %w", err)
	}

	s.logger.Warn("level boosted",
		zap.Int64("user_id", userID),
		zap.String("audit_id", entry.ID.String()),
		zap.Int("target_level", entry.TargetLevel),
		zap.Int("affected", entry.Affected),
	)

	return entry, nil
}

func (s *ProgressService) level(words entities.ProgressMap) leitner.LevelInfo {
	return leitner.DeriveLevel(words, s.catalog.Difficulty(), s.catalog.Items(), s.levelOpts)
}

// unlockedItems returns the items of every unlocked category.
func (s *ProgressService) unlockedItems(words entities.ProgressMap) ([]entities.Item, leitner.LevelInfo) {
	info := s.level(words)
	return s.catalog.ItemsInCategories(info.UnlockedCategoryIDs), info
}
