package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
)

var ErrNothingToPractice = errors.New("nothing to practice")

// SessionService builds practice sessions from the unlocked part of the catalog.
type SessionService struct {
	store     ProgressStore
	catalog   Catalog
	levelOpts leitner.LevelOptions
	clock     Clock
	size      int

	mu       sync.Mutex // guards selector
	selector *leitner.Selector
}

// NewSessionService creates a SessionService that hands out at most size items.
func NewSessionService(
	store ProgressStore,
	catalog Catalog,
	levelOpts leitner.LevelOptions,
	clock Clock,
	selector *leitner.Selector,
	size int,
) *SessionService {
	if selector == nil {
		selector = leitner.NewSelector(nil)
	}

	return &SessionService{
		store:     store,
		catalog:   catalog,
		levelOpts: levelOpts,
		clock:     clock,
		size:      size,
		selector:  selector,
	}
}

// Start picks the items for a new session of the learner.
func (s *SessionService) Start(ctx context.Context, userID int64) (*entities.PracticeSession, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	level := leitner.DeriveLevel(snap.Words, s.catalog.Difficulty(), s.catalog.Items(), s.levelOpts)
	pool := s.catalog.ItemsInCategories(level.UnlockedCategoryIDs)

	s.mu.Lock()
	items := s.selector.Select(pool, snap.Words, s.size, s.clock.Today())
	s.mu.Unlock()

	if len(items) == 0 {
		return nil, ErrNothingToPractice
	}

	return entities.NewPracticeSession(items, s.clock.now()), nil
}
