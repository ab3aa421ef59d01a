package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
)

func newTestSessionService(t *testing.T, store *memoryStore, size int) *SessionService {
	t.Helper()
	selector := leitner.NewSelector(rand.New(rand.NewSource(1)))
	return NewSessionService(store, testCatalog(t), leitner.DefaultLevelOptions(), testClock(), selector, size)
}

func sessionIDs(s *entities.PracticeSession) []string {
	ids := make([]string, len(s.Items))
	for i, it := range s.Items {
		ids[i] = it.ID
	}
	return ids
}

func TestStartNewLearnerGetsFirstTier(t *testing.T) {
	t.Parallel()

	svc := newTestSessionService(t, newMemoryStore(), 10)

	session, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"hola", "adios", "gracias"}, sessionIDs(session))
	assert.Zero(t, session.Position)
	assert.Equal(t, testToday.Add(10*time.Hour), session.StartedAt)
}

func TestStartRespectsSize(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.put(1, entities.Snapshot{Words: entities.ProgressMap{
		"hola":    {Box: 3, LastSeen: daysAgo(10)},
		"adios":   {Box: 3, LastSeen: daysAgo(10)},
		"gracias": {Box: 3, LastSeen: daysAgo(10)},
	}})
	svc := newTestSessionService(t, store, 2)

	session, err := svc.Start(context.Background(), 1)
	require.NoError(t, err)

	// level 2: the new food words (800) outrank the overdue box 3 words (760)
	assert.ElementsMatch(t, []string{"pan", "agua"}, sessionIDs(session))
}

func TestStartNothingToPractice(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	svc := NewSessionService(store, testCatalog(t), leitner.DefaultLevelOptions(), testClock(), nil, 0)

	_, err := svc.Start(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNothingToPractice)
}

func TestStartLoadError(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.failLoad = true
	svc := newTestSessionService(t, store, 10)

	_, err := svc.Start(context.Background(), 1)
	assert.ErrorIs(t, err, errStoreDown)
}
