package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/repository"
)

var errStoreDown = errors.New("store down")

// memoryStore is an in-memory ProgressStore.
type memoryStore struct {
	mu       sync.Mutex
	learners map[int64]int64
	snaps    map[int64]entities.Snapshot
	failLoad bool
	failSave bool
	saves    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		learners: make(map[int64]int64),
		snaps:    make(map[int64]entities.Snapshot),
	}
}

func (m *memoryStore) EnsureLearner(_ context.Context, learner entities.Learner) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, existed := m.learners[learner.UserID]
	m.learners[learner.UserID] = learner.ChatID
	return !existed, nil
}

func (m *memoryStore) Load(_ context.Context, userID int64) (entities.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failLoad {
		return entities.Snapshot{}, errStoreDown
	}
	snap := m.snaps[userID]
	return entities.Snapshot{Words: snap.Words.Clone(), Stats: snap.Stats}, nil
}

func (m *memoryStore) SaveReview(
	_ context.Context,
	userID int64,
	itemID string,
	rec entities.ReviewRecord,
	stats entities.Stats,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSave {
		return errStoreDown
	}
	m.saves++

	snap := m.snaps[userID]
	snap.Words = snap.Words.Clone()
	snap.Words[itemID] = rec
	snap.Stats = stats
	m.snaps[userID] = snap
	m.ensure(userID)
	return nil
}

func (m *memoryStore) Replace(_ context.Context, userID int64, snap entities.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSave {
		return errStoreDown
	}
	m.snaps[userID] = entities.Snapshot{Words: snap.Words.Clone(), Stats: snap.Stats}
	m.ensure(userID)
	return nil
}

func (m *memoryStore) Reset(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.snaps, userID)
	return nil
}

func (m *memoryStore) ListLearners(_ context.Context) ([]entities.Learner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entities.Learner, 0, len(m.learners))
	for userID, chatID := range m.learners {
		out = append(out, entities.Learner{UserID: userID, ChatID: chatID})
	}
	return out, nil
}

func (m *memoryStore) ensure(userID int64) {
	if _, ok := m.learners[userID]; !ok {
		m.learners[userID] = userID
	}
}

func (m *memoryStore) put(userID int64, snap entities.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[userID] = snap
	m.ensure(userID)
}

func (m *memoryStore) get(userID int64) entities.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snaps[userID]
}

var testToday = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func testClock() Clock {
	return Clock{
		Now:      func() time.Time { return testToday.Add(10 * time.Hour) },
		Location: time.UTC,
	}
}

func daysAgo(n int) string {
	return entities.FormatDate(testToday.AddDate(0, 0, -n))
}

// testCatalog has three tiers: greetings (1), food (2), travel (3).
func testCatalog(t *testing.T) *repository.CatalogRepository {
	t.Helper()

	cats := []entities.Category{
		{ID: "greetings", Name: "Приветствия", Difficulty: 1},
		{ID: "food", Name: "Еда", Difficulty: 2},
		{ID: "travel", Name: "Путешествия", Difficulty: 3},
	}
	items := []entities.Item{
		{ID: "hola", Category: "greetings", Text: "hola", Translation: "привет"},
		{ID: "adios", Category: "greetings", Text: "adiós", Translation: "пока"},
		{ID: "gracias", Category: "greetings", Text: "gracias", Translation: "спасибо"},
		{ID: "pan", Category: "food", Text: "pan", Translation: "хлеб"},
		{ID: "agua", Category: "food", Text: "agua", Translation: "вода"},
		{ID: "billete", Category: "travel", Text: "billete", Translation: "билет"},
	}

	catalog, err := repository.NewCatalog(cats, items)
	require.NoError(t, err)
	return catalog
}
