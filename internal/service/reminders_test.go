package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
)

type sentReminder struct {
	chatID  int64
	payload entities.ReminderPayload
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[int64]sentReminder
	fail map[int64]bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(map[int64]sentReminder), fail: make(map[int64]bool)}
}

func (n *recordingNotifier) SendReminder(userID, chatID int64, payload entities.ReminderPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail[userID] {
		return errors.New("blocked by user")
	}
	n.sent[userID] = sentReminder{chatID: chatID, payload: payload}
	return nil
}

func newTestReminderService(t *testing.T, store *memoryStore) *ReminderService {
	t.Helper()
	return NewReminderService(store, testCatalog(t), leitner.DefaultLevelOptions(), testClock(), "0 9 * * *", zap.NewNop())
}

func TestSendDailyReminders(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	ctx := context.Background()

	// due: one overdue word, two new words
	_, _ = store.EnsureLearner(ctx, entities.Learner{UserID: 1, ChatID: 101})
	store.put(1, entities.Snapshot{
		Words: entities.ProgressMap{"hola": {Box: 1, LastSeen: daysAgo(3)}},
		Stats: entities.Stats{Streak: 4, LastPracticeDate: daysAgo(1)},
	})

	// already practiced today
	_, _ = store.EnsureLearner(ctx, entities.Learner{UserID: 2, ChatID: 102})
	store.put(2, entities.Snapshot{Stats: entities.Stats{Streak: 1, LastPracticeDate: daysAgo(0)}})

	// nothing due
	_, _ = store.EnsureLearner(ctx, entities.Learner{UserID: 3, ChatID: 103})
	store.put(3, entities.Snapshot{Words: entities.ProgressMap{
		"hola":    {Box: 5, LastSeen: daysAgo(1)},
		"adios":   {Box: 5, LastSeen: daysAgo(1)},
		"gracias": {Box: 5, LastSeen: daysAgo(1)},
		"pan":     {Box: 5, LastSeen: daysAgo(1)},
		"agua":    {Box: 5, LastSeen: daysAgo(1)},
		"billete": {Box: 5, LastSeen: daysAgo(1)},
	}})

	// notifier fails
	_, _ = store.EnsureLearner(ctx, entities.Learner{UserID: 4, ChatID: 104})

	svc := newTestReminderService(t, store)
	notifier := newRecordingNotifier()
	notifier.fail[4] = true
	svc.SetNotifier(notifier)

	sent, err := svc.SendDailyReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Contains(t, notifier.sent, int64(1))
	assert.Equal(t, sentReminder{
		chatID:  101,
		payload: entities.ReminderPayload{DueCount: 1, NewCount: 2, OverdueCount: 1, Streak: 4},
	}, notifier.sent[1])
	assert.Len(t, notifier.sent, 1)
}

func TestSendDailyRemindersWithoutNotifier(t *testing.T) {
	t.Parallel()

	svc := newTestReminderService(t, newMemoryStore())

	_, err := svc.SendDailyReminders(context.Background())
	assert.ErrorIs(t, err, ErrNotifierNotSet)
}

func TestBuildPayloadLoadError(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.failLoad = true
	svc := newTestReminderService(t, store)

	_, _, err := svc.BuildPayload(context.Background(), 1)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	svc := NewReminderService(newMemoryStore(), testCatalog(t), leitner.DefaultLevelOptions(), testClock(), "every day", zap.NewNop())

	err := svc.Start(context.Background())
	assert.Error(t, err)
}
