package telegram

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/admin"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
	"github.com/aliskhannn/leitner-vocab-bot/internal/service"
	"github.com/aliskhannn/leitner-vocab-bot/internal/storage"
)

type stubProgressService struct {
	recordErr error
	recorded  []string
}

func (s *stubProgressService) RegisterLearner(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func (s *stubProgressService) RecordAnswer(_ context.Context, _ int64, itemID string, _ bool) (*service.AnswerResult, error) {
	s.recorded = append(s.recorded, itemID)
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	return &service.AnswerResult{}, nil
}

func (s *stubProgressService) Summary(context.Context, int64) (*service.Summary, error) {
	return &service.Summary{}, nil
}

func (s *stubProgressService) Level(context.Context, int64) (leitner.LevelInfo, error) {
	return leitner.LevelInfo{}, nil
}

func (s *stubProgressService) Reset(context.Context, int64) error { return nil }

func (s *stubProgressService) Export(context.Context, int64) ([]byte, error) { return nil, nil }

func (s *stubProgressService) Import(context.Context, int64, []byte) (int, error) { return 0, nil }

func (s *stubProgressService) Boost(context.Context, int64, int) (admin.AuditEntry, error) {
	return admin.AuditEntry{}, nil
}

func newPracticeHandler(progress ProgressService, sessions SessionStorage) *Handler {
	return NewHandler(nil, zap.NewNop(), progress, nil, nil, nil, sessions, storage.NewReminderStorage())
}

func twoItemSession() *entities.PracticeSession {
	items := []entities.Item{
		{ID: "a", Text: "hola", Translation: "привет"},
		{ID: "b", Text: "adios", Translation: "пока"},
	}
	return entities.NewPracticeSession(items, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
}

func TestAnswerKeepsQuestionWhenSaveFails(t *testing.T) {
	t.Parallel()

	progress := &stubProgressService{recordErr: errors.New("db down")}
	sessions := storage.NewSessionStorage()
	sessions.Store(1, twoItemSession())

	h := newPracticeHandler(progress, sessions)

	err := h.answer(context.Background(), 1, 1, "a", true)
	require.ErrorContains(t, err, "db down")

	current, ok := sessions.Current(1)
	require.True(t, ok)
	assert.Equal(t, "a", current.ID, "the unsaved question stays open")
	assert.Equal(t, []string{"a"}, progress.recorded)
}

func TestAnswerIgnoresStaleItem(t *testing.T) {
	t.Parallel()

	progress := &stubProgressService{}
	sessions := storage.NewSessionStorage()
	sessions.Store(1, twoItemSession())

	h := newPracticeHandler(progress, sessions)

	require.NoError(t, h.answer(context.Background(), 1, 1, "b", true))
	require.NoError(t, h.answer(context.Background(), 2, 2, "a", true))

	assert.Empty(t, progress.recorded)

	current, ok := sessions.Current(1)
	require.True(t, ok)
	assert.Equal(t, "a", current.ID)
}

func TestReadBackup(t *testing.T) {
	t.Parallel()

	data, err := readBackup(strings.NewReader(`{"version":1}`), 64)
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(data))

	exact := bytes.Repeat([]byte("x"), 64)
	data, err = readBackup(bytes.NewReader(exact), 64)
	require.NoError(t, err)
	assert.Len(t, data, 64)

	_, err = readBackup(bytes.NewReader(append(exact, 'x')), 64)
	assert.ErrorIs(t, err, errBackupTooLarge)
}
