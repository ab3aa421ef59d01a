package storage

import (
	"sync"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// SessionStorage keeps the running practice session of every user in memory.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.PracticeSession
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*entities.PracticeSession),
	}
}

// Store replaces the user's session.
func (s *SessionStorage) Store(userID int64, session *entities.PracticeSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
}

// Current returns the item the user is expected to answer.
func (s *SessionStorage) Current(userID int64) (entities.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return entities.Item{}, false
	}
	return session.Current()
}

// Advance records the outcome of the current item if it is still itemID,
// so a stale callback cannot skip a question. It returns a copy of the
// session after the move and whether the move happened.
func (s *SessionStorage) Advance(userID int64, itemID string, correct bool) (entities.PracticeSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return entities.PracticeSession{}, false
	}

	current, ok := session.Current()
	if !ok || current.ID != itemID {
		return *session, false
	}

	session.Advance(correct)
	snapshot := *session
	if session.Finished() {
		delete(s.sessions, userID)
	}

	return snapshot, true
}

// Delete removes the user's session.
func (s *SessionStorage) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
