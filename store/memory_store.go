package store

import (
	"sync"
	"time"

	"github.com/ivanka58/convertobot/types"
)

// MemorySessionStore живёт столько же, сколько процесс.
// Конкурентная map по userID; эксклюзивность обработки на пользователя
// обеспечивает оркестратор, здесь только согласованность чтений и записей.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*types.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[int64]*types.Session),
	}
}

func (s *MemorySessionStore) Get(userID int64) (*types.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, types.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *MemorySessionStore) Put(session *types.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	cp.UpdatedAt = time.Now()
	s.sessions[session.UserID] = &cp
	return nil
}

func (s *MemorySessionStore) Clear(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *MemorySessionStore) ClearIf(userID int64, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || sess.ID != sessionID {
		return false, nil
	}
	delete(s.sessions, userID)
	return true, nil
}
