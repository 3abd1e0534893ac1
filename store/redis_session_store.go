package store

import (
	"fmt"
	"time"

	"github.com/ivanka58/convertobot/types"
)

// RedisSessionStore держит сессии в Redis, это опциональный бэкенд.
// Диалог живёт недолго, поэтому у ключей короткий TTL.
type RedisSessionStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisSessionStore(client *RedisClient, ttlHours int) *RedisSessionStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) sessionKey(userID int64) string {
	return s.client.generateKey("session", fmt.Sprintf("%d", userID))
}

func (s *RedisSessionStore) Get(userID int64) (*types.Session, error) {
	var sess types.Session
	if err := s.client.Get(s.sessionKey(userID), &sess); err != nil {
		return nil, types.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *RedisSessionStore) Put(session *types.Session) error {
	session.UpdatedAt = time.Now()
	return s.client.Set(s.sessionKey(session.UserID), session, s.ttl)
}

func (s *RedisSessionStore) Clear(userID int64) error {
	return s.client.Del(s.sessionKey(userID))
}

func (s *RedisSessionStore) ClearIf(userID int64, sessionID string) (bool, error) {
	sess, err := s.Get(userID)
	if err != nil {
		return false, nil
	}
	if sess.ID != sessionID {
		return false, nil
	}
	if err := s.Clear(userID); err != nil {
		return false, err
	}
	return true, nil
}
