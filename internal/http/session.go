package http

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore holds bearer tokens for logged-in users in memory with a
// sliding expiry. Tokens are random UUIDs; losing the process logs
// everyone out, which is acceptable for this service.
type SessionStore struct {
	mu           sync.Mutex
	ttl          time.Duration
	sessions     map[string]*session
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type session struct {
	userID    int64
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		ttl:         ttl,
		sessions:    make(map[string]*session),
		stopCleanup: make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// startCleanup runs periodic cleanup to drop expired sessions.
func (s *SessionStore) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *SessionStore) cleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
}

// Stop shuts down the cleanup goroutine.
func (s *SessionStore) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}

// Create issues a token for the user.
func (s *SessionStore) Create(userID int64) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = &session{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token
}

// Lookup resolves a token to its user and extends the expiry.
func (s *SessionStore) Lookup(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, false
	}
	sess.expiresAt = time.Now().Add(s.ttl)
	return sess.userID, true
}

// Delete revokes a token. Unknown tokens are a no-op.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
