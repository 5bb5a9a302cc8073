package services

import (
	"sync"
	"time"

	"gmonad-points-service/models"

	"github.com/google/uuid"
)

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "SIGNED_IN"
	SessionSignedOut SessionEventType = "SIGNED_OUT"
)

// SessionEvent is delivered to subscribers on every lifecycle change.
type SessionEvent struct {
	Type    SessionEventType
	Session models.Session
}

// SessionStore holds active bearer sessions in memory and fans lifecycle
// events out to subscribers. It replaces the ambient process-wide session
// object of the original client with an injected store.
type SessionStore struct {
	TTL time.Duration
	Now func() time.Time

	mu          sync.Mutex
	sessions    map[string]models.Session
	subscribers map[int]chan SessionEvent
	nextSub     int
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		TTL:         ttl,
		Now:         time.Now,
		sessions:    make(map[string]models.Session),
		subscribers: make(map[int]chan SessionEvent),
	}
}

// Create issues a session for an authenticated identity.
func (s *SessionStore) Create(userID, username string) models.Session {
	now := s.Now()
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.publishLocked(SessionEvent{Type: SessionSignedIn, Session: sess})
	s.mu.Unlock()
	return sess
}

// Get resolves a token to its session; expired sessions are not returned.
func (s *SessionStore) Get(token string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.Expired(s.Now()) {
		return models.Session{}, false
	}
	return sess, true
}

// Delete signs a session out. Returns false when the token was not active.
func (s *SessionStore) Delete(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return false
	}
	delete(s.sessions, token)
	s.publishLocked(SessionEvent{Type: SessionSignedOut, Session: sess})
	return true
}

// DeleteExpired sweeps lapsed sessions, emitting signed-out events for each.
func (s *SessionStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	removed := 0
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
			s.publishLocked(SessionEvent{Type: SessionSignedOut, Session: sess})
			removed++
		}
	}
	return removed
}

// Subscribe registers for lifecycle events. The returned cancel func must be
// called to release the subscription; it closes the channel.
func (s *SessionStore) Subscribe() (<-chan SessionEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan SessionEvent, 16)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publishLocked delivers an event to every subscriber without blocking;
// callers hold s.mu.
func (s *SessionStore) publishLocked(ev SessionEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default: // slow subscriber, drop
		}
	}
}
