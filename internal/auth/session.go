package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the per-login state the dashboard needs: who is logged in and
// which of their markets is selected. It lives in memory only; restarting
// the process logs everyone out.
type Session struct {
	Exhibitor       string
	SelectedCountry string
	CreatedAt       time.Time
}

// SessionStore is an in-memory session store keyed by opaque token.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]Session
}

// NewSessionStore creates a store whose sessions expire after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
	}
}

// Create stores a new session for the exhibitor and returns its token.
func (ss *SessionStore) Create(exhibitor string) string {
	token := uuid.NewString()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		Exhibitor: exhibitor,
		CreatedAt: time.Now(),
	}
	return token
}

// Get returns the session for a token, if present and not expired.
// Expired sessions are removed on access.
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	if time.Since(session.CreatedAt) > ss.ttl {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return session, true
}

// SetCountry records the exhibitor's selected country on their session.
// Returns false if the token is unknown or expired.
func (ss *SessionStore) SetCountry(token, country string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[token]
	if !ok || time.Since(session.CreatedAt) > ss.ttl {
		return false
	}
	session.SelectedCountry = country
	ss.sessions[token] = session
	return true
}

// Len returns the number of live sessions (expired ones may still count
// until touched).
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}
