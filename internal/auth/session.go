package auth

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/waypost/waypost/internal/records"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "session_id"

	// SessionDuration is the fixed lifetime of a session. There is no
	// sliding renewal; activity does not extend the window.
	SessionDuration = 10 * time.Minute
)

type session struct {
	user      records.User
	expiresAt time.Time
}

// SessionStore maps opaque session tokens to authenticated users.
// Sessions live entirely in process memory and die with it. Expired
// entries are removed lazily on lookup.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store with the default session lifetime.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      SessionDuration,
		now:      time.Now,
	}
}

// Issue mints a new session token for the user, valid for the store's
// fixed lifetime from now.
func (s *SessionStore) Issue(user records.User) string {
	token := oauth2.GenerateVerifier()
	s.mu.Lock()
	s.sessions[token] = session{user: user, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return token
}

// Validate resolves a token to its user. A session whose expiry is not
// strictly in the future is expired; it is deleted and the lookup fails.
func (s *SessionStore) Validate(token string) (records.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return records.User{}, false
	}
	if !sess.expiresAt.After(s.now()) {
		delete(s.sessions, token)
		return records.User{}, false
	}
	return sess.user, true
}

// Revoke removes the session and returns its user, expired or not.
func (s *SessionStore) Revoke(token string) (records.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if ok {
		delete(s.sessions, token)
	}
	return sess.user, ok
}

// SetSessionCookie attaches the session token to the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionDuration.Seconds()),
	})
}

// ClearSessionCookie instructs the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
