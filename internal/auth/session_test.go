package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/waypost/waypost/internal/records"
)

func testUser() records.User {
	return records.User{ID: 1, GUID: "google/1", Name: "Ada", Email: "ada@example.com"}
}

func frozenStore(start time.Time) (*SessionStore, *time.Time) {
	now := start
	s := NewSessionStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSessionValidate(t *testing.T) {
	s, _ := frozenStore(time.Unix(1000, 0))
	token := s.Issue(testUser())

	user, ok := s.Validate(token)
	require.True(t, ok)
	require.Equal(t, testUser(), user)

	_, ok = s.Validate("no-such-token")
	require.False(t, ok)
}

// A session is live strictly before its expiry instant and dead at it.
func TestSessionExpiryBoundary(t *testing.T) {
	start := time.Unix(1000, 0)
	s, now := frozenStore(start)
	token := s.Issue(testUser())

	*now = start.Add(SessionDuration - time.Nanosecond)
	_, ok := s.Validate(token)
	require.True(t, ok)

	*now = start.Add(SessionDuration)
	_, ok = s.Validate(token)
	require.False(t, ok)

	// the expired entry is gone, not just hidden
	_, ok = s.Revoke(token)
	require.False(t, ok)
}

// Activity does not extend the window.
func TestSessionNoSlidingRenewal(t *testing.T) {
	start := time.Unix(1000, 0)
	s, now := frozenStore(start)
	token := s.Issue(testUser())

	for i := 0; i < 5; i++ {
		_, ok := s.Validate(token)
		require.True(t, ok)
		*now = now.Add(SessionDuration / 5)
	}
	_, ok := s.Validate(token)
	require.False(t, ok)
}

func TestSessionRevoke(t *testing.T) {
	s, _ := frozenStore(time.Unix(1000, 0))
	token := s.Issue(testUser())

	user, ok := s.Revoke(token)
	require.True(t, ok)
	require.Equal(t, testUser(), user)

	_, ok = s.Revoke(token)
	require.False(t, ok)
	_, ok = s.Validate(token)
	require.False(t, ok)
}

func TestSessionTokensUnique(t *testing.T) {
	s := NewSessionStore()
	require.NotEqual(t, s.Issue(testUser()), s.Issue(testUser()))
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, SessionCookieName, c.Name)
	require.Equal(t, "tok", c.Value)
	require.Equal(t, "/", c.Path)
	require.True(t, c.HttpOnly)
	require.Equal(t, int(SessionDuration.Seconds()), c.MaxAge)

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec)
	c = rec.Result().Cookies()[0]
	require.Equal(t, SessionCookieName, c.Name)
	require.Negative(t, c.MaxAge)
}
