package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	sessions := NewSessionStore()
	handler := RequireSession(sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/note", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Not Authorized\n", rec.Body.String())
}

func TestRequireSessionRejectsExpiredSession(t *testing.T) {
	start := time.Unix(1000, 0)
	sessions, now := frozenStore(start)
	token := sessions.Issue(testUser())
	*now = start.Add(SessionDuration)

	handler := RequireSession(sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached with an expired session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/data/note", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireSessionInjectsOwnerID(t *testing.T) {
	sessions := NewSessionStore()
	token := sessions.Issue(testUser())

	var gotOwner int64
	handler := RequireSession(sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := OwnerID(r.Context())
		require.True(t, ok)
		gotOwner = id
	}))

	req := httptest.NewRequest(http.MethodGet, "/data/note", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, testUser().ID, gotOwner)
}

func TestOwnerIDAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := OwnerID(req.Context())
	require.False(t, ok)
}
