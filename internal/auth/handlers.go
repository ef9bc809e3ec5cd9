package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/waypost/waypost/internal/errs"
	"github.com/waypost/waypost/internal/logutil"
	"github.com/waypost/waypost/internal/metrics"
	"github.com/waypost/waypost/internal/records"
	"github.com/waypost/waypost/internal/store"
)

// Handler serves the login, callback, and logout endpoints.
type Handler struct {
	broker   *Broker
	sessions *SessionStore
	store    *store.Store
	metrics  *metrics.Metrics
}

// NewHandler wires the auth endpoints to their collaborators.
func NewHandler(broker *Broker, sessions *SessionStore, st *store.Store, m *metrics.Metrics) *Handler {
	return &Handler{broker: broker, sessions: sessions, store: st, metrics: m}
}

// RegisterRoutes mounts the unauthenticated half of the flow. Logout is
// session-gated and registered separately by the caller.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /auth/google/login", h.HandleLogin)
	mux.HandleFunc("GET /auth/google/callback", h.HandleCallback)
}

// HandleLogin starts a login attempt and bounces the browser to the
// provider's consent screen.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	authURL, state := h.broker.Begin()
	slog.Debug("login started", "state", logutil.TruncateForLog(state, 12))
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// HandleCallback completes a login attempt: it redeems the CSRF state
// for its PKCE verifier, exchanges the code, resolves the provider
// profile to a local user (creating one on first login), and issues a
// session. Every failure collapses to 403.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		h.deny(w, "callback missing state or code", nil)
		return
	}
	verifier, ok := h.broker.Redeem(state)
	if !ok {
		h.deny(w, "unknown or already redeemed state", nil)
		return
	}
	info, err := h.broker.Exchange(r.Context(), code, verifier)
	if err != nil {
		h.deny(w, "code exchange failed", err)
		return
	}
	user, err := h.findOrCreateUser(info)
	if err != nil {
		h.deny(w, "resolving user failed", err)
		return
	}
	token := h.sessions.Issue(user)
	SetSessionCookie(w, token)
	h.metrics.AuthResults.WithLabelValues("success").Inc()
	slog.Info("login completed", "user_id", user.ID, "guid", user.GUID)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// HandleLogout revokes the session and clears the cookie. It runs
// behind RequireSession, so the cookie is known to be present.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		http.Error(w, "Missing session_id", http.StatusBadRequest)
		return
	}
	if user, ok := h.sessions.Revoke(cookie.Value); ok {
		slog.Info("logout", "user_id", user.ID)
	}
	ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// findOrCreateUser looks up the user by guid, creating one from the
// provider profile on first login. More than one row for a guid means
// the uniqueness convention has been violated; refuse to pick.
func (h *Handler) findOrCreateUser(info *UserInfo) (records.User, error) {
	criteria := []store.Criteria{store.Equals("guid", info.GUID())}
	users, err := store.GetQueries[records.User](h.store, criteria)
	if err != nil {
		return records.User{}, err
	}
	switch len(users) {
	case 1:
		return users[0], nil
	case 0:
		req := info.Request()
		if err := req.ValidateCreate(nil); err != nil {
			return records.User{}, err
		}
		return store.Create[records.User](h.store, req)
	default:
		return records.User{}, errs.New(errs.Internal, fmt.Sprintf("%d users share guid %q", len(users), info.GUID()))
	}
}

func (h *Handler) deny(w http.ResponseWriter, reason string, err error) {
	h.metrics.AuthResults.WithLabelValues("denied").Inc()
	slog.Warn("login denied", "reason", reason, "err", err)
	forbidden(w)
}
