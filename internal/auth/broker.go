// Package auth implements the Google OAuth2 login flow (authorization
// code with PKCE), the in-process session store, and the authorization
// middleware that derives a trusted owner identity from the session
// cookie.
package auth

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// Broker owns the ephemeral pending-authorization state of login
// attempts: for each issued CSRF state token it remembers the PKCE
// verifier that must accompany the eventual code exchange. Entries are
// redeemable at most once.
//
// Abandoned attempts are never swept; their entries persist until
// redeemed or the process restarts. Known gap, kept deliberately.
type Broker struct {
	google *GoogleClient

	mu      sync.Mutex
	pending map[string]string // CSRF state -> PKCE verifier
}

// NewBroker creates a broker issuing authorizations against the given
// provider client.
func NewBroker(google *GoogleClient) *Broker {
	return &Broker{
		google:  google,
		pending: make(map[string]string),
	}
}

// Begin starts a login attempt: it mints a PKCE verifier and a CSRF
// state token, records the pair, and returns the provider authorization
// URL carrying the challenge and state.
func (b *Broker) Begin() (authURL, state string) {
	verifier := oauth2.GenerateVerifier()
	state = oauth2.GenerateVerifier()

	b.mu.Lock()
	b.pending[state] = verifier
	b.mu.Unlock()

	return b.google.AuthCodeURL(state, verifier), state
}

// Redeem atomically removes and returns the verifier recorded for the
// state token. A second redemption of the same token reports false;
// callers must treat that as an authorization failure, never retry.
func (b *Broker) Redeem(state string) (verifier string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	verifier, ok = b.pending[state]
	if ok {
		delete(b.pending, state)
	}
	return verifier, ok
}

// Exchange trades the authorization code for tokens using the redeemed
// verifier and fetches the user's profile.
func (b *Broker) Exchange(ctx context.Context, code, verifier string) (*UserInfo, error) {
	return b.google.Exchange(ctx, code, verifier)
}
