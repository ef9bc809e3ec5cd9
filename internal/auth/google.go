package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/waypost/waypost/internal/errs"
	"github.com/waypost/waypost/internal/records"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleConfig configures the provider client. The URL fields default to
// the real Google endpoints; tests point them at a local fake.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// GoogleClient performs the provider half of the login flow: building
// authorization URLs, exchanging codes for tokens, and fetching the
// profile of the authenticated user.
type GoogleClient struct {
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleClient builds a client from the config, filling in the real
// Google endpoints where overrides are absent. Outbound requests never
// follow redirects.
func NewGoogleClient(cfg GoogleConfig) *GoogleClient {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = googleAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = googleTokenURL
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = googleUserInfoURL
	}
	return &GoogleClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		userInfoURL: userInfoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// AuthCodeURL returns the provider authorization URL carrying the CSRF
// state and the S256 challenge derived from the PKCE verifier.
func (c *GoogleClient) AuthCodeURL(state, verifier string) string {
	return c.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// UserInfo is the profile document returned by the provider's v2
// userinfo endpoint.
type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GUID returns the provider-qualified identity string stored on user
// records, e.g. "google/1234".
func (u *UserInfo) GUID() string {
	return "google/" + u.ID
}

// Request converts the profile into a user create request.
func (u *UserInfo) Request() *records.RequestUser {
	guid := u.GUID()
	name := u.Name
	email := u.Email
	picture := u.Picture
	return &records.RequestUser{
		GUID:    &guid,
		Name:    &name,
		Email:   &email,
		Picture: &picture,
	}
}

// Exchange trades the authorization code for an access token, proving
// possession of the PKCE verifier, then fetches the user's profile.
func (c *GoogleClient) Exchange(ctx context.Context, code, verifier string) (*UserInfo, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, errs.Wrap(errs.ExchangeFailed, "token exchange failed", err)
	}
	return c.fetchUserInfo(ctx, tok.AccessToken)
}

func (c *GoogleClient) fetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	q := url.Values{"access_token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "building userinfo request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.ExchangeFailed, "userinfo request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errs.New(errs.ExchangeFailed, fmt.Sprintf("userinfo returned %d: %s", resp.StatusCode, body))
	}
	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errs.Wrap(errs.ExchangeFailed, "decoding userinfo response", err)
	}
	return &info, nil
}
