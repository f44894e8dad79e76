// Package google implements the outbound half of the Google OAuth 2.0
// authorization-code flow: exchanging a one-time code for an access
// token, then fetching the user's profile with it.  Both calls happen
// exactly once per login — authorization codes are single-use by
// provider contract, so there is nothing sensible to retry.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v1/userinfo?alt=json"
)

// Provider-side failures.  Both map to a 400 at the callback endpoint;
// wrapping keeps the underlying cause available for logs.
var (
	ErrExchangeFailed     = errors.New("google token exchange failed")
	ErrProfileFetchFailed = errors.New("google userinfo fetch failed")
)

// Profile holds the fields we need from the userinfo response.  Email
// is mandatory — without it there is no key to correlate a local
// account with.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client performs the two provider calls with registered credentials.
type Client struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	http    *http.Client
	baseURL string
}

// New creates a client.  The embedded http.Client timeout bounds both
// outbound calls; a timed-out call surfaces as the same error class as
// a provider rejection.
func New(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

// ExchangeCode redeems an authorization code for an access token.
func (g *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", g.ClientID)
	form.Set("client_secret", g.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", g.RedirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: http %d", ErrExchangeFailed, resp.StatusCode)
	}
	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrExchangeFailed, err)
	}
	if tr.Error != "" || tr.AccessToken == "" {
		return "", fmt.Errorf("%w: %s %s", ErrExchangeFailed, tr.Error, tr.ErrorDesc)
	}
	return tr.AccessToken, nil
}

// FetchProfile retrieves the user's email and display name using the
// access token as a bearer credential.  A response without an email is
// treated as a fetch failure: an account cannot be provisioned from it.
func (g *Client) FetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userinfoURL(), nil)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrProfileFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return Profile{}, fmt.Errorf("%w: http %d", ErrProfileFetchFailed, resp.StatusCode)
	}
	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("%w: decode: %v", ErrProfileFetchFailed, err)
	}
	if p.Email == "" {
		return Profile{}, fmt.Errorf("%w: userinfo has no email", ErrProfileFetchFailed)
	}
	return p, nil
}

// SetBaseURL overrides both endpoints' host, for tests against a local
// fake provider.  Empty restores the real Google endpoints.
func (g *Client) SetBaseURL(base string) { g.baseURL = strings.TrimRight(base, "/") }

func (g *Client) tokenURL() string {
	if g.baseURL != "" {
		return g.baseURL + "/token"
	}
	return tokenEndpoint
}

func (g *Client) userinfoURL() string {
	if g.baseURL != "" {
		return g.baseURL + "/userinfo"
	}
	return userinfoEndpoint
}
