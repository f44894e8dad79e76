package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeProvider stands in for Google's token and userinfo endpoints.
func fakeProvider(t *testing.T, tokenHandler, userinfoHandler http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	if tokenHandler != nil {
		mux.HandleFunc("/token", tokenHandler)
	}
	if userinfoHandler != nil {
		mux.HandleFunc("/userinfo", userinfoHandler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New("client-id", "client-secret", "https://api.example.com/v1/auth/google/callback")
	c.SetBaseURL(srv.URL)
	return c
}

func TestExchangeCode_SendsFormAndReturnsToken(t *testing.T) {
	t.Parallel()

	var gotForm map[string]string
	c := fakeProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotForm = map[string]string{
				"client_id":     r.PostFormValue("client_id"),
				"client_secret": r.PostFormValue("client_secret"),
				"code":          r.PostFormValue("code"),
				"redirect_uri":  r.PostFormValue("redirect_uri"),
				"grant_type":    r.PostFormValue("grant_type"),
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok1", "token_type": "Bearer"})
		},
		nil,
	)

	tok, err := c.ExchangeCode(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, "tok1", tok)
	require.Equal(t, map[string]string{
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"code":          "abc123",
		"redirect_uri":  "https://api.example.com/v1/auth/google/callback",
		"grant_type":    "authorization_code",
	}, gotForm)
}

func TestExchangeCode_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	c := fakeProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
		},
		nil,
	)

	_, err := c.ExchangeCode(context.Background(), "used-code")
	require.ErrorIs(t, err, ErrExchangeFailed)
}

func TestExchangeCode_ErrorBodyWithoutToken(t *testing.T) {
	t.Parallel()

	c := fakeProvider(t,
		func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant", "error_description": "code already redeemed"})
		},
		nil,
	)

	_, err := c.ExchangeCode(context.Background(), "used-code")
	require.ErrorIs(t, err, ErrExchangeFailed)
}

func TestFetchProfile_UsesBearerToken(t *testing.T) {
	t.Parallel()

	c := fakeProvider(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]string{"email": "a@b.com", "name": "Alice"})
		},
	)

	p, err := c.FetchProfile(context.Background(), "tok1")
	require.NoError(t, err)
	require.Equal(t, Profile{Email: "a@b.com", Name: "Alice"}, p)
}

func TestFetchProfile_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	c := fakeProvider(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		},
	)

	_, err := c.FetchProfile(context.Background(), "expired-token")
	require.ErrorIs(t, err, ErrProfileFetchFailed)
}

func TestFetchProfile_MissingEmail(t *testing.T) {
	t.Parallel()

	c := fakeProvider(t, nil,
		func(w http.ResponseWriter, r *http.Request) {
			// Profile without an email cannot provision an account.
			_ = json.NewEncoder(w).Encode(map[string]string{"name": "No Email"})
		},
	)

	_, err := c.FetchProfile(context.Background(), "tok1")
	require.ErrorIs(t, err, ErrProfileFetchFailed)
}
