package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kuohsuan/acg-forum/internal/auth"
	"github.com/kuohsuan/acg-forum/internal/model"
)

type fakeLoader struct{ byID map[uint64]model.User }

func (f *fakeLoader) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return model.User{}, sql.ErrNoRows
}

// gate builds an Echo instance with one protected route that echoes the
// principal's email.
func gate(t *testing.T, codec *auth.Codec, users UserLoader) *echo.Echo {
	t.Helper()
	e := echo.New()
	g := e.Group("/v1")
	g.Use(Authenticate(codec, users))
	g.GET("/whoami", func(c echo.Context) error {
		u, ok := Principal(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"email": u.Email})
	})
	return e
}

func request(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_Matrix(t *testing.T) {
	t.Parallel()

	codec, err := auth.NewCodec("gate-secret", "HS256")
	require.NoError(t, err)
	otherCodec, err := auth.NewCodec("other-secret", "HS256")
	require.NoError(t, err)

	users := &fakeLoader{byID: map[uint64]model.User{
		1: {ID: 1, Email: "alice@b.com", Username: "Alice", IsActive: true},
		2: {ID: 2, Email: "mallory@b.com", Username: "Mallory", IsActive: false},
	}}
	e := gate(t, codec, users)

	now := time.Now().UTC()
	goodToken := func(id uint64) string {
		tok, err := codec.Issue(id, now, time.Hour)
		require.NoError(t, err)
		return tok
	}
	expired, err := codec.Issue(1, now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	forged, err := otherCodec.Issue(1, now, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
		{"unknown subject", "Bearer " + goodToken(99), http.StatusUnauthorized},
		{"disabled account", "Bearer " + goodToken(2), http.StatusBadRequest},
		{"active account", "Bearer " + goodToken(1), http.StatusOK},
	}

	var firstRejectBody string
	for _, tc := range cases {
		rec := request(e, tc.header)
		require.Equal(t, tc.wantStatus, rec.Code, tc.name)

		// Every 401 must look identical so the response does not
		// reveal which validation step failed.
		if rec.Code == http.StatusUnauthorized {
			if firstRejectBody == "" {
				firstRejectBody = rec.Body.String()
			}
			require.Equal(t, firstRejectBody, rec.Body.String(), tc.name)
		}
	}
}

func TestAuthenticate_PrincipalAvailableToHandler(t *testing.T) {
	t.Parallel()

	codec, err := auth.NewCodec("gate-secret", "HS256")
	require.NoError(t, err)
	users := &fakeLoader{byID: map[uint64]model.User{
		1: {ID: 1, Email: "alice@b.com", IsActive: true},
	}}
	e := gate(t, codec, users)

	tok, err := codec.Issue(1, time.Now().UTC(), time.Hour)
	require.NoError(t, err)

	rec := request(e, "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "alice@b.com", body["email"])
}

func TestAuthenticate_DisabledAccountMessage(t *testing.T) {
	t.Parallel()

	codec, err := auth.NewCodec("gate-secret", "HS256")
	require.NoError(t, err)
	users := &fakeLoader{byID: map[uint64]model.User{
		2: {ID: 2, Email: "mallory@b.com", IsActive: false},
	}}
	e := gate(t, codec, users)

	tok, err := codec.Issue(2, time.Now().UTC(), time.Hour)
	require.NoError(t, err)

	rec := request(e, "Bearer "+tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "inactive user", body["error"])
}
