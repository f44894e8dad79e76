package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kuohsuan/acg-forum/internal/auth"
	"github.com/kuohsuan/acg-forum/internal/config"
	"github.com/kuohsuan/acg-forum/internal/middleware"
	"github.com/kuohsuan/acg-forum/internal/model"
	"github.com/kuohsuan/acg-forum/internal/oauth/google"
)

// IdentityProvider is the outbound OAuth surface the callback needs.
// *google.Client satisfies it; tests substitute a fake.
type IdentityProvider interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (google.Profile, error)
}

// AccountResolver provisions or finds the local account for a verified
// external profile.  *auth.Resolver satisfies it.
type AccountResolver interface {
	ResolveOrCreate(ctx context.Context, p auth.Profile) (model.User, error)
}

// AuthHandler bundles dependencies for the login callback and the
// current-user endpoint.
type AuthHandler struct {
	Cfg      config.Config
	Provider IdentityProvider
	Resolver AccountResolver
	Codec    *auth.Codec
}

func NewAuthHandler(cfg config.Config, p IdentityProvider, r AccountResolver, codec *auth.Codec) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Provider: p, Resolver: r, Codec: codec}
}

// GoogleCallback consumes the provider redirect: exchange the one-time
// code, fetch the profile, find-or-create the account, mint a session
// token and bounce the browser back to the frontend with the token in
// the query string.
//
// Each upstream failure aborts the whole flow with a 400; a failed
// exchange or profile fetch never touches the database and never
// issues a token.  Nothing here retries — the code is single-use and a
// second exchange attempt would be rejected anyway.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing code"})
	}

	// The provider client's own timeout bounds these two calls.
	accessToken, err := h.Provider.ExchangeCode(c.Request().Context(), code)
	if err != nil {
		log.Printf("auth: code exchange: %v", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "google token exchange failed"})
	}
	profile, err := h.Provider.FetchProfile(c.Request().Context(), accessToken)
	if err != nil {
		log.Printf("auth: profile fetch: %v", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "google userinfo fetch failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Resolver.ResolveOrCreate(ctx, auth.Profile{Email: profile.Email, Name: profile.Name})
	if err != nil {
		log.Printf("auth: resolve account: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account provisioning failed"})
	}

	token, err := h.Codec.Issue(u.ID, time.Now().UTC(), time.Duration(h.Cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		log.Printf("auth: issue token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token issuance failed"})
	}

	target := strings.TrimRight(h.Cfg.FrontendBaseURL, "/") + "/auth/callback?token=" + url.QueryEscape(token)
	return c.Redirect(http.StatusFound, target)
}

// Me returns the authenticated principal.  The route is registered
// behind the Authenticate middleware, so a missing principal means a
// wiring bug rather than a client error.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.Principal(c)
	if !ok {
		return errors.New("me handler reached without principal")
	}
	return c.JSON(http.StatusOK, u)
}
