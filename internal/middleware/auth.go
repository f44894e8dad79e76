package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kuohsuan/acg-forum/internal/auth"
	"github.com/kuohsuan/acg-forum/internal/model"
)

// principalKey is the context key under which the authenticated user is
// stored for downstream handlers.
const principalKey = "principal"

// unauthorizedBody is the single opaque 401 payload.  Missing header,
// malformed token, bad signature, expired token and unknown subject all
// answer identically so the response does not reveal which check
// failed; the specific reason goes to the server log instead.
var unauthorizedBody = echo.Map{"error": "invalid or missing credentials"}

// UserLoader is the read-only slice of the user repository the
// verifier needs.  *repository.UserRepo satisfies it.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Authenticate returns an Echo middleware that gates protected routes.
// Per request it walks: header present → token decodes and is fresh →
// account exists and is active.  Any failed step rejects the request;
// on success the account becomes the request's principal, retrievable
// via Principal().
//
// The account row is re-read on every request, so deactivating an
// account takes effect on its next request even though already-issued
// tokens remain mathematically valid.
func Authenticate(codec *auth.Codec, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				log.Printf("auth: reject %s %s: no bearer header", c.Request().Method, c.Path())
				return c.JSON(http.StatusUnauthorized, unauthorizedBody)
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claim, err := codec.Decode(raw, time.Now().UTC())
			if err != nil {
				// Distinguished internally, collapsed externally.
				log.Printf("auth: reject %s %s: %v", c.Request().Method, c.Path(), err)
				return c.JSON(http.StatusUnauthorized, unauthorizedBody)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, claim.Subject)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					log.Printf("auth: reject %s %s: no account for subject %d", c.Request().Method, c.Path(), claim.Subject)
					return c.JSON(http.StatusUnauthorized, unauthorizedBody)
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account lookup failed"})
			}
			if !u.IsActive {
				// A dead account is not a dead session: answer 400, not 401.
				log.Printf("auth: reject %s %s: account %d inactive", c.Request().Method, c.Path(), u.ID)
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "inactive user"})
			}

			c.Set(principalKey, u)
			return next(c)
		}
	}
}

// Principal returns the authenticated user placed in the context by
// Authenticate.  ok is false on routes that did not pass through the
// middleware.
func Principal(c echo.Context) (model.User, bool) {
	u, ok := c.Get(principalKey).(model.User)
	return u, ok
}
