package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kuohsuan/acg-forum/internal/auth"
	"github.com/kuohsuan/acg-forum/internal/config"
	"github.com/kuohsuan/acg-forum/internal/handler"
	"github.com/kuohsuan/acg-forum/internal/middleware"
)

// RegisterRoutes registers routes that need no dependencies.  Currently
// that is only the health check, used by load balancers and monitoring
// to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login callback and all protected routes.
// The callback lives under /v1/auth and needs no credentials; every
// handler on the /v1 protected group runs behind Authenticate, which
// resolves the bearer token into a principal before the handler sees
// the request.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, p *handler.PostHandler,
	cm *handler.CommentHandler, v *handler.VoteHandler,
	codec *auth.Codec, users middleware.UserLoader) {

	g := e.Group("/v1/auth")
	// Google redirects the browser here with a one-time code.
	g.GET("/google/callback", a.GoogleCallback)

	protected := e.Group("/v1")
	protected.Use(middleware.Authenticate(codec, users))
	protected.GET("/users/me", a.Me)
	protected.POST("/posts", p.Create)
	protected.POST("/posts/:id/comments", cm.Create)
	protected.POST("/posts/:id/vote", v.Cast)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// two listing routes sit behind the Redis response cache; with no Redis
// client the cache middleware is a pass-through.
func RegisterPublic(e *echo.Echo, b *handler.BoardHandler, p *handler.PostHandler,
	cm *handler.CommentHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {

	cached := middleware.Cache(cacheCfg, rdb)
	e.GET("/v1/boards", b.List, cached)
	e.GET("/v1/posts", p.List, cached)
	e.GET("/v1/posts/:id", p.Get)
	e.GET("/v1/posts/:id/comments", cm.ListByPost)
}
