package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kuohsuan/acg-forum/internal/auth"
	"github.com/kuohsuan/acg-forum/internal/config"
	"github.com/kuohsuan/acg-forum/internal/database"
	"github.com/kuohsuan/acg-forum/internal/handler"
	"github.com/kuohsuan/acg-forum/internal/oauth/google"
	"github.com/kuohsuan/acg-forum/internal/queue"
	"github.com/kuohsuan/acg-forum/internal/repository"
	"github.com/kuohsuan/acg-forum/internal/router"
	"github.com/kuohsuan/acg-forum/internal/service/queuepub"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	boards := repository.NewBoardRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)
	votes := repository.NewVoteRepo(db)

	if err := boards.EnsureDefaults(ctx); err != nil {
		log.Fatalf("seed boards: %v", err)
	}

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTAlg)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}
	provider := google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	resolver := auth.NewResolver(users)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response cache disabled")
	}

	// Activity consumer runs for the life of the process and reconnects
	// on its own; a missing broker only costs the activity log.
	go func() {
		if err := queue.StartActivityConsumer(queuepub.BrokerURL()); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	authH := handler.NewAuthHandler(cfg, provider, resolver, codec)
	boardH := handler.NewBoardHandler(boards)
	postH := handler.NewPostHandler(posts, boards)
	commentH := handler.NewCommentHandler(comments)
	voteH := handler.NewVoteHandler(votes)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e, boardH, postH, commentH, config.LoadCacheConfig(), rdb)
	router.RegisterAuth(e, authH, postH, commentH, voteH, codec, users)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
