// Command server runs the chat gateway HTTP server.
//
// Startup: load .env (optional) and configuration, configure logging and
// tracing, open the document store, build the OAuth, completion and session
// collaborators, register routes, and serve until SIGINT/SIGTERM.
//
// @title       Chat Gateway API
// @version     1.0
// @description Session-gated question/answer gateway backed by GitHub OAuth, a document store and a chat completion service.
// @BasePath    /
package main

//go:generate swag init --dir ../../ --generalInfo cmd/server/main.go --output ../../docs

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-chat-gateway/internal/clients/github"
	"github.com/tbourn/go-chat-gateway/internal/clients/openai"
	"github.com/tbourn/go-chat-gateway/internal/config"
	httpapi "github.com/tbourn/go-chat-gateway/internal/http"
	"github.com/tbourn/go-chat-gateway/internal/observability"
	"github.com/tbourn/go-chat-gateway/internal/repo"
	"github.com/tbourn/go-chat-gateway/internal/services"
	"github.com/tbourn/go-chat-gateway/internal/session"
	"github.com/tbourn/go-chat-gateway/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.ConfigureLogging(cfg.LogLevel, cfg.LogPretty, os.Stderr)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Error().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open document store")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	sessions, err := session.NewManager(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("session manager")
	}

	deps := httpapi.Deps{
		Sessions:      sessions,
		Identity:      services.NewIdentityResolver(github.New(cfg.OAuth)),
		Conversations: services.NewConversationStore(repo.NewDocumentStore(db)),
		Completion:    services.NewCompletionOrchestrator(openai.New(cfg.Completion), cfg.Completion.Model),
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}
