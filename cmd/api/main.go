package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"stayhub/internal/adapters/auth"
	googleauth "stayhub/internal/adapters/google"
	server "stayhub/internal/adapters/http_server"
	"stayhub/internal/adapters/observability"
	redisad "stayhub/internal/adapters/redis"
	"stayhub/internal/app"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
	mysqlrepo "stayhub/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; requests will fall through to MySQL")
		}
		cache = rc
	} else {
		log.Info().Msg("REDIS_ADDR empty; caching disabled")
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	passwords := auth.NewPasswords(cfg.BcryptCost)

	var google domain.IdentityProvider
	if cfg.GoogleClientID != "" {
		p, err := googleauth.New(ctx, googleauth.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleSecret,
			RedirectURL:  cfg.GoogleRedirect,
			RPS:          cfg.GoogleRPS,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("google sign-in setup failed")
		}
		google = p
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Identity:  app.NewIdentityService(repo, passwords, tokens, google, cfg.AdminEmails),
		Profiles:  app.NewProfileService(repo, repo, tokens, cache),
		Catalog:   app.NewCatalogService(repo, repo, cache),
		Discovery: app.NewDiscoveryService(repo, repo, repo, cache, cfg.CacheTTL, cfg.SearchCacheTTL),
		Bookings:  app.NewBookingService(repo, repo, repo),
		Chat:      app.NewChatService(repo, repo, repo),
		Admin:     app.NewAdminService(repo, repo),
		Tokens:    tokens,
		Health:    repo.Ping,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
