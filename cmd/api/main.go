package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mercadito/ecommerce-api/internal/api"
	"github.com/mercadito/ecommerce-api/internal/infrastructure/config"
	mongodb "github.com/mercadito/ecommerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mercadito/ecommerce-api/internal/infrastructure/db/redis"
	"github.com/mercadito/ecommerce-api/internal/infrastructure/email"
	"github.com/mercadito/ecommerce-api/pkg/logger"
)

// @title           Mercadito API
// @version         1.0
// @description     REST API for the Mercadito online store: accounts with email verification codes, product catalog and per-user shopping carts.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Env: cfg.Env})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	// Redis backs the verification-code rate limiter. The service degrades
	// gracefully without it, so a connection failure is not fatal.
	var rdb *redis.Client
	rdb, err = redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, code rate limiting disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	sender, err := email.New(email.Config{
		Provider:     cfg.Email.Provider,
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		SMTPUseTLS:   cfg.Email.SMTPUseTLS,
		APIBaseURL:   cfg.Email.APIBaseURL,
		APIKey:       cfg.Email.APIKey,
		From:         cfg.Email.From,
		FromName:     cfg.Email.FromName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("email transport setup failed")
	}

	e := api.NewRouter(db, rdb, sender, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
