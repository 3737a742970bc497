package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/energybank/energy-bank/internal/api"
	"github.com/energybank/energy-bank/internal/core/domain"
	"github.com/energybank/energy-bank/internal/infrastructure/config"
	mongodb "github.com/energybank/energy-bank/internal/infrastructure/db/mongo"
	redisdb "github.com/energybank/energy-bank/internal/infrastructure/db/redis"
	"github.com/energybank/energy-bank/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	planRepo := mongodb.NewPlanRepository(db)
	txRepo := mongodb.NewTransactionRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := txRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("transaction index creation failed")
	}

	if err := planRepo.Seed(ctx, domain.SeedCatalog()); err != nil {
		log.Fatal().Err(err).Msg("plan catalog seeding failed")
	}

	if cfg.AdminEmail != "" {
		if err := userRepo.PromoteAdmin(ctx, cfg.AdminEmail); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				log.Warn().Str("email", cfg.AdminEmail).Msg("admin email not registered yet, skipping promotion")
			} else {
				log.Fatal().Err(err).Msg("admin promotion failed")
			}
		} else {
			log.Info().Str("email", cfg.AdminEmail).Msg("admin promoted")
		}
	}

	e := api.NewRouter(db, rdb, cfg.JWTSecret, cfg.TokenTTL, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
