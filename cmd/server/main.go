// @title                       Shifts API
// @version                     1.0
// @description                 Track work shifts per user: signup, token sessions and owner-scoped shift records.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	_ "github.com/buscaroli/shifts-api/docs"
	"github.com/buscaroli/shifts-api/internal/api"
	"github.com/buscaroli/shifts-api/internal/core/service"
	"github.com/buscaroli/shifts-api/internal/infrastructure/db/mongo"
	"github.com/buscaroli/shifts-api/internal/infrastructure/db/redis"
	"github.com/buscaroli/shifts-api/internal/infrastructure/http/handlers"
	"github.com/buscaroli/shifts-api/internal/infrastructure/security"
	"github.com/buscaroli/shifts-api/internal/pkg/config"
	"github.com/buscaroli/shifts-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "shifts-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	users := mongo.NewUserRepository(db)
	shifts := mongo.NewShiftRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, shifts); err != nil {
		return err
	}
	checks := []handlers.Check{handlers.MongoCheck(db)}

	// Redis only backs Idempotency-Key; without it shifts are created normally.
	var idempotency service.IdempotencyStore
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, Idempotency-Key disabled")
	} else {
		defer rdb.Close()
		idempotency = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		checks = append(checks, handlers.RedisCheck(rdb))
	}

	// --- Security ---
	tokens, err := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)

	// --- Services ---
	accounts := service.NewAccountService(users, shifts, hasher, tokens, log.With().Str("component", "accounts").Logger())
	gate := service.NewAuthGate(users, tokens, log.With().Str("component", "auth").Logger())
	shiftService := service.NewShiftService(shifts, idempotency, log.With().Str("component", "shifts").Logger())

	e := api.NewRouter(api.Deps{
		Accounts:  accounts,
		Shifts:    shiftService,
		Gate:      gate,
		Readiness: handlers.NewReadinessHandler(checks...),
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
