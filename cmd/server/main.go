// @title        Atelier Marketplace API
// @version      1.0
// @description  Authentication and account management for the garment marketplace.
// @BasePath     /api/v1
//
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
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/atelier/marketplace-api/docs"
	"github.com/atelier/marketplace-api/internal/api"
	"github.com/atelier/marketplace-api/internal/api/handler"
	"github.com/atelier/marketplace-api/internal/api/middleware"
	"github.com/atelier/marketplace-api/internal/core/domain"
	"github.com/atelier/marketplace-api/internal/core/ports"
	"github.com/atelier/marketplace-api/internal/core/security"
	"github.com/atelier/marketplace-api/internal/core/service"
	"github.com/atelier/marketplace-api/internal/infrastructure/config"
	"github.com/atelier/marketplace-api/internal/infrastructure/db/mongo"
	"github.com/atelier/marketplace-api/internal/infrastructure/db/postgres"
	"github.com/atelier/marketplace-api/internal/infrastructure/db/redis"
	"github.com/atelier/marketplace-api/internal/infrastructure/queue"
	"github.com/atelier/marketplace-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		l := logger.Get()
		l.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; emit the failure in JSON anyway.
		log := logger.Init(logger.Options{Service: "marketplace-api"})
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			log.Error().Str("field", cfgErr.Field).Msg(cfgErr.Reason)
		}
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace-api",
		Env:     cfg.Env,
	})

	hasher, err := security.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	codec, err := security.NewTokenCodec(cfg.Auth.SecretKey, cfg.TokenTTL())
	if err != nil {
		return err
	}

	users, activityRepo, health, closeStore, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var limiter middleware.Limiter
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
	} else {
		defer rdb.Close()
		limiter = redis.NewLoginLimiter(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, activityRepo, logger.Component("activity"))
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	auth, err := service.NewAuthService(users, hasher, codec, dispatcher, logger.Component("auth"))
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Auth:     auth,
		Users:    service.NewUserService(users, hasher, dispatcher, logger.Component("users")),
		Resolver: service.NewPrincipalResolver(codec, users, logger.Component("resolver")),
		Limiter:  limiter,
		Health:   health,
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.UserStore).Msg("server starting")
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

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server exited")
	return nil
}

// openStores connects the configured user store and picks the matching
// activity sink. The returned close func releases the connection.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (
	ports.UserRepository, ports.ActivityRepository, map[string]handler.PingFunc, func(), error,
) {
	health := map[string]handler.PingFunc{}

	switch cfg.UserStore {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, nil, err
		}
		health["postgres"] = pool.Ping
		activity := queue.NewLogActivityRepository(logger.Component("activity"))
		return postgres.NewUserRepository(pool), activity, health, pool.Close, nil

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, nil, err
		}
		users := mongo.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, nil, nil, err
		}
		health["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}
		return users, mongo.NewActivityRepository(db), health, closeFn, nil
	}
}
