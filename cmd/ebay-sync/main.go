package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sternrassler/ebay-access-client/internal/config"
	"github.com/Sternrassler/ebay-access-client/pkg/cache"
	"github.com/Sternrassler/ebay-access-client/pkg/logging"
	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/ratelimit"
	"github.com/Sternrassler/ebay-access-client/pkg/service"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
	"github.com/Sternrassler/ebay-access-client/pkg/transport/fixture"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logger)
	logger := logging.NewLogger("ebay-sync")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := setupTracing(ctx, cfg.Tracing)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to set up tracing")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("Tracing shutdown failed")
			}
		}()
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}

	svc, err := buildService(cfg, redisClient, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create service")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPServer.Port),
		Handler:           newRouter(svc, redisClient, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("account", cfg.Account.Name).
			Str("fixture", cfg.Fixture.Path).
			Msg("Starting ebay-sync server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// buildService wires the fixture transport behind the middleware chain.
// redisClient may be nil; the quota then stays local and the item cache
// keeps only its in-memory layer.
func buildService(cfg *config.Config, redisClient *redis.Client, logger zerolog.Logger) (*service.Service, error) {
	build := func(dev model.DevCredentials, user model.UserCredentials) (transport.Transport, transport.Authenticator, error) {
		base, err := fixture.Load(cfg.Fixture.Path)
		if err != nil {
			return nil, nil, err
		}

		var mw []transport.Middleware
		if cfg.Cache.Enabled {
			mgr := cache.NewManager(redisClient, cfg.CacheConfig())
			mw = append(mw, transport.WithItemCache(mgr, user.AccountName, logger))
		}
		if cfg.Retry.Enabled {
			mw = append(mw, transport.WithRetry(cfg.RetryPolicy(), logger))
		}
		tracker := ratelimit.NewTracker(redisClient, cfg.QuotaConfig(), logger)
		mw = append(mw, transport.WithRateLimit(tracker), transport.WithMetrics())

		return transport.Chain(base, mw...), fixture.NewAuthenticator(), nil
	}

	factory := service.NewFactory(model.DevCredentials{AppName: "ebay-sync"}, build, cfg.ServiceConfig())
	return factory.CreateService(model.UserCredentials{AccountName: cfg.Account.Name})
}
