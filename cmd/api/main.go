package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sepsisai/clinical-api/config"
	"github.com/sepsisai/clinical-api/internal/handler"
	assessmentHandler "github.com/sepsisai/clinical-api/internal/handler/assessment"
	authHandler "github.com/sepsisai/clinical-api/internal/handler/auth"
	"github.com/sepsisai/clinical-api/internal/middleware"
	"github.com/sepsisai/clinical-api/internal/repository"
	"github.com/sepsisai/clinical-api/internal/repository/kv"
	"github.com/sepsisai/clinical-api/internal/repository/memory"
	"github.com/sepsisai/clinical-api/internal/repository/postgres"
	redisrepo "github.com/sepsisai/clinical-api/internal/repository/redis"
	"github.com/sepsisai/clinical-api/internal/router"
	assessmentService "github.com/sepsisai/clinical-api/internal/service/assessment"
	authService "github.com/sepsisai/clinical-api/internal/service/auth"
	recommendationService "github.com/sepsisai/clinical-api/internal/service/recommendation"
	"github.com/sepsisai/clinical-api/internal/service/report"
	"github.com/sepsisai/clinical-api/pkg/auth"
	"github.com/sepsisai/clinical-api/pkg/gemini"
	"github.com/sepsisai/clinical-api/pkg/logger"
	"github.com/sepsisai/clinical-api/pkg/messaging"
	redisbroker "github.com/sepsisai/clinical-api/pkg/messaging/redis"
	"github.com/sepsisai/clinical-api/pkg/metrics"
)

func main() {
	log.Logger = *logger.NewLogger(nil).Zerolog()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	m := metrics.NewMetrics("sepsisai", "api")

	store, cleanup, err := buildKVStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage backend")
	}
	defer cleanup()
	store = repository.NewInstrumentedKV(store, m)

	userRepo := kv.NewUserStore(store)
	recordRepo := kv.NewRecordStore(store)

	// The broker is optional; without Redis the API still works, it
	// just cannot fan out sepsis alerts.
	var broker messaging.Broker
	if cfg.Alerts.Enabled {
		broker, err = redisbroker.NewRedisBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis broker")
		}
		defer broker.Close()
	}

	var remote recommendationService.RemoteGenerator
	if cfg.Gemini.APIKey != "" {
		remote = gemini.NewClient(cfg.Gemini, &log.Logger)
	} else {
		log.Warn().Msg("no generation API key configured, recommendations will be built locally")
	}

	jwtSvc := auth.NewJWTService(cfg.JWT.ToAuthConfig())
	authSvc := authService.NewService(userRepo, jwtSvc)
	assessmentSvc := assessmentService.NewService(recordRepo, broker, m)
	recommendationSvc := recommendationService.NewService(remote, cfg.Gemini.Timeout, m)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	h := handler.NewHandler(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _, err := store.Get(ctx, repository.CurrentUserKey)
		return err
	})
	authH := authHandler.NewHandler(authSvc)
	assessmentH := assessmentHandler.NewHandler(assessmentSvc, recommendationSvc, report.NewFormatter())

	rateRPS := 0.0
	if cfg.RateLimit.Enabled {
		rateRPS = cfg.RateLimit.RequestsPerSecond
	}

	r := router.NewRouter(authMiddleware, authH, assessmentH, h, router.Config{
		RateLimitRPS:  rateRPS,
		RateBurst:     cfg.RateLimit.Burst,
		CORSConfig:    cfg.CORS.ToMiddlewareConfig(),
		MetricsPrefix: "sepsisai_http",
		Timeout:       cfg.Server.RequestTimeout,
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("storage", cfg.Storage.Backend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func buildKVStore(cfg *config.Config) (repository.KVStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		store, err := redisrepo.NewKVStore(cfg.Redis.ToStoreConfig())
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case config.BackendPostgres:
		db, err := postgres.NewDB(cfg.Database.ToRepositoryConfig())
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewKVStore(db), func() { db.Close() }, nil

	default:
		return memory.NewKVStore(), func() {}, nil
	}
}
