package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/sepsisai/clinical-api/config"
	"github.com/sepsisai/clinical-api/internal/email"
	"github.com/sepsisai/clinical-api/internal/model"
	"github.com/sepsisai/clinical-api/internal/service/notification"
	"github.com/sepsisai/clinical-api/pkg/logger"
	"github.com/sepsisai/clinical-api/pkg/messaging"
	redisbroker "github.com/sepsisai/clinical-api/pkg/messaging/redis"
)

// The alert worker subscribes to the sepsis alert channel and mails
// the configured on-call recipients. It runs separately from the API
// so slow SMTP delivery never sits on the request path.
func main() {
	log.Logger = *logger.NewLogger(nil).Zerolog()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
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

	mailer := email.NewSMTPService(cfg.SMTP)
	notifier := notification.NewService(mailer, cfg.Alerts.Recipients)

	setupHealthCheck()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutting down...")
		cancel()
	}()

	msgs, err := broker.Subscribe(ctx, messaging.ChannelSepsisAlerts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe to alert channel")
	}

	log.Info().
		Str("channel", messaging.ChannelSepsisAlerts).
		Int("recipients", len(cfg.Alerts.Recipients)).
		Msg("alert worker started")

	for payload := range msgs {
		var alert model.SepsisAlert
		if err := json.Unmarshal(payload, &alert); err != nil {
			log.Error().Err(err).Msg("discarding undecodable alert payload")
			continue
		}
		if err := notifier.Notify(ctx, &alert); err != nil {
			log.Error().Err(err).Str("assessment_id", alert.AssessmentID).Msg("alert delivery incomplete")
		}
	}

	log.Info().Msg("alert worker stopped")
}

func setupHealthCheck() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			log.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
}
