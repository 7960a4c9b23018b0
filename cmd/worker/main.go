package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sharvarianand/tasktuner/adapter/cli"
	"github.com/sharvarianand/tasktuner/internal/productivity/application/subscribers"
	"github.com/sharvarianand/tasktuner/internal/shared/infrastructure/eventbus"
	"github.com/sharvarianand/tasktuner/pkg/config"
	"github.com/sharvarianand/tasktuner/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger := observability.LoggerFromEnv()
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfigFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version))
	logger.Info("starting tasktuner worker", "queue", cfg.EventQueue)

	if cfg.RabbitMQURL == "" {
		logger.Error("RABBITMQ_URL is required for the worker")
		os.Exit(1)
	}

	metrics := observability.NewPrometheusMetrics()

	registry := eventbus.NewConsumerRegistry(logger)
	registry.Register(subscribers.NewRankingSubscriber(metrics, logger))

	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:   cfg.RabbitMQURL,
		Queue: cfg.EventQueue,
	}, registry, metrics, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	health := observability.NewHealthRegistry()
	health.Register("rabbitmq", observability.RabbitMQHealthChecker(consumer.Ping))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		overall := health.GetOverallHealth(r.Context())
		status := http.StatusOK
		if overall.Status == observability.HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(overall)
	})
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              cfg.WorkerAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("worker endpoint listening", "addr", cfg.WorkerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker endpoint failed", "error", err)
			stop()
		}
	}()

	runErr := consumer.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down worker endpoint", "error", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("consumer stopped", "error", runErr)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
