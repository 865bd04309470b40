package main

import (
	"adsstudio/internal/delivery"
	"adsstudio/internal/infrastructure"
	"adsstudio/internal/usecase"
	"adsstudio/pkg/config"
	"adsstudio/pkg/logger"
	"adsstudio/pkg/metrics"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	m := metrics.New(prometheus.DefaultRegisterer)

	client := infrastructure.NewHTTPClient(infrastructure.HTTPClientOptions{
		Timeout:            cfg.Generation.RequestTimeout,
		SinkURL:            cfg.Generation.SinkURL,
		SinkSecret:         cfg.Generation.SinkSecret,
		RateLimitPerSecond: cfg.Generation.RateLimitPerSecond,
		RateLimitBurst:     cfg.Generation.RateLimitBurst,
	}, log, m)

	submissions := usecase.NewSubmissionService(client, cfg.Generation.APIBase, log, m)
	studio := usecase.NewStudioService(
		infrastructure.NewSessionRepository(log),
		submissions,
		client,
		infrastructure.NewImageEncoder(cfg.Studio.MaxImageBytes),
		log,
		m,
	)

	handlers := delivery.NewHTTPHandlers(studio, log)
	router := delivery.NewHTTPRouter(handlers, log, m, prometheus.DefaultGatherer, cfg.Server.HandlerTimeout).SetupRoutes()

	log.WithFields(map[string]any{
		"port":     cfg.Server.Port,
		"endpoint": submissions.Endpoint(),
	}).Info("Starting server")

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Error("Server stopped")
		os.Exit(1)
	}
}
