package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/DeafMist/apod-edge/internal/app"
	"github.com/DeafMist/apod-edge/internal/config"
	"github.com/DeafMist/apod-edge/internal/lambdaproxy"
	"github.com/DeafMist/apod-edge/internal/logger"
	"github.com/DeafMist/apod-edge/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadLambda()
	if err != nil {
		logger.New("lambda", "").Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	log := logger.New("lambda", cfg.Version)
	log.Info("service version", slog.String("version", cfg.Version))

	// No scrape endpoint in Lambda; collectors still feed the handler.
	m := metrics.New(nil)
	m.Init("lambda", cfg.Version, cfg.Environment)

	handler, err := app.NewHandler(cfg.Common, log, m)
	if err != nil {
		log.Error("init handler", slog.Any("err", err))
		os.Exit(1)
	}

	lambda.Start(lambdaproxy.New(handler).Handle)
}
