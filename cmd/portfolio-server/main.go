package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-portfolio/internal/logging"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/api"
	"github.com/tendant/simple-portfolio/pkg/portfolio/config"
	"github.com/tendant/simple-portfolio/pkg/portfolio/metrics"
)

// bodySlack is allowed on top of the media limit for form fields and
// multipart framing
const bodySlack = 1 << 20

func main() {
	// A missing .env file is fine; the process environment still applies
	_ = godotenv.Load()

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			logger.Error("JWT_SECRET is required in production")
			os.Exit(1)
		}
		logger.Warn("JWT_SECRET not set, write routes are unauthenticated")
	}

	ctx := context.Background()
	rec := metrics.New()
	comp, err := cfg.Build(ctx,
		portfolio.WithMetrics(rec),
		portfolio.WithLogger(logger),
	)
	if err != nil {
		logger.Error("Failed to build portfolio service", "err", err)
		os.Exit(1)
	}
	if err := comp.Service.Ping(ctx); err != nil {
		logger.Error("Database unreachable", "err", err)
		os.Exit(1)
	}

	apiConfig := api.Config{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxMediaBytes + bodySlack,
		Observer:       rec,
		Logger:         logger,
	}
	// S3 serves its own objects; every other store is served by this process
	if cfg.StorageType != "s3" {
		apiConfig.Files = comp.BlobStore
	}

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	server.R.Handle("/metrics", rec.Handler())
	server.R.Mount("/", api.NewRouter(comp.Service, apiConfig))

	logger.Info("portfolio server starting",
		"environment", cfg.Environment,
		"database", cfg.DatabaseType,
		"storage", cfg.StorageType,
		"auth", cfg.JWTSecret != "",
	)

	server.Run()
}
