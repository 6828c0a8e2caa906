// Command gateway runs the E-Storefront GraphQL gateway: a single GraphQL
// endpoint in front of the auth, product, order, category and coupon
// services, plus health aggregation and seed endpoints.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/3a-softwares/E-Storefront-Services/client"
	"github.com/3a-softwares/E-Storefront-Services/config"
	"github.com/3a-softwares/E-Storefront-Services/graphql"
	"github.com/3a-softwares/E-Storefront-Services/health"
	"github.com/3a-softwares/E-Storefront-Services/metric"
	"github.com/3a-softwares/E-Storefront-Services/seed"
	"github.com/3a-softwares/E-Storefront-Services/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("gateway exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	registry := metric.NewRegistry()

	mustClient := func(name string) *client.Client {
		ep, _ := cfg.Services.Lookup(name)
		return client.New(ep, cfg.ClientTimeout(), logger, registry.Metrics)
	}
	resolver := graphql.NewResolver(graphql.Clients{
		Auth:     mustClient("auth"),
		Product:  mustClient("product"),
		Order:    mustClient("order"),
		Category: mustClient("category"),
		Coupon:   mustClient("coupon"),
	}, logger)

	checker := health.NewChecker(cfg.Services, cfg.HealthTimeout(), logger, registry.Metrics)
	seeder := seed.New(cfg.MongoURI, cfg.SeedDatabase, logger)

	srv, err := server.New(cfg, graphql.NewEngine(resolver), checker, seeder, registry, logger)
	if err != nil {
		return err
	}
	if err := srv.Setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ready := make(chan struct{})
	go func() {
		<-ready
		logger.Info("gateway ready",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"playground", cfg.EnablePlayground)
	}()

	if err := srv.Start(ctx, ready); err != nil {
		return err
	}
	return srv.Stop(30 * time.Second)
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
