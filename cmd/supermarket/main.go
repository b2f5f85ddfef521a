package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/layered-crud-samples/internal/config"
	"github.com/matheusmosca/layered-crud-samples/internal/database"
	"github.com/matheusmosca/layered-crud-samples/internal/logging"
	"github.com/matheusmosca/layered-crud-samples/internal/server"
	"github.com/matheusmosca/layered-crud-samples/internal/supermarket"
	"github.com/matheusmosca/layered-crud-samples/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load("supermarket-service", "supermarket_db")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat).WithField("service", cfg.ServiceName)

	tp, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Endpoint:       cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Error("Error shutting down telemetry")
		}
	}()

	var (
		repo   supermarket.Repository
		checks []server.HealthCheck
	)
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("⚠️ Using in-memory purchase orders store")
		repo = supermarket.NewMemoryRepository()
	default:
		pool, err := database.OpenPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer pool.Close()

		if cfg.Database.MigrateOnStart {
			if err := database.MigratePool(ctx, pool, supermarket.Migrations, "supermarket_schema_migrations", log); err != nil {
				log.Fatalf("Failed to migrate database: %v", err)
			}
		}
		repo = supermarket.NewPurchaseOrderRepository(pool)
		checks = append(checks, pool.Ping)
	}

	useCase := supermarket.NewPurchaseOrderUseCase(repo, log)
	handler := supermarket.NewPurchaseOrderHandler(useCase, tp.Tracer(cfg.ServiceName), log)

	r := server.NewEngine(cfg.ServiceName, telemetry.NewHTTPMetrics("supermarket"), log, checks...)
	supermarket.RegisterRoutes(r.Group(cfg.BasePath), handler)

	if err := server.Run(ctx, cfg, r, log); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
