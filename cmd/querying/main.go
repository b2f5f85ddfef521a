package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/layered-crud-samples/internal/config"
	"github.com/matheusmosca/layered-crud-samples/internal/database"
	"github.com/matheusmosca/layered-crud-samples/internal/logging"
	"github.com/matheusmosca/layered-crud-samples/internal/querying"
	"github.com/matheusmosca/layered-crud-samples/internal/server"
	"github.com/matheusmosca/layered-crud-samples/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load("querying-service", "querying_db")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat).WithField("service", cfg.ServiceName)

	// Initialize OpenTelemetry
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

	db, err := database.OpenSQL(ctx, cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(ctx, db.DB, querying.Migrations, "querying_schema_migrations", log); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Setup repositories and use cases
	customers := querying.NewCustomerRepository(db)
	products := querying.NewProductRepository(db)
	orders := querying.NewOrderRepository(db)

	handler := querying.NewHandler(
		querying.NewCustomerUseCase(customers, orders, log),
		querying.NewProductUseCase(products, log),
		querying.NewOrderUseCase(orders, customers, products, log),
		tp.Tracer(cfg.ServiceName),
		log,
	)

	r := server.NewEngine(cfg.ServiceName, telemetry.NewHTTPMetrics("querying"), log, db.PingContext)
	querying.RegisterRoutes(r.Group(cfg.BasePath), handler)

	if err := server.Run(ctx, cfg, r, log); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
