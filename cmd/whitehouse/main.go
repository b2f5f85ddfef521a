package main

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/layered-crud-samples/internal/config"
	"github.com/matheusmosca/layered-crud-samples/internal/logging"
	"github.com/matheusmosca/layered-crud-samples/internal/server"
	"github.com/matheusmosca/layered-crud-samples/internal/telemetry"
	"github.com/matheusmosca/layered-crud-samples/internal/whitehouse"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load("whitehouse-service", "")
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
		client *redis.Client
		checks []server.HealthCheck
	)
	if cfg.StoreDriver == whitehouse.DriverRedis {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse redis url: %v", err)
		}
		client = redis.NewClient(opts)
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		log.Info("✅ Connected to redis")
		checks = append(checks, func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}

	var cmdable redis.Cmdable
	if client != nil {
		cmdable = client
	}
	store, err := whitehouse.NewStore(ctx, cfg.StoreDriver, cmdable)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	useCase := whitehouse.NewPresidentUseCase(store, log)
	handler := whitehouse.NewHandler(useCase, tp.Tracer(cfg.ServiceName), log)

	r := server.NewEngine(cfg.ServiceName, telemetry.NewHTTPMetrics("whitehouse"), log, checks...)
	whitehouse.RegisterRoutes(r.Group(cfg.BasePath), handler)

	if err := server.Run(ctx, cfg, r, log); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
