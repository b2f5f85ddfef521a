// Package database opens the relational stores used by the scenarios and
// applies their schema migrations.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/layered-crud-samples/internal/config"
)

// retryDelay é o intervalo entre tentativas de conexão
var retryDelay = 1 * time.Second

// OpenPool cria o pool pgx e aguarda o banco ficar disponível
func OpenPool(ctx context.Context, cfg config.Database, log logrus.FieldLogger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure connection pool
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := waitFor(ctx, pool.Ping, cfg.ConnectRetries, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.WithField("database", cfg.Name).Info("✅ Connected to database with connection pool")
	return pool, nil
}

// OpenSQL abre uma conexão database/sql (lib/pq) envolvida pelo sqlx
func OpenSQL(ctx context.Context, cfg config.Database, log logrus.FieldLogger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := waitFor(ctx, db.PingContext, cfg.ConnectRetries, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.WithField("database", cfg.Name).Info("✅ Connected to database (database/sql)")
	return db, nil
}

// waitFor tenta o ping até o banco responder ou as tentativas acabarem
func waitFor(ctx context.Context, ping func(context.Context) error, attempts int, log logrus.FieldLogger) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = ping(ctx); err == nil {
			return nil
		}
		log.Infof("⏳ Waiting for database... (%d/%d)", i+1, attempts)

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-time.After(retryDelay):
		}
	}
	return fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
}
