package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

// Migrate aplica as migrações embutidas em fsys (diretório "migrations")
// usando uma tabela de controle própria do cenário. O driver de migração usa
// uma conexão dedicada de db, devolvida ao final; db continua aberto.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, table string, log logrus.FieldLogger) error {
	src, err := iofs.New(fsys, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("failed to acquire migration connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: table})
	if err != nil {
		_ = conn.Close()
		_ = src.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		_ = src.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.WithFields(logrus.Fields{"source": srcErr, "database": dbErr}).Warn("⚠️ Failed to close migrator")
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.WithFields(logrus.Fields{"table": table, "version": version, "dirty": dirty}).Info("✅ Schema up to date")
	return nil
}

// MigratePool aplica as migrações usando uma conexão database/sql aberta
// sobre o pool pgx
func MigratePool(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, table string, log logrus.FieldLogger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return Migrate(ctx, db, fsys, table, log)
}

// Versions lista as versões disponíveis em fsys, em ordem
func Versions(fsys fs.FS) ([]uint, error) {
	src, err := iofs.New(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	defer src.Close()

	v, err := src.First()
	if err != nil {
		return nil, fmt.Errorf("no migrations found: %w", err)
	}

	versions := []uint{v}
	for {
		next, err := src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return versions, nil
		}
		if err != nil {
			return nil, err
		}
		versions = append(versions, next)
		v = next
	}
}
