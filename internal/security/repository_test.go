package security

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/layered-crud-samples/internal/database"
	"github.com/matheusmosca/layered-crud-samples/internal/logging"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

func TestNewCustomerRepository(t *testing.T) {
	// Arrange
	var db *pgxpool.Pool

	// Act
	repo := NewCustomerRepository(db)

	// Assert
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgresCustomerRepository{}, repo)
}

func TestMigrations_Versions(t *testing.T) {
	versions, err := database.Versions(Migrations)

	require.NoError(t, err)
	assert.Equal(t, []uint{1}, versions)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, database.Migrate(context.Background(), sqlDB, Migrations, "security_schema_migrations", logging.Discard()))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), "TRUNCATE customers")
	require.NoError(t, err)
	return pool
}

func TestPostgresCustomerRepository_CRUD(t *testing.T) {
	pool := setupPostgres(t)
	repo := NewCustomerRepository(pool)
	ctx := context.Background()

	created, err := repo.Insert(ctx, Customer{Name: "Maria Silva"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = repo.Insert(ctx, Customer{Name: "João Souza"})
	require.NoError(t, err)

	found, hasNext, err := repo.Search(ctx, "silva", repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.False(t, hasNext)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	all, hasNext, err := repo.List(ctx, repository.NewPage(1, 1))
	require.NoError(t, err)
	assert.True(t, hasNext)
	assert.Len(t, all, 1)

	created.Name = "Maria Souza"
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", got.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), repository.ErrNotFound)

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Update(ctx, Customer{ID: uuid.New(), Name: "Ninguém"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
