package security

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// DB é o subconjunto do pgxpool.Pool usado pelo repositório
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CustomerRepository define as operações de banco de dados de clientes
type CustomerRepository interface {
	repository.Repository[Customer, uuid.UUID]

	// Search lista clientes cujo nome contém o filtro
	Search(ctx context.Context, name string, page repository.Page) ([]Customer, bool, error)
}

// PostgresCustomerRepository implementa CustomerRepository usando PostgreSQL
type PostgresCustomerRepository struct {
	db DB
}

// NewCustomerRepository cria uma nova instância de PostgresCustomerRepository
func NewCustomerRepository(db DB) CustomerRepository {
	return &PostgresCustomerRepository{
		db: db,
	}
}

// Get busca um cliente pelo ID
func (r *PostgresCustomerRepository) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	var c Customer
	err := r.db.QueryRow(ctx, `SELECT id, name FROM customers WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, repository.ErrNotFound
	}
	if err != nil {
		return Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// List retorna uma página de clientes ordenados por nome
func (r *PostgresCustomerRepository) List(ctx context.Context, page repository.Page) ([]Customer, bool, error) {
	return r.Search(ctx, "", page)
}

// Search lista clientes filtrando por nome (case-insensitive)
func (r *PostgresCustomerRepository) Search(ctx context.Context, name string, page repository.Page) ([]Customer, bool, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name
		FROM customers
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`, name, page.Limit(), page.Offset())
	if err != nil {
		return nil, false, fmt.Errorf("failed to list customers: %w", err)
	}

	customers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Customer, error) {
		var c Customer
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to scan customers: %w", err)
	}

	customers, hasNext := repository.Trim(customers, page)
	return customers, hasNext, nil
}

// Insert cria um cliente com uma nova identidade
func (r *PostgresCustomerRepository) Insert(ctx context.Context, c Customer) (Customer, error) {
	c.ID = uuid.New()
	_, err := r.db.Exec(ctx, `INSERT INTO customers (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	if err != nil {
		return Customer{}, fmt.Errorf("failed to insert customer: %w", err)
	}
	return c, nil
}

// Update altera o nome de um cliente existente
func (r *PostgresCustomerRepository) Update(ctx context.Context, c Customer) (Customer, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name = $2, updated_at = NOW()
		WHERE id = $1
	`, c.ID, c.Name)
	if err != nil {
		return Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Customer{}, repository.ErrNotFound
	}
	return c, nil
}

// Delete remove um cliente
func (r *PostgresCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
