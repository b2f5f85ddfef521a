package querying

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// CustomerRepository é o contrato de persistência de clientes
type CustomerRepository = repository.Repository[Customer, int64]

// ProductRepository é o contrato de persistência de produtos
type ProductRepository = repository.Repository[Product, int64]

// OrderRepository define as operações de banco de dados de pedidos
type OrderRepository interface {
	repository.Repository[Order, int64]

	// LoadProductOrders carrega as linhas de um pedido
	LoadProductOrders(ctx context.Context, orderID int64) ([]ProductOrder, error)

	// ListByCustomer lista os pedidos de um cliente
	ListByCustomer(ctx context.Context, customerID int64, page repository.Page) ([]Order, bool, error)
}

// SQLCustomerRepository implementa CustomerRepository usando sqlx
type SQLCustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository cria uma nova instância de SQLCustomerRepository
func NewCustomerRepository(db *sqlx.DB) *SQLCustomerRepository {
	return &SQLCustomerRepository{db: db}
}

// Get busca um cliente pelo ID
func (r *SQLCustomerRepository) Get(ctx context.Context, id int64) (Customer, error) {
	var c Customer
	err := r.db.GetContext(ctx, &c, `SELECT id, name FROM customers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, repository.ErrNotFound
	}
	if err != nil {
		return Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// List retorna uma página de clientes
func (r *SQLCustomerRepository) List(ctx context.Context, page repository.Page) ([]Customer, bool, error) {
	customers := []Customer{}
	err := r.db.SelectContext(ctx, &customers, `
		SELECT id, name
		FROM customers
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, false, fmt.Errorf("failed to list customers: %w", err)
	}

	customers, hasNext := repository.Trim(customers, page)
	return customers, hasNext, nil
}

// Insert cria um cliente
func (r *SQLCustomerRepository) Insert(ctx context.Context, c Customer) (Customer, error) {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO customers (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
	if err != nil {
		return Customer{}, fmt.Errorf("failed to insert customer: %w", err)
	}
	return c, nil
}

// Update altera um cliente existente
func (r *SQLCustomerRepository) Update(ctx context.Context, c Customer) (Customer, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE customers SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		return Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Delete remove o cliente, seus pedidos e as linhas dos pedidos, nessa ordem
func (r *SQLCustomerRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM product_orders
			WHERE order_id IN (SELECT id FROM orders WHERE customer_id = $1)
		`, id)
		if err != nil {
			return fmt.Errorf("failed to delete customer order lines: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE customer_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete customer orders: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		return expectAffected(res)
	})
}

// SQLProductRepository implementa ProductRepository usando sqlx
type SQLProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository cria uma nova instância de SQLProductRepository
func NewProductRepository(db *sqlx.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

// Get busca um produto pelo ID
func (r *SQLProductRepository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p, `SELECT id, description, value FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, repository.ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// List retorna uma página de produtos
func (r *SQLProductRepository) List(ctx context.Context, page repository.Page) ([]Product, bool, error) {
	products := []Product{}
	err := r.db.SelectContext(ctx, &products, `
		SELECT id, description, value
		FROM products
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, false, fmt.Errorf("failed to list products: %w", err)
	}

	products, hasNext := repository.Trim(products, page)
	return products, hasNext, nil
}

// Insert cria um produto
func (r *SQLProductRepository) Insert(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO products (description, value) VALUES ($1, $2) RETURNING id
	`, p.Description, p.Value).Scan(&p.ID)
	if err != nil {
		return Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

// Update altera um produto existente
func (r *SQLProductRepository) Update(ctx context.Context, p Product) (Product, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET description = $2, value = $3 WHERE id = $1
	`, p.ID, p.Description, p.Value)
	if err != nil {
		return Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Delete remove um produto; produtos referenciados por pedidos são mantidos
// pela chave estrangeira e o erro do banco é devolvido
func (r *SQLProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectAffected(res)
}

// SQLOrderRepository implementa OrderRepository usando sqlx
type SQLOrderRepository struct {
	db *sqlx.DB
}

var _ OrderRepository = (*SQLOrderRepository)(nil)

// NewOrderRepository cria uma nova instância de SQLOrderRepository
func NewOrderRepository(db *sqlx.DB) *SQLOrderRepository {
	return &SQLOrderRepository{db: db}
}

// Get busca o cabeçalho do pedido; as linhas são carregadas sob demanda
func (r *SQLOrderRepository) Get(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `
		SELECT id, customer_id, date, total_value FROM orders WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, repository.ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

// LoadProductOrders carrega as linhas de um pedido
func (r *SQLOrderRepository) LoadProductOrders(ctx context.Context, orderID int64) ([]ProductOrder, error) {
	lines := []ProductOrder{}
	err := r.db.SelectContext(ctx, &lines, `
		SELECT id, order_id, product_id, amount, unit_value
		FROM product_orders
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	return lines, nil
}

// List retorna uma página de pedidos
func (r *SQLOrderRepository) List(ctx context.Context, page repository.Page) ([]Order, bool, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT id, customer_id, date, total_value
		FROM orders
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, false, fmt.Errorf("failed to list orders: %w", err)
	}

	orders, hasNext := repository.Trim(orders, page)
	return orders, hasNext, nil
}

// ListByCustomer lista os pedidos de um cliente
func (r *SQLOrderRepository) ListByCustomer(ctx context.Context, customerID int64, page repository.Page) ([]Order, bool, error) {
	orders := []Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT id, customer_id, date, total_value
		FROM orders
		WHERE customer_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3
	`, customerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, false, fmt.Errorf("failed to list customer orders: %w", err)
	}

	orders, hasNext := repository.Trim(orders, page)
	return orders, hasNext, nil
}

// Insert grava o pedido e suas linhas na mesma transação
func (r *SQLOrderRepository) Insert(ctx context.Context, o Order) (Order, error) {
	o.ProductOrders = append([]ProductOrder(nil), o.ProductOrders...)

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO orders (customer_id, date, total_value)
			VALUES ($1, $2, $3)
			RETURNING id
		`, o.CustomerID, o.Date, o.TotalValue).Scan(&o.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		return insertLines(ctx, tx, o.ID, o.ProductOrders)
	})
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// Update altera o cabeçalho e substitui todas as linhas do pedido
func (r *SQLOrderRepository) Update(ctx context.Context, o Order) (Order, error) {
	o.ProductOrders = append([]ProductOrder(nil), o.ProductOrders...)

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE orders SET customer_id = $2, date = $3, total_value = $4 WHERE id = $1
		`, o.ID, o.CustomerID, o.Date, o.TotalValue)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if err := expectAffected(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM product_orders WHERE order_id = $1`, o.ID); err != nil {
			return fmt.Errorf("failed to clear order lines: %w", err)
		}
		return insertLines(ctx, tx, o.ID, o.ProductOrders)
	})
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// Delete remove as linhas e depois o pedido
func (r *SQLOrderRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_orders WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete order lines: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return expectAffected(res)
	})
}

func insertLines(ctx context.Context, tx *sqlx.Tx, orderID int64, lines []ProductOrder) error {
	for i := range lines {
		lines[i].OrderID = orderID
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO product_orders (order_id, product_id, amount, unit_value)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, orderID, lines[i].ProductID, lines[i].Amount, lines[i].UnitValue).Scan(&lines[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}
	return nil
}

// withTx executa fn em uma transação; qualquer erro desfaz tudo
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
