package supermarket

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// DB é o subconjunto do pgxpool.Pool usado pelo repositório
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// querier é satisfeito tanto pelo pool quanto por uma pgx.Tx
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PurchaseOrderRepository implementa repository.Repository usando PostgreSQL
type PurchaseOrderRepository struct {
	db DB
}

var _ repository.Repository[PurchaseOrder, uuid.UUID] = (*PurchaseOrderRepository)(nil)

// NewPurchaseOrderRepository cria uma nova instância de PurchaseOrderRepository
func NewPurchaseOrderRepository(db DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{
		db: db,
	}
}

// Get busca o pedido com suas linhas
func (r *PurchaseOrderRepository) Get(ctx context.Context, id uuid.UUID) (PurchaseOrder, error) {
	var po PurchaseOrder
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id, discount
		FROM purchase_orders
		WHERE id = $1
	`, id).Scan(&po.ID, &po.CustomerID, &po.Discount)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, repository.ErrNotFound
	}
	if err != nil {
		return PurchaseOrder{}, fmt.Errorf("failed to get purchase order: %w", err)
	}

	lines, err := loadLines(ctx, r.db, po.ID, false)
	if err != nil {
		return PurchaseOrder{}, err
	}
	po.Lines = lines
	return po, nil
}

// List retorna uma página de pedidos com suas linhas
func (r *PurchaseOrderRepository) List(ctx context.Context, page repository.Page) ([]PurchaseOrder, bool, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, discount
		FROM purchase_orders
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, page.Limit(), page.Offset())
	if err != nil {
		return nil, false, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PurchaseOrder, error) {
		var po PurchaseOrder
		err := row.Scan(&po.ID, &po.CustomerID, &po.Discount)
		return po, err
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to scan purchase orders: %w", err)
	}

	orders, hasNext := repository.Trim(orders, page)
	for i := range orders {
		lines, err := loadLines(ctx, r.db, orders[i].ID, false)
		if err != nil {
			return nil, false, err
		}
		orders[i].Lines = lines
	}
	return orders, hasNext, nil
}

// Insert cria o pedido e suas linhas na mesma transação
func (r *PurchaseOrderRepository) Insert(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error) {
	po = clonePurchaseOrder(po)
	po.ID = uuid.New()
	po.Lines = MergeLines(po.Lines)

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO purchase_orders (id, customer_id, discount)
			VALUES ($1, $2, $3)
		`, po.ID, po.CustomerID, po.Discount)
		if err != nil {
			return fmt.Errorf("failed to insert purchase order: %w", err)
		}
		return upsertLines(ctx, tx, po.ID, po.Lines)
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	return po, nil
}

// Update altera o pedido e substitui o conjunto de linhas: produtos ausentes
// são removidos e os demais gravados
func (r *PurchaseOrderRepository) Update(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error) {
	po = clonePurchaseOrder(po)
	po.Lines = MergeLines(po.Lines)

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE purchase_orders
			SET customer_id = $2, discount = $3, updated_at = NOW()
			WHERE id = $1
		`, po.ID, po.CustomerID, po.Discount)
		if err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		existing, err := loadLines(ctx, tx, po.ID, true)
		if err != nil {
			return err
		}

		plan := planLineChanges(existing, po.Lines)
		if len(plan.Remove) > 0 {
			ids := make([]string, 0, len(plan.Remove))
			for _, id := range plan.Remove {
				ids = append(ids, id.String())
			}
			_, err := tx.Exec(ctx, `
				DELETE FROM purchase_order_products
				WHERE purchase_order_id = $1 AND product_id = ANY($2::uuid[])
			`, po.ID, ids)
			if err != nil {
				return fmt.Errorf("failed to remove purchase order lines: %w", err)
			}
		}
		return upsertLines(ctx, tx, po.ID, plan.Upsert)
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	return po, nil
}

// Delete remove as linhas e depois o pedido
func (r *PurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM purchase_order_products WHERE purchase_order_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete purchase order lines: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete purchase order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// withTx executa fn em uma transação; qualquer erro desfaz tudo
func (r *PurchaseOrderRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func loadLines(ctx context.Context, q querier, purchaseOrderID uuid.UUID, forUpdate bool) ([]PurchaseOrderProduct, error) {
	query := `
		SELECT product_id, quantity
		FROM purchase_order_products
		WHERE purchase_order_id = $1
		ORDER BY product_id
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, err := q.Query(ctx, query, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase order lines: %w", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PurchaseOrderProduct, error) {
		var l PurchaseOrderProduct
		err := row.Scan(&l.ProductID, &l.Quantity)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan purchase order lines: %w", err)
	}
	return lines, nil
}

func upsertLines(ctx context.Context, tx pgx.Tx, purchaseOrderID uuid.UUID, lines []PurchaseOrderProduct) error {
	if len(lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO purchase_order_products (purchase_order_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (purchase_order_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
		`, purchaseOrderID, l.ProductID, l.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to write purchase order lines: %w", err)
	}
	return nil
}
