// Package querying implements the customers, products and orders sample on
// database/sql (lib/pq) through sqlx.
package querying

import (
	"embed"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/matheusmosca/layered-crud-samples/internal/notification"
)

// Migrations contém o schema do cenário
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Códigos de notificação do cenário
const (
	CustomerNameMustHaveValue        = "CustomerNameMustHaveValue"
	CouldNotFindCustomer             = "CouldNotFindCustomer"
	ProductDescriptionMustHaveValue  = "ProductDescriptionMustHaveValue"
	ProductValueMustBePositive       = "ProductValueMustBePositive"
	CouldNotFindProduct              = "CouldNotFindProduct"
	OrderMustHaveProducts            = "OrderMustHaveProducts"
	OrderProductAmountMustBePositive = "OrderProductAmountMustBePositive"
	CouldNotFindOrder                = "CouldNotFindOrder"
)

// Customer representa um cliente
type Customer struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Validate aplica as regras de escrita
func (c Customer) Validate() notification.Set {
	var errs notification.Set
	errs.AddIf(strings.TrimSpace(c.Name) == "", CustomerNameMustHaveValue, "Customer name must have value")
	return errs
}

// Product representa um produto do catálogo
type Product struct {
	ID          int64           `db:"id"`
	Description string          `db:"description"`
	Value       decimal.Decimal `db:"value"`
}

// Validate aplica as regras de escrita
func (p Product) Validate() notification.Set {
	var errs notification.Set
	errs.AddIf(strings.TrimSpace(p.Description) == "", ProductDescriptionMustHaveValue, "Product description must have value")
	errs.AddIf(!p.Value.IsPositive(), ProductValueMustBePositive, "Product value must be positive")
	return errs
}

// ProductOrder é uma linha do pedido
type ProductOrder struct {
	ID        int64           `db:"id"`
	OrderID   int64           `db:"order_id"`
	ProductID int64           `db:"product_id"`
	Amount    int             `db:"amount"`
	UnitValue decimal.Decimal `db:"unit_value"`
}

// moneyScale é a escala das colunas NUMERIC(18, 2)
const moneyScale = 2

// Total retorna quantidade × valor unitário
func (po ProductOrder) Total() decimal.Decimal {
	return po.UnitValue.Mul(decimal.NewFromInt(int64(po.Amount)))
}

// Order representa um pedido de um cliente. TotalValue é gravado como
// informado; LinesTotal calcula a soma das linhas carregadas.
type Order struct {
	ID            int64           `db:"id"`
	CustomerID    int64           `db:"customer_id"`
	Date          time.Time       `db:"date"`
	TotalValue    decimal.Decimal `db:"total_value"`
	ProductOrders []ProductOrder  `db:"-"`
}

// LinesTotal soma o total das linhas
func (o Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, po := range o.ProductOrders {
		total = total.Add(po.Total())
	}
	return total
}

// Validate aplica as regras de escrita que não dependem do banco
func (o Order) Validate() notification.Set {
	var errs notification.Set
	errs.AddIf(len(o.ProductOrders) == 0, OrderMustHaveProducts, "Order must have products")
	for _, po := range o.ProductOrders {
		if po.Amount <= 0 {
			errs.Add(OrderProductAmountMustBePositive, "Order product amount must be positive")
			break
		}
	}
	return errs
}

// MergeProductOrders soma as quantidades de linhas repetidas do mesmo produto,
// mantendo a ordem e o valor unitário da primeira ocorrência que o informar
func MergeProductOrders(lines []ProductOrder) []ProductOrder {
	merged := make([]ProductOrder, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			merged[i].Amount += l.Amount
			if merged[i].UnitValue.IsZero() {
				merged[i].UnitValue = l.UnitValue
			}
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}
