// Package supermarket implements the sales back-office purchase orders on a
// pgx connection pool. A purchase order owns its product lines; updates
// replace the whole set.
package supermarket

import (
	"embed"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matheusmosca/layered-crud-samples/internal/notification"
)

// Migrations contém o schema do cenário
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Códigos de notificação do cenário
const (
	PurchaseOrderCustomerMustHaveValue         = "PurchaseOrderCustomerMustHaveValue"
	PurchaseOrderDiscountMustBePositive        = "PurchaseOrderDiscountMustBePositive"
	PurchaseOrderMustHaveProducts              = "PurchaseOrderMustHaveProducts"
	PurchaseOrderProductMustHaveValue          = "PurchaseOrderProductMustHaveValue"
	PurchaseOrderProductQuantityMustBePositive = "PurchaseOrderProductQuantityMustBePositive"
	CouldNotFindPurchaseOrder                  = "CouldNotFindPurchaseOrder"
)

// moneyScale é a escala das colunas NUMERIC(18, 2)
const moneyScale = 2

// PurchaseOrderProduct é uma linha do pedido
type PurchaseOrderProduct struct {
	ProductID uuid.UUID
	Quantity  int
}

// PurchaseOrder representa um pedido de compra
type PurchaseOrder struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Discount   decimal.Decimal
	Lines      []PurchaseOrderProduct
}

// Validate aplica as regras de escrita
func (po PurchaseOrder) Validate() notification.Set {
	var errs notification.Set
	errs.AddIf(po.CustomerID == uuid.Nil, PurchaseOrderCustomerMustHaveValue, "Purchase order customer must have value")
	errs.AddIf(po.Discount.IsNegative(), PurchaseOrderDiscountMustBePositive, "Purchase order discount must be positive")
	errs.AddIf(len(po.Lines) == 0, PurchaseOrderMustHaveProducts, "Purchase order must have products")

	for _, l := range po.Lines {
		if l.ProductID == uuid.Nil {
			errs.Add(PurchaseOrderProductMustHaveValue, "Purchase order product must have value")
		}
		if l.Quantity <= 0 {
			errs.Add(PurchaseOrderProductQuantityMustBePositive, "Purchase order product quantity must be positive")
		}
	}
	return errs
}

// MergeLines soma as quantidades de linhas repetidas do mesmo produto,
// mantendo a ordem da primeira ocorrência
func MergeLines(lines []PurchaseOrderProduct) []PurchaseOrderProduct {
	merged := make([]PurchaseOrderProduct, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}

// lineChanges descreve como levar as linhas gravadas ao novo conjunto
type lineChanges struct {
	Remove []uuid.UUID
	Upsert []PurchaseOrderProduct
}

// planLineChanges compara as linhas gravadas com as desejadas (já mescladas):
// produtos ausentes são removidos e linhas novas ou alteradas são gravadas
func planLineChanges(existing, desired []PurchaseOrderProduct) lineChanges {
	current := make(map[uuid.UUID]int, len(existing))
	for _, l := range existing {
		current[l.ProductID] = l.Quantity
	}

	var plan lineChanges
	keep := make(map[uuid.UUID]struct{}, len(desired))
	for _, l := range desired {
		keep[l.ProductID] = struct{}{}
		if qty, ok := current[l.ProductID]; ok && qty == l.Quantity {
			continue
		}
		plan.Upsert = append(plan.Upsert, l)
	}
	for _, l := range existing {
		if _, ok := keep[l.ProductID]; !ok {
			plan.Remove = append(plan.Remove, l.ProductID)
		}
	}
	return plan
}

func clonePurchaseOrder(po PurchaseOrder) PurchaseOrder {
	po.Lines = append([]PurchaseOrderProduct(nil), po.Lines...)
	return po
}
