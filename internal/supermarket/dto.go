package supermarket

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDto é uma linha do pedido na API
type ProductDto struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// PurchaseOrderDto é o contrato de entrada e saída da API
type PurchaseOrderDto struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customerId"`
	Discount   decimal.Decimal `json:"discount"`
	Products   []ProductDto    `json:"products"`
}

func toPurchaseOrderDto(po PurchaseOrder) PurchaseOrderDto {
	products := make([]ProductDto, 0, len(po.Lines))
	for _, l := range po.Lines {
		products = append(products, ProductDto{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return PurchaseOrderDto{
		ID:         po.ID,
		CustomerID: po.CustomerID,
		Discount:   po.Discount,
		Products:   products,
	}
}

func fromPurchaseOrderDto(dto PurchaseOrderDto) PurchaseOrder {
	lines := make([]PurchaseOrderProduct, 0, len(dto.Products))
	for _, p := range dto.Products {
		lines = append(lines, PurchaseOrderProduct{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return PurchaseOrder{
		ID:         dto.ID,
		CustomerID: dto.CustomerID,
		Discount:   dto.Discount,
		Lines:      lines,
	}
}
