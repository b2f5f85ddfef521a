package querying

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerDto é o contrato de clientes na API
type CustomerDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductDto é o contrato de produtos na API
type ProductDto struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
}

// ProductOrderDto é uma linha de pedido na API
type ProductOrderDto struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Amount    int             `json:"amount"`
	UnitValue decimal.Decimal `json:"unitValue"`
}

// OrderDto é o contrato de pedidos na API. LinesTotal é calculado na
// leitura e pode divergir de TotalValue.
type OrderDto struct {
	ID         int64             `json:"id"`
	CustomerID int64             `json:"customerId"`
	Date       time.Time         `json:"date"`
	TotalValue decimal.Decimal   `json:"totalValue"`
	LinesTotal decimal.Decimal   `json:"linesTotal"`
	Products   []ProductOrderDto `json:"products"`
}

func toCustomerDto(c Customer) CustomerDto {
	return CustomerDto{ID: c.ID, Name: c.Name}
}

func fromCustomerDto(dto CustomerDto) Customer {
	return Customer{ID: dto.ID, Name: dto.Name}
}

func toProductDto(p Product) ProductDto {
	return ProductDto{ID: p.ID, Description: p.Description, Value: p.Value}
}

func fromProductDto(dto ProductDto) Product {
	return Product{ID: dto.ID, Description: dto.Description, Value: dto.Value}
}

func toOrderDto(o Order) OrderDto {
	products := make([]ProductOrderDto, 0, len(o.ProductOrders))
	for _, po := range o.ProductOrders {
		products = append(products, ProductOrderDto{
			ID:        po.ID,
			ProductID: po.ProductID,
			Amount:    po.Amount,
			UnitValue: po.UnitValue,
		})
	}
	return OrderDto{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Date:       o.Date,
		TotalValue: o.TotalValue,
		LinesTotal: o.LinesTotal(),
		Products:   products,
	}
}

func fromOrderDto(dto OrderDto) Order {
	lines := make([]ProductOrder, 0, len(dto.Products))
	for _, p := range dto.Products {
		lines = append(lines, ProductOrder{
			ID:        p.ID,
			OrderID:   dto.ID,
			ProductID: p.ProductID,
			Amount:    p.Amount,
			UnitValue: p.UnitValue,
		})
	}
	return Order{
		ID:            dto.ID,
		CustomerID:    dto.CustomerID,
		Date:          dto.Date,
		TotalValue:    dto.TotalValue,
		ProductOrders: lines,
	}
}
