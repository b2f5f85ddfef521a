package querying

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/layered-crud-samples/internal/notification"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// CustomerUseCase contém a lógica de negócio dos clientes
type CustomerUseCase struct {
	customers CustomerRepository
	orders    OrderRepository
	log       logrus.FieldLogger
}

// NewCustomerUseCase cria uma nova instância de CustomerUseCase
func NewCustomerUseCase(customers CustomerRepository, orders OrderRepository, log logrus.FieldLogger) *CustomerUseCase {
	return &CustomerUseCase{
		customers: customers,
		orders:    orders,
		log:       log,
	}
}

// GetAll lista uma página de clientes
func (uc *CustomerUseCase) GetAll(ctx context.Context, page repository.Page) (notification.Result[[]CustomerDto], bool, error) {
	customers, hasNext, err := uc.customers.List(ctx, page)
	if err != nil {
		return notification.Result[[]CustomerDto]{}, false, fmt.Errorf("failed to list customers: %w", err)
	}

	dtos := make([]CustomerDto, 0, len(customers))
	for _, c := range customers {
		dtos = append(dtos, toCustomerDto(c))
	}
	return notification.Ok(dtos), hasNext, nil
}

// Get busca um cliente
func (uc *CustomerUseCase) Get(ctx context.Context, id int64) (notification.Result[CustomerDto], error) {
	c, err := uc.customers.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return customerNotFound[CustomerDto](), nil
	}
	if err != nil {
		return notification.Result[CustomerDto]{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return notification.Ok(toCustomerDto(c)), nil
}

// Create valida e cria um cliente
func (uc *CustomerUseCase) Create(ctx context.Context, dto CustomerDto) (notification.Result[CustomerDto], error) {
	c := fromCustomerDto(dto)
	if errs := c.Validate(); !errs.Empty() {
		return notification.Fail[CustomerDto](errs...), nil
	}

	created, err := uc.customers.Insert(ctx, c)
	if err != nil {
		return notification.Result[CustomerDto]{}, fmt.Errorf("failed to create customer: %w", err)
	}
	uc.log.WithField("customer_id", created.ID).Info("✅ Customer created")
	return notification.Ok(toCustomerDto(created)), nil
}

// Update valida e altera um cliente
func (uc *CustomerUseCase) Update(ctx context.Context, id int64, dto CustomerDto) (notification.Result[CustomerDto], error) {
	c := fromCustomerDto(dto)
	c.ID = id
	if errs := c.Validate(); !errs.Empty() {
		return notification.Fail[CustomerDto](errs...), nil
	}

	updated, err := uc.customers.Update(ctx, c)
	if errors.Is(err, repository.ErrNotFound) {
		return customerNotFound[CustomerDto](), nil
	}
	if err != nil {
		return notification.Result[CustomerDto]{}, fmt.Errorf("failed to update customer: %w", err)
	}
	return notification.Ok(toCustomerDto(updated)), nil
}

// Delete remove o cliente e todos os seus pedidos
func (uc *CustomerUseCase) Delete(ctx context.Context, id int64) (notification.Result[struct{}], error) {
	err := uc.customers.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return customerNotFound[struct{}](), nil
	}
	if err != nil {
		return notification.Result[struct{}]{}, fmt.Errorf("failed to delete customer: %w", err)
	}
	uc.log.WithField("customer_id", id).Info("🗑️ Customer deleted with its orders")
	return notification.Ok(struct{}{}), nil
}

// GetOrders lista os pedidos de um cliente existente
func (uc *CustomerUseCase) GetOrders(ctx context.Context, customerID int64, page repository.Page) (notification.Result[[]OrderDto], bool, error) {
	if _, err := uc.customers.Get(ctx, customerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return customerNotFound[[]OrderDto](), false, nil
		}
		return notification.Result[[]OrderDto]{}, false, fmt.Errorf("failed to get customer: %w", err)
	}

	orders, hasNext, err := uc.orders.ListByCustomer(ctx, customerID, page)
	if err != nil {
		return notification.Result[[]OrderDto]{}, false, fmt.Errorf("failed to list customer orders: %w", err)
	}

	dtos := make([]OrderDto, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, toOrderDto(o))
	}
	return notification.Ok(dtos), hasNext, nil
}

// ProductUseCase contém a lógica de negócio dos produtos
type ProductUseCase struct {
	products ProductRepository
	log      logrus.FieldLogger
}

// NewProductUseCase cria uma nova instância de ProductUseCase
func NewProductUseCase(products ProductRepository, log logrus.FieldLogger) *ProductUseCase {
	return &ProductUseCase{
		products: products,
		log:      log,
	}
}

// GetAll lista uma página de produtos
func (uc *ProductUseCase) GetAll(ctx context.Context, page repository.Page) (notification.Result[[]ProductDto], bool, error) {
	products, hasNext, err := uc.products.List(ctx, page)
	if err != nil {
		return notification.Result[[]ProductDto]{}, false, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]ProductDto, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDto(p))
	}
	return notification.Ok(dtos), hasNext, nil
}

// Get busca um produto
func (uc *ProductUseCase) Get(ctx context.Context, id int64) (notification.Result[ProductDto], error) {
	p, err := uc.products.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notification.NotFound[ProductDto](CouldNotFindProduct, "Could not find product"), nil
	}
	if err != nil {
		return notification.Result[ProductDto]{}, fmt.Errorf("failed to get product: %w", err)
	}
	return notification.Ok(toProductDto(p)), nil
}

// Create valida e cria um produto
func (uc *ProductUseCase) Create(ctx context.Context, dto ProductDto) (notification.Result[ProductDto], error) {
	p := fromProductDto(dto)
	if errs := p.Validate(); !errs.Empty() {
		return notification.Fail[ProductDto](errs...), nil
	}

	created, err := uc.products.Insert(ctx, p)
	if err != nil {
		return notification.Result[ProductDto]{}, fmt.Errorf("failed to create product: %w", err)
	}
	uc.log.WithField("product_id", created.ID).Info("✅ Product created")
	return notification.Ok(toProductDto(created)), nil
}

// OrderUseCase contém a lógica de negócio dos pedidos
type OrderUseCase struct {
	orders    OrderRepository
	customers CustomerRepository
	products  ProductRepository
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewOrderUseCase cria uma nova instância de OrderUseCase
func NewOrderUseCase(orders OrderRepository, customers CustomerRepository, products ProductRepository, log logrus.FieldLogger) *OrderUseCase {
	return &OrderUseCase{
		orders:    orders,
		customers: customers,
		products:  products,
		log:       log,
		now:       time.Now,
	}
}

// Get busca o pedido com suas linhas
func (uc *OrderUseCase) Get(ctx context.Context, id int64) (notification.Result[OrderDto], error) {
	o, err := uc.orders.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return orderNotFound[OrderDto](), nil
	}
	if err != nil {
		return notification.Result[OrderDto]{}, fmt.Errorf("failed to get order: %w", err)
	}

	o.ProductOrders, err = uc.orders.LoadProductOrders(ctx, id)
	if err != nil {
		return notification.Result[OrderDto]{}, fmt.Errorf("failed to load order lines: %w", err)
	}
	return notification.Ok(toOrderDto(o)), nil
}

// Create valida cliente e produtos e grava o pedido com suas linhas.
// Linhas sem valor unitário usam o valor atual do produto.
func (uc *OrderUseCase) Create(ctx context.Context, dto OrderDto) (notification.Result[OrderDto], error) {
	o := fromOrderDto(dto)
	o.ID = 0

	result, err := uc.resolve(ctx, &o)
	if err != nil || !result.Success() {
		return result, err
	}
	if o.Date.IsZero() {
		o.Date = uc.now().UTC()
	}

	created, err := uc.orders.Insert(ctx, o)
	if err != nil {
		uc.log.WithError(err).Error("❌ Failed to create order")
		return notification.Result[OrderDto]{}, fmt.Errorf("failed to create order: %w", err)
	}

	entry := uc.log.WithFields(logrus.Fields{
		"order_id":    created.ID,
		"customer_id": created.CustomerID,
	})
	if !created.TotalValue.Equal(created.LinesTotal()) {
		entry.WithFields(logrus.Fields{
			"total_value": created.TotalValue.String(),
			"lines_total": created.LinesTotal().String(),
		}).Warn("⚠️ Order total differs from the sum of its lines")
	}
	entry.Info("✅ Order created")
	return notification.Ok(toOrderDto(created)), nil
}

// Update substitui o cabeçalho e todas as linhas de um pedido existente
func (uc *OrderUseCase) Update(ctx context.Context, id int64, dto OrderDto) (notification.Result[OrderDto], error) {
	if _, err := uc.orders.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return orderNotFound[OrderDto](), nil
		}
		return notification.Result[OrderDto]{}, fmt.Errorf("failed to get order: %w", err)
	}

	o := fromOrderDto(dto)
	o.ID = id

	result, err := uc.resolve(ctx, &o)
	if err != nil || !result.Success() {
		return result, err
	}
	if o.Date.IsZero() {
		o.Date = uc.now().UTC()
	}

	updated, err := uc.orders.Update(ctx, o)
	if errors.Is(err, repository.ErrNotFound) {
		return orderNotFound[OrderDto](), nil
	}
	if err != nil {
		return notification.Result[OrderDto]{}, fmt.Errorf("failed to update order: %w", err)
	}
	uc.log.WithField("order_id", id).Info("✅ Order updated")
	return notification.Ok(toOrderDto(updated)), nil
}

// Delete remove o pedido e suas linhas
func (uc *OrderUseCase) Delete(ctx context.Context, id int64) (notification.Result[struct{}], error) {
	err := uc.orders.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return orderNotFound[struct{}](), nil
	}
	if err != nil {
		return notification.Result[struct{}]{}, fmt.Errorf("failed to delete order: %w", err)
	}
	uc.log.WithField("order_id", id).Info("🗑️ Order deleted")
	return notification.Ok(struct{}{}), nil
}

// resolve valida o pedido contra o banco: o cliente e cada produto precisam
// existir. Mescla linhas do mesmo produto e preenche o valor unitário ausente
// com o valor do produto.
func (uc *OrderUseCase) resolve(ctx context.Context, o *Order) (notification.Result[OrderDto], error) {
	var r notification.Result[OrderDto]
	r.Notify(o.Validate()...)
	o.ProductOrders = MergeProductOrders(o.ProductOrders)
	o.TotalValue = o.TotalValue.Round(moneyScale)

	if _, err := uc.customers.Get(ctx, o.CustomerID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return r, fmt.Errorf("failed to check customer: %w", err)
		}
		r.Notify(notification.New(CouldNotFindCustomer, "Could not find customer"))
	}

	for i, line := range o.ProductOrders {
		p, err := uc.products.Get(ctx, line.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			r.Notify(notification.New(CouldNotFindProduct, fmt.Sprintf("Could not find product %d", line.ProductID)))
			continue
		}
		if err != nil {
			return r, fmt.Errorf("failed to check product: %w", err)
		}
		if line.UnitValue.IsZero() {
			o.ProductOrders[i].UnitValue = p.Value
		}
		o.ProductOrders[i].UnitValue = o.ProductOrders[i].UnitValue.Round(moneyScale)
	}
	return r, nil
}

func customerNotFound[T any]() notification.Result[T] {
	return notification.NotFound[T](CouldNotFindCustomer, "Could not find customer")
}

func orderNotFound[T any]() notification.Result[T] {
	return notification.NotFound[T](CouldNotFindOrder, "Could not find order")
}
