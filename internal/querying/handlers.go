package querying

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/layered-crud-samples/internal/envelope"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// Handler contém os handlers HTTP de clientes, produtos e pedidos
type Handler struct {
	customers *CustomerUseCase
	products  *ProductUseCase
	orders    *OrderUseCase
	tracer    trace.Tracer
	log       logrus.FieldLogger
}

// NewHandler cria uma nova instância de Handler
func NewHandler(customers *CustomerUseCase, products *ProductUseCase, orders *OrderUseCase, tracer trace.Tracer, log logrus.FieldLogger) *Handler {
	return &Handler{
		customers: customers,
		products:  products,
		orders:    orders,
		tracer:    tracer,
		log:       log,
	}
}

// RegisterRoutes monta /customers, /products e /orders no grupo informado
func RegisterRoutes(r gin.IRouter, h *Handler) {
	customers := r.Group("/customers")
	customers.GET("", h.GetCustomers)
	customers.GET("/:id", h.GetCustomer)
	customers.GET("/:id/orders", h.GetCustomerOrders)
	customers.POST("", h.CreateCustomer)
	customers.PUT("/:id", h.UpdateCustomer)
	customers.DELETE("/:id", h.DeleteCustomer)

	products := r.Group("/products")
	products.GET("", h.GetProducts)
	products.GET("/:id", h.GetProduct)
	products.POST("", h.CreateProduct)

	orders := r.Group("/orders")
	orders.GET("/:id", h.GetOrder)
	orders.POST("", h.CreateOrder)
	orders.PUT("/:id", h.UpdateOrder)
	orders.DELETE("/:id", h.DeleteOrder)
}

// GetCustomers lista clientes paginados
func (h *Handler) GetCustomers(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.get_all")
	defer span.End()

	result, hasNext, err := h.customers.GetAll(ctx, queryPage(c))
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Paged(c, result, hasNext)
}

// GetCustomer busca um cliente
func (h *Handler) GetCustomer(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.get")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("customer_id", id))

	result, err := h.customers.Get(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Get(c, result)
}

// GetCustomerOrders lista os pedidos de um cliente
func (h *Handler) GetCustomerOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.get_orders")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("customer_id", id))

	result, hasNext, err := h.customers.GetOrders(ctx, id, queryPage(c))
	if err != nil {
		h.fault(c, span, err)
		return
	}
	if result.NotFound() {
		envelope.Write(c, result)
		return
	}
	envelope.Paged(c, result, hasNext)
}

// CreateCustomer cria um cliente
func (h *Handler) CreateCustomer(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.create")
	defer span.End()

	var dto CustomerDto
	if !envelope.Bind(c, &dto, "customer") {
		return
	}

	result, err := h.customers.Create(ctx, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// UpdateCustomer altera um cliente
func (h *Handler) UpdateCustomer(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.update")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("customer_id", id))

	var dto CustomerDto
	if !envelope.Bind(c, &dto, "customer") {
		return
	}

	result, err := h.customers.Update(ctx, id, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// DeleteCustomer remove um cliente e seus pedidos
func (h *Handler) DeleteCustomer(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.delete")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("customer_id", id))

	result, err := h.customers.Delete(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// GetProducts lista produtos paginados
func (h *Handler) GetProducts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "products.get_all")
	defer span.End()

	result, hasNext, err := h.products.GetAll(ctx, queryPage(c))
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Paged(c, result, hasNext)
}

// GetProduct busca um produto
func (h *Handler) GetProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "products.get")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("product_id", id))

	result, err := h.products.Get(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Get(c, result)
}

// CreateProduct cria um produto
func (h *Handler) CreateProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "products.create")
	defer span.End()

	var dto ProductDto
	if !envelope.Bind(c, &dto, "product") {
		return
	}

	result, err := h.products.Create(ctx, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// GetOrder busca um pedido com suas linhas
func (h *Handler) GetOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.get")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("order_id", id))

	result, err := h.orders.Get(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Get(c, result)
}

// CreateOrder cria um pedido com suas linhas
func (h *Handler) CreateOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.create")
	defer span.End()

	var dto OrderDto
	if !envelope.Bind(c, &dto, "order") {
		return
	}
	span.SetAttributes(
		attribute.Int64("customer_id", dto.CustomerID),
		attribute.Int("lines", len(dto.Products)),
	)

	result, err := h.orders.Create(ctx, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// UpdateOrder substitui um pedido e suas linhas
func (h *Handler) UpdateOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.update")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("order_id", id))

	var dto OrderDto
	if !envelope.Bind(c, &dto, "order") {
		return
	}

	result, err := h.orders.Update(ctx, id, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// DeleteOrder remove um pedido
func (h *Handler) DeleteOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.delete")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int64("order_id", id))

	result, err := h.orders.Delete(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

func (h *Handler) fault(c *gin.Context, span trace.Span, err error) {
	span.RecordError(err)
	h.log.WithError(err).Error("❌ Request failed")
	envelope.Fault(c, err)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		envelope.InvalidParameter(c, "id")
		return 0, false
	}
	return id, true
}

func queryPage(c *gin.Context) repository.Page {
	size, _ := strconv.Atoi(c.Query("pageSize"))
	number, _ := strconv.Atoi(c.Query("page"))
	return repository.NewPage(number, size)
}
