package supermarket

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/layered-crud-samples/internal/envelope"
	"github.com/matheusmosca/layered-crud-samples/internal/notification"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// PurchaseOrderUseCaseInterface define a interface para o use case
type PurchaseOrderUseCaseInterface interface {
	GetAll(ctx context.Context, page repository.Page) (notification.Result[[]PurchaseOrderDto], bool, error)
	Get(ctx context.Context, id uuid.UUID) (notification.Result[PurchaseOrderDto], error)
	Create(ctx context.Context, dto PurchaseOrderDto) (notification.Result[PurchaseOrderDto], error)
	Update(ctx context.Context, id uuid.UUID, dto PurchaseOrderDto) (notification.Result[PurchaseOrderDto], error)
	Delete(ctx context.Context, id uuid.UUID) (notification.Result[struct{}], error)
}

// PurchaseOrderHandler contém os handlers HTTP
type PurchaseOrderHandler struct {
	useCase PurchaseOrderUseCaseInterface
	tracer  trace.Tracer
	log     logrus.FieldLogger
}

// NewPurchaseOrderHandler cria uma nova instância de PurchaseOrderHandler
func NewPurchaseOrderHandler(useCase PurchaseOrderUseCaseInterface, tracer trace.Tracer, log logrus.FieldLogger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		useCase: useCase,
		tracer:  tracer,
		log:     log,
	}
}

// RegisterRoutes monta o recurso /purchase-orders no grupo informado
func RegisterRoutes(r gin.IRouter, h *PurchaseOrderHandler) {
	g := r.Group("/purchase-orders")
	g.GET("", h.GetAll)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// GetAll lista pedidos paginados
func (h *PurchaseOrderHandler) GetAll(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "purchase_orders.get_all")
	defer span.End()

	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	pageNumber, _ := strconv.Atoi(c.Query("page"))
	page := repository.NewPage(pageNumber, pageSize)

	result, hasNext, err := h.useCase.GetAll(ctx, page)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Paged(c, result, hasNext)
}

// Get busca um pedido com suas linhas
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "purchase_orders.get")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("purchase_order_id", id.String()))

	result, err := h.useCase.Get(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Get(c, result)
}

// Create cria um pedido
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "purchase_orders.create")
	defer span.End()

	var dto PurchaseOrderDto
	if !envelope.Bind(c, &dto, "purchaseOrder") {
		return
	}
	span.SetAttributes(
		attribute.String("customer_id", dto.CustomerID.String()),
		attribute.Int("lines", len(dto.Products)),
	)

	result, err := h.useCase.Create(ctx, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// Update substitui um pedido e suas linhas
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "purchase_orders.update")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("purchase_order_id", id.String()))

	var dto PurchaseOrderDto
	if !envelope.Bind(c, &dto, "purchaseOrder") {
		return
	}

	result, err := h.useCase.Update(ctx, id, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// Delete remove um pedido
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "purchase_orders.delete")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("purchase_order_id", id.String()))

	result, err := h.useCase.Delete(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

func (h *PurchaseOrderHandler) fault(c *gin.Context, span trace.Span, err error) {
	span.RecordError(err)
	h.log.WithError(err).Error("❌ Request failed")
	envelope.Fault(c, err)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		envelope.InvalidParameter(c, "id")
		return uuid.Nil, false
	}
	return id, true
}
