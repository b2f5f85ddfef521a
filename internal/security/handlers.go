package security

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

// CustomerUseCaseInterface define a interface para o use case
type CustomerUseCaseInterface interface {
	GetAll(ctx context.Context, req CustomerRequestAllDto) (notification.Result[[]CustomerDto], bool, error)
	Get(ctx context.Context, id uuid.UUID) (notification.Result[CustomerDto], error)
	Create(ctx context.Context, dto CustomerDto) (notification.Result[CustomerDto], error)
	Update(ctx context.Context, id uuid.UUID, dto CustomerDto) (notification.Result[CustomerDto], error)
	Delete(ctx context.Context, id uuid.UUID) (notification.Result[struct{}], error)
}

// CustomerHandler contém os handlers HTTP
type CustomerHandler struct {
	useCase CustomerUseCaseInterface
	tracer  trace.Tracer
	log     logrus.FieldLogger
}

// NewCustomerHandler cria uma nova instância de CustomerHandler
func NewCustomerHandler(useCase CustomerUseCaseInterface, tracer trace.Tracer, log logrus.FieldLogger) *CustomerHandler {
	return &CustomerHandler{
		useCase: useCase,
		tracer:  tracer,
		log:     log,
	}
}

// RegisterRoutes monta o recurso /customers no grupo informado
func RegisterRoutes(r gin.IRouter, h *CustomerHandler) {
	g := r.Group("/customers")
	g.GET("", h.GetAll)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// GetAll lista clientes; aceita pageSize, page e name
func (h *CustomerHandler) GetAll(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.get_all")
	defer span.End()

	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	pageNumber, _ := strconv.Atoi(c.Query("page"))
	req := CustomerRequestAllDto{
		Name: c.Query("name"),
		Page: repository.NewPage(pageNumber, pageSize),
	}
	span.SetAttributes(
		attribute.Int("page", req.Page.Number),
		attribute.Int("page_size", req.Page.Size),
	)

	result, hasNext, err := h.useCase.GetAll(ctx, req)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Paged(c, result, hasNext)
}

// Get busca um cliente
func (h *CustomerHandler) Get(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.get")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("customer_id", id.String()))

	result, err := h.useCase.Get(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Get(c, result)
}

// Create cria um cliente
func (h *CustomerHandler) Create(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.create")
	defer span.End()

	var dto CustomerDto
	if !envelope.Bind(c, &dto, "customer") {
		return
	}

	result, err := h.useCase.Create(ctx, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// Update altera um cliente
func (h *CustomerHandler) Update(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.update")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("customer_id", id.String()))

	var dto CustomerDto
	if !envelope.Bind(c, &dto, "customer") {
		return
	}

	result, err := h.useCase.Update(ctx, id, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// Delete remove um cliente
func (h *CustomerHandler) Delete(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "customers.delete")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("customer_id", id.String()))

	result, err := h.useCase.Delete(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

func (h *CustomerHandler) fault(c *gin.Context, span trace.Span, err error) {
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
