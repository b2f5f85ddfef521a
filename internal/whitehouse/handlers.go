package whitehouse

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/layered-crud-samples/internal/envelope"
	"github.com/matheusmosca/layered-crud-samples/internal/notification"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

// PresidentUseCaseInterface define a interface para o use case
type PresidentUseCaseInterface interface {
	GetAll(ctx context.Context, page repository.Page) (notification.Result[[]PresidentDto], bool, error)
	Get(ctx context.Context, id string) (notification.Result[PresidentDto], error)
	InsertAll(ctx context.Context, dtos []PresidentDto) (notification.Result[[]PresidentDto], error)
	Update(ctx context.Context, id string, dto PresidentDto) (notification.Result[PresidentDto], error)
	Delete(ctx context.Context, id string) (notification.Result[struct{}], error)
}

// Handler contém os handlers HTTP
type Handler struct {
	useCase PresidentUseCaseInterface
	tracer  trace.Tracer
	log     logrus.FieldLogger
}

// NewHandler cria uma nova instância de Handler
func NewHandler(useCase PresidentUseCaseInterface, tracer trace.Tracer, log logrus.FieldLogger) *Handler {
	return &Handler{
		useCase: useCase,
		tracer:  tracer,
		log:     log,
	}
}

// RegisterRoutes monta o recurso /whitehouse no grupo informado
func RegisterRoutes(r gin.IRouter, h *Handler) {
	g := r.Group("/whitehouse")
	g.GET("", h.GetAll)
	g.GET("/:id", h.Get)
	g.POST("", h.Post)
	g.PUT("/:id", h.Put)
	g.DELETE("/:id", h.Delete)
}

// GetAll lista presidentes paginados
func (h *Handler) GetAll(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "whitehouse.get_all")
	defer span.End()

	pageSize, err := strconv.Atoi(c.Query("pageSize"))
	if err != nil || pageSize <= 0 {
		envelope.InvalidParameter(c, "PageSize")
		return
	}
	pageNumber, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	page := repository.NewPage(pageNumber, pageSize)

	span.SetAttributes(
		attribute.Int("page", page.Number),
		attribute.Int("page_size", page.Size),
	)

	result, hasNext, err := h.useCase.GetAll(ctx, page)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Paged(c, result, hasNext)
}

// Get busca um presidente
func (h *Handler) Get(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "whitehouse.get")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("president_id", id))

	result, err := h.useCase.Get(ctx, id)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Get(c, result)
}

// Post cria uma lista de presidentes
func (h *Handler) Post(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "whitehouse.post")
	defer span.End()

	var dtos []PresidentDto
	if !envelope.Bind(c, &dtos, "presidents") {
		return
	}
	if len(dtos) == 0 {
		envelope.EmptyParameter(c, "presidents")
		return
	}
	span.SetAttributes(attribute.Int("count", len(dtos)))

	result, err := h.useCase.InsertAll(ctx, dtos)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// Put atualiza um presidente
func (h *Handler) Put(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "whitehouse.put")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("president_id", id))

	var dto PresidentDto
	if !envelope.Bind(c, &dto, "president") {
		return
	}

	result, err := h.useCase.Update(ctx, id, dto)
	if err != nil {
		h.fault(c, span, err)
		return
	}
	envelope.Write(c, result)
}

// Delete remove um presidente
func (h *Handler) Delete(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "whitehouse.delete")
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("president_id", id))

	result, err := h.useCase.Delete(ctx, id)
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

func pathID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		envelope.InvalidParameter(c, "id")
		return "", false
	}
	return id, true
}
