// Package envelope writes every HTTP answer inside the same outer object,
// separating transport success from business success.
package envelope

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/matheusmosca/layered-crud-samples/internal/notification"
)

// Response é o envelope externo de todas as respostas
type Response struct {
	Success bool `json:"success"`
	Result  any  `json:"result"`
}

// Body é o resultado de negócio de escritas (create/update/delete)
type Body[T any] struct {
	Success       bool                        `json:"success"`
	Data          T                           `json:"data,omitempty"`
	Notifications []notification.Notification `json:"notifications"`
}

// PagingBody é o resultado de negócio de listagens paginadas
type PagingBody[T any] struct {
	Success       bool                        `json:"success"`
	Data          []T                         `json:"data"`
	HasNext       bool                        `json:"hasNext"`
	Notifications []notification.Notification `json:"notifications"`
}

var notificationsCounter, _ = otel.Meter("envelope").Int64Counter(
	"envelope.notifications",
	metric.WithDescription("Business notifications returned to callers"),
)

// InvalidParameter responde 400 com a mensagem fixa de parâmetro inválido
func InvalidParameter(c *gin.Context, name string) {
	c.JSON(http.StatusBadRequest, Response{Success: true, Result: "Invalid parameter: " + name})
}

// EmptyParameter responde 400 com a mensagem fixa de parâmetro vazio
func EmptyParameter(c *gin.Context, name string) {
	c.JSON(http.StatusBadRequest, Response{Success: true, Result: "Empty parameter: " + name})
}

// Payload responde 200 com o payload direto no result
func Payload(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Response{Success: true, Result: payload})
}

// Fault responde 500 para falhas não previstas
func Fault(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Response{Success: false, Result: err.Error()})
}

// Write converte um notification.Result no envelope: 404 quando o recurso
// não existe, 200 nos demais casos (sucesso ou falha de negócio)
func Write[T any](c *gin.Context, r notification.Result[T]) {
	body := Body[T]{
		Success:       r.Success(),
		Notifications: r.Notifications(),
	}
	if r.Success() {
		body.Data = r.Data
	}
	record(c.Request.Context(), body.Notifications)

	status := http.StatusOK
	if r.NotFound() {
		status = http.StatusNotFound
	}
	c.JSON(status, Response{Success: true, Result: body})
}

// Get responde o payload direto quando encontrado e o corpo de negócio caso contrário
func Get[T any](c *gin.Context, r notification.Result[T]) {
	if r.Success() {
		Payload(c, r.Data)
		return
	}
	Write(c, r)
}

// Paged responde uma listagem paginada
func Paged[T any](c *gin.Context, r notification.Result[[]T], hasNext bool) {
	items := r.Data
	if items == nil {
		items = []T{}
	}
	body := PagingBody[T]{
		Success:       r.Success(),
		Data:          items,
		HasNext:       hasNext,
		Notifications: r.Notifications(),
	}
	record(c.Request.Context(), body.Notifications)
	c.JSON(http.StatusOK, Response{Success: true, Result: body})
}

// Bind decodifica o corpo JSON em dst. Corpo ausente, null ou malformado
// responde 400 "Invalid parameter: <name>" e retorna false.
func Bind(c *gin.Context, dst any, name string) bool {
	raw, err := c.GetRawData()
	raw = bytes.TrimSpace(raw)
	if err != nil || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		InvalidParameter(c, name)
		return false
	}
	if err := binding.JSON.BindBody(raw, dst); err != nil {
		InvalidParameter(c, name)
		return false
	}
	return true
}

// Recovery converte panics em respostas 500 no formato do envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
			Success: false,
			Result:  fmt.Sprintf("internal error: %v", recovered),
		})
	})
}

func record(ctx context.Context, notifications []notification.Notification) {
	if notificationsCounter == nil {
		return
	}
	for _, n := range notifications {
		notificationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("code", n.Code)))
	}
}
