package whitehouse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/matheusmosca/layered-crud-samples/internal/logging"
	"github.com/matheusmosca/layered-crud-samples/internal/notification"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

type response[T any] struct {
	Success bool `json:"success"`
	Result  T    `json:"result"`
}

type body[T any] struct {
	Success       bool                        `json:"success"`
	Data          T                           `json:"data"`
	HasNext       bool                        `json:"hasNext"`
	Notifications []notification.Notification `json:"notifications"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc, _ := newTestUseCase(t)
	h := NewHandler(uc, noop.NewTracerProvider().Tracer("test"), logging.Discard())

	r := gin.New()
	RegisterRoutes(r.Group("/api"), h)
	return r
}

func do(r http.Handler, method, path, payload string) *httptest.ResponseRecorder {
	var req *http.Request
	if payload == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) response[T] {
	t.Helper()
	var out response[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func hasCode(notifications []notification.Notification, code string) bool {
	for _, n := range notifications {
		if n.Code == code {
			return true
		}
	}
	return false
}

func TestHandler_GetAll(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/whitehouse?pageSize=10", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[body[[]PresidentDto]](t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Result.Success)
	assert.Len(t, resp.Result.Data, 6)
	assert.Empty(t, resp.Result.Notifications)
}

func TestHandler_GetAll_WithoutPageSize(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/whitehouse?", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[string](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Invalid parameter: PageSize", resp.Result)
}

func TestHandler_Get(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/whitehouse/1", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[PresidentDto](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "1", resp.Result.ID)
	assert.Equal(t, "George Washington", resp.Result.Name)
	assert.Equal(t, "12345678", resp.Result.Address.Number)
}

func TestHandler_Get_BlankID(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/whitehouse/%20", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid parameter: id", decode[string](t, w).Result)
}

func TestHandler_Get_NotFound(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/whitehouse/99", "")

	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decode[body[PresidentDto]](t, w)
	assert.True(t, resp.Success)
	assert.False(t, resp.Result.Success)
	assert.True(t, hasCode(resp.Result.Notifications, CouldNotFindPresident))
}

func TestHandler_Post(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/whitehouse",
		`[{"id":"7","name":"Lula","address":{"street":"Rua de teste","number":"123","complement":"APT 12","zipCode":"74125306"}}]`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[body[[]PresidentDto]](t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Result.Success)
	require.Len(t, resp.Result.Data, 1)
	assert.Equal(t, "Lula", resp.Result.Data[0].Name)
}

func TestHandler_Post_BadBodies(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{name: "null", payload: "null", expected: "Invalid parameter: presidents"},
		{name: "missing", payload: "", expected: "Invalid parameter: presidents"},
		{name: "malformed", payload: "{", expected: "Invalid parameter: presidents"},
		{name: "empty list", payload: "[]", expected: "Empty parameter: presidents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t)

			w := do(r, http.MethodPost, "/api/whitehouse", tt.payload)

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[string](t, w)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.expected, resp.Result)
		})
	}
}

func TestHandler_Post_InvalidPresident(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/whitehouse", `[{}]`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[body[[]PresidentDto]](t, w)
	assert.True(t, resp.Success)
	assert.False(t, resp.Result.Success)
	assert.True(t, hasCode(resp.Result.Notifications, PresidentNameMustHaveValue))
	assert.True(t, hasCode(resp.Result.Notifications, PresidentZipCodeMustHaveValue))

	list := decode[body[[]PresidentDto]](t, do(r, http.MethodGet, "/api/whitehouse?pageSize=10", ""))
	assert.Len(t, list.Result.Data, 6)
}

func TestHandler_Put(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPut, "/api/whitehouse/6",
		`{"id":"6","name":"Ronald Reagan","address":{"street":"Rua de teste","number":"123","complement":"APT 12","zipCode":"74125306"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[body[PresidentDto]](t, w)
	assert.True(t, resp.Result.Success)
	assert.Empty(t, resp.Result.Notifications)
	assert.Equal(t, "6", resp.Result.Data.ID)
	assert.Equal(t, "Ronald Reagan", resp.Result.Data.Name)
}

func TestHandler_Put_BadInput(t *testing.T) {
	r := newTestRouter(t)

	blank := do(r, http.MethodPut, "/api/whitehouse/%20", `{}`)
	require.Equal(t, http.StatusBadRequest, blank.Code)
	assert.Equal(t, "Invalid parameter: id", decode[string](t, blank).Result)

	null := do(r, http.MethodPut, "/api/whitehouse/1", "null")
	require.Equal(t, http.StatusBadRequest, null.Code)
	assert.Equal(t, "Invalid parameter: president", decode[string](t, null).Result)
}

func TestHandler_Put_InvalidPresident(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPut, "/api/whitehouse/6", `{}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[body[PresidentDto]](t, w)
	assert.False(t, resp.Result.Success)
	assert.True(t, hasCode(resp.Result.Notifications, PresidentNameMustHaveValue))
	assert.True(t, hasCode(resp.Result.Notifications, PresidentZipCodeMustHaveValue))
}

func TestHandler_Put_NotFound(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPut, "/api/whitehouse/99",
		`{"id":"99","name":"Ronald Reagan","address":{"zipCode":"74125306"}}`)

	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decode[body[PresidentDto]](t, w)
	assert.True(t, resp.Success)
	assert.False(t, resp.Result.Success)
	assert.True(t, hasCode(resp.Result.Notifications, CouldNotFindPresident))
}

func TestHandler_Delete(t *testing.T) {
	r := newTestRouter(t)

	ok := do(r, http.MethodDelete, "/api/whitehouse/1", "")
	require.Equal(t, http.StatusOK, ok.Code)
	assert.True(t, decode[body[struct{}]](t, ok).Result.Success)

	blank := do(r, http.MethodDelete, "/api/whitehouse/%20", "")
	require.Equal(t, http.StatusBadRequest, blank.Code)
	assert.Equal(t, "Invalid parameter: id", decode[string](t, blank).Result)

	missing := do(r, http.MethodDelete, "/api/whitehouse/99", "")
	require.Equal(t, http.StatusNotFound, missing.Code)
	assert.True(t, hasCode(decode[body[struct{}]](t, missing).Result.Notifications, CouldNotFindPresident))
}

// MockUseCase para testes de falhas de infraestrutura
type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) GetAll(ctx context.Context, page repository.Page) (notification.Result[[]PresidentDto], bool, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(notification.Result[[]PresidentDto]), args.Bool(1), args.Error(2)
}

func (m *MockUseCase) Get(ctx context.Context, id string) (notification.Result[PresidentDto], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(notification.Result[PresidentDto]), args.Error(1)
}

func (m *MockUseCase) InsertAll(ctx context.Context, dtos []PresidentDto) (notification.Result[[]PresidentDto], error) {
	args := m.Called(ctx, dtos)
	return args.Get(0).(notification.Result[[]PresidentDto]), args.Error(1)
}

func (m *MockUseCase) Update(ctx context.Context, id string, dto PresidentDto) (notification.Result[PresidentDto], error) {
	args := m.Called(ctx, id, dto)
	return args.Get(0).(notification.Result[PresidentDto]), args.Error(1)
}

func (m *MockUseCase) Delete(ctx context.Context, id string) (notification.Result[struct{}], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(notification.Result[struct{}]), args.Error(1)
}

func TestHandler_Get_StoreFailure(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	uc := new(MockUseCase)
	uc.On("Get", mock.Anything, "1").Return(notification.Result[PresidentDto]{}, errors.New("connection reset"))

	r := gin.New()
	RegisterRoutes(r, NewHandler(uc, noop.NewTracerProvider().Tracer("test"), logging.Discard()))

	// Act
	w := do(r, http.MethodGet, "/whitehouse/1", "")

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[string](t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "connection reset", resp.Result)
	uc.AssertExpectations(t)
}
