package querying

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/matheusmosca/layered-crud-samples/internal/logging"
	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

func setupRouter(orders *MockOrderRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logging.Discard()
	customers := newCustomerMemory(Customer{ID: 1, Name: "Ana"})
	products := newProductMemory(Product{ID: 10, Description: "Arroz", Value: decimal.RequireFromString("20.00")})

	h := NewHandler(
		NewCustomerUseCase(customers, orders, log),
		NewProductUseCase(products, log),
		NewOrderUseCase(orders, customers, products, log),
		noop.NewTracerProvider().Tracer("test"),
		log,
	)

	r := gin.New()
	RegisterRoutes(r.Group("/api"), h)
	return r
}

func request(r http.Handler, method, path, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_GetCustomer(t *testing.T) {
	r := setupRouter(new(MockOrderRepository))

	w := request(r, http.MethodGet, "/api/customers/1", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"result":{"id":1,"name":"Ana"}}`, w.Body.String())
}

func TestHandler_GetCustomer_InvalidID(t *testing.T) {
	r := setupRouter(new(MockOrderRepository))

	for _, path := range []string{"/api/customers/abc", "/api/customers/0", "/api/customers/-3"} {
		w := request(r, http.MethodGet, path, "")

		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.JSONEq(t, `{"success":true,"result":"Invalid parameter: id"}`, w.Body.String(), path)
	}
}

func TestHandler_GetCustomer_NotFound(t *testing.T) {
	r := setupRouter(new(MockOrderRepository))

	w := request(r, http.MethodGet, "/api/customers/7", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), CouldNotFindCustomer)
}

func TestHandler_GetCustomers_Paged(t *testing.T) {
	r := setupRouter(new(MockOrderRepository))

	w := request(r, http.MethodGet, "/api/customers?page=1&pageSize=5", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Result struct {
			Data    []CustomerDto `json:"data"`
			HasNext bool          `json:"hasNext"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []CustomerDto{{ID: 1, Name: "Ana"}}, resp.Result.Data)
	assert.False(t, resp.Result.HasNext)
}

func TestHandler_GetCustomerOrders(t *testing.T) {
	orders := new(MockOrderRepository)
	orders.On("ListByCustomer", mock.Anything, int64(1), repository.NewPage(1, 0)).
		Return([]Order{{ID: 4, CustomerID: 1}}, false, nil)
	r := setupRouter(orders)

	w := request(r, http.MethodGet, "/api/customers/1/orders", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":4`)
	assert.Contains(t, w.Body.String(), `"hasNext":false`)
	orders.AssertExpectations(t)
}

func TestHandler_CreateProduct(t *testing.T) {
	r := setupRouter(new(MockOrderRepository))

	w := request(r, http.MethodPost, "/api/products", `{"description":"Feijão","value":"8.5"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"success":true,"result":{"success":true,"data":{"id":11,"description":"Feijão","value":"8.5"},"notifications":[]}}`,
		w.Body.String())
}

func TestHandler_CreateOrder_EmptyBody(t *testing.T) {
	r := setupRouter(new(MockOrderRepository))

	w := request(r, http.MethodPost, "/api/orders", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":true,"result":"Invalid parameter: order"}`, w.Body.String())
}

func TestHandler_CreateOrder_UnknownProduct(t *testing.T) {
	orders := new(MockOrderRepository)
	r := setupRouter(orders)

	w := request(r, http.MethodPost, "/api/orders", `{"customerId":1,"products":[{"productId":99,"amount":1}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), CouldNotFindProduct)
	assert.Contains(t, w.Body.String(), `"success":false`)
	orders.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestHandler_DeleteOrder_NotFound(t *testing.T) {
	orders := new(MockOrderRepository)
	orders.On("Delete", mock.Anything, int64(9)).Return(repository.ErrNotFound)
	r := setupRouter(orders)

	w := request(r, http.MethodDelete, "/api/orders/9", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), CouldNotFindOrder)
}

func TestHandler_GetOrder_StoreFailure(t *testing.T) {
	orders := new(MockOrderRepository)
	orders.On("Get", mock.Anything, int64(2)).Return(Order{}, assert.AnError)
	r := setupRouter(orders)

	w := request(r, http.MethodGet, "/api/orders/2", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
