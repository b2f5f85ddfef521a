package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/layered-crud-samples/internal/logging"
	"github.com/matheusmosca/layered-crud-samples/internal/telemetry"
)

func TestNewEngine_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewEngine("test-service", telemetry.NewHTTPMetrics("health_ok"), logging.Discard(),
		func(context.Context) error { return nil })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"test-service"}`, w.Body.String())
}

func TestNewEngine_Health_FailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewEngine("test-service", telemetry.NewHTTPMetrics("health_fail"), logging.Discard(),
		func(context.Context) error { return errors.New("connection refused") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestNewEngine_RecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewEngine("test-service", telemetry.NewHTTPMetrics("panics"), logging.Discard())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	metrics := httptest.NewRecorder()
	r.ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metrics.Body.String(), `panics_http_requests_total{method="GET",path="/boom",status="500"} 1`)
}
