// Package server builds the gin engine shared by every sample service and
// runs it until the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/matheusmosca/layered-crud-samples/internal/config"
	"github.com/matheusmosca/layered-crud-samples/internal/envelope"
	"github.com/matheusmosca/layered-crud-samples/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

// HealthCheck verifica uma dependência externa (banco, redis)
type HealthCheck func(ctx context.Context) error

// NewEngine cria o gin.Engine com recovery, tracing, métricas, /health e /metrics
func NewEngine(serviceName string, metrics *telemetry.HTTPMetrics, log logrus.FieldLogger, checks ...HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.LoggerWithWriter(log.WithField("component", "http").Writer()),
		metrics.Middleware(),
		envelope.Recovery(),
		otelgin.Middleware(serviceName),
	)

	r.GET("/health", HandleHealth(serviceName, checks...))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	return r
}

// HandleHealth responde 200 quando todas as dependências respondem
func HandleHealth(serviceName string, checks ...HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": serviceName,
					"error":   err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	}
}

// Run escuta em cfg.Addr() até SIGINT/SIGTERM e encerra as conexões abertas
func Run(ctx context.Context, cfg config.Config, handler http.Handler, log logrus.FieldLogger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Infof("🚀 %s listening", cfg.ServiceName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("🛑 Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
