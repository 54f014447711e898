package handlers

import (
	portssvc "fx-payment-processor/internal/core/ports/services"
	"fx-payment-processor/internal/middleware"
	"fx-payment-processor/internal/platform/config"
	"fx-payment-processor/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	collector *metrics.MetricsCollector,
	limiterInstance *limiter.Limiter,
) {
	r.Use(cors.Default())

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(collector.Handler()))

	setupAPIV1Routes(r, services, limiterInstance)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	limiterInstance *limiter.Limiter,
) {
	v1 := r.Group("/api/v1")
	if limiterInstance != nil {
		v1.Use(middleware.RateLimit(limiterInstance))
	}

	registerWalletRoutes(v1, services.Wallet)
	registerExchangeRateRoutes(v1, services.Rate)
	registerReconciliationRoutes(v1, services.Reconciliation)
}
