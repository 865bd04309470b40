package delivery

import (
	"time"

	"adsstudio/internal/delivery/middleware"
	"adsstudio/pkg/logger"
	"adsstudio/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type HTTPRouter struct {
	handlers       *HTTPHandlers
	logger         *logger.Logger
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	handlerTimeout time.Duration
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics, gatherer prometheus.Gatherer, handlerTimeout time.Duration) *HTTPRouter {
	return &HTTPRouter{
		handlers:       handlers,
		logger:         logger,
		metrics:        metrics,
		gatherer:       gatherer,
		handlerTimeout: handlerTimeout,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	if r.handlerTimeout > 0 {
		router.Use(middleware.Timeout(r.handlerTimeout))
	}

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/", r.handlers.GetAPIInfo)
		v1.GET("", r.handlers.GetAPIInfo)

		v1.GET("/form/defaults", r.handlers.GetDefaultForm)

		normalize := v1.Group("/normalize")
		{
			normalize.POST("/url", r.handlers.NormalizeURL)
			normalize.POST("/payload", r.handlers.NormalizePayload)
		}

		v1.POST("/images/encode", r.handlers.EncodeImage)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", r.handlers.CreateSession)
			sessions.GET("/:id", r.handlers.GetSession)
			sessions.POST("/:id/submit", r.handlers.SubmitSession)
			sessions.POST("/:id/reset", r.handlers.ResetSession)
			sessions.GET("/:id/plan", r.handlers.DownloadPlan)
			sessions.POST("/:id/plan/export", r.handlers.ExportPlan)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler(r.gatherer))

	return router
}
