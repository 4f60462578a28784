package api

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/dealpulse/internal/metrics"
	"github.com/guttosm/dealpulse/internal/middleware"
)

// RouterOptions carries the HTTP-layer knobs from configuration.
type RouterOptions struct {
	RateLimitPerMinute int
	// RequestTimeout bounds non-streaming API routes only.
	RequestTimeout time.Duration
}

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler).
//   - Rate limits the /api/v1 group per client IP.
//   - Applies the request timeout to JSON endpoints; analysis streams run unbounded.
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)

	// ─── Swagger / Metrics ────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1", middleware.RateLimiter(opts.RateLimitPerMinute))
	{
		v1.POST("/analysis", handler.StartAnalysis)
		v1.GET("/analysis/ws", handler.StreamAnalysisWS)
		v1.GET("/runs", middleware.Timeout(opts.RequestTimeout), handler.ListRuns)
	}

	return router
}
