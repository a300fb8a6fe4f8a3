package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-fit/internal/analysis"
	"resume-fit/internal/health"
	"resume-fit/internal/shared/config"
	"resume-fit/internal/shared/metrics"
	"resume-fit/internal/shared/server/middleware"
	"resume-fit/internal/shared/server/respond"
	"resume-fit/internal/uploads"
)

const postRateGroup = "POST"

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	UploadHandler   *uploads.Handler
	AnalysisHandler *analysis.Handler
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes + (1 << 20)

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	limit := middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: postRateGroup,
		Limiter:      deps.Limiter,
		Rules: map[string]middleware.RateLimitRule{
			postRateGroup: {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
		},
	})

	r.GET("/metrics", metrics.Handler())
	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Route not found", nil)
	})

	api := r.Group("/api")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(api, limit)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api, limit)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
