package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/letters"
	"coverletter-backend/internal/services/health"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config        config.Config
	LetterHandler *letters.Handler
	Health        *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	r.GET("/metrics", metrics.Handler())

	if deps.LetterHandler != nil {
		limit := middleware.RateLimit(middleware.RateLimitRule{
			PerMinute: deps.Config.GenerateRatePerMinute,
			Burst:     deps.Config.GenerateBurst,
		}, nil)
		deps.LetterHandler.RegisterRoutes(r, limit)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
