package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CSEN-174-W25/csen-174-thebteam/internal/logger"
	"github.com/CSEN-174-W25/csen-174-thebteam/internal/metrics"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Engine     Asker
	AuthSecret string
	Logger     *logger.Logger

	// Ready reports whether the service can answer queries. nil means
	// always ready.
	Ready func() bool

	MetricsUsername string
	MetricsPassword string
}

// NewRouter builds the gin router with the advisor endpoint, health
// checks, and the metrics route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(cfg.Logger))

	router.GET("/livez", liveness)
	router.HEAD("/livez", liveness)
	router.GET("/readyz", readiness(cfg.Ready))
	router.HEAD("/readyz", readiness(cfg.Ready))

	handler := NewHandler(cfg.Engine, cfg.Logger)
	router.POST("/api/rag", AuthMiddleware(cfg.AuthSecret, cfg.Logger), handler.HandleRag)

	router.GET("/metrics",
		metricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	return router
}

func liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readiness(ready func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil && !ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
