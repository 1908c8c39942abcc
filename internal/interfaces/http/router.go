package http

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gorodok-inc/gorodok/internal/interfaces/http/middleware"
	"github.com/gorodok-inc/gorodok/internal/interfaces/http/routes"

	_ "github.com/gorodok-inc/gorodok/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

func NewRouter(c *Container) *Router {
	return &Router{Container: c}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CustomLogger(r.log.Named("http")))
	r.engine.Use(middleware.Recovery(r.log.Named("http")))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(gzip.Gzip(gzip.DefaultCompression))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/health", r.healthHandler())

	routes.SetupReportRoutes(r.engine, r.reportRouteConfig())
	routes.SetupWifiRoutes(r.engine, r.wifiRouteConfig())

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Handler returns the engine wrapped with OpenTelemetry server spans.
func (r *Router) Handler() http.Handler {
	return otelhttp.NewHandler(r.engine, "gorodok-server",
		otelhttp.WithFilter(func(req *http.Request) bool {
			return req.URL.Path != "/health"
		}),
	)
}
