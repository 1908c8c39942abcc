package routes

import (
	"github.com/gin-gonic/gin"

	reporthandlers "github.com/gorodok-inc/gorodok/internal/interfaces/http/handlers/report"
	"github.com/gorodok-inc/gorodok/internal/interfaces/http/middleware"
)

type ReportRouteConfig struct {
	ReportHandler *reporthandlers.ReportHandler
	AdminToken    *middleware.AdminTokenMiddleware
	// IngestRateLimit is optional.
	IngestRateLimit gin.HandlerFunc
}

func SetupReportRoutes(engine *gin.Engine, config *ReportRouteConfig) {
	reports := engine.Group("/api/reports")
	{
		ingest := []gin.HandlerFunc{}
		if config.IngestRateLimit != nil {
			ingest = append(ingest, config.IngestRateLimit)
		}
		ingest = append(ingest, config.ReportHandler.Ingest)
		reports.POST("", ingest...)

		// Admin endpoints; fixed paths must come before /:id
		admin := reports.Group("")
		admin.Use(config.AdminToken.RequireAdmin())
		admin.GET("", config.ReportHandler.List)
		admin.GET("/stats", config.ReportHandler.Stats)
		admin.GET("/export", config.ReportHandler.Export)
		admin.PATCH("/:id/status", config.ReportHandler.SetStatus)
	}
}
