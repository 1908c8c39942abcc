package routes

import (
	"github.com/gin-gonic/gin"

	wifihandlers "github.com/gorodok-inc/gorodok/internal/interfaces/http/handlers/wifi"
)

type WifiRouteConfig struct {
	WifiHandler *wifihandlers.WifiHandler
}

func SetupWifiRoutes(engine *gin.Engine, config *WifiRouteConfig) {
	wifi := engine.Group("/api/wifi")
	{
		wifi.GET("/points", config.WifiHandler.Points)
		wifi.GET("/points/nearest", config.WifiHandler.Nearest)
	}
}
