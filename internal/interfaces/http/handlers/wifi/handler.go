package wifi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gorodok-inc/gorodok/internal/infrastructure/wifi"
	"github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
	"github.com/gorodok-inc/gorodok/internal/shared/utils"
)

const (
	defaultNearestLimit = 5
	maxNearestLimit     = 50
)

// Directory is the read side of the Wi-Fi point directory.
type Directory interface {
	Points() []wifi.Point
	Nearest(lat, lon float64, limit int) ([]wifi.Nearby, error)
}

type WifiHandler struct {
	directory Directory
	logger    logger.Interface
}

func NewWifiHandler(directory Directory, logger logger.Interface) *WifiHandler {
	return &WifiHandler{
		directory: directory,
		logger:    logger,
	}
}

type PointsResponse struct {
	OK     bool         `json:"ok"`
	Points []wifi.Point `json:"points"`
}

type NearestResponse struct {
	OK     bool          `json:"ok"`
	Points []wifi.Nearby `json:"points"`
}

// Points lists every Wi-Fi point
// @Summary List Wi-Fi points
// @Tags Wifi
// @Produce json
// @Success 200 {object} PointsResponse
// @Router /api/wifi/points [get]
func (h *WifiHandler) Points(c *gin.Context) {
	c.JSON(http.StatusOK, PointsResponse{OK: true, Points: h.directory.Points()})
}

// Nearest lists the points closest to a position
// @Summary Nearest Wi-Fi points
// @Tags Wifi
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param limit query int false "Number of points (default 5, max 50)"
// @Success 200 {object} NearestResponse
// @Failure 400 {object} utils.ErrorBody
// @Router /api/wifi/points/nearest [get]
func (h *WifiHandler) Nearest(c *gin.Context) {
	lat, ok := utils.ParseQueryFloat(c, "lat")
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewValidationError("lat is required"))
		return
	}
	lon, ok := utils.ParseQueryFloat(c, "lon")
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewValidationError("lon is required"))
		return
	}

	limit := defaultNearestLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = min(n, maxNearestLimit)
	}

	nearby, err := h.directory.Nearest(lat, lon, limit)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, NearestResponse{OK: true, Points: nearby})
}
