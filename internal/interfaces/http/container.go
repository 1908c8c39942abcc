package http

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gorodok-inc/gorodok/internal/application/report/usecases"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/config"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/ratelimit"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/repository"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/wifi"
	"github.com/gorodok-inc/gorodok/internal/interfaces/http/handlers"
	reporthandlers "github.com/gorodok-inc/gorodok/internal/interfaces/http/handlers/report"
	wifihandlers "github.com/gorodok-inc/gorodok/internal/interfaces/http/handlers/wifi"
	"github.com/gorodok-inc/gorodok/internal/interfaces/http/middleware"
	"github.com/gorodok-inc/gorodok/internal/interfaces/http/routes"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

// Container wires the server side: report table, use cases, handlers and
// middlewares.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	reportRepo *repository.ReportRepository
	directory  *wifi.Directory

	reportHandler *reporthandlers.ReportHandler
	wifiHandler   *wifihandlers.WifiHandler

	adminToken *middleware.AdminTokenMiddleware
	limiter    ratelimit.RateLimiter
}

// NewContainer builds every server component. redisClient may be nil, in
// which case ingestion is not rate limited.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initHandlers()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	c.reportRepo = repository.NewReportRepository(c.db, c.log.Named("report-repository"))

	directory, err := loadDirectory(c.cfg.Wifi.PointsFile, c.log)
	if err != nil {
		return err
	}
	c.directory = directory

	c.adminToken = middleware.NewAdminTokenMiddleware(c.cfg.Admin.Token, c.log.Named("admin-token"))

	if c.cfg.RateLimit.Enabled && c.redis != nil {
		c.limiter = ratelimit.NewRedisRateLimiter(c.redis, "gorodok:ratelimit:")
	}

	return nil
}

func (c *Container) initHandlers() {
	policy := vo.PolicyFor(c.cfg.Report.StrictTransitions)
	ucLog := c.log.Named("usecases")

	c.reportHandler = reporthandlers.NewReportHandler(
		usecases.NewIngestReportUseCase(c.reportRepo, ucLog),
		usecases.NewListReportsUseCase(c.reportRepo, ucLog),
		usecases.NewSetReportStatusUseCase(c.reportRepo, policy, ucLog),
		usecases.NewGetReportStatsUseCase(c.reportRepo, ucLog),
		usecases.NewExportReportsUseCase(c.reportRepo, ucLog),
		c.log.Named("report-handler"),
	)
	c.wifiHandler = wifihandlers.NewWifiHandler(c.directory, c.log.Named("wifi-handler"))

	c.log.Infow("report status policy selected", "policy", policy.Name())
}

func (c *Container) reportRouteConfig() *routes.ReportRouteConfig {
	rc := &routes.ReportRouteConfig{
		ReportHandler: c.reportHandler,
		AdminToken:    c.adminToken,
	}
	if c.limiter != nil {
		window := ratelimit.Window{
			Limit:  c.cfg.RateLimit.Requests,
			Period: time.Duration(c.cfg.RateLimit.WindowSeconds) * time.Second,
		}
		rc.IngestRateLimit = middleware.RateLimit(c.limiter, "ingest", window, c.log.Named("ratelimit"))
	}
	return rc
}

func (c *Container) wifiRouteConfig() *routes.WifiRouteConfig {
	return &routes.WifiRouteConfig{WifiHandler: c.wifiHandler}
}

func (c *Container) healthHandler() gin.HandlerFunc {
	return handlers.HealthCheck
}

// loadDirectory reads the Wi-Fi point file. An empty path or a missing file
// yields an empty directory.
func loadDirectory(path string, log logger.Interface) (*wifi.Directory, error) {
	if path == "" {
		return wifi.NewDirectory(nil)
	}
	d, err := wifi.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warnw("wifi points file not found, directory is empty", "path", path)
		return wifi.NewDirectory(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wifi points: %w", err)
	}
	log.Infow("wifi points loaded", "path", path, "count", len(d.Points()))
	return d, nil
}
