// Package bootstrap loads configuration and assembles the components shared
// by the command line entry points.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gorodok-inc/gorodok/internal/application/submission"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/apiclient"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/config"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/email"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/kvstore"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/localstore"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/tasks"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/wifi"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
	"github.com/gorodok-inc/gorodok/internal/shared/services/markdown"
	"github.com/gorodok-inc/gorodok/internal/shared/version"
)

const (
	taskQueueSize = 64
	drainTimeout  = 30 * time.Second
)

// Flags are the persistent flags every command accepts.
type Flags struct {
	Env        string
	ConfigPath string
}

// Init loads configuration, the process logger and the business timezone.
func Init(flags Flags) (*config.Config, logger.Interface, error) {
	env := flags.Env
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(MapEnvToGinMode(env), flags.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == "debug"); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Report.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	return client, nil
}

// LoadDirectory reads the configured Wi-Fi point file. A missing file gives
// an empty directory.
func LoadDirectory(cfg config.Config, log logger.Interface) (*wifi.Directory, error) {
	if cfg.Wifi.PointsFile == "" {
		return wifi.NewDirectory(nil)
	}
	d, err := wifi.Load(cfg.Wifi.PointsFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warnw("wifi points file not found", "path", cfg.Wifi.PointsFile)
		return wifi.NewDirectory(nil)
	}
	return d, err
}

// Local is the citizen-side runtime: the local store, the background task
// dispatcher and the submission service on top of them.
type Local struct {
	Config     *config.Config
	Logger     logger.Interface
	Store      *localstore.Store
	Directory  *wifi.Directory
	Service    *submission.Service
	Dispatcher *tasks.Dispatcher

	kv    kvstore.Store
	redis *redis.Client
}

// NewLocal opens the local store and wires the submission service. Server
// mirroring is enabled by ingest.enabled; notifications by notify.driver.
func NewLocal(ctx context.Context, cfg *config.Config, log logger.Interface) (*Local, error) {
	l := &Local{Config: cfg, Logger: log}

	if cfg.Store.Backend == "redis" {
		client, err := NewRedisClient(ctx, *cfg)
		if err != nil {
			return nil, err
		}
		l.redis = client
	}

	kv, err := kvstore.New(cfg.Store, l.redis)
	if err != nil {
		l.closeRedis()
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	l.kv = kv

	l.Store = localstore.New(kv, vo.PolicyFor(cfg.Report.StrictTransitions), log.Named("localstore"))

	l.Directory, err = LoadDirectory(*cfg, log)
	if err != nil {
		_ = l.kv.Close()
		l.closeRedis()
		return nil, err
	}

	sender, err := email.NewSender(cfg.Notify, log.Named("notify"))
	if err != nil {
		_ = l.kv.Close()
		l.closeRedis()
		return nil, err
	}

	l.Dispatcher = tasks.NewDispatcher(taskQueueSize, log.Named("tasks"))

	composer := email.NewComposer(markdown.NewRenderer(), cfg.Notify.Platform, version.Resolve(cfg.Notify.Version))
	opts := []submission.Option{
		submission.WithPointDirectory(l.Directory),
		submission.WithNotifier(composer, sender, cfg.Notify.DefaultTo),
	}
	if cfg.Ingest.Enabled {
		opts = append(opts, submission.WithIngester(apiclient.NewClient(cfg.Ingest, log.Named("apiclient"))))
	}

	l.Service = submission.NewService(l.Store, l.Dispatcher, log.Named("submission"), opts...)
	return l, nil
}

// Close drains pending background tasks and releases the store.
func (l *Local) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	var errs []error
	if err := l.Dispatcher.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("background tasks: %w", err))
	}
	if err := l.kv.Close(); err != nil {
		errs = append(errs, err)
	}
	l.closeRedis()
	return errors.Join(errs...)
}

func (l *Local) closeRedis() {
	if l.redis != nil {
		_ = l.redis.Close()
	}
}

// MapEnvToGinMode translates a deployment environment name to a gin mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
