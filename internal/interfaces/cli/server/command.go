package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/gorodok-inc/gorodok/internal/infrastructure/database"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/migration"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/tracing"
	httpRouter "github.com/gorodok-inc/gorodok/internal/interfaces/http"
	"github.com/gorodok-inc/gorodok/internal/interfaces/cli/bootstrap"
	"github.com/gorodok-inc/gorodok/internal/shared/goroutine"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
	"github.com/gorodok-inc/gorodok/internal/shared/version"
)

var (
	flags              bootstrap.Flags
	autoMigrate        bool
	skipMigrationCheck bool
	migrationStrategy  string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the report ingestion and administration HTTP server.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&flags.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "Apply pending database migrations on startup")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")
	cmd.Flags().StringVar(&migrationStrategy, "migration-strategy", migration.StrategyGoose, "Migration strategy (goose, golang-migrate, auto)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(flags)
	if err != nil {
		return err
	}

	log.Infow("starting server",
		"environment", flags.Env,
		"version", version.String(),
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, flags.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			log.Warnw("failed to flush traces", "error", err)
		}
	}()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := handleMigrations(log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient, err = bootstrap.NewRedisClient(ctx, *cfg)
		if err != nil {
			log.Warnw("rate limiting disabled, redis unavailable", "error", err)
		} else {
			defer redisClient.Close()
			log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
		}
	}

	container, err := httpRouter.NewContainer(database.Get(), redisClient, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	router := httpRouter.NewRouter(container)
	router.SetupRoutes()

	if cfg.Admin.Token == "" {
		log.Warnw("admin token is not configured, admin endpoints will answer 500")
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Infow("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	manager, err := migration.NewManager(migrationStrategy)
	if err != nil {
		return err
	}

	if autoMigrate {
		if flags.Env == "production" && migrationStrategy == migration.StrategyAuto {
			log.Warnw("gorm auto-migration is enabled in production, prefer a versioned strategy")
		}
		return manager.Migrate(database.Get())
	}

	current, err := manager.Status(database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", current)
	return nil
}
