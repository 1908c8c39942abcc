package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/gorodok-inc/gorodok/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Admin     sharedConfig.AdminConfig     `mapstructure:"admin"`
	Report    sharedConfig.ReportConfig    `mapstructure:"report"`
	Store     sharedConfig.StoreConfig     `mapstructure:"store"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Ingest    sharedConfig.IngestConfig    `mapstructure:"ingest"`
	Notify    sharedConfig.NotifyConfig    `mapstructure:"notify"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"ratelimit"`
	Tracing   sharedConfig.TracingConfig   `mapstructure:"tracing"`
	Wifi      sharedConfig.WifiConfig      `mapstructure:"wifi"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (or the explicit path) and overlays
// GORODOK_* environment variables. A missing config file is not an error:
// defaults and environment alone are a valid configuration.
func Load(env, path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("GORODOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &cfg
	appConfigMu.Unlock()

	return &cfg, nil
}

// Get returns the last loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/reports.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.database", "gorodok")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Admin and report policy
	v.SetDefault("admin.token", "")
	v.SetDefault("report.strict_transitions", false)
	v.SetDefault("report.timezone", "Europe/Moscow")

	// Local store defaults
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dir", "data/local")
	v.SetDefault("store.key_prefix", "gorodok:")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Ingestion client defaults
	v.SetDefault("ingest.enabled", false)
	v.SetDefault("ingest.base_url", "http://localhost:3000")
	v.SetDefault("ingest.timeout_seconds", 10)

	// Notification defaults
	v.SetDefault("notify.driver", "none")
	v.SetDefault("notify.platform", "cli")
	v.SetDefault("notify.version", "1.0.0")
	v.SetDefault("notify.smtp_host", "localhost")
	v.SetDefault("notify.smtp_port", 1025)
	v.SetDefault("notify.from_address", "noreply@gorodok.local")
	v.SetDefault("notify.from_name", "Gorodok")

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests", 30)
	v.SetDefault("ratelimit.window_seconds", 60)

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "http://localhost:4318")
	v.SetDefault("tracing.service_name", "gorodok")

	v.SetDefault("wifi.points_file", "configs/wifi_points.yaml")
}
