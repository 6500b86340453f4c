package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	API    APIConfig    `yaml:"api" mapstructure:"api"`
	CMF    CMFConfig    `yaml:"cmf" mapstructure:"cmf"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Rates  RatesConfig  `yaml:"rates" mapstructure:"rates"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// APIConfig points the query commands at a running series API.
type APIConfig struct {
	Origin string `yaml:"origin" mapstructure:"origin"`
}

// CMFConfig configures the upstream CMF API client.
type CMFConfig struct {
	Key            string  `yaml:"key" mapstructure:"key"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// CacheConfig configures value freshness.
type CacheConfig struct {
	TTLSecs int `yaml:"ttl_secs" mapstructure:"ttl_secs"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	CSVPath     string `yaml:"csv_path" mapstructure:"csv_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// RatesConfig configures range resolution.
type RatesConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port          int    `yaml:"port" mapstructure:"port"`
	AllowedOrigin string `yaml:"allowed_origin" mapstructure:"allowed_origin"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	// .env is optional; already-set environment variables win.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VALORUF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bare CMF_API_KEY name predates the prefixed form and stays
	// supported.
	_ = v.BindEnv("cmf.key", "VALORUF_CMF_KEY", "CMF_API_KEY")

	// Defaults
	v.SetDefault("api.origin", "http://localhost:5000")
	v.SetDefault("cmf.base_url", "https://api.cmfchile.cl/api-sbifv3/recursos_api")
	v.SetDefault("cmf.timeout_secs", 10)
	v.SetDefault("cmf.requests_per_sec", 5)
	v.SetDefault("cache.ttl_secs", 3600)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "uf_cache.db")
	v.SetDefault("store.csv_path", "uf_cache.csv")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("rates.max_concurrent", 4)
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields the given command family depends on. Modes:
// "query" for the client commands, "serve" for the API server, "sync" for
// cache backfills.
func (c *Config) Validate(mode string) error {
	switch mode {
	case "query":
		if c.API.Origin == "" {
			return eris.New("config: api.origin is required")
		}
	case "serve", "sync":
		switch c.Store.Driver {
		case "sqlite":
			if c.Store.SQLitePath == "" {
				return eris.New("config: store.sqlite_path is required")
			}
		case "postgres":
			if c.Store.DatabaseURL == "" {
				return eris.New("config: store.database_url is required for the postgres driver")
			}
		case "csv":
			if c.Store.CSVPath == "" {
				return eris.New("config: store.csv_path is required")
			}
		default:
			return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
		}
		if c.Cache.TTLSecs <= 0 {
			return eris.New("config: cache.ttl_secs must be positive")
		}
		if c.Rates.MaxConcurrent <= 0 {
			return eris.New("config: rates.max_concurrent must be positive")
		}
		if mode == "serve" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
			return eris.Errorf("config: invalid server port %d", c.Server.Port)
		}
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}
	return nil
}

// MissingCMFKey reports whether the upstream key is unset or still the
// placeholder value. A missing key is a warning, not a startup failure:
// cached values keep being served.
func (c *Config) MissingCMFKey() bool {
	return c.CMF.Key == "" || c.CMF.Key == "YOUR_API_KEY_HERE"
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
