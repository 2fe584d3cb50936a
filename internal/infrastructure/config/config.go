package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigFileEnvName points at an optional config file, overriding --config
const ConfigFileEnvName = "CATALOG_STORE_CONFIG_FILE"

// Snapshot backends
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	OTLP    OTLPConfig    `mapstructure:"otlp"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// Addr is the listen address
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type OTLPConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
	Enabled     bool   `mapstructure:"enabled"`
}

type CatalogConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	ListLimit int           `mapstructure:"list_limit"`
}

type StoreConfig struct {
	PageSize        int    `mapstructure:"page_size"`
	SnapshotBackend string `mapstructure:"snapshot_backend"`
	SnapshotPath    string `mapstructure:"snapshot_path"`
	SnapshotKey     string `mapstructure:"snapshot_key"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SlogLevel parses the configured level, defaulting to info
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

var defaults = map[string]any{
	"server.host":            "0.0.0.0",
	"server.port":            "8080",
	"otlp.endpoint":          "localhost:4317",
	"otlp.service_name":      "catalog-store",
	"otlp.environment":       "development",
	"otlp.enabled":           false,
	"catalog.base_url":       "https://fakestoreapi.com/products",
	"catalog.timeout":        10 * time.Second,
	"catalog.list_limit":     18,
	"store.page_size":        6,
	"store.snapshot_backend": BackendLevelDB,
	"store.snapshot_path":    "data/snapshot",
	"store.snapshot_key":     "catalog-store",
	"log.level":              "info",
	"log.format":             "json",
}

var envNames = map[string]string{
	"server.host":            "SERVER_HOST",
	"server.port":            "SERVER_PORT",
	"otlp.endpoint":          "OTEL_EXPORTER_OTLP_ENDPOINT",
	"otlp.service_name":      "OTEL_SERVICE_NAME",
	"otlp.environment":       "OTEL_ENVIRONMENT",
	"otlp.enabled":           "OTEL_EXPORT_ENABLED",
	"catalog.base_url":       "CATALOG_BASE_URL",
	"catalog.timeout":        "CATALOG_TIMEOUT",
	"catalog.list_limit":     "CATALOG_LIST_LIMIT",
	"store.page_size":        "STORE_PAGE_SIZE",
	"store.snapshot_backend": "SNAPSHOT_BACKEND",
	"store.snapshot_path":    "SNAPSHOT_PATH",
	"store.snapshot_key":     "SNAPSHOT_KEY",
	"log.level":              "LOG_LEVEL",
	"log.format":             "LOG_FORMAT",
}

// LoadConfig loads configuration from defaults, an optional config file and
// environment variables, in increasing order of precedence. args are the
// command line arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("catalog-store", pflag.ContinueOnError)
	configFile := flags.String("config", "", "config file (yaml, json or toml)")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.BindEnv("config_file", ConfigFileEnvName); err != nil {
		return nil, fmt.Errorf("bind %s: %w", ConfigFileEnvName, err)
	}
	path := *configFile
	if env := v.GetString("config_file"); env != "" {
		path = env
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the store cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Store.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("store.page_size must be positive, got %d", c.Store.PageSize))
	}
	if c.Catalog.ListLimit <= 0 {
		errs = append(errs, fmt.Errorf("catalog.list_limit must be positive, got %d", c.Catalog.ListLimit))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("catalog.timeout must be positive, got %s", c.Catalog.Timeout))
	}
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		errs = append(errs, errors.New("catalog.base_url is required"))
	}
	switch c.Store.SnapshotBackend {
	case BackendMemory, BackendLevelDB:
	default:
		errs = append(errs, fmt.Errorf("store.snapshot_backend must be %q or %q, got %q",
			BackendMemory, BackendLevelDB, c.Store.SnapshotBackend))
	}
	if c.Store.SnapshotKey == "" {
		errs = append(errs, errors.New("store.snapshot_key is required"))
	}
	switch c.Log.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json, text or console, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
