// Package config содержит конфигурацию и загрузчик настроек.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config содержит конфигурацию приложения
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Backend   BackendConfig   `yaml:"backend" envPrefix:"BACKEND_"`
	Database  DatabaseConfig  `yaml:"database" envPrefix:"DATABASE_"`
	Storage   StorageConfig   `yaml:"storage" envPrefix:"STORAGE_"`
	Session   SessionConfig   `yaml:"session" envPrefix:"SESSION_"`
	Kafka     KafkaConfig     `yaml:"kafka" envPrefix:"KAFKA_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Host            string        `yaml:"host" env:"HOST"`
	Port            int           `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// LogConfig содержит настройки логирования.
type LogConfig struct {
	Level       string `yaml:"level" env:"LEVEL"`
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
}

// BackendConfig содержит настройки внешнего REST API.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	// RefreshInterval задает период перезагрузки каталога; 0 - только при старте.
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"REFRESH_INTERVAL"`
}

// DatabaseConfig содержит настройки подключения к БД
type DatabaseConfig struct {
	DSN            string `yaml:"dsn" env:"DSN"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH"`
}

// StorageConfig содержит настройки хранилища корзин и сессий.
type StorageConfig struct {
	// Driver: memory или postgres.
	Driver          string        `yaml:"driver" env:"DRIVER"`
	MaxItems        int           `yaml:"max_items" env:"MAX_ITEMS"`
	TTL             time.Duration `yaml:"ttl" env:"TTL"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"CLEANUP_INTERVAL"`
}

// SessionConfig содержит настройки сессий и cookie.
type SessionConfig struct {
	CookieName string `yaml:"cookie_name" env:"COOKIE_NAME"`
	Secure     bool   `yaml:"secure" env:"SECURE"`
	PortalPath string `yaml:"portal_path" env:"PORTAL_PATH"`
	HomePath   string `yaml:"home_path" env:"HOME_PATH"`
}

// KafkaConfig содержит настройки Kafka
type KafkaConfig struct {
	Enabled           bool          `yaml:"enabled" env:"ENABLED"`
	Brokers           []string      `yaml:"brokers" env:"BROKERS" envSeparator:","`
	CatalogTopic      string        `yaml:"catalog_topic" env:"CATALOG_TOPIC"`
	OrdersTopic       string        `yaml:"orders_topic" env:"ORDERS_TOPIC"`
	GroupID           string        `yaml:"group_id" env:"GROUP_ID"`
	PublishRetries    int           `yaml:"publish_retries" env:"PUBLISH_RETRIES"`
	PublishBackoff    time.Duration `yaml:"publish_backoff" env:"PUBLISH_BACKOFF"`
	PublishBackoffCap time.Duration `yaml:"publish_backoff_cap" env:"PUBLISH_BACKOFF_CAP"`
	PublishJitter     bool          `yaml:"publish_jitter" env:"PUBLISH_JITTER"`
}

// TelemetryConfig содержит настройки трассировки и метрик.
type TelemetryConfig struct {
	ServiceName      string  `yaml:"service_name" env:"SERVICE_NAME"`
	Environment      string  `yaml:"environment" env:"ENVIRONMENT"`
	OTLPEndpoint     string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	OTLPInsecure     bool    `yaml:"otlp_insecure" env:"OTLP_INSECURE"`
	TracesEnabled    bool    `yaml:"traces_enabled" env:"TRACES_ENABLED"`
	MetricsEnabled   bool    `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
	TraceSampleRatio float64 `yaml:"trace_sample_ratio" env:"TRACE_SAMPLE_RATIO"`
	MetricsPath      string  `yaml:"metrics_path" env:"METRICS_PATH"`
}

// LoadConfig загружает конфигурацию: .env, затем файл, затем переменные окружения.
// Отсутствующий файл конфигурации не является ошибкой.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "TIMBERYARD_"}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	normalizeConfig(&cfg)
	return &cfg, nil
}

// Address возвращает адрес сервера в формате host:port
func (s *ServerConfig) Address() string {
	if s.Host == "" {
		return fmt.Sprintf(":%d", s.Port)
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Backend: BackendConfig{
			BaseURL:         "http://localhost:5000/api",
			Timeout:         10 * time.Second,
			RefreshInterval: 5 * time.Minute,
		},
		Database: DatabaseConfig{
			DSN:            "",
			MigrationsPath: "file://./migrations",
		},
		Storage: StorageConfig{
			Driver:          "memory",
			MaxItems:        10000,
			TTL:             30 * 24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		Session: SessionConfig{
			CookieName: "timberyard_session",
			PortalPath: "/portal",
			HomePath:   "/",
		},
		Kafka: KafkaConfig{
			Enabled:           false,
			Brokers:           []string{"localhost:9092"},
			CatalogTopic:      "catalog.product.changed",
			OrdersTopic:       "orders.placed",
			GroupID:           "timberyard-storefront",
			PublishRetries:    3,
			PublishBackoff:    500 * time.Millisecond,
			PublishBackoffCap: 5 * time.Second,
			PublishJitter:     true,
		},
		Telemetry: TelemetryConfig{
			ServiceName:      "timberyard-storefront",
			Environment:      "local",
			OTLPEndpoint:     "localhost:4318",
			OTLPInsecure:     true,
			TracesEnabled:    false,
			MetricsEnabled:   true,
			TraceSampleRatio: 1.0,
			MetricsPath:      "/metrics",
		},
	}
}

func normalizeConfig(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 10 * time.Second
	}
	if cfg.Backend.RefreshInterval < 0 {
		cfg.Backend.RefreshInterval = 0
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "file://./migrations"
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.Driver != "postgres" {
		cfg.Storage.Driver = "memory"
	}
	if cfg.Storage.MaxItems <= 0 {
		cfg.Storage.MaxItems = 10000
	}
	if cfg.Storage.CleanupInterval < 0 {
		cfg.Storage.CleanupInterval = 0
	}
	if cfg.Storage.TTL < 0 {
		cfg.Storage.TTL = 0
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "timberyard_session"
	}
	if cfg.Session.PortalPath == "" {
		cfg.Session.PortalPath = "/portal"
	}
	if cfg.Session.HomePath == "" {
		cfg.Session.HomePath = "/"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "timberyard-storefront"
	}
	if cfg.Telemetry.OTLPEndpoint == "" {
		cfg.Telemetry.OTLPEndpoint = "localhost:4318"
	}
	if cfg.Telemetry.TraceSampleRatio <= 0 || cfg.Telemetry.TraceSampleRatio > 1 {
		cfg.Telemetry.TraceSampleRatio = 1.0
	}
	if cfg.Telemetry.MetricsPath == "" {
		cfg.Telemetry.MetricsPath = "/metrics"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "timberyard-storefront"
	}
	if cfg.Kafka.PublishRetries < 0 {
		cfg.Kafka.PublishRetries = 0
	}
	if cfg.Kafka.PublishBackoff < 0 {
		cfg.Kafka.PublishBackoff = 0
	}
	if cfg.Kafka.PublishBackoffCap < 0 {
		cfg.Kafka.PublishBackoffCap = 0
	}
}
