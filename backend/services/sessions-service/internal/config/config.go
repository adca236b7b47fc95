package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "charginguu/backend/libs/config"
	"charginguu/backend/services/sessions-service/internal/service"
)

const defaultPort = "8082"

// Config defines sessions service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"SESSIONS_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"SESSIONS_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"SESSIONS_REDIS_ADDR"`
		Password string `yaml:"password" env:"SESSIONS_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"SESSIONS_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"SESSIONS_REDIS_TTL"`
	} `yaml:"redis"`
	Session struct {
		TickInterval  time.Duration `yaml:"tickInterval" env:"SESSIONS_TICK_INTERVAL"`
		AutoEndAtFull bool          `yaml:"autoEndAtFull" env:"SESSIONS_AUTO_END_AT_FULL"`
	} `yaml:"session"`
	Stream struct {
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"SESSIONS_STREAM_WRITE_TIMEOUT"`
	} `yaml:"stream"`
	Invoice struct {
		Secret string        `yaml:"secret" env:"SESSIONS_INVOICE_SECRET"`
		TTL    time.Duration `yaml:"ttl" env:"SESSIONS_INVOICE_TTL"`
	} `yaml:"invoice"`
	Tariffs struct {
		Default service.Tariff            `yaml:"default"`
		Spots   map[string]service.Tariff `yaml:"spots"`
	} `yaml:"tariffs"`
}

// Load reads configuration via shared helper. Postgres and Redis are optional.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.Redis.TTL = 86400
	cfg.Session.TickInterval = time.Second
	cfg.Stream.WriteTimeout = 5 * time.Second
	cfg.Invoice.TTL = 30 * 24 * time.Hour
	cfg.Tariffs.Default = service.Tariff{Name: "Standard", RatePerMinute: service.DefaultRatePerMinute}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Invoice.Secret) == "" {
		return errors.New("config: invoice secret required")
	}
	if c.Session.TickInterval <= 0 {
		return errors.New("config: tick interval must be positive")
	}
	if c.Tariffs.Default.RatePerMinute < 0 {
		return errors.New("config: default tariff rate must not be negative")
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// ActiveSessionTTL returns ttl as duration.
func (c *Config) ActiveSessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}
