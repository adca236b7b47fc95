package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "charginguu/backend/libs/config"
)

const defaultPort = "8083"

// Config defines portal service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"PORTAL_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"PORTAL_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"PORTAL_REDIS_ADDR"`
		Password string `yaml:"password" env:"PORTAL_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"PORTAL_REDIS_DB"`
	} `yaml:"redis"`
	OTP struct {
		TTL         time.Duration `yaml:"ttl" env:"PORTAL_OTP_TTL"`
		ResendEvery time.Duration `yaml:"resendEvery" env:"PORTAL_OTP_RESEND_EVERY"`
		Burst       int           `yaml:"burst" env:"PORTAL_OTP_BURST"`
		BcryptCost  int           `yaml:"bcryptCost" env:"PORTAL_OTP_BCRYPT_COST"`
	} `yaml:"otp"`
	SMS struct {
		GatewayURL string        `yaml:"gatewayURL" env:"PORTAL_SMS_GATEWAY_URL"`
		APIKey     string        `yaml:"apiKey" env:"PORTAL_SMS_API_KEY"`
		Sender     string        `yaml:"sender" env:"PORTAL_SMS_SENDER"`
		Timeout    time.Duration `yaml:"timeout" env:"PORTAL_SMS_TIMEOUT"`
	} `yaml:"sms"`
	Profile struct {
		Name  string `yaml:"name" env:"PORTAL_PROFILE_NAME"`
		Email string `yaml:"email" env:"PORTAL_PROFILE_EMAIL"`
	} `yaml:"profile"`
}

// Load reads configuration via shared helper. Postgres, Redis and the SMS gateway are optional.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = defaultPort
	cfg.OTP.TTL = 5 * time.Minute
	cfg.OTP.ResendEvery = 30 * time.Second
	cfg.OTP.Burst = 3
	cfg.SMS.Timeout = 10 * time.Second
	cfg.Profile.Name = "John Doe"
	cfg.Profile.Email = "john.doe@example.com"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.OTP.TTL <= 0 {
		return nil, errors.New("config: otp ttl must be positive")
	}
	if cfg.OTP.ResendEvery <= 0 {
		return nil, errors.New("config: otp resend interval must be positive")
	}
	return cfg, nil
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
