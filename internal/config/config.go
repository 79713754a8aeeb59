package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envFile = ".env"

type Config struct {
	Server    ServerConfig
	Provider  ProviderConfig
	Dashboard DashboardConfig
	Logger    LoggerConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type ProviderConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// DashboardConfig bounds the sidebar filters.
type DashboardConfig struct {
	MinYear           int
	MaxYear           int
	DefaultTopSellers int
}

// maxTopSellers is the upper bound of the top sellers input.
const maxTopSellers = 100

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit   bool
	EnableCompression bool
	RateLimitRPS      int
	RateLimitBurst    int
	AllowedOrigins    []string
	TrustedProxies    []string
}

// Load reads the configuration from the environment. Variables from an
// optional .env file in the working directory are applied first without
// overriding the ones already set.
func Load() (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8084),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 45*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Provider: ProviderConfig{
			Endpoint: getEnvString("PROVIDER_ENDPOINT", "https://labdados.com/produtos"),
			Timeout:  getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second),
		},
		Dashboard: DashboardConfig{
			MinYear:           getEnvInt("DASHBOARD_MIN_YEAR", 2020),
			MaxYear:           getEnvInt("DASHBOARD_MAX_YEAR", 2023),
			DefaultTopSellers: getEnvInt("DASHBOARD_TOP_SELLERS", 10),
		},
		Logger: LoggerConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			EnableRateLimit:   getEnvBool("SECURITY_RATE_LIMIT_ENABLED", true),
			EnableCompression: getEnvBool("COMPRESSION_ENABLED", true),
			RateLimitRPS:      getEnvInt("SECURITY_RATE_LIMIT_RPS", 20),
			RateLimitBurst:    getEnvInt("SECURITY_RATE_LIMIT_BURST", 10),
			AllowedOrigins:    getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"}),
			TrustedProxies:    getEnvStringSlice("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Provider.Endpoint == "" {
		return fmt.Errorf("provider endpoint cannot be empty")
	}

	if u, err := url.Parse(c.Provider.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("provider endpoint %q is not an absolute URL", c.Provider.Endpoint)
	}

	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}

	if c.Dashboard.MinYear > c.Dashboard.MaxYear {
		return fmt.Errorf("dashboard year range is empty: %d > %d", c.Dashboard.MinYear, c.Dashboard.MaxYear)
	}

	if c.Dashboard.DefaultTopSellers < 1 || c.Dashboard.DefaultTopSellers > maxTopSellers {
		return fmt.Errorf("default top sellers must be between 1 and %d, got %d", maxTopSellers, c.Dashboard.DefaultTopSellers)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
