package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultGRPCPort = "8080"
	defaultAPIToken = "dev-token"
	defaultLogLevel = "info"
)

// Config holds process settings read from the environment
type Config struct {
	GRPCPort           string
	APIToken           string
	DBConnStr          string
	PersistProjections bool
	LogLevel           string
}

// Load reads the process configuration from environment variables.
// DB_CONN_STR wins over the individual DB_* variables.
func Load() (*Config, error) {
	cfg := &Config{
		GRPCPort: getEnv("GRPC_PORT", defaultGRPCPort),
		APIToken: getEnv("API_TOKEN", defaultAPIToken),
		LogLevel: getEnv("LOG_LEVEL", defaultLogLevel),
	}

	cfg.DBConnStr = os.Getenv("DB_CONN_STR")
	if cfg.DBConnStr == "" {
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "letsretire"),
		)
	}

	if raw := os.Getenv("PERSIST_PROJECTIONS"); raw != "" {
		persist, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PERSIST_PROJECTIONS %q: %w", raw, err)
		}
		cfg.PersistProjections = persist
	}

	return cfg, cfg.Validate()
}

// Validate ensures the configuration can start a server
func (c *Config) Validate() error {
	port, err := strconv.Atoi(strings.TrimPrefix(c.GRPCPort, ":"))
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid GRPC_PORT %q", c.GRPCPort)
	}
	if strings.TrimSpace(c.APIToken) == "" {
		return errors.New("API_TOKEN cannot be empty")
	}
	if c.PersistProjections && c.DBConnStr == "" {
		return errors.New("a database connection is required when PERSIST_PROJECTIONS is set")
	}
	return nil
}

// ListenAddr is the TCP address the gRPC server binds to
func (c *Config) ListenAddr() string {
	return ":" + strings.TrimPrefix(c.GRPCPort, ":")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
