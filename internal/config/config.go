package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MCP transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all application configuration
type Config struct {
	// Environment name, "development" enables pretty logs
	Env string

	// HTTP façade configuration
	Server ServerConfig

	// MCP server configuration
	MCP MCPConfig

	// Article store configuration
	Store StoreConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// MCPConfig holds MCP transport settings
type MCPConfig struct {
	Transport string // "stdio" or "http"
	Addr      string
	Endpoint  string
}

// StoreConfig holds seeding settings
type StoreConfig struct {
	SeedDemo bool
	SeedFile string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "production")
	logFormat := "json"
	if env == "development" {
		logFormat = "pretty"
	}

	cfg := &Config{
		Env: env,
		Server: ServerConfig{
			Port:            getEnv("PORT", "3001"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     getListEnv("CORS_ORIGINS", []string{"*"}),
		},
		MCP: MCPConfig{
			Transport: strings.ToLower(getEnv("MCP_TRANSPORT", TransportStdio)),
			Addr:      getEnv("MCP_ADDR", ":8090"),
			Endpoint:  getEnv("MCP_ENDPOINT", "/mcp"),
		},
		Store: StoreConfig{
			SeedDemo: getBoolEnv("KB_SEED_DEMO", true),
			SeedFile: getEnv("KB_SEED_FILE", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", logFormat),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.MCP.Transport != TransportStdio && c.MCP.Transport != TransportHTTP {
		return fmt.Errorf("MCP_TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, c.MCP.Transport)
	}
	if c.MCP.Transport == TransportHTTP && c.MCP.Addr == "" {
		return fmt.Errorf("MCP_ADDR is required for the http transport")
	}
	if !strings.HasPrefix(c.MCP.Endpoint, "/") {
		return fmt.Errorf("MCP_ENDPOINT must start with /")
	}
	return nil
}

// IsDevelopment reports whether the process runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
