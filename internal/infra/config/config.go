package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig      `json:"server"`
	Database    DatabaseConfig    `json:"database"`
	ChatService ChatServiceConfig `json:"chat_service"`
	Auth        AuthConfig        `json:"auth"`
	Logging     LoggingConfig     `json:"logging"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9000"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"300s"` // extended: relay sessions stay open for the whole upstream stream
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"300s"`
	IdleTimeout     time.Duration `json:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DatabaseConfig struct {
	Host         string        `json:"host" env:"DB_HOST" default:"localhost"`
	Port         string        `json:"port" env:"DB_PORT" default:"5432"`
	User         string        `json:"user" env:"DB_USER" default:"chatweb"`
	Password     string        `json:"-" env:"DB_PASSWORD"`
	PasswordFile string        `json:"-" env:"DB_PASSWORD_FILE"`
	Name         string        `json:"name" env:"DB_NAME" default:"chatweb"`
	MaxConns     int           `json:"max_conns" env:"DB_MAX_CONNS" default:"10"`
	MinConns     int           `json:"min_conns" env:"DB_MIN_CONNS" default:"2"`
	ConnTimeout  time.Duration `json:"conn_timeout" env:"DB_CONNECT_TIMEOUT" default:"30s"`
}

type ChatServiceConfig struct {
	URL       string `json:"url" env:"CHAT_SERVICE_URL" default:"http://chat-service:50052"`
	Token     string `json:"-" env:"CHAT_SERVICE_TOKEN"`
	TokenFile string `json:"-" env:"CHAT_SERVICE_TOKEN_FILE"`
}

type AuthConfig struct {
	TokenSecret     string `json:"-" env:"AUTH_TOKEN_SECRET"`
	TokenSecretFile string `json:"-" env:"AUTH_TOKEN_SECRET_FILE"`
	TokenIssuer     string `json:"token_issuer" env:"AUTH_TOKEN_ISSUER" default:"chatweb"`
}

type LoggingConfig struct {
	Level  string `json:"level" env:"LOG_LEVEL" default:"info"`
	Format string `json:"format" env:"LOG_FORMAT" default:"json"`
}

// NewConfig loads configuration from environment variables with fallback to
// tag defaults, then validates the result.
func NewConfig() (*Config, error) {
	config := &Config{}

	if err := loadFromEnvironment(config); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	// Docker Secrets support: *_FILE variants override nothing, they only
	// fill values left empty by the plain env vars.
	config.Database.Password = loadSecretFile(config.Database.Password, config.Database.PasswordFile)
	config.ChatService.Token = loadSecretFile(config.ChatService.Token, config.ChatService.TokenFile)
	config.Auth.TokenSecret = loadSecretFile(config.Auth.TokenSecret, config.Auth.TokenSecretFile)

	return config, nil
}

// Load is an alias for NewConfig.
func Load() (*Config, error) {
	return NewConfig()
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&connect_timeout=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, int(c.ConnTimeout.Seconds()))
}

func loadSecretFile(current, path string) string {
	if current != "" || path == "" {
		return current
	}
	content, err := os.ReadFile(path)
	if err != nil {
		// Fall back to the (empty) env value; validation downstream decides
		// whether that is acceptable.
		return current
	}
	return strings.TrimSpace(string(content))
}
