package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()

	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 300*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, "http://chat-service:50052", cfg.ChatService.URL)
	assert.Equal(t, "chatweb", cfg.Auth.TokenIssuer)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SERVER_READ_TIMEOUT", "1m")
	t.Setenv("CHAT_SERVICE_URL", "http://localhost:50052")

	cfg, err := NewConfig()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, time.Minute, cfg.Server.ReadTimeout)
	assert.Equal(t, "http://localhost:50052", cfg.ChatService.URL)
}

func TestNewConfig_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "99999")

	_, err := NewConfig()

	assert.Error(t, err)
}

func TestNewConfig_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, err := NewConfig()

	assert.Error(t, err)
}

func TestNewConfig_SecretFile(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "db_password")
	require.NoError(t, os.WriteFile(secretPath, []byte("s3cret\n"), 0o600))
	t.Setenv("DB_PASSWORD_FILE", secretPath)

	cfg, err := NewConfig()

	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestNewConfig_PlainEnvWinsOverSecretFile(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "db_password")
	require.NoError(t, os.WriteFile(secretPath, []byte("from-file"), 0o600))
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("DB_PASSWORD_FILE", secretPath)

	cfg, err := NewConfig()

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:        "db",
		Port:        "5432",
		User:        "app",
		Password:    "pw",
		Name:        "chatweb",
		ConnTimeout: 30 * time.Second,
	}

	assert.Equal(t, "postgres://app:pw@db:5432/chatweb?sslmode=disable&connect_timeout=30", cfg.DSN())
}
