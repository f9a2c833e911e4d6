package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskmanager/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	os.Unsetenv("DB_DRIVER")

	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/tasks.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/tasks.db", cfg.DBPath)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME: fromfile\nLOG_LEVEL: debug\n"), 0o600))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.DBName)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := config.Load("")

	assert.EqualError(t, err, `unsupported DB_DRIVER "mysql"`)
}

func TestPostgresURL(t *testing.T) {
	cfg := &config.Config{
		DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p@ss", DBName: "tasks", DBSSLMode: "disable",
	}

	assert.Equal(t, "pgx5://u:p%40ss@db:5432/tasks?sslmode=disable", cfg.PostgresURL("pgx5"))
	assert.Equal(t, "host=db port=5432 user=u password=p@ss dbname=tasks sslmode=disable", cfg.PostgresDSN())
}
