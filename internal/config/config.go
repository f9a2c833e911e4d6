package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	DBPath          string
	ServerPort      string
	JWTSecret       string
	JWTExpiryHours  int
	LogLevel        string
	LogFormat       string
	GinMode         string
	AutoMigrate     bool
	ShutdownTimeout time.Duration
}

var defaults = map[string]any{
	"DB_DRIVER":        DriverPostgres,
	"DB_HOST":          "localhost",
	"DB_PORT":          "5432",
	"DB_USER":          "taskmanager",
	"DB_PASSWORD":      "taskmanager",
	"DB_NAME":          "taskmanager",
	"DB_SSLMODE":       "disable",
	"DB_PATH":          "taskmanager.db",
	"SERVER_PORT":      "5000",
	"JWT_SECRET":       "",
	"JWT_EXPIRY_HOURS": 24,
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "console",
	"GIN_MODE":         "release",
	"AUTO_MIGRATE":     true,
	"SHUTDOWN_TIMEOUT": "5s",
}

// Load reads configuration from a .env file, an optional YAML file at path
// and the environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_NAME"),
		DBSSLMode:       v.GetString("DB_SSLMODE"),
		DBPath:          v.GetString("DB_PATH"),
		ServerPort:      v.GetString("SERVER_PORT"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTExpiryHours:  v.GetInt("JWT_EXPIRY_HOURS"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		GinMode:         v.GetString("GIN_MODE"),
		AutoMigrate:     v.GetBool("AUTO_MIGRATE"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDriver == DriverSQLite && c.DBPath == "" {
		return errors.New("DB_PATH is required for the sqlite driver")
	}
	switch c.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE %q", c.GinMode)
	}
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT is required")
	}
	if c.JWTExpiryHours <= 0 {
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// AuthEnabled reports whether API routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// PostgresDSN is the key/value connection string used by the gorm driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// PostgresURL is the same connection in URL form, as golang-migrate expects.
func (c *Config) PostgresURL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return u.String()
}
