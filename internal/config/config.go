package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"portfoliodb/internal/database"
	apperrors "portfoliodb/internal/errors"
)

// DefaultEnvFiles are the dotenv files consulted by Load when none are given.
// The parent directory comes first so that a checkout-level .env is honoured
// when the tool is run from a subdirectory.
var DefaultEnvFiles = []string{filepath.Join("..", ".env"), ".env"}

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// Database
	DB database.Config

	// Files
	MigrationsDir string
	SchemaFile    string
	SeedFile      string
}

// Load loads configuration from dotenv files and environment variables.
// Missing dotenv files are not an error; variables already present in the
// environment win over dotenv values. Database settings are validated when a
// connection is opened, so commands that never connect work with any driver.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, apperrors.Wrap(apperrors.ErrInvalidConfig, err)
		}
	}

	driver := getEnv("DB_DRIVER", database.DriverPostgres)
	schema := filepath.Join("sql", "schema.sql")
	if driver == database.DriverSQLite {
		schema = filepath.Join("sql", "schema_sqlite.sql")
	}

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DB: database.Config{
			Driver:   driver,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "portfolios"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "portfolios.db"),
		},

		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		SchemaFile:    getEnv("SCHEMA_FILE", schema),
		SeedFile:      getEnv("SEED_FILE", filepath.Join("sql", "insert_sample_data.sql")),
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
