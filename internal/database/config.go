package database

import (
	"fmt"
	"net"
	"net/url"

	apperrors "portfoliodb/internal/errors"
)

// Supported values for Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// Path is the database file used by the sqlite driver.
	Path string
}

// Validate checks that the configuration names a supported driver and
// carries the fields that driver needs.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" || c.DBName == "" || c.User == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidConfig, "DB_HOST, DB_NAME and DB_USER are required for postgres")
		}
	case DriverSQLite:
		if c.Path == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidConfig, "DB_PATH is required for sqlite")
		}
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidConfig, fmt.Sprintf("unsupported DB_DRIVER %q", c.Driver))
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path + "?_foreign_keys=on"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// Redacted returns the DSN with the password masked, for logging.
func (c *Config) Redacted() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf("postgres://%s@%s/%s", c.User, net.JoinHostPort(c.Host, c.Port), c.DBName)
}
