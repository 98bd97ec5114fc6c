package database

import (
	"time"

	"github.com/Alijeyrad/eunoia_backend/config"
)

// Config holds database connection and pool settings
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
}

// DSN returns a PostgreSQL connection string
func (c Config) DSN() string {
	return buildDSN(c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ConnMaxLifetime returns the connection max lifetime as a duration
func (c Config) ConnMaxLifetime() time.Duration {
	if c.ConnMaxLifetimeMin <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.ConnMaxLifetimeMin) * time.Minute
}

// DefaultConfig returns sensible defaults for database configuration
func DefaultConfig() Config {
	return Config{
		Host:               "localhost",
		Port:               5432,
		DBName:             "eunoia",
		SSLMode:            "disable",
		MaxOpenConns:       25,
		MaxIdleConns:       5,
		ConnMaxLifetimeMin: 5,
	}
}

// FromCentralConfig converts central config.DatabaseConfig to package Config,
// keeping defaults for unset fields.
func FromCentralConfig(c config.DatabaseConfig) Config {
	cfg := DefaultConfig()
	if c.Host != "" {
		cfg.Host = c.Host
	}
	if c.Port > 0 {
		cfg.Port = c.Port
	}
	cfg.User = c.User
	cfg.Password = c.Password
	if c.DBName != "" {
		cfg.DBName = c.DBName
	}
	if c.SSLMode != "" {
		cfg.SSLMode = c.SSLMode
	}
	if c.Pool.MaxOpenConns > 0 {
		cfg.MaxOpenConns = c.Pool.MaxOpenConns
	}
	if c.Pool.MaxIdleConns > 0 {
		cfg.MaxIdleConns = c.Pool.MaxIdleConns
	}
	if c.Pool.ConnMaxLifetimeMin > 0 {
		cfg.ConnMaxLifetimeMin = c.Pool.ConnMaxLifetimeMin
	}
	return cfg
}
