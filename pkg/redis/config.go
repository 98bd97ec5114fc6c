package redis

import (
	"time"

	"github.com/Alijeyrad/eunoia_backend/config"
)

// Config holds Redis connection settings
type Config struct {
	Addr     string
	DB       int
	Username string
	Password string

	PoolSize     int
	MinIdleConns int

	DialTimeoutSeconds  int
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:                "localhost:6379",
		PoolSize:            10,
		MinIdleConns:        2,
		DialTimeoutSeconds:  5,
		ReadTimeoutSeconds:  3,
		WriteTimeoutSeconds: 3,
	}
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

func (c Config) DialTimeout() time.Duration  { return seconds(c.DialTimeoutSeconds, 5) }
func (c Config) ReadTimeout() time.Duration  { return seconds(c.ReadTimeoutSeconds, 3) }
func (c Config) WriteTimeout() time.Duration { return seconds(c.WriteTimeoutSeconds, 3) }

// FromCentralConfig converts central config.RedisConfig to package Config.
// Zero values fall back to DefaultConfig.
func FromCentralConfig(c config.RedisConfig) Config {
	def := DefaultConfig()
	orDefault := func(v, d int) int {
		if v > 0 {
			return v
		}
		return d
	}

	addr := c.Addr
	if addr == "" {
		addr = def.Addr
	}
	return Config{
		Addr:                addr,
		DB:                  c.DB,
		Username:            c.Username,
		Password:            c.Password,
		PoolSize:            orDefault(c.PoolSize, def.PoolSize),
		MinIdleConns:        orDefault(c.MinIdleConns, def.MinIdleConns),
		DialTimeoutSeconds:  orDefault(c.DialTimeoutSeconds, def.DialTimeoutSeconds),
		ReadTimeoutSeconds:  orDefault(c.ReadTimeoutSeconds, def.ReadTimeoutSeconds),
		WriteTimeoutSeconds: orDefault(c.WriteTimeoutSeconds, def.WriteTimeoutSeconds),
	}
}
