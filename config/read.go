package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
	"github.com/spf13/viper"
)

var GlobalConf *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.requests_per_minute", 120)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.dbname", "eunoia")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrations.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("authentication.paseto.mode", "local")
	v.SetDefault("authentication.paseto.issuer", "eunoia")
	v.SetDefault("authentication.paseto.audience", "eunoia-web")
	v.SetDefault("authentication.session_ttl_minutes", 24*60)
	v.SetDefault("authentication.min_password_length", 8)

	v.SetDefault("admin.passcode", DefaultAdminPasscode)

	v.SetDefault("screening.summary_cache_seconds", 30)
	v.SetDefault("screening.history_assessments", 10)
	v.SetDefault("screening.history_moods", 20)
	v.SetDefault("screening.history_bookings", 10)
	v.SetDefault("screening.recent_moods", 30)

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout_seconds", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output.stdout", true)
}

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// Allow env vars to override config values.
	// e.g. EUNOIA_DATABASE_HOST overrides database.host
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional when the environment carries the settings.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if os.Getenv(constants.EnvPrefix+"_DATABASE_HOST") == "" {
			return nil, fmt.Errorf("config file not found in %q and %s_DATABASE_HOST is unset", configPath, constants.EnvPrefix)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}
