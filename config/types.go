package config

import (
	"errors"
	"fmt"
	"strings"
)

type Config struct {
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Server         ServerConfig         `mapstructure:"server"`
	Authentication AuthenticationConfig `mapstructure:"authentication"`
	Admin          AdminConfig          `mapstructure:"admin"`
	Password       PasswordConfig       `mapstructure:"password"`
	Email          EmailConfig          `mapstructure:"email"`
	Nats           NatsConfig           `mapstructure:"nats"`
	Screening      ScreeningConfig      `mapstructure:"screening"`
	Observability  ObservabilityConfig  `mapstructure:"observability"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Client         ClientConfig         `mapstructure:"client"`
}

type NatsConfig struct {
	// Empty URL disables booking events and the notification worker.
	URL string `mapstructure:"url" yaml:"url"`
}

type DatabaseConfig struct {
	Host       string                  `mapstructure:"host"`
	Port       int                     `mapstructure:"port"`
	User       string                  `mapstructure:"user"`
	Password   string                  `mapstructure:"password"`
	DBName     string                  `mapstructure:"dbname"`
	SSLMode    string                  `mapstructure:"sslmode"`
	Pool       DatabasePoolConfig      `mapstructure:"pool"`
	Migrations DatabaseMigrationConfig `mapstructure:"migrations"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type DatabaseMigrationConfig struct {
	// AutoMigrate applies pending embedded migrations on server start.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type ServerConfig struct {
	Port              int        `mapstructure:"port"`
	TimeoutSeconds    int        `mapstructure:"timeout_seconds"`
	Environment       string     `mapstructure:"environment"`
	Domain            string     `mapstructure:"domain"`
	RequestsPerMinute int        `mapstructure:"requests_per_minute"`
	CORS              CORSConfig `mapstructure:"cors"`
}

func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAgeSeconds    int      `mapstructure:"max_age_seconds"`
}

type AuthenticationConfig struct {
	Paseto            PasetoConfig `mapstructure:"paseto"`
	SessionTTLMinutes int          `mapstructure:"session_ttl_minutes"`
	MinPasswordLength int          `mapstructure:"min_password_length"`
}

type PasetoConfig struct {
	Mode         string `mapstructure:"mode"`
	LocalKeyHex  string `mapstructure:"local_key_hex"`
	SecretKeyHex string `mapstructure:"secret_key_hex"`
	PublicKeyHex string `mapstructure:"public_key_hex"`
	Issuer       string `mapstructure:"issuer"`
	Audience     string `mapstructure:"audience"`
}

type AdminConfig struct {
	Passcode string `mapstructure:"passcode"`
}

type PasswordConfig struct {
	MemoryKiB   uint32 `mapstructure:"memory_kib"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

type EmailConfig struct {
	Enabled  bool       `mapstructure:"enabled"`
	From     string     `mapstructure:"from"`
	FromName string     `mapstructure:"from_name"`
	SMTP     SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	UseTLS         bool   `mapstructure:"use_tls"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ScreeningConfig struct {
	SummaryCacheSeconds int `mapstructure:"summary_cache_seconds"`
	HistoryAssessments  int `mapstructure:"history_assessments"`
	HistoryMoods        int `mapstructure:"history_moods"`
	HistoryBookings     int `mapstructure:"history_bookings"`
	RecentMoods         int `mapstructure:"recent_moods"`
}

type ClientConfig struct {
	// BaseURL of the server the companion CLI talks to.
	BaseURL string `mapstructure:"base_url"`
	// IdentityFile stores the anonymous device id between runs.
	IdentityFile   string `mapstructure:"identity_file"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/eunoia.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// DefaultAdminPasscode is accepted outside production only.
const DefaultAdminPasscode = "admin123"

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	switch c.Authentication.Paseto.Mode {
	case "local":
		if strings.TrimSpace(c.Authentication.Paseto.LocalKeyHex) == "" {
			errs = append(errs, errors.New("authentication.paseto.local_key_hex is required in local mode"))
		}
	case "public":
		if strings.TrimSpace(c.Authentication.Paseto.SecretKeyHex) == "" {
			errs = append(errs, errors.New("authentication.paseto.secret_key_hex is required in public mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("authentication.paseto.mode %q must be local or public", c.Authentication.Paseto.Mode))
	}

	if c.Server.IsProduction() {
		p := strings.TrimSpace(c.Admin.Passcode)
		if p == "" || p == DefaultAdminPasscode {
			errs = append(errs, errors.New("admin.passcode must be set to a non-default value in production"))
		}
	}

	if c.Email.Enabled && c.Email.SMTP.Host == "" {
		errs = append(errs, errors.New("email.smtp.host is required when email is enabled"))
	}

	return errors.Join(errs...)
}
