package email

import (
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Alijeyrad/eunoia_backend/config"
	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
)

// Config holds email service configuration
type Config struct {
	Enabled  bool
	From     string
	FromName string

	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPUseTLS         bool
	SMTPTimeoutSeconds int

	// Template settings
	AppName string
	BaseURL string
}

// SMTPTimeout returns the SMTP timeout as a duration
func (c Config) SMTPTimeout() time.Duration {
	if c.SMTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

// sender formats the From header, adding the display name when set.
func (c Config) sender() string {
	if c.FromName == "" || c.From == "" {
		return c.From
	}
	return gomail.NewMessage().FormatAddress(c.From, c.FromName)
}

// FromCentralConfig converts the central config to package Config
func FromCentralConfig(c *config.Config) Config {
	e := c.Email
	port := e.SMTP.Port
	if port == 0 {
		port = 587
	}
	baseURL := ""
	if c.Server.Domain != "" {
		baseURL = "https://" + c.Server.Domain
	}
	return Config{
		Enabled:            e.Enabled,
		From:               e.From,
		FromName:           e.FromName,
		SMTPHost:           e.SMTP.Host,
		SMTPPort:           port,
		SMTPUsername:       e.SMTP.Username,
		SMTPPassword:       e.SMTP.Password,
		SMTPUseTLS:         e.SMTP.UseTLS,
		SMTPTimeoutSeconds: e.SMTP.TimeoutSeconds,
		AppName:            constants.AppDisplayName,
		BaseURL:            baseURL,
	}
}
