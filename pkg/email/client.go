package email

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Alijeyrad/eunoia_backend/config"
)

// Sender delivers a message. *Client implements it.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Client struct {
	cfg Config
}

// NewFromCentral creates a new email client from central config
func NewFromCentral(cfg *config.Config) *Client {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Config returns the settings the client was built with.
func (c *Client) Config() Config { return c.cfg }

func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled
	}

	msg, err := buildMessage(c.cfg.sender(), m)
	if err != nil {
		return err
	}

	d := c.newDialer()

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	// Respect ctx deadline if it's sooner than our config timeout.
	wait := c.cfg.SMTPTimeout()
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < wait {
			wait = d
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return &SendError{Host: c.cfg.SMTPHost, Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func (c *Client) newDialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	d.SSL = c.cfg.SMTPUseTLS
	d.TLSConfig = &tls.Config{ServerName: c.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	return d
}

func buildMessage(from string, m Message) (*gomail.Message, error) {
	msg := gomail.NewMessage()

	from = strings.TrimSpace(from)
	if from == "" {
		return nil, &InvalidMessageError{Reason: "from is required"}
	}
	msg.SetHeader("From", from)

	to := cleanAddrs(m.To)
	if len(to) == 0 {
		return nil, &InvalidMessageError{Reason: "at least one recipient is required"}
	}
	msg.SetHeader("To", to...)
	if rt := strings.TrimSpace(m.ReplyTo); rt != "" {
		msg.SetHeader("Reply-To", rt)
	}

	subj := strings.TrimSpace(m.Subject)
	if subj == "" {
		return nil, &InvalidMessageError{Reason: "subject is required"}
	}
	msg.SetHeader("Subject", subj)

	for k, v := range m.Headers {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		msg.SetHeader(k, v)
	}

	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""

	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	case hasText:
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, &InvalidMessageError{Reason: "either TextBody or HTMLBody is required"}
	}

	return msg, nil
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
