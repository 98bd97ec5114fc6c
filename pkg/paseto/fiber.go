package pasetotoken

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/eunoia_backend/config"
)

// TokensFromRequest returns the request's candidate tokens in the order they
// should be tried: the bearer token from the Authorization header, then the
// named cookie. Blank and repeated tokens are dropped, so the result is empty
// when the request carries none.
func TokensFromRequest(c fiber.Ctx, cookie string) []string {
	var out []string
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if tok := strings.TrimSpace(parts[1]); tok != "" {
				out = append(out, tok)
			}
		}
	}
	if tok := strings.TrimSpace(c.Cookies(cookie)); tok != "" && (len(out) == 0 || out[0] != tok) {
		out = append(out, tok)
	}
	return out
}

// NewPasetoManager creates a manager from config. Session lifetime comes from
// authentication.session_ttl_minutes.
func NewPasetoManager(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto

	keys, err := LoadKeys(KeyStrings{
		Mode:         Mode(p.Mode),
		SymmetricHex: p.LocalKeyHex,
		SecretHex:    p.SecretKeyHex,
		PublicHex:    p.PublicKeyHex,
	})
	if err != nil {
		return nil, err
	}

	return New(Config{
		Mode:     Mode(p.Mode),
		Issuer:   p.Issuer,
		Audience: p.Audience,
		TTL:      time.Duration(cfg.Authentication.SessionTTLMinutes) * time.Minute,
	}, keys)
}
