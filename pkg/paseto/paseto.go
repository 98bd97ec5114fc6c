// Package pasetotoken issues and verifies the v4 PASETO tokens that carry
// student and admin sessions.
package pasetotoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	paseto "aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

type Config struct {
	Mode     Mode
	Issuer   string
	Audience string
	TTL      time.Duration
	Implicit []byte
}

type Manager struct {
	cfg   Config
	keys  Keys
	parse paseto.Parser
}

func New(cfg Config, keys Keys) (*Manager, error) {
	if cfg.Mode != keys.Mode {
		return nil, ErrConfig{Msg: "cfg.Mode must match keys.Mode"}
	}
	if cfg.Issuer == "" {
		return nil, ErrConfig{Msg: "Issuer is required"}
	}
	if cfg.Audience == "" {
		return nil, ErrConfig{Msg: "Audience is required"}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(cfg.Issuer))
	p.AddRule(paseto.ForAudience(cfg.Audience))

	return &Manager{cfg: cfg, keys: keys, parse: p}, nil
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration { return m.cfg.TTL }

func (m *Manager) IssueStudent(userID, sessionID uuid.UUID) (string, error) {
	return m.issue(TokenTypeStudent, userID, sessionID)
}

func (m *Manager) IssueAdmin(sessionID uuid.UUID) (string, error) {
	return m.issue(TokenTypeAdmin, uuid.Nil, sessionID)
}

// Verify checks signature or encryption, issuer, audience and expiry.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	var (
		tok *paseto.Token
		err error
	)

	switch m.cfg.Mode {
	case ModeLocal:
		if m.keys.Symmetric == nil {
			return nil, ErrConfig{Msg: "missing symmetric key"}
		}
		tok, err = m.parse.ParseV4Local(*m.keys.Symmetric, tokenStr, m.cfg.Implicit)
	case ModePublic:
		if m.keys.Public == nil {
			return nil, ErrConfig{Msg: "missing public key"}
		}
		tok, err = m.parse.ParseV4Public(*m.keys.Public, tokenStr, m.cfg.Implicit)
	default:
		return nil, ErrConfig{Msg: "unknown mode"}
	}
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}

	claims, err := extractClaims(tok)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}
	if claims.IsExpired(time.Now()) {
		return nil, ErrInvalidToken{Err: errors.New("token expired")}
	}
	return claims, nil
}

func (m *Manager) issue(tt TokenType, userID, sessionID uuid.UUID) (string, error) {
	now := time.Now()

	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetJti(randHex(16))
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(now.Add(m.cfg.TTL))
	tok.SetSubject(string(tt) + ":" + userID.String())

	tok.SetString("typ", string(tt))
	tok.SetString("uid", userID.String())
	tok.SetString("sid", sessionID.String())

	switch m.cfg.Mode {
	case ModeLocal:
		if m.keys.Symmetric == nil {
			return "", ErrConfig{Msg: "missing symmetric key"}
		}
		return tok.V4Encrypt(*m.keys.Symmetric, m.cfg.Implicit), nil
	case ModePublic:
		if m.keys.Secret == nil {
			return "", ErrConfig{Msg: "missing secret key"}
		}
		return tok.V4Sign(*m.keys.Secret, m.cfg.Implicit), nil
	}
	return "", ErrConfig{Msg: "unknown mode"}
}

func randHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func extractClaims(tok *paseto.Token) (*Claims, error) {
	jti, err := tok.GetJti()
	if err != nil {
		return nil, err
	}
	iat, err := tok.GetIssuedAt()
	if err != nil {
		return nil, err
	}
	exp, err := tok.GetExpiration()
	if err != nil {
		return nil, err
	}

	typ, err := tok.GetString("typ")
	if err != nil {
		return nil, err
	}
	switch TokenType(typ) {
	case TokenTypeStudent, TokenTypeAdmin:
	default:
		return nil, errors.New("unknown token type " + typ)
	}

	uidStr, err := tok.GetString("uid")
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(uidStr)
	if err != nil {
		return nil, err
	}

	sidStr, err := tok.GetString("sid")
	if err != nil {
		return nil, err
	}
	sid, err := uuid.Parse(sidStr)
	if err != nil {
		return nil, err
	}

	return &Claims{
		Type:      TokenType(typ),
		UserID:    uid,
		SessionID: sid,
		TokenID:   jti,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, nil
}
