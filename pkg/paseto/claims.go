package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	// TokenTypeStudent authenticates a registered student.
	TokenTypeStudent TokenType = "student"
	// TokenTypeAdmin authenticates the staff console.
	TokenTypeAdmin TokenType = "admin"
)

// Claims is the app-facing token payload.
type Claims struct {
	Type TokenType

	// UserID is uuid.Nil for admin tokens.
	UserID    uuid.UUID
	SessionID uuid.UUID

	TokenID   string // jti
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c *Claims) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
