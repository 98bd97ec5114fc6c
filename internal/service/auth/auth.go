package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/identity"
	pasetotoken "github.com/Alijeyrad/eunoia_backend/pkg/paseto"
	"github.com/Alijeyrad/eunoia_backend/pkg/reqctx"
)

// adminSubject is stored as the session subject for admin sessions.
const adminSubject = "admin"

var validate = validator.New()

type UserStore interface {
	Create(ctx context.Context, u *repo.User) error
	GetByEmail(ctx context.Context, email string) (*repo.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

type Options struct {
	AdminPasscode     string
	MinPasswordLength int
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

type LoginRequest struct {
	Email    string
	Password string
}

// Session is an issued session token.
type Session struct {
	Token     string     `json:"token"`
	ExpiresIn int64      `json:"expiresIn"` // seconds
	User      *repo.User `json:"user,omitempty"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	// Logout revokes the session behind token. Unknown tokens are ignored.
	Logout(ctx context.Context, token string) error
	AdminLogin(ctx context.Context, passcode string) (*Session, error)
	VerifyAdmin(ctx context.Context, token string) error
	// LookupSession resolves a student token to its user id.
	LookupSession(ctx context.Context, credential string) (uuid.UUID, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	users    UserStore
	sessions SessionStore
	tokens   *pasetotoken.Manager
	hasher   PasswordHasher
	opts     Options
}

func New(users UserStore, sessions SessionStore, tokens *pasetotoken.Manager, hasher PasswordHasher, opts Options) Service {
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 8
	}
	return &authService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		opts:     opts,
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ---------------------------------------------------------------------------
// Students
// ---------------------------------------------------------------------------

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrMissingName
	}
	email := NormalizeEmail(req.Email)
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return nil, ErrInvalidEmail
	}
	if len([]rune(req.Password)) < s.opts.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &repo.User{Email: email, Name: name, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "student_registered",
		"request_id", reqctx.RequestIDFromContext(ctx),
		"user_id", u.ID,
	)
	return s.issue(ctx, pasetotoken.TokenTypeStudent, u)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := s.hasher.Verify(u.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, pasetotoken.TokenTypeStudent, u)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

func (s *authService) LookupSession(ctx context.Context, credential string) (uuid.UUID, error) {
	if strings.TrimSpace(credential) == "" {
		return uuid.Nil, identity.ErrNoSession
	}
	claims, err := s.verify(ctx, credential, pasetotoken.TokenTypeStudent)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// ---------------------------------------------------------------------------
// Admin
// ---------------------------------------------------------------------------

func (s *authService) AdminLogin(ctx context.Context, passcode string) (*Session, error) {
	want := s.opts.AdminPasscode
	if want == "" {
		return nil, ErrAdminDisabled
	}
	if subtle.ConstantTimeCompare([]byte(passcode), []byte(want)) != 1 {
		slog.WarnContext(ctx, "admin login rejected", "request_id", reqctx.RequestIDFromContext(ctx))
		return nil, ErrInvalidPasscode
	}
	return s.issue(ctx, pasetotoken.TokenTypeAdmin, nil)
}

func (s *authService) VerifyAdmin(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidToken
	}
	_, err := s.verify(ctx, token, pasetotoken.TokenTypeAdmin)
	return err
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

func (s *authService) issue(ctx context.Context, tt pasetotoken.TokenType, u *repo.User) (*Session, error) {
	sid, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	var (
		token   string
		subject string
	)
	switch tt {
	case pasetotoken.TokenTypeAdmin:
		subject = adminSubject
		token, err = s.tokens.IssueAdmin(sid)
	default:
		subject = u.ID.String()
		token, err = s.tokens.IssueStudent(u.ID, sid)
	}
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	ttl := s.tokens.TTL()
	if err := s.sessions.Save(ctx, sid, subject, ttl); err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresIn: int64(ttl.Seconds()), User: u}, nil
}

func (s *authService) verify(ctx context.Context, token string, want pasetotoken.TokenType) (*pasetotoken.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%w: token type %s", ErrInvalidToken, claims.Type)
	}

	subject, err := s.sessions.Subject(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	expected := adminSubject
	if want == pasetotoken.TokenTypeStudent {
		expected = claims.UserID.String()
	}
	if subject != expected {
		return nil, ErrSessionNotFound
	}
	return claims, nil
}

// IsAuthError reports whether err means the caller is not authenticated, as
// opposed to an infrastructure failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrSessionNotFound) || errors.Is(err, identity.ErrNoSession)
}
