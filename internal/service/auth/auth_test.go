package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/identity"
	pasetotoken "github.com/Alijeyrad/eunoia_backend/pkg/paseto"
	"github.com/Alijeyrad/eunoia_backend/pkg/util/password"
)

type memUsers struct {
	byEmail map[string]*repo.User
}

func (m *memUsers) Create(_ context.Context, u *repo.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return repo.ErrDuplicate
	}
	u.ID = uuid.New()
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*repo.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

type memSessions struct {
	mu sync.Mutex
	m  map[uuid.UUID]string
}

func (s *memSessions) Save(_ context.Context, id uuid.UUID, subject string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = subject
	return nil
}

func (s *memSessions) Subject(_ context.Context, id uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[id]
	if !ok {
		return "", ErrSessionNotFound
	}
	return v, nil
}

func (s *memSessions) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

type fixture struct {
	svc      Service
	users    *memUsers
	sessions *memSessions
	tokens   *pasetotoken.Manager
}

func newFixture(t *testing.T, passcode string) *fixture {
	t.Helper()
	keys := pasetotoken.NewLocalKeys()
	tokens, err := pasetotoken.New(pasetotoken.Config{
		Mode: keys.Mode, Issuer: "eunoia", Audience: "test", TTL: time.Hour,
	}, keys)
	if err != nil {
		t.Fatalf("pasetotoken.New() error = %v", err)
	}
	hasher := password.NewHasher(password.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	f := &fixture{
		users:    &memUsers{byEmail: map[string]*repo.User{}},
		sessions: &memSessions{m: map[uuid.UUID]string{}},
		tokens:   tokens,
	}
	f.svc = New(f.users, f.sessions, tokens, hasher, Options{AdminPasscode: passcode, MinPasswordLength: 8})
	return f
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{name: "ok", req: RegisterRequest{Name: "Ama", Email: "  Ama@Uni.EDU ", Password: "longenough"}},
		{name: "no name", req: RegisterRequest{Email: "a@b.co", Password: "longenough"}, wantErr: ErrMissingName},
		{name: "bad email", req: RegisterRequest{Name: "A", Email: "not-an-email", Password: "longenough"}, wantErr: ErrInvalidEmail},
		{name: "short password", req: RegisterRequest{Name: "A", Email: "a@b.co", Password: "short"}, wantErr: ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "")
			sess, err := f.svc.Register(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if sess.User.Email != "ama@uni.edu" {
				t.Errorf("Email = %q, want lower-cased ama@uni.edu", sess.User.Email)
			}
			if sess.User.PasswordHash == tt.req.Password {
				t.Error("password stored in clear text")
			}
			id, err := f.svc.LookupSession(context.Background(), sess.Token)
			if err != nil || id != sess.User.ID {
				t.Errorf("LookupSession() = %v, %v; want %v", id, err, sess.User.ID)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@b.co", Password: "password1"}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	_, err := f.svc.Register(ctx, RegisterRequest{Name: "B", Email: "A@B.co", Password: "password2"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@b.co", Password: "password1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr error
	}{
		{name: "ok", req: LoginRequest{Email: "A@b.co", Password: "password1"}},
		{name: "wrong password", req: LoginRequest{Email: "a@b.co", Password: "password2"}, wantErr: ErrInvalidCredentials},
		{name: "unknown email", req: LoginRequest{Email: "x@b.co", Password: "password1"}, wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := f.svc.Login(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && sess.Token == "" {
				t.Error("Login() returned empty token")
			}
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	sess, err := f.svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@b.co", Password: "password1"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := f.svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := f.svc.LookupSession(ctx, sess.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("LookupSession() after logout error = %v, want ErrSessionNotFound", err)
	}
	if err := f.svc.Logout(ctx, "garbage"); err != nil {
		t.Errorf("Logout(garbage) error = %v, want nil", err)
	}
}

func TestLookupSession(t *testing.T) {
	f := newFixture(t, "pass")
	ctx := context.Background()
	admin, err := f.svc.AdminLogin(ctx, "pass")
	if err != nil {
		t.Fatalf("AdminLogin() error = %v", err)
	}

	tests := []struct {
		name       string
		credential string
		wantErr    error
	}{
		{name: "empty", credential: " ", wantErr: identity.ErrNoSession},
		{name: "garbage", credential: "v4.local.xyz", wantErr: ErrInvalidToken},
		{name: "admin token is not a student session", credential: admin.Token, wantErr: ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.LookupSession(ctx, tt.credential)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LookupSession() error = %v, want %v", err, tt.wantErr)
			}
			if !IsAuthError(err) {
				t.Errorf("IsAuthError(%v) = false", err)
			}
		})
	}
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong passcode", func(t *testing.T) {
		f := newFixture(t, "staff-code")
		if _, err := f.svc.AdminLogin(ctx, "guess"); !errors.Is(err, ErrInvalidPasscode) {
			t.Errorf("AdminLogin() error = %v, want ErrInvalidPasscode", err)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t, "")
		if _, err := f.svc.AdminLogin(ctx, ""); !errors.Is(err, ErrAdminDisabled) {
			t.Errorf("AdminLogin() error = %v, want ErrAdminDisabled", err)
		}
	})

	t.Run("verify round trip", func(t *testing.T) {
		f := newFixture(t, "staff-code")
		sess, err := f.svc.AdminLogin(ctx, "staff-code")
		if err != nil {
			t.Fatalf("AdminLogin() error = %v", err)
		}
		if err := f.svc.VerifyAdmin(ctx, sess.Token); err != nil {
			t.Errorf("VerifyAdmin() error = %v", err)
		}
		if err := f.svc.Logout(ctx, sess.Token); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if err := f.svc.VerifyAdmin(ctx, sess.Token); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("VerifyAdmin() after logout error = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("student token rejected", func(t *testing.T) {
		f := newFixture(t, "staff-code")
		sess, err := f.svc.Register(ctx, RegisterRequest{Name: "A", Email: "a@b.co", Password: "password1"})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if err := f.svc.VerifyAdmin(ctx, sess.Token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("VerifyAdmin(student) error = %v, want ErrInvalidToken", err)
		}
	})
}
