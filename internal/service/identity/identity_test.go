package identity

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestResolve(t *testing.T) {
	user := uuid.New()
	nilUser := uuid.Nil

	tests := []struct {
		name       string
		session    *uuid.UUID
		clientID   string
		wantKind   Kind
		wantUser   uuid.UUID
		wantDevice string
	}{
		{name: "session only", session: &user, wantKind: KindAuthenticated, wantUser: user},
		{name: "session wins over client id", session: &user, clientID: "user_abc", wantKind: KindAuthenticated, wantUser: user},
		{name: "client id only", clientID: "user_abc", wantKind: KindAnonymous, wantDevice: "user_abc"},
		{name: "client id trimmed", clientID: "  dev-1  ", wantKind: KindAnonymous, wantDevice: "dev-1"},
		{name: "blank client id", clientID: "   ", wantKind: KindUnattributed},
		{name: "nothing", wantKind: KindUnattributed},
		{name: "nil uuid session ignored", session: &nilUser, clientID: "x", wantKind: KindAnonymous, wantDevice: "x"},
		// Long opaque ids are device ids, not account ids.
		{name: "long client id stays anonymous", clientID: "cm0abcdefghijklmnopqrstuvwxyz", wantKind: KindAnonymous, wantDevice: "cm0abcdefghijklmnopqrstuvwxyz"},
		{name: "uuid-shaped client id stays anonymous", clientID: user.String(), wantKind: KindAnonymous, wantDevice: user.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.session, tt.clientID)
			if got.Kind() != tt.wantKind {
				t.Fatalf("Resolve() kind = %v, want %v", got.Kind(), tt.wantKind)
			}

			uid, anon := got.Columns()
			if uid != nil && anon != nil {
				t.Fatalf("Columns() returned both ids: %v, %v", *uid, *anon)
			}

			switch tt.wantKind {
			case KindAuthenticated:
				if uid == nil || *uid != tt.wantUser {
					t.Errorf("Columns() userID = %v, want %v", uid, tt.wantUser)
				}
			case KindAnonymous:
				if anon == nil || *anon != tt.wantDevice {
					t.Errorf("Columns() anonymousID = %v, want %q", anon, tt.wantDevice)
				}
			case KindUnattributed:
				if uid != nil || anon != nil {
					t.Errorf("Columns() = (%v, %v), want (nil, nil)", uid, anon)
				}
			}
		})
	}
}

func TestSubmitterAccessors(t *testing.T) {
	id := uuid.New()

	s := Authenticated(id)
	if got, ok := s.UserID(); !ok || got != id {
		t.Errorf("UserID() = %v, %v; want %v, true", got, ok, id)
	}
	if _, ok := s.DeviceID(); ok {
		t.Error("DeviceID() ok for authenticated submitter")
	}

	a := Anonymous("dev")
	if _, ok := a.UserID(); ok {
		t.Error("UserID() ok for anonymous submitter")
	}
	if !Unattributed().IsUnattributed() {
		t.Error("Unattributed().IsUnattributed() = false")
	}
	if got := a.String(); got != "device:dev" {
		t.Errorf("String() = %q, want device:dev", got)
	}
}

type fakeLookup struct {
	id    uuid.UUID
	err   error
	calls int
}

func (f *fakeLookup) LookupSession(_ context.Context, _ string) (uuid.UUID, error) {
	f.calls++
	return f.id, f.err
}

func TestResolver_Resolve(t *testing.T) {
	user := uuid.New()

	tests := []struct {
		name       string
		lookup     *fakeLookup
		credential string
		clientID   string
		wantKind   Kind
		wantCalls  int
		wantWarn   bool
	}{
		{
			name:       "valid session",
			lookup:     &fakeLookup{id: user},
			credential: "tok",
			clientID:   "dev",
			wantKind:   KindAuthenticated,
			wantCalls:  1,
		},
		{
			name:      "no credential skips lookup",
			lookup:    &fakeLookup{id: user},
			clientID:  "dev",
			wantKind:  KindAnonymous,
			wantCalls: 0,
		},
		{
			name:       "lookup failure falls back to client id",
			lookup:     &fakeLookup{err: errors.New("redis down")},
			credential: "tok",
			clientID:   "dev",
			wantKind:   KindAnonymous,
			wantCalls:  1,
			wantWarn:   true,
		},
		{
			name:       "lookup failure without client id",
			lookup:     &fakeLookup{err: errors.New("bad token")},
			credential: "tok",
			wantKind:   KindUnattributed,
			wantCalls:  1,
			wantWarn:   true,
		},
		{
			name:       "no session is quiet",
			lookup:     &fakeLookup{err: ErrNoSession},
			credential: "tok",
			wantKind:   KindUnattributed,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, nil))
			r := NewResolver(tt.lookup, log)

			got := r.Resolve(context.Background(), []string{tt.credential}, tt.clientID)
			if got.Kind() != tt.wantKind {
				t.Errorf("Resolve() kind = %v, want %v", got.Kind(), tt.wantKind)
			}
			if tt.lookup.calls != tt.wantCalls {
				t.Errorf("lookup calls = %d, want %d", tt.lookup.calls, tt.wantCalls)
			}
			if warned := strings.Contains(buf.String(), "level=WARN"); warned != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v (log: %s)", warned, tt.wantWarn, buf.String())
			}
		})
	}
}

type tokenLookup map[string]error

func (m tokenLookup) LookupSession(_ context.Context, credential string) (uuid.UUID, error) {
	if err, ok := m[credential]; ok {
		return uuid.Nil, err
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(credential)), nil
}

func TestResolver_CredentialOrder(t *testing.T) {
	lookup := tokenLookup{
		"expired": errors.New("token expired"),
		"revoked": errors.New("session not found"),
	}
	sessionUser := func(tok string) uuid.UUID { return uuid.NewSHA1(uuid.NameSpaceOID, []byte(tok)) }

	tests := []struct {
		name        string
		credentials []string
		wantKind    Kind
		wantUser    uuid.UUID
		wantWarn    bool
	}{
		{name: "bad bearer falls back to cookie", credentials: []string{"expired", "cookie"}, wantKind: KindAuthenticated, wantUser: sessionUser("cookie")},
		{name: "first live session wins", credentials: []string{"header", "cookie"}, wantKind: KindAuthenticated, wantUser: sessionUser("header")},
		{name: "blank entries skipped", credentials: []string{" ", "cookie"}, wantKind: KindAuthenticated, wantUser: sessionUser("cookie")},
		{name: "all rejected", credentials: []string{"expired", "revoked"}, wantKind: KindAnonymous, wantWarn: true},
		{name: "none", wantKind: KindAnonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewResolver(lookup, slog.New(slog.NewTextHandler(&buf, nil)))

			got := r.Resolve(context.Background(), tt.credentials, "dev")
			if got.Kind() != tt.wantKind {
				t.Fatalf("Resolve() kind = %v, want %v", got.Kind(), tt.wantKind)
			}
			if id, ok := got.UserID(); ok && id != tt.wantUser {
				t.Errorf("UserID() = %v, want %v", id, tt.wantUser)
			}
			if warned := strings.Contains(buf.String(), "level=WARN"); warned != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v (log: %s)", warned, tt.wantWarn, buf.String())
			}
		})
	}
}
