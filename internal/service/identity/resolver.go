package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Alijeyrad/eunoia_backend/pkg/reqctx"
)

// ErrNoSession is returned by a SessionLookup when the credential is empty.
var ErrNoSession = errors.New("no session")

// SessionLookup verifies a session credential and returns its user id.
type SessionLookup interface {
	LookupSession(ctx context.Context, credential string) (uuid.UUID, error)
}

// Resolver resolves submitters from a session credential and a
// client-supplied device id.
type Resolver struct {
	lookup SessionLookup
	log    *slog.Logger
}

func NewResolver(lookup SessionLookup, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{lookup: lookup, log: log}
}

// Resolve never fails. Credentials are tried in order and the first live
// session wins. When none verifies, the last lookup error is logged and the
// client id (if any) decides attribution.
func (r *Resolver) Resolve(ctx context.Context, credentials []string, clientID string) Submitter {
	return Resolve(r.sessionUser(ctx, credentials), clientID)
}

func (r *Resolver) sessionUser(ctx context.Context, credentials []string) *uuid.UUID {
	if r.lookup == nil {
		return nil
	}

	var lastErr error
	for _, credential := range credentials {
		credential = strings.TrimSpace(credential)
		if credential == "" {
			continue
		}
		id, err := r.lookup.LookupSession(ctx, credential)
		switch {
		case errors.Is(err, ErrNoSession):
			continue
		case err != nil:
			lastErr = err
			continue
		case id == uuid.Nil:
			continue
		}
		return &id
	}

	if lastErr != nil {
		r.log.WarnContext(ctx, "session lookup failed, continuing without session",
			"request_id", reqctx.RequestIDFromContext(ctx),
			"error", lastErr,
		)
	}
	return nil
}
