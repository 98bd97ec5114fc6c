package mood

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/identity"
	"github.com/Alijeyrad/eunoia_backend/pkg/reqctx"
	"github.com/Alijeyrad/eunoia_backend/pkg/util/numeric"
)

const (
	MinMood       = 1
	MaxMood       = 5
	MaxNoteLength = 1000
)

type Store interface {
	Create(ctx context.Context, m *repo.MoodLog) error
	List(ctx context.Context, f repo.Filter) ([]*repo.MoodLog, error)
}

type LogRequest struct {
	// Mood is the decoded JSON value; numbers and numeric strings are accepted.
	Mood        any
	Note        string
	Credentials []string
	ClientID    string
}

type RecentRequest struct {
	Credentials []string
	ClientID    string
	Limit       int
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Log(ctx context.Context, req LogRequest) (*repo.MoodLog, error)
	// Recent lists the caller's newest logs. Unattributed callers get none.
	Recent(ctx context.Context, req RecentRequest) ([]*repo.MoodLog, error)
	// RecentAll lists the newest logs of every submitter.
	RecentAll(ctx context.Context, limit int) ([]*repo.MoodLog, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type service struct {
	store    Store
	resolver *identity.Resolver
}

func New(store Store, resolver *identity.Resolver) Service {
	return &service{store: store, resolver: resolver}
}

// ParseMood coerces a client value to a mood score in [MinMood, MaxMood].
func ParseMood(v any) (int, error) {
	n, present, err := numeric.Int(v)
	if !present {
		return 0, ErrMissingMood
	}
	if err != nil || n < MinMood || n > MaxMood {
		return 0, ErrInvalidMood
	}
	return n, nil
}

func (s *service) Log(ctx context.Context, req LogRequest) (*repo.MoodLog, error) {
	score, err := ParseMood(req.Mood)
	if err != nil {
		return nil, err
	}

	var note *string
	if trimmed := strings.TrimSpace(req.Note); trimmed != "" {
		if utf8.RuneCountInString(trimmed) > MaxNoteLength {
			return nil, ErrNoteTooLong
		}
		note = &trimmed
	}

	submitter := s.resolver.Resolve(ctx, req.Credentials, req.ClientID)
	userID, anonymousID := submitter.Columns()

	rec := &repo.MoodLog{
		UserID:      userID,
		AnonymousID: anonymousID,
		Mood:        score,
		Note:        note,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("save mood log: %w", err)
	}

	slog.InfoContext(ctx, "mood_logged",
		"request_id", reqctx.RequestIDFromContext(ctx),
		"mood_log_id", rec.ID,
		"submitter", submitter.Kind().String(),
	)
	return rec, nil
}

func (s *service) Recent(ctx context.Context, req RecentRequest) ([]*repo.MoodLog, error) {
	submitter := s.resolver.Resolve(ctx, req.Credentials, req.ClientID)
	if submitter.IsUnattributed() {
		return []*repo.MoodLog{}, nil
	}

	userID, anonymousID := submitter.Columns()
	out, err := s.store.List(ctx, repo.Filter{UserID: userID, AnonymousID: anonymousID, Limit: req.Limit})
	if err != nil {
		return nil, fmt.Errorf("list mood logs: %w", err)
	}
	return out, nil
}

func (s *service) RecentAll(ctx context.Context, limit int) ([]*repo.MoodLog, error) {
	out, err := s.store.List(ctx, repo.Filter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list recent mood logs: %w", err)
	}
	return out, nil
}
