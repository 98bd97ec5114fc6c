// Package history assembles a submitter's recent assessments, moods and
// bookings.
package history

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/identity"
)

var ErrUnattributed = errors.New("missing userId")

type AssessmentLister interface {
	List(ctx context.Context, f repo.Filter) ([]*repo.Assessment, error)
}

type MoodLister interface {
	List(ctx context.Context, f repo.Filter) ([]*repo.MoodLog, error)
}

type BookingLister interface {
	List(ctx context.Context, f repo.Filter) ([]*repo.Booking, error)
}

// Limits caps each list in a history response.
type Limits struct {
	Assessments int
	Moods       int
	Bookings    int
}

func DefaultLimits() Limits {
	return Limits{Assessments: 10, Moods: 20, Bookings: 10}
}

type Request struct {
	Credentials []string
	ClientID    string
}

type History struct {
	Assessments []*repo.Assessment `json:"assessments"`
	Moods       []*repo.MoodLog    `json:"moods"`
	Bookings    []*repo.Booking    `json:"bookings"`
}

type Service interface {
	Get(ctx context.Context, req Request) (*History, error)
}

type service struct {
	assessments AssessmentLister
	moods       MoodLister
	bookings    BookingLister
	resolver    *identity.Resolver
	limits      Limits
}

func New(a AssessmentLister, m MoodLister, b BookingLister, resolver *identity.Resolver, limits Limits) Service {
	def := DefaultLimits()
	if limits.Assessments <= 0 {
		limits.Assessments = def.Assessments
	}
	if limits.Moods <= 0 {
		limits.Moods = def.Moods
	}
	if limits.Bookings <= 0 {
		limits.Bookings = def.Bookings
	}
	return &service{assessments: a, moods: m, bookings: b, resolver: resolver, limits: limits}
}

func (s *service) Get(ctx context.Context, req Request) (*History, error) {
	submitter := s.resolver.Resolve(ctx, req.Credentials, req.ClientID)
	if submitter.IsUnattributed() {
		return nil, ErrUnattributed
	}
	userID, anonymousID := submitter.Columns()
	filter := func(limit int) repo.Filter {
		return repo.Filter{UserID: userID, AnonymousID: anonymousID, Limit: limit}
	}

	var out History
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Assessments, err = s.assessments.List(gctx, filter(s.limits.Assessments))
		return err
	})
	g.Go(func() (err error) {
		out.Moods, err = s.moods.List(gctx, filter(s.limits.Moods))
		return err
	})
	g.Go(func() (err error) {
		out.Bookings, err = s.bookings.List(gctx, filter(s.limits.Bookings))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return &out, nil
}
