package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
	"github.com/Alijeyrad/eunoia_backend/internal/service/identity"
	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
	"github.com/Alijeyrad/eunoia_backend/pkg/reqctx"
)

const (
	DefaultStudentName = "Anonymous Student"
	UnknownCounselor   = "unknown"
)

type Store interface {
	Create(ctx context.Context, b *repo.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*repo.Booking, error)
	List(ctx context.Context, f repo.Filter) ([]*repo.Booking, error)
	ListSlots(ctx context.Context, start, end time.Time) ([]repo.BookedSlot, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to repo.BookingStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Publisher emits booking events. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Slot string
	// SlotTime is the legacy name of Slot; Slot wins when both are set.
	SlotTime     string
	StudentName  string
	StudentEmail string
	Reason       string
	CounselorID  string
	Credentials  []string
	ClientID     string
}

type CreateResult struct {
	Success   bool      `json:"success"`
	BookingID uuid.UUID `json:"bookingId"`
	// SlotTime echoes the submitted slot string.
	SlotTime string `json:"slotTime"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	Availability(ctx context.Context, start, end time.Time) ([]repo.BookedSlot, error)
	Recent(ctx context.Context, limit int) ([]*repo.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*repo.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type service struct {
	store    Store
	resolver *identity.Resolver
	pub      Publisher
	created  metric.Int64Counter
	now      func() time.Time
}

// New builds the service. pub may be nil, which disables booking events.
func New(store Store, resolver *identity.Resolver, pub Publisher) Service {
	meter := otel.Meter("github.com/Alijeyrad/eunoia_backend/internal/service/booking")
	created, err := meter.Int64Counter("eunoia_bookings_created",
		metric.WithDescription("Counseling bookings requested"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &service{
		store:    store,
		resolver: resolver,
		pub:      pub,
		created:  created,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	raw := strings.TrimSpace(req.Slot)
	if raw == "" {
		raw = strings.TrimSpace(req.SlotTime)
	}
	if raw == "" {
		return nil, assessment.MissingField("slot")
	}

	slot, ok := ParseSlot(raw)
	if !ok {
		slog.WarnContext(ctx, "unparseable booking slot, using current time",
			"request_id", reqctx.RequestIDFromContext(ctx),
			"slot", raw,
		)
		slot = s.now().UTC()
	}

	name := strings.TrimSpace(req.StudentName)
	if name == "" {
		name = DefaultStudentName
	}

	submitter := s.resolver.Resolve(ctx, req.Credentials, req.ClientID)
	userID, anonymousID := submitter.Columns()

	rec := &repo.Booking{
		UserID:       userID,
		AnonymousID:  anonymousID,
		StudentName:  name,
		StudentEmail: optional(req.StudentEmail),
		Reason:       optional(req.Reason),
		CounselorID:  optional(req.CounselorID),
		Slot:         slot,
		Status:       repo.BookingPending,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}

	if s.created != nil {
		s.created.Add(ctx, 1)
	}
	slog.InfoContext(ctx, "booking_created",
		"request_id", reqctx.RequestIDFromContext(ctx),
		"booking_id", rec.ID,
		"submitter", submitter.Kind().String(),
	)
	s.publish(ctx, constants.SubjectBookingCreated, rec.ID)

	return &CreateResult{Success: true, BookingID: rec.ID, SlotTime: raw}, nil
}

func (s *service) Availability(ctx context.Context, start, end time.Time) ([]repo.BookedSlot, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	slots, err := s.store.ListSlots(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list booked slots: %w", err)
	}
	for i := range slots {
		if slots[i].CounselorID == "" {
			slots[i].CounselorID = UnknownCounselor
		}
	}
	return slots, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]*repo.Booking, error) {
	out, err := s.store.List(ctx, repo.Filter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list recent bookings: %w", err)
	}
	return out, nil
}

// ParseStatus maps client input to a booking status, ignoring case.
func ParseStatus(s string) (repo.BookingStatus, error) {
	switch st := repo.BookingStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case repo.BookingPending, repo.BookingConfirmed, repo.BookingCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// CanTransition reports whether a booking may move from one status to another.
// Only pending bookings change, and only to confirmed or cancelled.
func CanTransition(from, to repo.BookingStatus) bool {
	return from == repo.BookingPending && (to == repo.BookingConfirmed || to == repo.BookingCancelled)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*repo.Booking, error) {
	to, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	b, err := s.store.Get(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if !CanTransition(b.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, b.Status, to)
	}

	if err := s.store.UpdateStatus(ctx, id, b.Status, to); err != nil {
		if errors.Is(err, repo.ErrStale) {
			return nil, fmt.Errorf("%w: booking changed concurrently", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	b.Status = to

	slog.InfoContext(ctx, "booking_status_changed",
		"request_id", reqctx.RequestIDFromContext(ctx),
		"booking_id", id,
		"status", to,
	)
	s.publish(ctx, constants.SubjectBookingStatus, id)
	return b, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

// publish is best effort; failures are logged and never reach the caller.
func (s *service) publish(ctx context.Context, subject string, id uuid.UUID) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(subject+"."+id.String(), []byte(id.String())); err != nil {
		slog.WarnContext(ctx, "booking event publish failed", "subject", subject, "booking_id", id, "error", err)
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
