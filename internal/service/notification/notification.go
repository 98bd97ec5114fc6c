// Package notification emails students about their counseling bookings.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
	"github.com/Alijeyrad/eunoia_backend/pkg/email"
)

type BookingGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*repo.Booking, error)
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// HandleEvent dispatches a booking event by subject. The subject carries
	// the booking id as its last token.
	HandleEvent(ctx context.Context, subject string) error
	NotifyBookingCreated(ctx context.Context, bookingID uuid.UUID) error
	NotifyBookingStatus(ctx context.Context, bookingID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type notificationService struct {
	bookings BookingGetter
	mailer   email.Sender
	appName  string
	baseURL  string
}

func New(bookings BookingGetter, mailer email.Sender, cfg email.Config) Service {
	return &notificationService{
		bookings: bookings,
		mailer:   mailer,
		appName:  cfg.AppName,
		baseURL:  cfg.BaseURL,
	}
}

// ParseSubject splits "<prefix>.<bookingID>" into the event prefix and id.
func ParseSubject(subject string) (string, uuid.UUID, error) {
	i := strings.LastIndexByte(subject, '.')
	if i < 0 {
		return "", uuid.Nil, fmt.Errorf("%w: %q", ErrUnknownEvent, subject)
	}
	id, err := uuid.Parse(subject[i+1:])
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("%w: bad booking id in %q", ErrUnknownEvent, subject)
	}
	return subject[:i], id, nil
}

func (s *notificationService) HandleEvent(ctx context.Context, subject string) error {
	prefix, id, err := ParseSubject(subject)
	if err != nil {
		return err
	}
	switch prefix {
	case constants.SubjectBookingCreated:
		return s.NotifyBookingCreated(ctx, id)
	case constants.SubjectBookingStatus:
		return s.NotifyBookingStatus(ctx, id)
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, subject)
}

func (s *notificationService) NotifyBookingCreated(ctx context.Context, bookingID uuid.UUID) error {
	return s.notify(ctx, bookingID, email.BuildBookingReceivedEmail)
}

func (s *notificationService) NotifyBookingStatus(ctx context.Context, bookingID uuid.UUID) error {
	return s.notify(ctx, bookingID, email.BuildBookingStatusEmail)
}

func (s *notificationService) notify(ctx context.Context, bookingID uuid.UUID, build func(email.BookingEmailData) email.Message) error {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		if repo.IsNotFound(err) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("get booking: %w", err)
	}
	if b.StudentEmail == nil || strings.TrimSpace(*b.StudentEmail) == "" {
		slog.DebugContext(ctx, "booking has no student email, skipping", "booking_id", bookingID)
		return nil
	}

	msg := build(email.BookingEmailData{
		StudentName: b.StudentName,
		Email:       *b.StudentEmail,
		Slot:        b.Slot,
		Status:      string(b.Status),
		AppName:     s.appName,
		BaseURL:     s.baseURL,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		if errors.Is(err, email.ErrDisabled) {
			slog.DebugContext(ctx, "email disabled, booking notification skipped", "booking_id", bookingID)
			return nil
		}
		return fmt.Errorf("send booking email: %w", err)
	}

	slog.InfoContext(ctx, "booking_email_sent", "booking_id", bookingID, "status", b.Status)
	return nil
}
