package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/pkg/email"
)

type bookingMap map[uuid.UUID]*repo.Booking

func (m bookingMap) Get(_ context.Context, id uuid.UUID) (*repo.Booking, error) {
	b, ok := m[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return b, nil
}

type outbox struct {
	sent []email.Message
	err  error
}

func (o *outbox) Send(_ context.Context, m email.Message) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, m)
	return nil
}

func ptr(s string) *string { return &s }

func TestParseSubject(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		subject    string
		wantPrefix string
		wantErr    bool
	}{
		{subject: "eunoia.booking.created." + id.String(), wantPrefix: "eunoia.booking.created"},
		{subject: "eunoia.booking.status." + id.String(), wantPrefix: "eunoia.booking.status"},
		{subject: "eunoia.booking.created.not-a-uuid", wantErr: true},
		{subject: "nodots", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			prefix, got, err := ParseSubject(tt.subject)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSubject() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if prefix != tt.wantPrefix || got != id {
				t.Errorf("ParseSubject() = %q, %s; want %q, %s", prefix, got, tt.wantPrefix, id)
			}
		})
	}
}

func TestHandleEvent(t *testing.T) {
	withEmail := uuid.New()
	withoutEmail := uuid.New()
	bookings := bookingMap{
		withEmail: {
			ID: withEmail, StudentName: "Ama", StudentEmail: ptr("ama@uni.edu"),
			Slot: time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC), Status: repo.BookingConfirmed,
		},
		withoutEmail: {ID: withoutEmail, Status: repo.BookingPending},
	}

	tests := []struct {
		name        string
		subject     string
		sendErr     error
		wantErr     error
		wantSent    int
		wantSubject string
	}{
		{name: "created", subject: "eunoia.booking.created." + withEmail.String(), wantSent: 1, wantSubject: "We received your Eunoia counseling request"},
		{name: "status", subject: "eunoia.booking.status." + withEmail.String(), wantSent: 1, wantSubject: "Your counseling session is confirmed"},
		{name: "no student email", subject: "eunoia.booking.created." + withoutEmail.String()},
		{name: "missing booking", subject: "eunoia.booking.created." + uuid.NewString(), wantErr: ErrBookingNotFound},
		{name: "unknown subject", subject: "eunoia.mood.logged." + withEmail.String(), wantErr: ErrUnknownEvent},
		{name: "email disabled", subject: "eunoia.booking.status." + withEmail.String(), sendErr: email.ErrDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := &outbox{err: tt.sendErr}
			svc := New(bookings, box, email.Config{AppName: "Eunoia"})

			err := svc.HandleEvent(context.Background(), tt.subject)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("HandleEvent() error = %v, want %v", err, tt.wantErr)
			}
			if len(box.sent) != tt.wantSent {
				t.Fatalf("sent %d emails, want %d", len(box.sent), tt.wantSent)
			}
			if tt.wantSent > 0 && box.sent[0].Subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", box.sent[0].Subject, tt.wantSubject)
			}
		})
	}
}

func TestHandleEvent_SendFailure(t *testing.T) {
	id := uuid.New()
	smtpErr := errors.New("connection refused")
	svc := New(bookingMap{id: {ID: id, StudentEmail: ptr("a@b.co")}}, &outbox{err: smtpErr}, email.Config{})

	if err := svc.NotifyBookingCreated(context.Background(), id); !errors.Is(err, smtpErr) {
		t.Errorf("NotifyBookingCreated() error = %v, want %v", err, smtpErr)
	}
}
