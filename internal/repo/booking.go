package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type BookingRepo struct {
	q dialect.ExecQuerier
}

var bookingColumns = []string{
	"id", "created_at", "user_id", "anonymous_id", "student_name",
	"student_email", "reason", "counselor_id", "slot", "status",
}

// Create inserts b and fills its ID and CreatedAt. An empty status is stored
// as PENDING.
func (r *BookingRepo) Create(ctx context.Context, b *Booking) error {
	id, err := newID()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if b.Status == "" {
		b.Status = BookingPending
	}

	query, args := pg.Insert(tableBookings).
		Columns(bookingColumns...).
		Values(id, now, b.UserID, b.AnonymousID, b.StudentName,
			b.StudentEmail, b.Reason, b.CounselorID, b.Slot.UTC(), string(b.Status)).
		Query()
	if _, err := exec(ctx, r.q, query, args); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	b.ID = id
	b.CreatedAt = now
	return nil
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query, args := pg.Select(bookingColumns...).
		From(pg.Table(tableBookings)).
		Where(entsql.EQ("id", id)).
		Query()

	out, err := queryAll(ctx, r.q, query, args, scanBooking)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out[0], nil
}

// List returns bookings newest first by creation time.
func (r *BookingRepo) List(ctx context.Context, f Filter) ([]*Booking, error) {
	sel := pg.Select(bookingColumns...).
		From(pg.Table(tableBookings)).
		OrderBy(entsql.Desc("created_at"))
	query, args := applyFilter(sel, f).Query()

	out, err := queryAll(ctx, r.q, query, args, scanBooking)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// ListSlots returns the non-cancelled booked slots within [start, end],
// earliest first.
func (r *BookingRepo) ListSlots(ctx context.Context, start, end time.Time) ([]BookedSlot, error) {
	query, args := pg.Select("slot", "counselor_id").
		From(pg.Table(tableBookings)).
		Where(entsql.And(
			entsql.GTE("slot", start.UTC()),
			entsql.LTE("slot", end.UTC()),
			entsql.NEQ("status", string(BookingCancelled)),
		)).
		OrderBy("slot").
		Query()

	out, err := queryAll(ctx, r.q, query, args, func(rs *entsql.Rows) (BookedSlot, error) {
		var (
			s         BookedSlot
			counselor sql.NullString
		)
		if err := rs.Scan(&s.Slot, &counselor); err != nil {
			return s, err
		}
		s.CounselorID = counselor.String
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list booked slots: %w", err)
	}
	return out, nil
}

// UpdateStatus moves a booking from one status to another. It returns
// ErrStale when the booking is no longer in the from status.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus) error {
	query, args := pg.Update(tableBookings).
		Set("status", string(to)).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("status", string(from)),
		)).
		Query()

	n, err := exec(ctx, r.q, query, args)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if n == 0 {
		return ErrStale
	}
	return nil
}

func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.q, tableBookings, id)
}

func scanBooking(rs *entsql.Rows) (*Booking, error) {
	var (
		b         Booking
		userID    uuid.NullUUID
		anonID    sql.NullString
		email     sql.NullString
		reason    sql.NullString
		counselor sql.NullString
		status    string
	)
	if err := rs.Scan(&b.ID, &b.CreatedAt, &userID, &anonID, &b.StudentName,
		&email, &reason, &counselor, &b.Slot, &status); err != nil {
		return nil, err
	}
	b.UserID = uuidPtr(userID)
	b.AnonymousID = stringPtr(anonID)
	b.StudentEmail = stringPtr(email)
	b.Reason = stringPtr(reason)
	b.CounselorID = stringPtr(counselor)
	b.Status = BookingStatus(status)
	return &b, nil
}
