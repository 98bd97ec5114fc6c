package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
	"github.com/Alijeyrad/eunoia_backend/internal/service/identity"
)

type fakeStore struct {
	bookings  map[uuid.UUID]*repo.Booking
	slots     []repo.BookedSlot
	createErr error
	stale     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: map[uuid.UUID]*repo.Booking{}}
}

func (f *fakeStore) Create(_ context.Context, b *repo.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = uuid.New()
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (*repo.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) List(context.Context, repo.Filter) ([]*repo.Booking, error) {
	out := make([]*repo.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) ListSlots(context.Context, time.Time, time.Time) ([]repo.BookedSlot, error) {
	return f.slots, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to repo.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok || f.stale || b.Status != from {
		return repo.ErrStale
	}
	b.Status = to
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.bookings[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

type fakePublisher struct {
	subjects []string
	err      error
}

func (p *fakePublisher) Publish(subject string, _ []byte) error {
	p.subjects = append(p.subjects, subject)
	return p.err
}

var fixedNow = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func newTestService(store Store, pub Publisher) Service {
	svc := New(store, identity.NewResolver(nil, nil), pub).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"2026-04-02T14:00:00Z", time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC), true},
		{"2026-04-02T14:00:00+02:00", time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC), true},
		{"2026-04-02T14:00", time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC), true},
		{"2026-04-02 09:15", time.Date(2026, 4, 2, 9, 15, 0, 0, time.UTC), true},
		{"2026-04-02", time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), true},
		{"next tuesday", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSlot(tt.in)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("ParseSlot(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		req        CreateRequest
		wantErr    error
		wantSlot   time.Time
		wantEcho   string
		wantName   string
		wantAnonID string
	}{
		{
			name:       "slot field",
			req:        CreateRequest{Slot: "2026-04-02T14:00:00Z", StudentName: "Ama", ClientID: "user_1"},
			wantSlot:   time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC),
			wantEcho:   "2026-04-02T14:00:00Z",
			wantName:   "Ama",
			wantAnonID: "user_1",
		},
		{
			name:     "legacy slotTime",
			req:      CreateRequest{SlotTime: "2026-04-03T10:00"},
			wantSlot: time.Date(2026, 4, 3, 10, 0, 0, 0, time.UTC),
			wantEcho: "2026-04-03T10:00",
			wantName: DefaultStudentName,
		},
		{
			name:     "unparseable slot falls back to now",
			req:      CreateRequest{Slot: "after lunch", StudentName: "  "},
			wantSlot: fixedNow,
			wantEcho: "after lunch",
			wantName: DefaultStudentName,
		},
		{
			name:    "missing slot",
			req:     CreateRequest{StudentName: "Kofi"},
			wantErr: assessment.ErrMissingRequiredField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			pub := &fakePublisher{}
			svc := newTestService(store, pub)

			got, err := svc.Create(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if len(store.bookings) != 0 {
					t.Errorf("persisted %d bookings, want 0", len(store.bookings))
				}
				if len(pub.subjects) != 0 {
					t.Errorf("published %v, want nothing", pub.subjects)
				}
				return
			}

			if !got.Success || got.SlotTime != tt.wantEcho {
				t.Errorf("Create() = %+v, want success with slotTime %q", got, tt.wantEcho)
			}
			b := store.bookings[got.BookingID]
			if b == nil {
				t.Fatalf("booking %s not stored", got.BookingID)
			}
			if !b.Slot.Equal(tt.wantSlot) {
				t.Errorf("Slot = %v, want %v", b.Slot, tt.wantSlot)
			}
			if b.StudentName != tt.wantName {
				t.Errorf("StudentName = %q, want %q", b.StudentName, tt.wantName)
			}
			if b.Status != repo.BookingPending {
				t.Errorf("Status = %s, want PENDING", b.Status)
			}
			if tt.wantAnonID != "" && (b.AnonymousID == nil || *b.AnonymousID != tt.wantAnonID) {
				t.Errorf("AnonymousID = %v, want %q", b.AnonymousID, tt.wantAnonID)
			}
			if len(pub.subjects) != 1 || pub.subjects[0] != "eunoia.booking.created."+got.BookingID.String() {
				t.Errorf("published %v", pub.subjects)
			}
		})
	}
}

func TestCreate_PublishFailureIgnored(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakePublisher{err: errors.New("nats down")})
	if _, err := svc.Create(context.Background(), CreateRequest{Slot: "2026-04-02"}); err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
}

func TestCreate_NilPublisher(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)
	if _, err := svc.Create(context.Background(), CreateRequest{Slot: "2026-04-02"}); err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to repo.BookingStatus
		want     bool
	}{
		{repo.BookingPending, repo.BookingConfirmed, true},
		{repo.BookingPending, repo.BookingCancelled, true},
		{repo.BookingPending, repo.BookingPending, false},
		{repo.BookingConfirmed, repo.BookingCancelled, false},
		{repo.BookingCancelled, repo.BookingConfirmed, false},
		{repo.BookingConfirmed, repo.BookingPending, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	seed := func(store *fakeStore, status repo.BookingStatus) uuid.UUID {
		id := uuid.New()
		store.bookings[id] = &repo.Booking{ID: id, Status: status}
		return id
	}

	tests := []struct {
		name    string
		initial repo.BookingStatus
		status  string
		missing bool
		stale   bool
		wantErr error
	}{
		{name: "confirm", initial: repo.BookingPending, status: "CONFIRMED"},
		{name: "cancel lower case", initial: repo.BookingPending, status: "cancelled"},
		{name: "unknown status", initial: repo.BookingPending, status: "DONE", wantErr: ErrInvalidStatus},
		{name: "confirmed is final", initial: repo.BookingConfirmed, status: "CANCELLED", wantErr: ErrInvalidTransition},
		{name: "missing booking", status: "CONFIRMED", missing: true, wantErr: ErrNotFound},
		{name: "concurrent change", initial: repo.BookingPending, status: "CONFIRMED", stale: true, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.stale = tt.stale
			pub := &fakePublisher{}
			svc := newTestService(store, pub)

			id := uuid.New()
			if !tt.missing {
				id = seed(store, tt.initial)
			}

			got, err := svc.UpdateStatus(context.Background(), id, tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateStatus() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if len(pub.subjects) != 0 {
					t.Errorf("published %v on failure", pub.subjects)
				}
				return
			}
			want, _ := ParseStatus(tt.status)
			if got.Status != want || store.bookings[id].Status != want {
				t.Errorf("status = %s (stored %s), want %s", got.Status, store.bookings[id].Status, want)
			}
			if len(pub.subjects) != 1 || pub.subjects[0] != "eunoia.booking.status."+id.String() {
				t.Errorf("published %v", pub.subjects)
			}
		})
	}
}

func TestAvailability(t *testing.T) {
	store := newFakeStore()
	store.slots = []repo.BookedSlot{
		{Slot: fixedNow, CounselorID: "dr-mensah"},
		{Slot: fixedNow.Add(time.Hour)},
	}
	svc := newTestService(store, nil)

	got, err := svc.Availability(context.Background(), fixedNow, fixedNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Availability() error = %v", err)
	}
	if got[0].CounselorID != "dr-mensah" || got[1].CounselorID != UnknownCounselor {
		t.Errorf("counselors = [%s %s], want [dr-mensah unknown]", got[0].CounselorID, got[1].CounselorID)
	}

	if _, err := svc.Availability(context.Background(), fixedNow, fixedNow.Add(-time.Hour)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Availability(reversed) error = %v, want ErrInvalidRange", err)
	}
}

func TestDelete(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}
