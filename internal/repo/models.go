package repo

import (
	"time"

	"github.com/google/uuid"
)

const (
	tableUsers       = "users"
	tableAssessments = "assessments"
	tableMoodLogs    = "mood_logs"
	tableBookings    = "bookings"
)

// Filter narrows list queries. At most one of UserID and AnonymousID is set;
// when both are nil the query spans every submitter. Limit <= 0 means no limit.
type Filter struct {
	UserID      *uuid.UUID
	AnonymousID *string
	Limit       int
}

type Assessment struct {
	ID             uuid.UUID  `json:"id"`
	CreatedAt      time.Time  `json:"createdAt"`
	UserID         *uuid.UUID `json:"userId,omitempty"`
	AnonymousID    *string    `json:"anonymousId,omitempty"`
	AssessmentType string     `json:"assessmentType"`
	TotalScore     int        `json:"totalScore"`
	Severity       string     `json:"severity"`
	RawAnswers     []int      `json:"rawAnswers"`
}

type MoodLog struct {
	ID          uuid.UUID  `json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UserID      *uuid.UUID `json:"userId,omitempty"`
	AnonymousID *string    `json:"anonymousId,omitempty"`
	Mood        int        `json:"mood"`
	Note        *string    `json:"note,omitempty"`
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID           uuid.UUID     `json:"id"`
	CreatedAt    time.Time     `json:"createdAt"`
	UserID       *uuid.UUID    `json:"userId,omitempty"`
	AnonymousID  *string       `json:"anonymousId,omitempty"`
	StudentName  string        `json:"studentName"`
	StudentEmail *string       `json:"studentEmail,omitempty"`
	Reason       *string       `json:"reason,omitempty"`
	CounselorID  *string       `json:"counselorId,omitempty"`
	Slot         time.Time     `json:"slot"`
	Status       BookingStatus `json:"status"`
}

// BookedSlot is the public availability view of a booking.
type BookedSlot struct {
	Slot        time.Time `json:"slot"`
	CounselorID string    `json:"counselorId"`
}

type User struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
}

type UserCounts struct {
	Assessments int `json:"assessments"`
	Bookings    int `json:"bookings"`
	MoodLogs    int `json:"moodLogs"`
}

// UserSummary is a user with the number of records attributed to them.
type UserSummary struct {
	User
	Counts UserCounts `json:"_count"`
}
