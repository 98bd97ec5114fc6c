// Package identity decides which submitter a record belongs to.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// Kind tags a Submitter.
type Kind int

const (
	KindUnattributed Kind = iota
	KindAuthenticated
	KindAnonymous
)

func (k Kind) String() string {
	switch k {
	case KindAuthenticated:
		return "authenticated"
	case KindAnonymous:
		return "anonymous"
	}
	return "unattributed"
}

// Submitter is the resolved owner of a submission. The zero value is
// unattributed. A Submitter never carries both a user id and a device id.
type Submitter struct {
	kind     Kind
	userID   uuid.UUID
	deviceID string
}

func Authenticated(userID uuid.UUID) Submitter {
	return Submitter{kind: KindAuthenticated, userID: userID}
}

func Anonymous(deviceID string) Submitter {
	return Submitter{kind: KindAnonymous, deviceID: deviceID}
}

func Unattributed() Submitter { return Submitter{} }

func (s Submitter) Kind() Kind { return s.kind }

func (s Submitter) IsUnattributed() bool { return s.kind == KindUnattributed }

// UserID reports the authenticated user id, if any.
func (s Submitter) UserID() (uuid.UUID, bool) {
	return s.userID, s.kind == KindAuthenticated
}

// DeviceID reports the anonymous device id, if any.
func (s Submitter) DeviceID() (string, bool) {
	return s.deviceID, s.kind == KindAnonymous
}

// Columns maps the submitter onto the nullable user_id and anonymous_id
// columns. At most one result is non-nil.
func (s Submitter) Columns() (userID *uuid.UUID, anonymousID *string) {
	switch s.kind {
	case KindAuthenticated:
		id := s.userID
		return &id, nil
	case KindAnonymous:
		d := s.deviceID
		return nil, &d
	}
	return nil, nil
}

func (s Submitter) String() string {
	switch s.kind {
	case KindAuthenticated:
		return "user:" + s.userID.String()
	case KindAnonymous:
		return "device:" + s.deviceID
	}
	return "unattributed"
}

// Resolve applies the attribution precedence: a verified session user wins,
// then a non-blank client-supplied id, otherwise the submission is
// unattributed. The client id is opaque and never inspected beyond trimming.
func Resolve(sessionUserID *uuid.UUID, clientID string) Submitter {
	if sessionUserID != nil && *sessionUserID != uuid.Nil {
		return Authenticated(*sessionUserID)
	}
	if id := strings.TrimSpace(clientID); id != "" {
		return Anonymous(id)
	}
	return Unattributed()
}
