package constants

const (
	AppName        = "eunoia"
	AppDisplayName = "Eunoia"

	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "EUNOIA"
)

// Cookie names shared by the HTTP layer and the companion client.
const (
	StudentSessionCookie = "student_session"
	AdminSessionCookie   = "admin_session"
)

// NATS subjects for booking lifecycle events. The booking id is appended.
const (
	SubjectBookingCreated = "eunoia.booking.created"
	SubjectBookingStatus  = "eunoia.booking.status"
)
