package email

import (
	"fmt"
	"html"
	"time"
)

// BookingEmailData contains the data needed for booking email templates.
type BookingEmailData struct {
	StudentName string
	Email       string
	Slot        time.Time
	Status      string
	AppName     string
	BaseURL     string
}

func (d BookingEmailData) appName() string {
	if d.AppName == "" {
		return "Eunoia"
	}
	return d.AppName
}

func (d BookingEmailData) firstName() string {
	if d.StudentName == "" {
		return "there"
	}
	return d.StudentName
}

func (d BookingEmailData) slot() string {
	return d.Slot.UTC().Format("Monday, 2 January 2006 at 15:04 UTC")
}

// BuildBookingReceivedEmail confirms that a counseling request reached the
// counseling team.
func BuildBookingReceivedEmail(data BookingEmailData) Message {
	appName := data.appName()
	subject := fmt.Sprintf("We received your %s counseling request", appName)

	textBody := fmt.Sprintf(`Hi %s,

Thanks for reaching out. Your counseling request for %s has been received and is waiting for a counselor to confirm it.

We will email you again when its status changes.

If you are in crisis right now, please contact your local emergency number.

Take care,
The %s Team`,
		data.firstName(), data.slot(), appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0f766e;">Hi %s,</h2>
    <p>Thanks for reaching out. Your counseling request for <strong>%s</strong> has been received and is waiting for a counselor to confirm it.</p>
    <p>We will email you again when its status changes.</p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">If you are in crisis right now, please contact your local emergency number.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Take care,<br>The %s Team</p>
</body>
</html>`,
		html.EscapeString(data.firstName()), data.slot(), html.EscapeString(appName))

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildBookingStatusEmail tells the student their request was confirmed or
// cancelled.
func BuildBookingStatusEmail(data BookingEmailData) Message {
	appName := data.appName()

	var headline, detail string
	switch data.Status {
	case "CONFIRMED":
		headline = "Your counseling session is confirmed"
		detail = fmt.Sprintf("A counselor has confirmed your session on %s.", data.slot())
	case "CANCELLED":
		headline = "Your counseling session was cancelled"
		detail = fmt.Sprintf("Your session on %s has been cancelled. You are welcome to request another slot.", data.slot())
	default:
		headline = "Your counseling request was updated"
		detail = fmt.Sprintf("Your session on %s is now %s.", data.slot(), data.Status)
	}

	textBody := fmt.Sprintf(`Hi %s,

%s

Take care,
The %s Team`,
		data.firstName(), detail, appName)

	link := ""
	if data.BaseURL != "" {
		link = fmt.Sprintf(`<p style="text-align: center; margin: 30px 0;">
        <a href="%s/booking" style="background-color: #0f766e; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View bookings</a>
    </p>`, html.EscapeString(data.BaseURL))
	}

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #0f766e;">Hi %s,</h2>
    <p>%s</p>
    %s
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Take care,<br>The %s Team</p>
</body>
</html>`,
		html.EscapeString(data.firstName()), html.EscapeString(detail), link, html.EscapeString(appName))

	return Message{
		To:       []string{data.Email},
		Subject:  headline,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
