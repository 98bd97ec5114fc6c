package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		msg     Message
		wantErr bool
	}{
		{name: "text only", from: "care@uni.edu", msg: Message{To: []string{"a@b.co"}, Subject: "hi", TextBody: "body"}},
		{name: "both bodies", from: "care@uni.edu", msg: Message{To: []string{" a@b.co ", ""}, Subject: "hi", TextBody: "t", HTMLBody: "<p>h</p>"}},
		{name: "no from", msg: Message{To: []string{"a@b.co"}, Subject: "hi", TextBody: "t"}, wantErr: true},
		{name: "no recipient", from: "care@uni.edu", msg: Message{To: []string{" "}, Subject: "hi", TextBody: "t"}, wantErr: true},
		{name: "no subject", from: "care@uni.edu", msg: Message{To: []string{"a@b.co"}, TextBody: "t"}, wantErr: true},
		{name: "no body", from: "care@uni.edu", msg: Message{To: []string{"a@b.co"}, Subject: "hi"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildMessage(tt.from, tt.msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			var ime *InvalidMessageError
			if tt.wantErr && !errors.As(err, &ime) {
				t.Errorf("error %T is not *InvalidMessageError", err)
			}
		})
	}
}

func TestSendDisabled(t *testing.T) {
	c := New(Config{Enabled: false})
	if err := c.Send(context.Background(), Message{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Send() error = %v, want ErrDisabled", err)
	}
}

func TestSender(t *testing.T) {
	if got := (Config{From: "care@uni.edu"}).sender(); got != "care@uni.edu" {
		t.Errorf("sender() = %q", got)
	}
	got := (Config{From: "care@uni.edu", FromName: "Eunoia"}).sender()
	if !strings.Contains(got, "Eunoia") || !strings.Contains(got, "<care@uni.edu>") {
		t.Errorf("sender() = %q, want display name and address", got)
	}
}

func TestBookingTemplates(t *testing.T) {
	slot := time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC)

	received := BuildBookingReceivedEmail(BookingEmailData{Email: "a@b.co", Slot: slot})
	if received.To[0] != "a@b.co" || !strings.Contains(received.TextBody, "Hi there") {
		t.Errorf("received email = %+v", received)
	}
	if !strings.Contains(received.TextBody, "2 April 2026 at 14:00 UTC") {
		t.Errorf("received email missing slot: %s", received.TextBody)
	}

	tests := []struct {
		status      string
		wantSubject string
	}{
		{"CONFIRMED", "Your counseling session is confirmed"},
		{"CANCELLED", "Your counseling session was cancelled"},
		{"PENDING", "Your counseling request was updated"},
	}
	for _, tt := range tests {
		m := BuildBookingStatusEmail(BookingEmailData{StudentName: "<Ama>", Email: "a@b.co", Slot: slot, Status: tt.status})
		if m.Subject != tt.wantSubject {
			t.Errorf("status %s subject = %q, want %q", tt.status, m.Subject, tt.wantSubject)
		}
		if strings.Contains(m.HTMLBody, "<Ama>") {
			t.Errorf("status %s html body not escaped", tt.status)
		}
	}
}
