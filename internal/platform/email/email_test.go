package email

import (
	"context"
	"strings"
	"testing"
)

func TestNewSMTPSender_RequiresHost(t *testing.T) {
	if _, err := NewSMTPSender(SMTPConfig{From: "noreply@example.com"}); err == nil {
		t.Error("expected error for missing host")
	}
}

func TestNewSMTPSender_RequiresFrom(t *testing.T) {
	if _, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com"}); err == nil {
		t.Error("expected error for missing from address")
	}
}

func TestNewSMTPSender_DefaultsPort(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"})
	if err != nil {
		t.Fatalf("NewSMTPSender: %v", err)
	}
	if s.cfg.Port != 587 {
		t.Errorf("expected default port 587, got %d", s.cfg.Port)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("from@example.com", "to@example.com", "Hello", "Body text"))

	for _, want := range []string{
		"From: from@example.com\r\n",
		"To: to@example.com\r\n",
		"Subject: Hello\r\n",
		"charset=UTF-8",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected message to contain %q", want)
		}
	}
	if !strings.HasSuffix(msg, "\r\n\r\nBody text") {
		t.Errorf("expected body after blank line, got %q", msg)
	}
}

func TestMockSender_RecordsCalls(t *testing.T) {
	mock := &MockSender{}

	if err := mock.SendEmail(context.Background(), "a@b.c", "subj", "body"); err != nil {
		t.Fatalf("SendEmail: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].To != "a@b.c" || calls[0].Subject != "subj" {
		t.Errorf("unexpected call recorded: %+v", calls[0])
	}
}

func TestMockSender_Failure(t *testing.T) {
	mock := &MockSender{ShouldFail: true}

	err := mock.SendEmail(context.Background(), "a@b.c", "subj", "body")
	if err == nil || err.Error() != "mock send failure" {
		t.Errorf("expected mock send failure error, got %v", err)
	}
	if len(mock.Calls()) != 0 {
		t.Errorf("expected no call recorded on failure, got %d", len(mock.Calls()))
	}
}
