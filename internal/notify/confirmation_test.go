package notify

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func sampleConfirmation() Confirmation {
	return Confirmation{
		FirstName:       "Ava",
		FullName:        "Ava Lopez",
		Email:           "ava@example.com",
		Provider:        "Dr. Chen",
		ScheduledAt:     time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}
}

func TestConfirmationDispatcher_AttachesIntakeForm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "New Patient Intake Form.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("write form: %v", err)
	}
	sender := &recordingSender{}
	d := NewConfirmationDispatcher(sender, path, testLogger())

	ok, detail := d.Send(context.Background(), sampleConfirmation())
	if !ok || detail != "sent" {
		t.Fatalf("expected sent, got %v %q", ok, detail)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.Subject != "Appointment Confirmation" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "Dr. Chen") || !strings.Contains(msg.Body, "2026-03-05T09:00:00") {
		t.Errorf("body missing provider or time: %q", msg.Body)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Filename != "New Patient Intake Form.pdf" {
		t.Fatalf("expected intake form attachment, got %+v", msg.Attachments)
	}
}

func TestConfirmationDispatcher_MissingFormStillSends(t *testing.T) {
	sender := &recordingSender{}
	d := NewConfirmationDispatcher(sender, filepath.Join(t.TempDir(), "absent.pdf"), testLogger())

	ok, _ := d.Send(context.Background(), sampleConfirmation())
	if !ok {
		t.Fatal("expected success without attachment")
	}
	if len(sender.sent[0].Attachments) != 0 {
		t.Fatal("expected no attachment")
	}
}

func TestConfirmationDispatcher_SenderFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := NewConfirmationDispatcher(sender, "", testLogger())

	ok, detail := d.Send(context.Background(), sampleConfirmation())
	if ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(detail, "smtp down") {
		t.Errorf("expected failure detail, got %q", detail)
	}
}

func TestConfirmationDispatcher_NoEmail(t *testing.T) {
	sender := &recordingSender{}
	d := NewConfirmationDispatcher(sender, "", testLogger())
	c := sampleConfirmation()
	c.Email = ""

	if ok, _ := d.Send(context.Background(), c); ok {
		t.Fatal("expected failure without address")
	}
	if len(sender.sent) != 0 {
		t.Fatal("expected nothing sent")
	}
}
