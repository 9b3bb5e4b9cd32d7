package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// Confirmation describes a booked visit to announce to the patient.
type Confirmation struct {
	FirstName       string
	FullName        string
	Email           string
	Provider        string
	ScheduledAt     time.Time
	DurationMinutes int
	AppointmentID   string
}

// ConfirmationDispatcher emails booking confirmations with the intake form attached.
type ConfirmationDispatcher struct {
	sender         EmailSender
	intakeFormPath string
	logger         *logging.Logger
}

// NewConfirmationDispatcher wires a dispatcher. intakeFormPath may point to a
// missing file; the email is then sent without the attachment.
func NewConfirmationDispatcher(sender EmailSender, intakeFormPath string, logger *logging.Logger) *ConfirmationDispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConfirmationDispatcher{
		sender:         sender,
		intakeFormPath: intakeFormPath,
		logger:         logger.Component("notify"),
	}
}

// Send delivers one confirmation email. It reports success and a short detail
// ("sent" or the failure reason) instead of an error so callers can log and move on.
func (d *ConfirmationDispatcher) Send(ctx context.Context, c Confirmation) (bool, string) {
	if d == nil || d.sender == nil {
		return false, "email sender not configured"
	}
	if strings.TrimSpace(c.Email) == "" {
		return false, "no email address on file"
	}

	msg := EmailMessage{
		To:      c.Email,
		ToName:  c.FullName,
		Subject: "Appointment Confirmation",
		Body:    confirmationBody(c),
	}
	if att, ok, err := d.intakeForm(); err != nil {
		d.logger.Warn("intake form unreadable, sending without it", "path", d.intakeFormPath, "error", err)
	} else if ok {
		msg.Attachments = append(msg.Attachments, att)
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		return false, err.Error()
	}
	return true, "sent"
}

func (d *ConfirmationDispatcher) intakeForm() (Attachment, bool, error) {
	if d.intakeFormPath == "" {
		return Attachment{}, false, nil
	}
	data, err := os.ReadFile(d.intakeFormPath)
	if errors.Is(err, os.ErrNotExist) {
		return Attachment{}, false, nil
	}
	if err != nil {
		return Attachment{}, false, err
	}
	return Attachment{
		Filename:    filepath.Base(d.intakeFormPath),
		ContentType: "application/pdf",
		Data:        data,
	}, true, nil
}

func confirmationBody(c Confirmation) string {
	name := c.FirstName
	if name == "" {
		name = c.FullName
	}
	return fmt.Sprintf(
		"Hello %s, your appointment with %s is confirmed for %s (%d min). An intake form is attached.",
		name,
		c.Provider,
		c.ScheduledAt.Format("2006-01-02T15:04:05"),
		c.DurationMinutes,
	)
}
