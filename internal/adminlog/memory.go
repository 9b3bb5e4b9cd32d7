package adminlog

import (
	"context"
	"sync"
	"time"

	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// LogAppender writes each row as a structured log line and keeps the most
// recent rows in memory for review.
type LogAppender struct {
	mu     sync.Mutex
	rows   []BookingSummary
	keep   int
	logger *logging.Logger
}

// NewLogAppender keeps up to keep rows (default 500).
func NewLogAppender(keep int, logger *logging.Logger) *LogAppender {
	if logger == nil {
		logger = logging.Default()
	}
	if keep <= 0 {
		keep = 500
	}
	return &LogAppender{keep: keep, logger: logger.Component("adminlog")}
}

func (a *LogAppender) Append(ctx context.Context, row BookingSummary) error {
	if row.BookedAt.IsZero() {
		row.BookedAt = time.Now().UTC()
	}
	a.mu.Lock()
	a.rows = append(a.rows, row)
	if len(a.rows) > a.keep {
		a.rows = a.rows[len(a.rows)-a.keep:]
	}
	a.mu.Unlock()

	a.logger.Info("booking logged",
		"appointment_id", row.AppointmentID,
		"provider", row.Provider,
		"date", row.Date,
		"time", row.Time,
		"duration_minutes", row.DurationMinutes,
		"insurance_carrier", row.InsuranceCarrier,
	)
	return nil
}

func (a *LogAppender) List(ctx context.Context, limit int) ([]BookingSummary, error) {
	limit = normalizeLimit(limit)
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]BookingSummary, 0, min(limit, len(a.rows)))
	for i := len(a.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.rows[i])
	}
	return out, nil
}
