package adminlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/wolfman30/scheduling-assistant/pkg/logging"
)

// S3API is the subset of the S3 client used by S3Appender.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Appender keeps the booking log as monthly JSONL objects.
// S3 has no append, so each write is a read-modify-write under a process lock.
type S3Appender struct {
	mu     sync.Mutex
	bucket string
	client S3API
	now    func() time.Time
	logger *logging.Logger
}

// NewS3Appender creates an appender writing to bucket.
func NewS3Appender(client S3API, bucket string, logger *logging.Logger) *S3Appender {
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Appender{bucket: bucket, client: client, now: time.Now, logger: logger.Component("adminlog")}
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("bookings/v1/%d-%02d.jsonl", t.Year(), t.Month())
}

// Append adds one JSON line to the current month's object.
func (a *S3Appender) Append(ctx context.Context, row BookingSummary) error {
	if a.bucket == "" || a.client == nil {
		return errors.New("adminlog: s3 bucket not configured")
	}
	if row.BookedAt.IsZero() {
		row.BookedAt = a.now().UTC()
	}
	line, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("adminlog: marshal row: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := monthKey(row.BookedAt)
	existing, err := a.read(ctx, key)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if len(existing) > 0 {
		buf.Write(existing)
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	buf.Write(line)
	buf.WriteByte('\n')

	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	}); err != nil {
		return fmt.Errorf("adminlog: s3 put %s: %w", key, err)
	}
	a.logger.Debug("booking appended to s3 log", "key", key, "appointment_id", row.AppointmentID)
	return nil
}

// List reads back through monthly objects (up to a year) until limit rows are found.
func (a *S3Appender) List(ctx context.Context, limit int) ([]BookingSummary, error) {
	if a.bucket == "" || a.client == nil {
		return nil, errors.New("adminlog: s3 bucket not configured")
	}
	limit = normalizeLimit(limit)
	month := a.now().UTC()

	var out []BookingSummary
	for i := 0; i < 12 && len(out) < limit; i++ {
		key := monthKey(month.AddDate(0, -i, 0))
		data, err := a.read(ctx, key)
		if err != nil {
			return nil, err
		}
		rows, err := decodeLines(data)
		if err != nil {
			return nil, fmt.Errorf("adminlog: decode %s: %w", key, err)
		}
		for j := len(rows) - 1; j >= 0 && len(out) < limit; j-- {
			out = append(out, rows[j])
		}
	}
	return out, nil
}

func (a *S3Appender) read(ctx context.Context, key string) ([]byte, error) {
	resp, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("adminlog: s3 get %s: %w", key, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("adminlog: read %s: %w", key, err)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	return strings.Contains(err.Error(), "NoSuchKey")
}

func decodeLines(data []byte) ([]BookingSummary, error) {
	var rows []BookingSummary
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var row BookingSummary
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, scanner.Err()
}
