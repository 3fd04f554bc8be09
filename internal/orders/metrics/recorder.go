package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/dejobratic/catalog/internal/orders/domain"
)

// CreationRecord captures the timings and outcome of one order creation attempt.
type CreationRecord struct {
	OperationID         string
	Title               string
	ISBN                string
	Category            domain.Category
	ValidationDuration  time.Duration
	PersistenceDuration time.Duration
	TotalDuration       time.Duration
	Success             bool
	ErrorReason         string
}

// Recorder emits a CreationRecord as a structured log line and as OTel measurements.
type Recorder struct {
	metrics *Metrics
	logger  *slog.Logger
}

func NewRecorder(m *Metrics, logger *slog.Logger) *Recorder {
	return &Recorder{metrics: m, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, rec CreationRecord) {
	attrs := []any{
		"operation_id", rec.OperationID,
		"title", rec.Title,
		"isbn", rec.ISBN,
		"category", string(rec.Category),
		"validation_ms", milliseconds(rec.ValidationDuration),
		"persistence_ms", milliseconds(rec.PersistenceDuration),
		"total_ms", milliseconds(rec.TotalDuration),
		"success", rec.Success,
	}

	if rec.Success {
		r.logger.InfoContext(ctx, "order creation metrics", attrs...)
	} else {
		attrs = append(attrs, "error_reason", rec.ErrorReason)
		r.logger.WarnContext(ctx, "order creation metrics", attrs...)
	}

	if r.metrics == nil {
		return
	}
	r.metrics.RecordOrderCreated(ctx, rec.Success, string(rec.Category))
	r.metrics.RecordDurations(ctx, rec.ValidationDuration, rec.PersistenceDuration, rec.TotalDuration)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
