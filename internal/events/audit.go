package events

import (
	"context"

	"github.com/serroba/shortify/internal/requestid"
	"go.uber.org/zap"
)

// AuditSink records link-created events.
type AuditSink interface {
	Record(ctx context.Context, event *LinkCreated) error
}

// LogAuditSink writes one structured log line per created link.
type LogAuditSink struct {
	logger *zap.Logger
}

// NewLogAuditSink creates an audit sink backed by logger.
func NewLogAuditSink(logger *zap.Logger) *LogAuditSink {
	return &LogAuditSink{logger: logger}
}

func (s *LogAuditSink) Record(ctx context.Context, event *LinkCreated) error {
	reqID := event.RequestID
	if reqID == "" {
		reqID = requestid.FromContext(ctx)
	}

	s.logger.Info("link created",
		zap.String("slug", event.Slug),
		zap.String("long_url", event.LongURL),
		zap.Time("created_at", event.CreatedAt),
		zap.String("client_id", event.ClientID),
		zap.String("request_id", reqID),
	)

	return nil
}

// Compile-time check.
var _ AuditSink = (*LogAuditSink)(nil)
