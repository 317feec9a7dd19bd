package messaging

import (
	"context"
	"log"

	"github.com/gtu-transit/auth-gateway/internal/domain"
	"github.com/gtu-transit/auth-gateway/internal/repository/ports"
)

// OpsLogger ships operational log envelopes over the broker's log channel.
// Logging must never fail a business operation, so errors are only mirrored
// to stderr.
type OpsLogger struct {
	publisher ports.EventPublisher
	service   string
}

func NewOpsLogger(publisher ports.EventPublisher, service string) *OpsLogger {
	return &OpsLogger{publisher: publisher, service: service}
}

func (l *OpsLogger) Log(ctx context.Context, level domain.LogLevel, message string, details map[string]any) {
	entry := domain.NewLogEntry(l.service, level, message, details)
	if err := l.publisher.Publish(ctx, entry); err != nil {
		log.Printf("messaging: dropping operational log %q: %v", message, err)
	}
}
