package ports

import (
	"context"

	"github.com/gtu-transit/auth-gateway/internal/domain"
)

// EventPublisher delivers log envelopes to the broker. Publish succeeds even
// when the broker is down as long as the envelope lands in the durable spool;
// Drain retries spooled envelopes in FIFO order.
type EventPublisher interface {
	Publish(ctx context.Context, entry domain.LogEntry) error
	Drain(ctx context.Context) error
}
