package messaging

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gtu-transit/auth-gateway/internal/domain"
)

// Publisher delivers envelopes to one exchange/routing-key pair and falls
// back to the durable spool when the broker is unreachable. Broker trouble
// never propagates to callers; once the envelope is spooled the publish
// counts as success. Only a spool write failure is an error.
type Publisher struct {
	broker     Broker
	spool      *Spool
	exchange   string
	routingKey string
	skipFailed bool

	// Guards the spool's read-mutate-write sequence across Publish and Drain.
	mu sync.Mutex
}

type PublisherOption func(*Publisher)

// WithSkipFailed makes Drain keep an undeliverable envelope and move on to
// the next instead of stopping the pass. Trades strict FIFO ordering for
// throughput behind a single stuck message.
func WithSkipFailed(skip bool) PublisherOption {
	return func(p *Publisher) {
		p.skipFailed = skip
	}
}

func NewPublisher(broker Broker, spool *Spool, exchange, routingKey string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		broker:     broker,
		spool:      spool,
		exchange:   exchange,
		routingKey: routingKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, entry domain.LogEntry) error {
	if err := p.deliver(ctx, entry); err != nil {
		p.mu.Lock()
		defer p.mu.Unlock()

		entries, loadErr := p.spool.Load()
		if loadErr != nil {
			eventsDropped.WithLabelValues(p.exchange).Inc()
			return loadErr
		}
		if saveErr := p.spool.Save(append(entries, entry)); saveErr != nil {
			eventsDropped.WithLabelValues(p.exchange).Inc()
			return saveErr
		}
		eventsSpooled.WithLabelValues(p.exchange).Inc()
		log.Printf("messaging: broker unreachable, spooled envelope for %s: %v", p.exchange, err)
		return nil
	}
	eventsPublished.WithLabelValues(p.exchange).Inc()
	return nil
}

// Drain retries spooled envelopes in FIFO order. By default it stops at the
// first failure so a later envelope never overtakes an earlier one; the
// failed envelope and everything behind it stay spooled for the next pass.
func (p *Publisher) Drain(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.spool.Load()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	remaining := make([]domain.LogEntry, 0, len(entries))
	for i, entry := range entries {
		if err := p.deliver(ctx, entry); err != nil {
			if p.skipFailed {
				remaining = append(remaining, entry)
				continue
			}
			remaining = append(remaining, entries[i:]...)
			break
		}
		eventsDrained.WithLabelValues(p.exchange).Inc()
	}

	return p.spool.Save(remaining)
}

// Pending reports the spool backlog for the health endpoint.
func (p *Publisher) Pending() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.spool.Load()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (p *Publisher) deliver(ctx context.Context, entry domain.LogEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return p.broker.Publish(ctx, p.exchange, p.routingKey, body)
}
