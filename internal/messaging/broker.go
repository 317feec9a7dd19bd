package messaging

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Broker is the fire-and-forget publish target. The real implementation
// talks AMQP; tests substitute a recording fake.
type Broker interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}

// AMQPBroker keeps a single connection/channel pair open and redials lazily
// after a failure, with a cool-down so a dead broker is not hammered on every
// publish. Safe for concurrent use.
type AMQPBroker struct {
	url           string
	retryInterval time.Duration

	mu        sync.Mutex
	conn      *amqp.Connection
	ch        *amqp.Channel
	nextRetry time.Time
	closed    bool
}

type BrokerOption func(*AMQPBroker)

// WithRetryInterval overrides the cool-down window after a failed dial or
// publish. Defaults to 5 seconds.
func WithRetryInterval(d time.Duration) BrokerOption {
	return func(b *AMQPBroker) {
		b.retryInterval = d
	}
}

func NewAMQPBroker(url string, opts ...BrokerOption) (*AMQPBroker, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("amqp: empty broker url")
	}

	b := &AMQPBroker{
		url:           url,
		retryInterval: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *AMQPBroker) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errors.New("amqp: broker closed")
	}

	if err := b.ensureChannelLocked(); err != nil {
		return err
	}

	err := b.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		b.closeConnLocked()
		b.scheduleRetryLocked()
		return err
	}
	return nil
}

func (b *AMQPBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.closeConnLocked()
	return nil
}

func (b *AMQPBroker) ensureChannelLocked() error {
	if b.ch != nil && !b.ch.IsClosed() {
		return nil
	}
	b.closeConnLocked()

	now := time.Now()
	if !b.nextRetry.IsZero() && now.Before(b.nextRetry) {
		return errRetryCooldown
	}

	conn, err := amqp.Dial(b.url)
	if err != nil {
		b.scheduleRetryLocked()
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		b.scheduleRetryLocked()
		return err
	}

	b.conn = conn
	b.ch = ch
	b.nextRetry = time.Time{}
	return nil
}

func (b *AMQPBroker) closeConnLocked() {
	if b.ch != nil {
		_ = b.ch.Close()
		b.ch = nil
	}
	if b.conn != nil {
		_ = b.conn.Close()
		b.conn = nil
	}
}

func (b *AMQPBroker) scheduleRetryLocked() {
	if b.retryInterval <= 0 {
		b.nextRetry = time.Time{}
		return
	}
	b.nextRetry = time.Now().Add(b.retryInterval)
}

var errRetryCooldown = errors.New("amqp: retry cooldown in effect")
