package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/glimte/chainflow/chain"
)

// Channel is the subset of the AMQP channel API the bridge uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// completion is the wire format for resuming a pending suspension.
type completion struct {
	Token   string          `json:"token"`
	Subject json.RawMessage `json:"subject,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Bridge resumes suspended executions from completion messages arriving on
// an AMQP queue. An interceptor suspends, registers the resumption behind a
// correlation token, and sends the token to a remote worker; the worker
// publishes a completion carrying the token and either a subject payload or
// an error, and the bridge delivers it to the pending suspension.
//
// Exactly-once delivery is enforced by the resumption itself: a duplicate
// completion is logged and dropped, never delivered twice.
type Bridge[S any] struct {
	channel Channel
	queue   string
	logger  *slog.Logger
	decode  func([]byte) (S, error)

	mu      sync.Mutex
	pending map[string]*chain.Resumption[S]
}

// Option configures the bridge
type Option[S any] func(*Bridge[S])

// WithBridgeLogger sets the logger
func WithBridgeLogger[S any](logger *slog.Logger) Option[S] {
	return func(b *Bridge[S]) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDecoder replaces the default JSON decoding of completion subjects.
func WithDecoder[S any](decode func([]byte) (S, error)) Option[S] {
	return func(b *Bridge[S]) {
		b.decode = decode
	}
}

// NewBridge creates a bridge consuming completions from the given queue.
func NewBridge[S any](channel Channel, queue string, opts ...Option[S]) *Bridge[S] {
	b := &Bridge[S]{
		channel: channel,
		queue:   queue,
		logger:  slog.Default(),
		pending: make(map[string]*chain.Resumption[S]),
		decode: func(raw []byte) (S, error) {
			var subject S
			if len(raw) == 0 {
				return subject, nil
			}
			err := json.Unmarshal(raw, &subject)
			return subject, err
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register parks a suspension behind a fresh correlation token. The token
// travels to the remote worker; the matching completion resumes the
// suspension. Registrations not yet completed when ctx ends are failed by
// the suspension's own Await.
func (b *Bridge[S]) Register(r *chain.Resumption[S]) string {
	token := uuid.NewString()
	b.mu.Lock()
	b.pending[token] = r
	b.mu.Unlock()
	return token
}

// take removes and returns the pending suspension for a token, if any.
func (b *Bridge[S]) take(token string) *chain.Resumption[S] {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.pending[token]
	if ok {
		delete(b.pending, token)
	}
	return r
}

// Pending returns the number of registered, not yet completed suspensions.
func (b *Bridge[S]) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Start declares the completion queue and consumes it until ctx ends.
// It returns once the consumer is wired; delivery handling runs on its own
// goroutine.
func (b *Bridge[S]) Start(ctx context.Context) error {
	if _, err := b.channel.QueueDeclare(b.queue, false, true, false, false, nil); err != nil {
		return fmt.Errorf("bridge: declaring queue %s: %w", b.queue, err)
	}

	deliveries, err := b.channel.ConsumeWithContext(ctx, b.queue, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("bridge: consuming queue %s: %w", b.queue, err)
	}

	go b.consume(ctx, deliveries)
	return nil
}

func (b *Bridge[S]) consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			b.handle(delivery)
		}
	}
}

func (b *Bridge[S]) handle(delivery amqp.Delivery) {
	var c completion
	if err := json.Unmarshal(delivery.Body, &c); err != nil {
		b.logger.Warn("discarding malformed completion",
			"queue", b.queue,
			"error", err,
		)
		return
	}

	token := c.Token
	if token == "" {
		token = delivery.CorrelationId
	}

	r := b.take(token)
	if r == nil {
		b.logger.Warn("completion for unknown or already completed token",
			"queue", b.queue,
			"token", token,
		)
		return
	}

	if c.Error != "" {
		if err := r.Fail(errors.New(c.Error)); err != nil {
			b.logger.Error("failure delivery rejected",
				"token", token,
				"error", err,
			)
		}
		return
	}

	subject, err := b.decode(c.Subject)
	if err != nil {
		if failErr := r.Fail(fmt.Errorf("bridge: decoding completion subject: %w", err)); failErr != nil {
			b.logger.Error("failure delivery rejected", "token", token, "error", failErr)
		}
		return
	}

	if err := r.Resume(subject); err != nil {
		b.logger.Error("duplicate resumption rejected",
			"token", token,
			"error", err,
		)
	}
}

// Complete publishes a successful completion for a token. It is the remote
// worker's half of the protocol.
func (b *Bridge[S]) Complete(ctx context.Context, token string, subject S) error {
	raw, err := json.Marshal(subject)
	if err != nil {
		return fmt.Errorf("bridge: encoding completion subject: %w", err)
	}
	return b.publish(ctx, completion{Token: token, Subject: raw})
}

// CompleteWithError publishes a failing completion for a token.
func (b *Bridge[S]) CompleteWithError(ctx context.Context, token string, cause error) error {
	return b.publish(ctx, completion{Token: token, Error: cause.Error()})
}

func (b *Bridge[S]) publish(ctx context.Context, c completion) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("bridge: encoding completion: %w", err)
	}
	return b.channel.PublishWithContext(ctx, "", b.queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: c.Token,
		Body:          body,
	})
}
