package bus

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

var (
	// ErrBusClosed is returned when publishing on a released bus.
	ErrBusClosed = errors.New("bus is closed")

	// ErrNilHandler is returned when subscribing a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")
)

const defaultPoolSize = 32

// InMemory is an in-process Bus. Every delivery runs as an independent task
// on a worker pool, so a handler that blocks (for example while awaiting a
// retry backoff) never stalls dispatch of other messages.
type InMemory struct {
	pool   *ants.Pool
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler
	closed   bool

	inflight sync.WaitGroup
}

var _ Bus = (*InMemory)(nil)

// Option configures an InMemory bus.
type Option func(*InMemory) error

// WithPoolSize sets the delivery worker pool size.
// The pool must be large enough to hold every concurrently blocked handler;
// the default is 32.
func WithPoolSize(size int) Option {
	return func(b *InMemory) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *InMemory) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewInMemory creates an in-memory bus.
func NewInMemory(opts ...Option) (*InMemory, error) {
	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	b := &InMemory{
		pool:     pool,
		logger:   slog.Default(),
		handlers: make(map[string][]Handler),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// Subscribe registers a handler for a topic.
func (b *InMemory) Subscribe(topic string, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

// Publish delivers payload to every handler subscribed to topic. Each handler
// runs as its own pool task. A topic without subscribers is not an error; the
// message is dropped with a warning, matching a broker with no consumers.
func (b *InMemory) Publish(ctx context.Context, topic, key string, payload []byte) error {
	b.mu.RLock()
	closed := b.closed
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	if closed {
		return ErrBusClosed
	}
	if len(handlers) == 0 {
		b.logger.Warn("no subscribers for topic", "topic", topic, "key", key)
		return nil
	}

	msg := Message{Topic: topic, Key: key, Payload: payload}
	for _, handler := range handlers {
		h := handler
		b.inflight.Add(1)
		err := b.pool.Submit(func() {
			defer b.inflight.Done()
			h(context.WithoutCancel(ctx), msg)
		})
		if err != nil {
			b.inflight.Done()
			return err
		}
	}
	return nil
}

// Wait blocks until every in-flight delivery, including deliveries published
// by running handlers, has completed. Intended for tests and shutdown.
func (b *InMemory) Wait() {
	b.inflight.Wait()
}

// Release drains in-flight deliveries and releases the worker pool.
// The bus should not be used after calling Release.
func (b *InMemory) Release() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.inflight.Wait()
	if b.pool != nil {
		b.pool.Release()
	}
}
