// Package notify announces newly created content outside the request that
// created it. Delivery is best effort: at most once, no retries.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/dvstream/catalog/internal/models"
)

// Sender delivers one announcement.
type Sender interface {
	Send(ctx context.Context, item models.Content) error
}

// Options configure a Dispatcher.
type Options struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Dispatcher runs sends on a fixed pool of workers fed by a bounded queue.
// Errors and panics in a send are logged and never reach the caller.
type Dispatcher struct {
	sender  Sender
	queue   chan models.Content
	workers int
	timeout time.Duration
	logger  zerolog.Logger

	wg      conc.WaitGroup
	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewDispatcher creates a dispatcher. Call Start to begin delivering.
func NewDispatcher(sender Sender, opts Options, logger zerolog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Dispatcher{
		sender:  sender,
		queue:   make(chan models.Content, opts.QueueSize),
		workers: opts.Workers,
		timeout: opts.Timeout,
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// Start launches the workers.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.workers; i++ {
		d.wg.Go(d.work)
	}
}

// Enqueue queues item without blocking. It reports false when the queue is
// full or the dispatcher is stopped; the item is then dropped.
func (d *Dispatcher) Enqueue(item models.Content) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.queue <- item:
		return true
	default:
		d.logger.Warn().
			Str("type", string(item.ContentType())).
			Str("id", item.ContentID()).
			Msg("Notification queue full, dropping notification")
		return false
	}
}

func (d *Dispatcher) work() {
	for item := range d.queue {
		d.deliver(item)
	}
}

func (d *Dispatcher) deliver(item models.Content) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var pc panics.Catcher
	pc.Try(func() {
		if err := d.sender.Send(ctx, item); err != nil {
			d.logger.Error().Err(err).
				Str("type", string(item.ContentType())).
				Str("id", item.ContentID()).
				Msg("Failed to send notification")
		}
	})
	if r := pc.Recovered(); r != nil {
		d.logger.Error().Str("panic", r.String()).Str("id", item.ContentID()).Msg("Notification sender panicked")
	}
}

// Stop closes the queue and waits for queued items to drain or for ctx to
// expire, whichever comes first.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
