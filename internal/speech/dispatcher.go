package speech

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher speaks messages asynchronously through a bounded queue.
// Messages arriving while the queue is full are dropped.
type Dispatcher struct {
	speaker Speaker
	queue   chan string
	timeout time.Duration
	logger  zerolog.Logger

	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
	dropped int
}

// NewDispatcher starts a dispatcher with room for size pending messages
func NewDispatcher(speaker Speaker, size int, logger zerolog.Logger) *Dispatcher {
	if size <= 0 {
		size = 16
	}
	d := &Dispatcher{
		speaker: speaker,
		queue:   make(chan string, size),
		timeout: 30 * time.Second,
		logger:  logger.With().Str("component", "speech").Str("speaker", speaker.Name()).Logger(),
	}

	d.wg.Add(1)
	go d.run()
	return d
}

// Speak enqueues message without blocking. It reports whether the message
// was accepted.
func (d *Dispatcher) Speak(message string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}

	select {
	case d.queue <- message:
		return true
	default:
		d.dropped++
		d.logger.Warn().Int("dropped", d.dropped).Msg("Speech queue full, dropping message")
		return false
	}
}

// Dropped returns how many messages were discarded
func (d *Dispatcher) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Close stops accepting messages and waits for queued ones to be spoken
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for message := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.speaker.Speak(ctx, message); err != nil {
			d.logger.Warn().Err(err).Msg("Speech failed")
		}
		cancel()
	}
}
