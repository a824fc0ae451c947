// Package audit provides best-effort recording of analytics events to a
// search index. Recording never blocks a request and never surfaces errors
// to the caller; events are dropped when the index is unavailable.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopgrove/marketplace/internal/domain"
)

// Recorder records audit events. Implementations must be failure-isolated:
// Record never blocks and never reports an error to the caller.
type Recorder interface {
	Record(ctx context.Context, event domain.AuditEvent)
}

// Sink writes a single audit document to the backing index.
type Sink interface {
	Index(ctx context.Context, event domain.AuditEvent) error
}

// Config contains audit logger configuration.
type Config struct {
	QueueSize  int
	NumWorkers int
	// IndexTimeout bounds a single sink write.
	IndexTimeout time.Duration
	// DrainTimeout bounds how long Stop waits for queued events.
	DrainTimeout time.Duration
}

// DefaultConfig returns default audit logger configuration.
func DefaultConfig() Config {
	return Config{
		QueueSize:    1024,
		NumWorkers:   2,
		IndexTimeout: 5 * time.Second,
		DrainTimeout: 5 * time.Second,
	}
}

// Logger is an asynchronous Recorder backed by a bounded in-memory queue.
// Events are indexed at-most-once: a full queue or a failed write drops the
// event with a local log line and a metric, nothing else.
type Logger struct {
	config Config
	sink   Sink
	queue  chan domain.AuditEvent

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewLogger creates an audit logger writing to sink.
func NewLogger(config Config, sink Sink) *Logger {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = DefaultConfig().NumWorkers
	}
	if config.IndexTimeout <= 0 {
		config.IndexTimeout = DefaultConfig().IndexTimeout
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = DefaultConfig().DrainTimeout
	}

	return &Logger{
		config: config,
		sink:   sink,
		queue:  make(chan domain.AuditEvent, config.QueueSize),
	}
}

// Start launches the indexing workers.
func (l *Logger) Start() {
	slog.Info("starting audit logger",
		"workers", l.config.NumWorkers,
		"queue_size", l.config.QueueSize,
	)

	for i := 0; i < l.config.NumWorkers; i++ {
		l.wg.Add(1)
		go l.run()
	}
}

// Record enqueues an event for indexing. It returns immediately; if the
// queue is full or the logger is stopped the event is dropped.
func (l *Logger) Record(_ context.Context, event domain.AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.stopped {
		recordEventDropped(event.Kind, "shutdown")
		return
	}

	select {
	case l.queue <- event:
	default:
		recordEventDropped(event.Kind, "queue_full")
		slog.Warn("audit queue full, event dropped", "kind", event.Kind)
	}
}

// Stop drains the queue and stops the workers. Events still queued after
// the drain timeout are abandoned.
func (l *Logger) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	close(l.queue)
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("audit logger stopped")
	case <-time.After(l.config.DrainTimeout):
		slog.Warn("audit logger drain timed out", "remaining", len(l.queue))
	}
}

func (l *Logger) run() {
	defer l.wg.Done()

	for event := range l.queue {
		l.index(event)
	}
}

func (l *Logger) index(event domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), l.config.IndexTimeout)
	defer cancel()

	start := time.Now()
	if err := l.sink.Index(ctx, event); err != nil {
		recordEventFailed(event.Kind)
		slog.Warn("failed to index audit event", "kind", event.Kind, "error", err)
		return
	}

	recordEventIndexed(event.Kind, time.Since(start))
}
