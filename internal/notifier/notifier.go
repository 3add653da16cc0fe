package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"leave-service/internal/events"

	"go.uber.org/zap"
)

const (
	DefaultQueueSize      = 256
	DefaultDeliverTimeout = 5 * time.Second
)

var (
	ErrQueueFull = errors.New("notifier queue is full")
	ErrStopped   = errors.New("notifier is stopped")
)

// Sink delivers one event to a downstream system.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event events.LeaveEvent) error
}

// Dispatcher is a fire-and-forget Notifier. Notify only enqueues; a single
// goroutine started by Start delivers each event to every sink. A sink
// failure is logged and never reaches the caller of Notify.
//
// The dispatcher outlives request handling: Stop is called after the HTTP
// server has finished in-flight requests, and flushes what is still queued.
type Dispatcher struct {
	mu             sync.RWMutex
	stopped        bool
	queue          chan events.LeaveEvent
	sinks          []Sink
	deliverTimeout time.Duration
	logger         *zap.Logger
	wg             sync.WaitGroup
}

func NewDispatcher(queueSize int, sinks []Sink, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notifier.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notifier.dispatcher")
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Dispatcher{
		queue:          make(chan events.LeaveEvent, queueSize),
		sinks:          sinks,
		deliverTimeout: DefaultDeliverTimeout,
		logger:         l,
	}
}

// Notify enqueues event. It returns ErrQueueFull when the queue is at
// capacity and ErrStopped once Stop has been called.
func (d *Dispatcher) Notify(ctx context.Context, event events.LeaveEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}
	select {
	case d.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the delivery goroutine.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	d.logger.Info("notifier started", zap.Int("sinks", len(d.sinks)), zap.Int("queue_size", cap(d.queue)))
	for event := range d.queue {
		d.deliver(event)
	}
	d.logger.Info("notifier stopped")
}

// Stop rejects further events, then waits until every queued event has been
// handed to the sinks or ctx expires. Undelivered events are logged.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
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
		d.logger.Warn("notifier stop timed out, events not delivered", zap.Int("pending", len(d.queue)))
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(event events.LeaveEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.deliverTimeout)
	defer cancel()

	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			d.logger.Error("deliver leave event failed",
				zap.String("sink", sink.Name()),
				zap.String("event_type", event.EventType),
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
		}
	}
}
