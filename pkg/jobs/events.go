package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/oneconcern/nr/pkg/errors"
	"go.uber.org/zap"
)

// AnyEvent registers a handler for all events
const AnyEvent = "*"

// Event posted to an EventQueue
type Event struct {
	Name   string
	Data   interface{}
	Posted time.Time
}

// Handler processes an event
type Handler func(context.Context, Event) error

// EventQueue dispatches events to handlers on a dedicated goroutine, in the
// order they were posted.
type EventQueue struct {
	logger *zap.Logger
	ctx    context.Context

	handlersMu sync.RWMutex
	handlers   map[string][]Handler

	mu     sync.RWMutex
	closed bool
	events chan Event
	done   chan struct{}

	errMu sync.Mutex
	errs  []error
}

// NewEventQueue starts a queue buffering up to size events
func NewEventQueue(ctx context.Context, logger *zap.Logger, size int) *EventQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size < 0 {
		size = 0
	}
	q := &EventQueue{
		logger:   logger,
		ctx:      ctx,
		handlers: make(map[string][]Handler),
		events:   make(chan Event, size),
		done:     make(chan struct{}),
	}
	go q.loop()
	return q
}

// Register a handler for events with this name, or AnyEvent
func (q *EventQueue) Register(name string, h Handler) {
	q.handlersMu.Lock()
	defer q.handlersMu.Unlock()
	q.handlers[name] = append(q.handlers[name], h)
}

// Post an event. It blocks while the queue buffer is full, so handlers must
// not post to their own queue unless the buffer is large enough.
func (q *EventQueue) Post(name string, data interface{}) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return errors.New(name).Wrap(ErrQueueClosed)
	}
	select {
	case q.events <- Event{Name: name, Data: data, Posted: time.Now()}:
		return nil
	case <-q.ctx.Done():
		return q.ctx.Err()
	}
}

// Close stops accepting events, processes the queued ones and returns the
// combined errors of all handlers.
func (q *EventQueue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
	q.mu.Unlock()

	<-q.done
	return q.Err()
}

// Err combines the handler errors so far
func (q *EventQueue) Err() error {
	q.errMu.Lock()
	defer q.errMu.Unlock()
	return errors.Combine(q.errs...)
}

func (q *EventQueue) loop() {
	defer close(q.done)
	for ev := range q.events {
		q.handlersMu.RLock()
		handlers := make([]Handler, 0, len(q.handlers[ev.Name])+len(q.handlers[AnyEvent]))
		handlers = append(handlers, q.handlers[ev.Name]...)
		handlers = append(handlers, q.handlers[AnyEvent]...)
		q.handlersMu.RUnlock()

		if len(handlers) == 0 {
			q.logger.Debug("event without handler", zap.String("event", ev.Name))
			continue
		}
		for _, h := range handlers {
			if err := q.handle(h, ev); err != nil {
				q.logger.Error("event handler failed", zap.String("event", ev.Name), zap.Error(err))
				q.errMu.Lock()
				q.errs = append(q.errs, errors.New(ev.Name).Wrap(err))
				q.errMu.Unlock()
			}
		}
	}
}

func (q *EventQueue) handle(h Handler, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("handler panicked: %v", r)
		}
	}()
	return h(q.ctx, ev)
}
