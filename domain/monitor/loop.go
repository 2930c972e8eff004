package monitor

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// EventLoop runs completion callbacks one at a time on a single goroutine, so
// store mutations issued by concurrent requests never interleave.
type EventLoop struct {
	logger *slog.Logger
	events chan func()
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewEventLoop constructs and starts the loop.
func NewEventLoop(logger *slog.Logger) *EventLoop {
	l := &EventLoop{logger: logger, events: make(chan func(), 64), done: make(chan struct{})}
	go l.loop()
	return l
}

func (l *EventLoop) loop() {
	defer close(l.done)
	for fn := range l.events {
		l.run(fn)
	}
}

func (l *EventLoop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil && l.logger != nil {
			l.logger.Error("event loop callback panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Post enqueues fn. It returns false once the loop is closed.
func (l *EventLoop) Post(fn func()) bool {
	if l == nil || fn == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	l.events <- fn
	return true
}

// Call enqueues fn and waits until it has run. It returns false if the loop is
// closed before fn could be queued. Must not be called from a loop callback.
func (l *EventLoop) Call(fn func()) bool {
	if fn == nil {
		return false
	}
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return false
	}
	<-ran
	return true
}

// Close stops accepting callbacks, drains queued ones and waits for the loop to exit.
// It is safe to call more than once.
func (l *EventLoop) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.events)
	}
	l.mu.Unlock()
	<-l.done
}

// SerializedWriter applies updates to Store from the EventLoop goroutine.
type SerializedWriter struct {
	Loop  *EventLoop
	Store *Store
}

// Apply runs Store.Apply on the loop and returns the changed fields. Updates
// after the loop is closed are dropped.
func (w SerializedWriter) Apply(p Partial) []Field {
	if w.Loop == nil {
		return w.Store.Apply(p)
	}
	var changed []Field
	w.Loop.Call(func() { changed = w.Store.Apply(p) })
	return changed
}
