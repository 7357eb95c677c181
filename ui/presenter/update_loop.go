package presenter

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Loop is the UI-thread queue for work finished elsewhere. Goroutines hand
// their completions to Post; Tick runs them in order on the UI thread and
// invokes the scheduler callback. The zero value is usable (methods are
// nil-safe).
type Loop struct {
	Schedule func()
	Logger   *slog.Logger

	mu      sync.Mutex
	pending []func()
}

func NewLoop(schedule func(), logger *slog.Logger) *Loop {
	return &Loop{Schedule: schedule, Logger: logger}
}

// Post queues fn for the next Tick. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	if l == nil || fn == nil {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
}

// Pending reports the number of queued callbacks.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Tick drains queued callbacks then reschedules itself.
func (l *Loop) Tick() {
	if l == nil {
		return
	}
	l.Drain()
	if l.Schedule != nil {
		l.Schedule()
	}
}

// Drain runs every queued callback, including ones queued while draining.
func (l *Loop) Drain() {
	if l == nil {
		return
	}
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil && l.Logger != nil {
			l.Logger.Error("ui callback panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
