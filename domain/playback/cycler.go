package playback

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the tick period used when Start is given a non-positive
// interval: five emissions per second.
const DefaultInterval = 200 * time.Millisecond

// ErrEmptySequence is returned by Start for a sequence with no references.
var ErrEmptySequence = errors.New("playback: empty sequence")

// Frame is one emission of the cycler.
type Frame struct {
	Index int
	Ref   string
}

// Cycler loops over an ordered sequence of media references on a timer.
// At most one cycle is active; starting a new one replaces the old.
//
// The emit callback runs with the cycler lock held and must not call back
// into the cycler.
type Cycler struct {
	mu       sync.Mutex
	sched    Scheduler
	emit     func(Frame)
	logger   *slog.Logger
	interval time.Duration

	seq    []string
	index  int
	active bool
	gen    uint64
	cancel Cancel
}

// Handle identifies one started cycle.
type Handle struct {
	c   *Cycler
	gen uint64
}

// Stop stops the cycle this handle refers to. It is a no-op when the cycle
// already ended or was replaced by a newer Start.
func (h *Handle) Stop() {
	if h == nil || h.c == nil {
		return
	}
	h.c.stopGen(h.gen)
}

// NewCycler constructs a cycler. A non-positive defaultInterval falls back
// to DefaultInterval.
func NewCycler(sched Scheduler, emit func(Frame), defaultInterval time.Duration, logger *slog.Logger) *Cycler {
	if defaultInterval <= 0 {
		defaultInterval = DefaultInterval
	}
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Cycler{sched: sched, emit: emit, interval: defaultInterval, logger: logger}
}

// Start begins cycling over seq, immediately emitting seq[0]. Any running
// cycle is stopped first. A non-positive interval uses the default.
func (c *Cycler) Start(seq []string, interval time.Duration) (*Handle, error) {
	if len(seq) == 0 {
		return nil, ErrEmptySequence
	}
	if interval <= 0 {
		interval = c.interval
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.gen++
	gen := c.gen
	c.seq = append([]string(nil), seq...)
	c.index = 0
	c.active = true
	if c.logger != nil {
		c.logger.Debug("playback started", "frames", len(c.seq), "interval", interval)
	}
	c.emitLocked()
	c.cancel = c.sched.Every(interval, func() { c.tick(gen) })
	return &Handle{c: c, gen: gen}, nil
}

// Stop cancels the running cycle. Idempotent. No emission happens after
// Stop returns.
func (c *Cycler) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Active reports whether a cycle is running.
func (c *Cycler) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Current returns the most recently emitted reference.
func (c *Cycler) Current() (ref string, index int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.seq) == 0 {
		return "", 0, false
	}
	return c.seq[c.index], c.index, true
}

// SetInterval changes the default period used by later Start calls.
func (c *Cycler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.interval = d
	c.mu.Unlock()
}

func (c *Cycler) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active || gen != c.gen {
		return
	}
	c.index = (c.index + 1) % len(c.seq)
	c.emitLocked()
}

func (c *Cycler) emitLocked() {
	if c.emit != nil {
		c.emit(Frame{Index: c.index, Ref: c.seq[c.index]})
	}
}

func (c *Cycler) stopGen(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.stopLocked()
}

func (c *Cycler) stopLocked() {
	if !c.active {
		return
	}
	c.active = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.logger != nil {
		c.logger.Debug("playback stopped", "index", c.index)
	}
}
