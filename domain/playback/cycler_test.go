package playback

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// manualScheduler fires ticks only when the test calls fire.
type manualScheduler struct {
	tasks     []*manualTask
	intervals []time.Duration
}

type manualTask struct {
	fn        func()
	cancelled bool
}

func (s *manualScheduler) Every(interval time.Duration, fn func()) Cancel {
	t := &manualTask{fn: fn}
	s.tasks = append(s.tasks, t)
	s.intervals = append(s.intervals, interval)
	return func() { t.cancelled = true }
}

func (s *manualScheduler) fire(n int) {
	for i := 0; i < n; i++ {
		for _, t := range s.tasks {
			if !t.cancelled {
				t.fn()
			}
		}
	}
}

func (s *manualScheduler) live() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *frameRecorder) emit(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

func (r *frameRecorder) refs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.frames))
	for _, f := range r.frames {
		out = append(out, f.Ref)
	}
	return out
}

func (r *frameRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func TestCycler_EmitsAndWraps(t *testing.T) {
	sched := &manualScheduler{}
	rec := &frameRecorder{}
	c := NewCycler(sched, rec.emit, 0, nil)
	if _, err := c.Start([]string{"a", "b", "c"}, 200*time.Millisecond); err != nil {
		t.Fatalf("start: %v", err)
	}
	sched.fire(3)
	if diff := cmp.Diff([]string{"a", "b", "c", "a"}, rec.refs()); diff != "" {
		t.Fatalf("emissions mismatch (-want +got):\n%s", diff)
	}
}

func TestCycler_IndexIsTickModLength(t *testing.T) {
	for n := 1; n <= 5; n++ {
		sched := &manualScheduler{}
		rec := &frameRecorder{}
		c := NewCycler(sched, rec.emit, 0, nil)
		seq := make([]string, n)
		for i := range seq {
			seq[i] = string(rune('a' + i))
		}
		_, _ = c.Start(seq, 0)
		sched.fire(17)
		for tick, f := range rec.frames {
			if f.Index != tick%n {
				t.Fatalf("n=%d tick=%d: index %d want %d", n, tick, f.Index, tick%n)
			}
		}
	}
}

func TestCycler_EmptySequence(t *testing.T) {
	c := NewCycler(&manualScheduler{}, nil, 0, nil)
	if _, err := c.Start(nil, 0); !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
	if c.Active() {
		t.Fatalf("cycler active after failed start")
	}
}

func TestCycler_DefaultIntervalUsed(t *testing.T) {
	sched := &manualScheduler{}
	c := NewCycler(sched, nil, 0, nil)
	_, _ = c.Start([]string{"x"}, 0)
	_, _ = c.Start([]string{"x"}, 50*time.Millisecond)
	want := []time.Duration{DefaultInterval, 50 * time.Millisecond}
	if diff := cmp.Diff(want, sched.intervals); diff != "" {
		t.Fatalf("intervals (-want +got):\n%s", diff)
	}
}

func TestCycler_RestartReplacesTimer(t *testing.T) {
	sched := &manualScheduler{}
	rec := &frameRecorder{}
	c := NewCycler(sched, rec.emit, 0, nil)
	_, _ = c.Start([]string{"a", "b"}, 0)
	_, _ = c.Start([]string{"x", "y", "z"}, 0)
	if sched.live() != 1 {
		t.Fatalf("expected exactly one live timer, got %d", sched.live())
	}
	sched.fire(4)
	// first start emitted "a" before being replaced; afterwards only x/y/z.
	if diff := cmp.Diff([]string{"a", "x", "y", "z", "x", "y"}, rec.refs()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestCycler_StopIsIdempotentAndFinal(t *testing.T) {
	sched := &manualScheduler{}
	rec := &frameRecorder{}
	c := NewCycler(sched, rec.emit, 0, nil)
	c.Stop() // not active: no-op
	_, _ = c.Start([]string{"a", "b"}, 0)
	sched.fire(1)
	c.Stop()
	c.Stop()
	before := rec.count()
	sched.fire(5)
	if rec.count() != before {
		t.Fatalf("emission after stop")
	}
	if ref, idx, ok := c.Current(); !ok || ref != "b" || idx != 1 {
		t.Fatalf("unexpected current %q %d %v", ref, idx, ok)
	}
}

func TestCycler_StaleHandleDoesNotStopNewCycle(t *testing.T) {
	sched := &manualScheduler{}
	c := NewCycler(sched, nil, 0, nil)
	old, _ := c.Start([]string{"a"}, 0)
	_, _ = c.Start([]string{"b"}, 0)
	old.Stop()
	if !c.Active() {
		t.Fatalf("stale handle stopped the newer cycle")
	}
}

func TestCycler_TimerSchedulerStops(t *testing.T) {
	rec := &frameRecorder{}
	c := NewCycler(TimerScheduler{}, rec.emit, 0, nil)
	h, err := c.Start([]string{"a", "b", "c"}, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for rec.count() < 4 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	h.Stop()
	stopped := rec.count()
	if stopped < 4 {
		t.Fatalf("expected ticks before stop, got %d", stopped)
	}
	time.Sleep(40 * time.Millisecond)
	if rec.count() != stopped {
		t.Fatalf("emissions continued after stop: %d -> %d", stopped, rec.count())
	}
	for i, f := range rec.frames {
		if f.Index != i%3 {
			t.Fatalf("tick %d emitted index %d", i, f.Index)
		}
	}
}
