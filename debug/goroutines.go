package debug

// Debug goroutine metrics logger. Started only when config.Debug is true.
// Emits goroutine count (runtime metrics) and stack/heap usage at a fixed
// interval so leaked request goroutines show up quickly.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// StartGoroutineLogger launches a ticker that logs goroutine count and stack
// memory until ctx is done.
func StartGoroutineLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		return
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			logger.Debug("goroutine-stacks", goroutineAttrs(samples[0])...)
		}
	}()
}

func goroutineAttrs(s metrics.Sample) []any {
	var goroutines uint64
	if s.Value.Kind() == metrics.KindUint64 {
		goroutines = s.Value.Uint64()
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return []any{
		slog.Uint64("goroutines", goroutines),
		slog.String("stack_inuse", humanize.IBytes(ms.StackInuse)),
		slog.String("stack_sys", humanize.IBytes(ms.StackSys)),
		slog.String("heap_alloc", humanize.IBytes(ms.HeapAlloc)),
	}
}
