package playback

import (
	"sync"
	"time"
)

// Cancel stops a scheduled task. Implementations must make it idempotent.
type Cancel func()

// Scheduler runs fn every interval until the returned Cancel is called.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Cancel
}

// TimerScheduler drives ticks from a time.Ticker goroutine. Post, when set,
// hands every tick to an event loop instead of running it on the ticker
// goroutine.
type TimerScheduler struct {
	Post func(fn func())
}

func (s TimerScheduler) Every(interval time.Duration, fn func()) Cancel {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if s.Post != nil {
					s.Post(fn)
				} else {
					fn()
				}
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
