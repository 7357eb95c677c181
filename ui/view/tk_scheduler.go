package view

import (
	"time"

	"github.com/soocke/mediavis-go/domain/playback"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// TkScheduler runs playback ticks on the Tk event loop by re-arming a
// TclAfter callback after every tick. Cancel must be called on the UI thread.
type TkScheduler struct{}

func (TkScheduler) Every(interval time.Duration, fn func()) playback.Cancel {
	var (
		id      string
		stopped bool
		arm     func()
	)
	arm = func() {
		id = TclAfter(interval, func() {
			if stopped {
				return
			}
			fn()
			if !stopped {
				arm()
			}
		})
	}
	arm()
	return func() {
		if stopped {
			return
		}
		stopped = true
		TclAfterCancel(id)
	}
}

var _ playback.Scheduler = TkScheduler{}
