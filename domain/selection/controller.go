package selection

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
)

const (
	statusActive  = "Mode Active: Click and drag on the image to select a region."
	statusApplied = "Color applied. Click 'Start Selection Mode' to select again."
	statusPending = "Applying color..."
)

// Controller owns selection mode, the live drag session and the last
// confirmed SourceRect. One selection, one apply, per cycle: a successful
// ConfirmApply leaves selection mode and the user must Enable again.
//
// All methods must be called from the owning event loop. Gateway completions
// are delivered back onto that loop through Post.
type Controller struct {
	logger  *slog.Logger
	surface Surface
	pointer PointerSource
	mixer   ColorMixer
	post    Poster
	clamp   bool

	enabled bool
	session *DragSession
	source  SourceRect
	status  string

	seq      uint64 // sequence of the newest issued request
	inflight uint64 // sequence currently awaited, 0 when idle
	cancel   context.CancelFunc

	OnPreview  func(DisplayRect)
	OnSelected func(SourceRect)
	OnStatus   func(string)
	OnApplied  func(ref string)
	OnError    func(error)
}

// ControllerOptions bundles optional controller settings.
type ControllerOptions struct {
	// Clamp intersects every mapped selection with the natural image bounds.
	Clamp bool
}

// NewController constructs a controller. post defaults to synchronous
// invocation when nil.
func NewController(surface Surface, pointer PointerSource, mixer ColorMixer, post Poster, logger *slog.Logger, opts ControllerOptions) *Controller {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Controller{surface: surface, pointer: pointer, mixer: mixer, post: post, logger: logger, clamp: opts.Clamp}
}

// Enabled reports whether selection mode is on.
func (c *Controller) Enabled() bool { return c.enabled }

// Selection returns the last confirmed source rectangle (empty when none).
func (c *Controller) Selection() SourceRect { return c.source }

// Status returns the current human-readable status.
func (c *Controller) Status() string { return c.status }

// Pending reports whether an apply request is in flight.
func (c *Controller) Pending() bool { return c.inflight != 0 }

// Enable enters selection mode. Any previous drag session and its preview are
// discarded and the selection is reset to empty.
func (c *Controller) Enable() error {
	if c.inflight != 0 {
		return ErrApplyPending
	}
	if c.surface == nil {
		return ErrNoTargetImage
	}
	if _, ok := c.surface.Metrics(); !ok {
		return ErrNoTargetImage
	}
	c.closeSession()
	c.source = SourceRect{}
	c.enabled = true
	c.session = NewDragSession(c.pointer, c.logger, c.preview, c.confirmed)
	c.setStatus(statusActive)
	if c.logger != nil {
		c.logger.Debug("selection mode enabled")
	}
	return nil
}

// Disable leaves selection mode and cancels any in-progress drag. The
// confirmed selection is kept.
func (c *Controller) Disable() {
	if !c.enabled {
		return
	}
	c.enabled = false
	c.closeSession()
	if c.logger != nil {
		c.logger.Debug("selection mode disabled")
	}
}

// Invalidate is called when a new image is loaded: it cancels the drag,
// clears the selection and marks any in-flight apply as stale.
func (c *Controller) Invalidate() {
	c.enabled = false
	c.closeSession()
	c.source = SourceRect{}
	if c.inflight != 0 {
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.inflight = 0
		if c.logger != nil {
			c.logger.Debug("apply request invalidated", "seq", c.seq)
		}
	}
	c.setStatus("")
}

// ConfirmApply hands the current selection and colour to the mixer. The call
// itself is asynchronous; OnApplied or OnError fire once it completes unless
// a newer request or Invalidate supersedes it.
func (c *Controller) ConfirmApply(ctx context.Context, col color.RGBA) error {
	if c.source.Empty() {
		return ErrEmptySelection
	}
	if c.inflight != 0 {
		return ErrApplyPending
	}
	if c.mixer == nil {
		return errors.New("selection: no color mixer configured")
	}
	mixer := c.mixer
	if s, ok := mixer.(MixerSnapshot); ok {
		mixer = s.Snapshot()
	}
	rect := c.source
	c.source = SourceRect{}
	c.enabled = false
	c.closeSession()

	c.seq++
	seq := c.seq
	c.inflight = seq
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.setStatus(statusPending)
	if c.logger != nil {
		c.logger.Info("apply color", "seq", seq, "rect", rect.String(), "r", col.R, "g", col.G, "b", col.B)
	}
	go func() {
		var ref string
		err := errors.New("selection: color mix aborted")
		defer func() {
			if r := recover(); r != nil && c.logger != nil {
				c.logger.Error("color mix goroutine panic", "error", r)
			}
			c.post(func() { c.finishApply(seq, ref, err) })
		}()
		ref, err = mixer.MixColor(reqCtx, rect, col)
	}()
	return nil
}

func (c *Controller) finishApply(seq uint64, ref string, err error) {
	if seq != c.inflight {
		if c.logger != nil {
			c.logger.Debug("stale apply response discarded", "seq", seq, "current", c.inflight)
		}
		return
	}
	c.inflight = 0
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if err != nil {
		if c.logger != nil {
			c.logger.Error("apply color", "seq", seq, "error", err)
		}
		c.setStatus("")
		if c.OnError != nil {
			c.OnError(err)
		}
		return
	}
	c.setStatus(statusApplied)
	if c.OnApplied != nil {
		c.OnApplied(ref)
	}
}

func (c *Controller) preview(r DisplayRect) {
	if c.OnPreview != nil {
		c.OnPreview(r)
	}
}

// confirmed maps a finalised drag rect using metrics read now, since the
// displayed size may have changed since Enable.
func (c *Controller) confirmed(r DisplayRect) {
	m, ok := c.surface.Metrics()
	if !ok {
		c.source = SourceRect{}
		c.report(ErrNoTargetImage)
		return
	}
	src, err := MapToSource(r, m)
	if err != nil {
		c.source = SourceRect{}
		c.report(err)
		return
	}
	if c.clamp {
		src = ClampToSource(src, m)
	}
	c.source = src
	c.setStatus("Selected Region: " + src.String())
	if c.OnSelected != nil {
		c.OnSelected(src)
	}
}

func (c *Controller) report(err error) {
	if c.logger != nil {
		c.logger.Warn("selection mapping failed", "error", err)
	}
	c.setStatus(fmt.Sprintf("Selection failed: %v", err))
	if c.OnError != nil {
		c.OnError(err)
	}
}

func (c *Controller) closeSession() {
	if c.session == nil {
		return
	}
	c.session.Close()
	c.session = nil
	c.preview(DisplayRect{})
}

func (c *Controller) setStatus(s string) {
	c.status = s
	if c.OnStatus != nil {
		c.OnStatus(s)
	}
}
