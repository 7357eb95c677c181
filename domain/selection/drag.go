package selection

import (
	"log/slog"
	"math"
)

// DragSession tracks one press-move-release gesture on a view surface and
// produces normalised rectangles in displayed space.
//
// The press listener stays bound for the session lifetime; move/release are
// bound on press and unbound on release, so stray pointer events outside an
// active drag never reach the session.
type DragSession struct {
	state   DragState
	anchor  Point
	last    DisplayRect
	logger  *slog.Logger
	source  PointerSource
	unPress func()
	unDrag  func()
	closed  bool

	// OnPreview receives the live rectangle (zero-size on press).
	OnPreview func(DisplayRect)
	// OnConfirm receives the finalised rectangle on release.
	OnConfirm func(DisplayRect)
}

// NewDragSession creates an idle session. When source is non-nil the session
// binds its press listener immediately.
func NewDragSession(source PointerSource, logger *slog.Logger, onPreview, onConfirm func(DisplayRect)) *DragSession {
	s := &DragSession{source: source, logger: logger, OnPreview: onPreview, OnConfirm: onConfirm}
	if source != nil {
		s.unPress = source.BindPress(s.OnPress)
	}
	return s
}

// State returns the current drag state.
func (s *DragSession) State() DragState { return s.state }

// Last returns the most recent normalised rectangle.
func (s *DragSession) Last() DisplayRect { return s.last }

// OnPress starts a drag at p. Ignored unless idle.
func (s *DragSession) OnPress(p Point) {
	if s.closed || s.state != Idle {
		return
	}
	s.anchor = p
	s.last = DisplayRect{Left: p.X, Top: p.Y}
	s.state = Dragging
	if s.source != nil {
		s.unDrag = s.source.BindDrag(s.OnMove, s.OnRelease)
	}
	if s.logger != nil {
		s.logger.Debug("drag started", "x", p.X, "y", p.Y)
	}
	if s.OnPreview != nil {
		s.OnPreview(s.last)
	}
}

// OnMove updates the live rectangle. Ignored unless dragging.
func (s *DragSession) OnMove(p Point) {
	if s.state != Dragging {
		return
	}
	s.last = normalize(s.anchor, p)
	if s.OnPreview != nil {
		s.OnPreview(s.last)
	}
}

// OnRelease finalises the rectangle and returns to idle. Ignored unless dragging.
func (s *DragSession) OnRelease(p Point) {
	if s.state != Dragging {
		return
	}
	s.last = normalize(s.anchor, p)
	s.state = Idle
	s.unbindDrag()
	if s.logger != nil {
		s.logger.Debug("drag finished", "left", s.last.Left, "top", s.last.Top, "width", s.last.Width, "height", s.last.Height)
	}
	if s.OnConfirm != nil {
		s.OnConfirm(s.last)
	}
}

// Close cancels any in-progress drag without confirming it and unbinds all
// listeners. The session cannot be reused.
func (s *DragSession) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.state = Idle
	s.last = DisplayRect{}
	s.unbindDrag()
	if s.unPress != nil {
		s.unPress()
		s.unPress = nil
	}
}

func (s *DragSession) unbindDrag() {
	if s.unDrag != nil {
		s.unDrag()
		s.unDrag = nil
	}
}

func normalize(a, b Point) DisplayRect {
	return DisplayRect{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}
