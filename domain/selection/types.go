package selection

import (
	"context"
	"errors"
	"fmt"
	"image/color"
)

var (
	// ErrNotReady reports that layout metrics are not available yet
	// (the image has not been laid out, or a dimension is zero).
	ErrNotReady = errors.New("selection: display metrics not ready")
	// ErrNoTargetImage is returned by Enable when no image is loaded.
	ErrNoTargetImage = errors.New("selection: no target image")
	// ErrEmptySelection is returned by ConfirmApply for a zero-area selection.
	ErrEmptySelection = errors.New("selection: empty selection")
	// ErrApplyPending is returned while a previous apply is still in flight.
	ErrApplyPending = errors.New("selection: apply already in flight")
)

// Point is a position in displayed-surface-local coordinates. The origin is
// the top-left corner of the image element, not the window.
type Point struct {
	X, Y float64
}

// DisplayMetrics describes an image element's rendered size next to its
// source resolution. Displayed size may change between renders, so callers
// should read it fresh at the moment of use.
type DisplayMetrics struct {
	DisplayedWidth  float64
	DisplayedHeight float64
	NaturalWidth    float64
	NaturalHeight   float64
}

// Ready reports whether all four dimensions are positive.
func (m DisplayMetrics) Ready() bool {
	return m.DisplayedWidth > 0 && m.DisplayedHeight > 0 && m.NaturalWidth > 0 && m.NaturalHeight > 0
}

// Scale returns the displayed-to-source scale factors.
func (m DisplayMetrics) Scale() (sx, sy float64) {
	return m.NaturalWidth / m.DisplayedWidth, m.NaturalHeight / m.DisplayedHeight
}

// DisplayRect is a normalised rectangle in displayed space. Width and Height
// are never negative.
type DisplayRect struct {
	Left, Top     float64
	Width, Height float64
}

// Empty reports whether the rectangle has zero area.
func (r DisplayRect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// SourceRect is a rectangle in natural-image pixel space.
type SourceRect struct {
	X, Y, W, H int
}

// Empty reports whether the selection has zero area ("no selection").
func (r SourceRect) Empty() bool { return r.W == 0 || r.H == 0 }

func (r SourceRect) String() string {
	return fmt.Sprintf("X=%d, Y=%d, W=%d, H=%d", r.X, r.Y, r.W, r.H)
}

// DragState enumerates the states of a DragSession.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// PointerSource delivers raw pointer events from a view surface.
// Each Bind call returns an unbind function; calling it more than once, or
// after the slot was rebound, is a no-op.
type PointerSource interface {
	BindPress(fn func(Point)) (unbind func())
	BindDrag(move, release func(Point)) (unbind func())
}

// Surface exposes the currently displayed target image.
// Metrics reports ok=false when no image is present.
type Surface interface {
	Metrics() (m DisplayMetrics, ok bool)
}

// ColorMixer paints rect in the source image with c and returns a reference
// to the processed image.
type ColorMixer interface {
	MixColor(ctx context.Context, rect SourceRect, c color.RGBA) (ref string, err error)
}

// MixerSnapshot is implemented by mixers that read mutable state such as the
// current upload. ConfirmApply calls Snapshot on the owning event loop and
// hands only the returned mixer to the request goroutine.
type MixerSnapshot interface {
	ColorMixer
	Snapshot() ColorMixer
}

// Poster runs fn on the event loop that owns the controller.
type Poster func(fn func())
