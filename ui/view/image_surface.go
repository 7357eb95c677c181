package view

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/soocke/mediavis-go/domain/selection"
	"github.com/soocke/mediavis-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ImageSurface is the label showing the target image or the current playback
// frame. Pointer events on it are forwarded to the PointerHub in
// surface-local coordinates; the image is anchored at the label's top-left.
type ImageSurface struct {
	label  *LabelWidget
	hub    *selection.PointerHub
	logger *slog.Logger

	maxW, maxH int
	natural    image.Image // nil when nothing is loaded
	displayed  image.Image // natural scaled to fit maxW x maxH
	photo      *Img
}

// NewImageSurface creates the label inside parent and binds button-1 events.
func NewImageSurface(parent *FrameWidget, row, col, maxW, maxH int, hub *selection.PointerHub, logger *slog.Logger) *ImageSurface {
	s := &ImageSurface{hub: hub, logger: logger, maxW: maxW, maxH: maxH}
	s.photo = NewPhoto(Data(images.EncodePNG(images.Placeholder(maxW, maxH, "No image loaded"))))
	s.label = Label(Image(s.photo), Borderwidth(0), Anchor("nw"))
	Grid(s.label, In(parent), Row(row), Column(col), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	Bind(s.label, "<ButtonPress-1>", Command(func(e *Event) { s.hub.Press(eventPoint(e)) }))
	Bind(s.label, "<B1-Motion>", Command(func(e *Event) { s.hub.Move(eventPoint(e)) }))
	Bind(s.label, "<ButtonRelease-1>", Command(func(e *Event) { s.hub.Release(eventPoint(e)) }))
	return s
}

func eventPoint(e *Event) selection.Point {
	return selection.Point{X: float64(e.X), Y: float64(e.Y)}
}

// Metrics reports displayed vs natural dimensions of the current image.
func (s *ImageSurface) Metrics() (selection.DisplayMetrics, bool) {
	if s == nil || s.natural == nil || s.displayed == nil {
		return selection.DisplayMetrics{}, false
	}
	n, d := s.natural.Bounds(), s.displayed.Bounds()
	return selection.DisplayMetrics{
		DisplayedWidth:  float64(d.Dx()),
		DisplayedHeight: float64(d.Dy()),
		NaturalWidth:    float64(n.Dx()),
		NaturalHeight:   float64(n.Dy()),
	}, true
}

// ShowImage displays img scaled to fit. nil shows the placeholder.
func (s *ImageSurface) ShowImage(img image.Image) {
	if s == nil {
		return
	}
	s.natural = img
	if img == nil {
		s.displayed = nil
		s.render(images.Placeholder(s.maxW, s.maxH, "No image loaded"))
		return
	}
	s.displayed = images.ScaleToFit(img, s.maxW, s.maxH)
	s.render(s.displayed)
}

// ShowSelection draws r over the displayed image. An empty rect clears it.
func (s *ImageSurface) ShowSelection(r selection.DisplayRect, c color.RGBA) {
	if s == nil || s.displayed == nil {
		return
	}
	s.render(images.DrawSelection(s.displayed, r, c))
}

// SetMaxSize changes the display bounds and re-renders the current image.
func (s *ImageSurface) SetMaxSize(w, h int) {
	if s == nil || w <= 0 || h <= 0 || (w == s.maxW && h == s.maxH) {
		return
	}
	s.maxW, s.maxH = w, h
	s.ShowImage(s.natural)
}

// render replaces the label photo, disposing the previous one.
func (s *ImageSurface) render(img image.Image) {
	if s.label == nil || img == nil {
		return
	}
	if s.photo != nil {
		s.photo.Delete()
	}
	s.photo = NewPhoto(Data(images.EncodePNG(img)))
	s.label.Configure(Image(s.photo))
}
