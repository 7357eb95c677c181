package images

import (
	"errors"
	"image"
	"image/draw"

	"github.com/soocke/mediavis-go/domain/selection"
)

// ExtractRegion copies the source-space rectangle r out of img, clamped to
// the image bounds. It always returns at least a 1x1 image together with the
// rectangle actually used, relative to img's origin.
func ExtractRegion(img image.Image, r selection.SourceRect) (*image.RGBA, image.Rectangle, error) {
	if img == nil {
		return nil, image.Rectangle{}, errors.New("nil image")
	}
	b := img.Bounds()
	x0, y0 := r.X, r.Y
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x0 >= b.Dx() {
		x0 = b.Dx() - 1
	}
	if y0 >= b.Dy() {
		y0 = b.Dy() - 1
	}
	w, h := r.W, r.H
	if x0+w > b.Dx() {
		w = b.Dx() - x0
	}
	if y0+h > b.Dy() {
		h = b.Dy() - y0
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	rect := image.Rect(x0, y0, x0+w, y0+h)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, b.Min.Add(rect.Min), draw.Src)
	return out, rect, nil
}
