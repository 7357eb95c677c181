package images

import (
	"image"

	"github.com/fogleman/gg"
)

// Placeholder renders a grey w x h card with a centred caption, shown where
// no image is loaded yet.
func Placeholder(w, h int, caption string) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dc := gg.NewContext(w, h)
	dc.SetHexColor("#e2e8f0")
	dc.Clear()
	dc.SetHexColor("#94a3b8")
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, float64(w)-1, float64(h)-1)
	dc.Stroke()
	if caption != "" {
		dc.SetHexColor("#475569")
		dc.DrawStringAnchored(caption, float64(w)/2, float64(h)/2, 0.5, 0.5)
	}
	return dc.Image()
}
