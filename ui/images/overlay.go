package images

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/soocke/mediavis-go/domain/selection"
)

// DrawSelection renders base with the selection rectangle r (displayed space)
// filled at half opacity in c and outlined with a dashed border. An empty
// rectangle returns base unchanged.
func DrawSelection(base image.Image, r selection.DisplayRect, c color.RGBA) image.Image {
	if base == nil || (r.Width <= 0 && r.Height <= 0) {
		return base
	}
	dc := gg.NewContextForImage(base)
	rf, gf, bf := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	dc.DrawRectangle(r.Left, r.Top, r.Width, r.Height)
	dc.SetRGBA(rf, gf, bf, 0.5)
	dc.Fill()
	dc.SetDash(4, 3)
	dc.SetLineWidth(2)
	dc.DrawRectangle(r.Left, r.Top, r.Width, r.Height)
	dc.SetRGB(rf, gf, bf)
	dc.Stroke()
	return dc.Image()
}
