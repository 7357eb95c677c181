package selection

import "math"

// MapToSource converts a displayed-space rectangle into source pixel
// coordinates. rect must already be normalised (non-negative extents).
// It returns ErrNotReady when the metrics contain a non-positive dimension.
func MapToSource(rect DisplayRect, m DisplayMetrics) (SourceRect, error) {
	if !m.Ready() {
		return SourceRect{}, ErrNotReady
	}
	sx, sy := m.Scale()
	return SourceRect{
		X: round(rect.Left * sx),
		Y: round(rect.Top * sy),
		W: round(rect.Width * sx),
		H: round(rect.Height * sy),
	}, nil
}

// ClampToSource intersects r with the natural image bounds
// [0, NaturalWidth] x [0, NaturalHeight]. A rectangle entirely outside the
// image collapses to zero area.
func ClampToSource(r SourceRect, m DisplayMetrics) SourceRect {
	maxX, maxY := round(m.NaturalWidth), round(m.NaturalHeight)
	x0, y0 := clampInt(r.X, 0, maxX), clampInt(r.Y, 0, maxY)
	x1, y1 := clampInt(r.X+r.W, 0, maxX), clampInt(r.Y+r.H, 0, maxY)
	return SourceRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// round matches JavaScript-style Math.round: halves go towards +Inf.
func round(v float64) int { return int(math.Floor(v + 0.5)) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
