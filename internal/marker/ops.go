package marker

import (
	"math"

	"signage-planner/pkg/geometry"
)

// MoveTo places m's center at c, clamped to the floor plan. Lines are
// translated as a whole: the offset is limited so both endpoints stay on the
// plan, keeping length and direction.
func MoveTo(m Marker, c geometry.Point2D, fp FloorPlan) Marker {
	if l, ok := m.Shape.(LineShape); ok {
		w, h := fp.Dimensions()
		d := c.Sub(m.Center())
		d.X = clampShift(d.X, math.Min(m.X, l.X2), math.Max(m.X, l.X2), w)
		d.Y = clampShift(d.Y, math.Min(m.Y, l.Y2), math.Max(m.Y, l.Y2), h)
		m.X += d.X
		m.Y += d.Y
		m.Shape = LineShape{X2: l.X2 + d.X, Y2: l.Y2 + d.Y}
		return m.Clamped(fp)
	}
	p := ClampToFloorPlan(c, fp)
	m.X, m.Y = p.X, p.Y
	return m
}

// clampShift limits a shift of the span [lo, hi] so it stays within [0, limit].
// A span wider than the plan is left unshifted.
func clampShift(d, lo, hi, limit float64) float64 {
	if hi-lo > limit {
		return 0
	}
	return geometry.Clamp(d, -lo, limit-hi)
}

// ResizeFrom recomputes the geometry of original for handle h dragged to p.
// It always starts from the pre-resize snapshot. Rotation is ignored: area
// handles act on the unrotated rectangle.
func ResizeFrom(original Marker, h Handle, p geometry.Point2D, fp FloorPlan) Marker {
	p = ClampToFloorPlan(p, fp)
	m := original

	switch s := original.Shape.(type) {
	case AreaShape:
		left := original.X - s.Width/2
		right := original.X + s.Width/2
		top := original.Y - s.Height/2
		bottom := original.Y + s.Height/2

		var w, hgt float64
		switch h {
		case HandleNW:
			w = math.Max(right-p.X, MinAreaSide)
			hgt = math.Max(bottom-p.Y, MinAreaSide)
			m.X, m.Y = right-w/2, bottom-hgt/2
		case HandleNE:
			w = math.Max(p.X-left, MinAreaSide)
			hgt = math.Max(bottom-p.Y, MinAreaSide)
			m.X, m.Y = left+w/2, bottom-hgt/2
		case HandleSW:
			w = math.Max(right-p.X, MinAreaSide)
			hgt = math.Max(p.Y-top, MinAreaSide)
			m.X, m.Y = right-w/2, top+hgt/2
		case HandleSE:
			w = math.Max(p.X-left, MinAreaSide)
			hgt = math.Max(p.Y-top, MinAreaSide)
			m.X, m.Y = left+w/2, top+hgt/2
		default:
			return original
		}
		m.Shape = AreaShape{Width: w, Height: hgt}
		return m.Clamped(fp)

	case LineShape:
		switch h {
		case HandleStart:
			m.X, m.Y = p.X, p.Y
		case HandleEnd:
			m.Shape = LineShape{X2: p.X, Y2: p.Y}
		}
		return m
	}
	return original
}

// AreaFromCorners builds an area shape and center from two opposite corners,
// enforcing the minimum side length.
func AreaFromCorners(a, b geometry.Point2D) (geometry.Point2D, AreaShape) {
	r := geometry.RectFromCorners(a, b)
	w := math.Max(r.Width, MinAreaSide)
	h := math.Max(r.Height, MinAreaSide)
	return geometry.Point2D{X: r.X + w/2, Y: r.Y + h/2}, AreaShape{Width: w, Height: h}
}
