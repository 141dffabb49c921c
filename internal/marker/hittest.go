package marker

import (
	"math"

	"signage-planner/pkg/geometry"
)

// IsPointInMarker reports whether p hits m. Rotated areas are tested against
// their bounding circle, which over-reports hits near the corners.
func IsPointInMarker(p geometry.Point2D, m Marker) bool {
	switch s := m.Shape.(type) {
	case PointShape:
		return geometry.Distance(p, m.Position()) <= s.Radius
	case AreaShape:
		if m.Rotation == 0 {
			r := geometry.NewRect(m.X-s.Width/2, m.Y-s.Height/2, s.Width, s.Height)
			return r.Contains(p)
		}
		radius := math.Hypot(s.Width, s.Height) / 2
		return geometry.Distance(p, m.Position()) <= radius
	case LineShape:
		return geometry.DistanceToSegment(p, m.Position(), geometry.NewPoint2D(s.X2, s.Y2)) <= LineTolerance
	}
	return false
}

// FindTopmostMarkerAt returns the last marker in draw order that contains p.
func FindTopmostMarkerAt(p geometry.Point2D, markers []Marker) (Marker, bool) {
	for i := len(markers) - 1; i >= 0; i-- {
		if IsPointInMarker(p, markers[i]) {
			return markers[i], true
		}
	}
	return Marker{}, false
}

// Handle names a resize control on a selected marker.
type Handle string

const (
	HandleNone  Handle = ""
	HandleNW    Handle = "nw"
	HandleNE    Handle = "ne"
	HandleSW    Handle = "sw"
	HandleSE    Handle = "se"
	HandleStart Handle = "start"
	HandleEnd   Handle = "end"
)

// HandlePoint is a handle and where it is drawn.
type HandlePoint struct {
	Handle Handle
	At     geometry.Point2D
}

// Handles returns the resize handles for m. Points have none. Area handles
// sit on the rotated corners.
func Handles(m Marker) []HandlePoint {
	switch s := m.Shape.(type) {
	case AreaShape:
		c := geometry.RectCorners(m.Position(), s.Width, s.Height, m.Rotation)
		return []HandlePoint{
			{HandleNW, c[0]},
			{HandleNE, c[1]},
			{HandleSE, c[2]},
			{HandleSW, c[3]},
		}
	case LineShape:
		return []HandlePoint{
			{HandleStart, m.Position()},
			{HandleEnd, geometry.NewPoint2D(s.X2, s.Y2)},
		}
	}
	return nil
}

// HandleAt returns the handle of m within tolerance of p, checking in reverse
// so the handle drawn last wins.
func HandleAt(p geometry.Point2D, m Marker, tolerance float64) Handle {
	hs := Handles(m)
	for i := len(hs) - 1; i >= 0; i-- {
		if geometry.Distance(p, hs[i].At) <= tolerance {
			return hs[i].Handle
		}
	}
	return HandleNone
}
