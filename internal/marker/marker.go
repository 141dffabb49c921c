// Package marker defines the floor-plan marker model: the three marker shapes,
// status-derived colors, hit-testing and the geometry operations used by drag
// and resize.
package marker

import (
	"time"

	"signage-planner/pkg/geometry"
)

// Fallback dimensions for floor plans whose image size was never recorded.
const (
	FallbackWidth  = 1920
	FallbackHeight = 1080
)

// Type discriminates marker shapes.
type Type string

const (
	TypePoint Type = "point"
	TypeArea  Type = "area"
	TypeLine  Type = "line"
)

// Valid reports whether t is a known marker type.
func (t Type) Valid() bool {
	switch t {
	case TypePoint, TypeArea, TypeLine:
		return true
	}
	return false
}

// FloorPlan is the read-only description of the plan being edited.
type FloorPlan struct {
	ID             string
	Name           string
	ImageRef       string
	OriginalWidth  *int
	OriginalHeight *int
}

// Dimensions returns the image size in pixels, falling back to 1920x1080 when
// either dimension is unknown.
func (fp FloorPlan) Dimensions() (float64, float64) {
	if fp.OriginalWidth == nil || fp.OriginalHeight == nil ||
		*fp.OriginalWidth <= 0 || *fp.OriginalHeight <= 0 {
		return FallbackWidth, FallbackHeight
	}
	return float64(*fp.OriginalWidth), float64(*fp.OriginalHeight)
}

// Bounds returns the floor plan as a rectangle anchored at the origin.
func (fp FloorPlan) Bounds() geometry.Rect {
	w, h := fp.Dimensions()
	return geometry.NewRect(0, 0, w, h)
}

// ClampToFloorPlan clamps p into [0,width] x [0,height].
func ClampToFloorPlan(p geometry.Point2D, fp FloorPlan) geometry.Point2D {
	w, h := fp.Dimensions()
	return geometry.Point2D{
		X: geometry.Clamp(p.X, 0, w),
		Y: geometry.Clamp(p.Y, 0, h),
	}
}

// Status holds the fields used only to derive a marker's color.
type Status struct {
	Status          string
	ExpiryDate      *time.Time
	NextPlannedDate *time.Time
	PreviewImage    string
	Visible         bool
}

// Shape is the shape-specific geometry of a marker. The set of
// implementations is closed: PointShape, AreaShape and LineShape.
type Shape interface {
	Type() Type
	isShape()
}

// PointShape is a circle centered on the marker position.
type PointShape struct {
	Radius float64
}

// AreaShape is a rectangle centered on the marker position. It rotates about
// its own center.
type AreaShape struct {
	Width  float64
	Height float64
}

// LineShape is a segment from the marker position to (X2, Y2).
type LineShape struct {
	X2 float64
	Y2 float64
}

func (PointShape) Type() Type { return TypePoint }
func (AreaShape) Type() Type  { return TypeArea }
func (LineShape) Type() Type  { return TypeLine }

func (PointShape) isShape() {}
func (AreaShape) isShape()  {}
func (LineShape) isShape()  {}

// Shape defaults applied when a placement does not specify a size.
const (
	DefaultRadius = 15.0
	MinAreaSide   = 10.0
	LineTolerance = 10.0
)

// DefaultShape returns the initial geometry for a new marker of type t.
func DefaultShape(t Type) Shape {
	switch t {
	case TypeArea:
		return AreaShape{Width: MinAreaSide, Height: MinAreaSide}
	case TypeLine:
		return LineShape{}
	default:
		return PointShape{Radius: DefaultRadius}
	}
}

// Marker is a geometric annotation placed on a floor plan and linked to a
// signage spot. X/Y is the center for points and areas and the start point
// for lines.
type Marker struct {
	ID          string
	FloorPlanID string
	SpotID      string
	Name        string
	X           float64
	Y           float64
	Rotation    float64
	Status      Status
	Shape       Shape
}

// Type returns the marker's shape type. A marker with no shape is a point.
func (m Marker) Type() Type {
	if m.Shape == nil {
		return TypePoint
	}
	return m.Shape.Type()
}

// Position returns the marker's anchor point.
func (m Marker) Position() geometry.Point2D {
	return geometry.Point2D{X: m.X, Y: m.Y}
}

// Center returns the visual center of the marker. For lines this is the
// segment midpoint.
func (m Marker) Center() geometry.Point2D {
	if l, ok := m.Shape.(LineShape); ok {
		return geometry.Point2D{X: (m.X + l.X2) / 2, Y: (m.Y + l.Y2) / 2}
	}
	return m.Position()
}

// Bounds returns the axis-aligned bounding box of the marker, including
// rotation for areas.
func (m Marker) Bounds() geometry.Rect {
	switch s := m.Shape.(type) {
	case AreaShape:
		return geometry.BoundingBox(geometry.RectCorners(m.Position(), s.Width, s.Height, m.Rotation))
	case LineShape:
		return geometry.RectFromCorners(m.Position(), geometry.NewPoint2D(s.X2, s.Y2))
	case PointShape:
		return geometry.NewRect(m.X-s.Radius, m.Y-s.Radius, 2*s.Radius, 2*s.Radius)
	default:
		return geometry.NewRect(m.X, m.Y, 0, 0)
	}
}

// Clamped returns m with every position clamped to the floor plan.
func (m Marker) Clamped(fp FloorPlan) Marker {
	p := ClampToFloorPlan(m.Position(), fp)
	m.X, m.Y = p.X, p.Y
	if l, ok := m.Shape.(LineShape); ok {
		e := ClampToFloorPlan(geometry.NewPoint2D(l.X2, l.Y2), fp)
		m.Shape = LineShape{X2: e.X, Y2: e.Y}
	}
	return m
}

// IndexOf returns the index of the marker with id, or -1.
func IndexOf(markers []Marker, id string) int {
	for i := range markers {
		if markers[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the marker with id.
func Find(markers []Marker, id string) (Marker, bool) {
	if i := IndexOf(markers, id); i >= 0 {
		return markers[i], true
	}
	return Marker{}, false
}
