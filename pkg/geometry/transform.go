package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Surface describes where a viewbox is drawn: the on-screen origin and size
// of the drawing area, in the same units as the pointer coordinates that will
// be mapped through it. The viewbox is fitted inside the surface with a
// uniform scale and centered on the unused axis.
type Surface struct {
	Origin  Point2D
	Size    Size
	ViewBox ViewBox
}

// Scale returns the uniform floor-plan-pixel to surface-unit scale.
func (s Surface) Scale() float64 {
	if s.ViewBox.Width <= 0 || s.ViewBox.Height <= 0 {
		return 0
	}
	return math.Min(s.Size.Width/s.ViewBox.Width, s.Size.Height/s.ViewBox.Height)
}

// CanvasToScreen returns the transform from floor-plan pixels to surface
// coordinates.
func (s Surface) CanvasToScreen() AffineTransform {
	k := s.Scale()
	padX := (s.Size.Width - s.ViewBox.Width*k) / 2
	padY := (s.Size.Height - s.ViewBox.Height*k) / 2
	return Translation(s.Origin.X+padX, s.Origin.Y+padY).
		Compose(Scale(k, k)).
		Compose(Translation(-s.ViewBox.X, -s.ViewBox.Y))
}

// Invert returns the inverse of t, or an error when t is singular.
func Invert(t AffineTransform) (AffineTransform, error) {
	m := mat.NewDense(3, 3, []float64{
		t.A, t.B, t.TX,
		t.C, t.D, t.TY,
		0, 0, 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return AffineTransform{}, fmt.Errorf("transform not invertible: %w", err)
	}
	return AffineTransform{
		A: inv.At(0, 0), B: inv.At(0, 1), TX: inv.At(0, 2),
		C: inv.At(1, 0), D: inv.At(1, 1), TY: inv.At(1, 2),
	}, nil
}

// ScreenToCanvas maps a pointer position in surface coordinates to floor-plan
// pixels, independent of the current zoom and pan. A degenerate surface (zero
// size) maps everything to the viewbox origin.
func ScreenToCanvas(s Surface, clientX, clientY float64) Point2D {
	inv, err := Invert(s.CanvasToScreen())
	if err != nil {
		return Point2D{X: s.ViewBox.X, Y: s.ViewBox.Y}
	}
	return inv.Apply(Point2D{X: clientX, Y: clientY})
}

// CanvasToScreen maps a floor-plan pixel to surface coordinates.
func CanvasToScreen(s Surface, p Point2D) Point2D {
	return s.CanvasToScreen().Apply(p)
}
