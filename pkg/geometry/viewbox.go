package geometry

import "math"

// ViewBox is the visible window, in floor-plan pixels, rendered by the canvas.
type ViewBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// minViewBoxSide keeps width/height strictly positive after constraining.
const minViewBoxSide = 1.0

// FitViewBox returns the viewbox showing the whole w x h image.
func FitViewBox(w, h float64) ViewBox {
	return ViewBox{Width: w, Height: h}
}

// Center returns the center of the viewbox.
func (vb ViewBox) Center() Point2D {
	return Point2D{X: vb.X + vb.Width/2, Y: vb.Y + vb.Height/2}
}

// Rect returns the viewbox as a Rect.
func (vb ViewBox) Rect() Rect {
	return Rect{X: vb.X, Y: vb.Y, Width: vb.Width, Height: vb.Height}
}

// ZoomViewBox scales the viewbox by 1/factor, keeping center fixed on screen.
// A nil center anchors at the viewbox's own center. Non-positive factors
// return vb unchanged.
func ZoomViewBox(vb ViewBox, factor float64, center *Point2D) ViewBox {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return vb
	}
	c := vb.Center()
	if center != nil {
		c = *center
	}
	return ViewBox{
		X:      c.X - (c.X-vb.X)/factor,
		Y:      c.Y - (c.Y-vb.Y)/factor,
		Width:  vb.Width / factor,
		Height: vb.Height / factor,
	}
}

// PanViewBox moves the viewbox origin by -dx, -dy so that dragging the
// content right reveals what lies to its left.
func PanViewBox(vb ViewBox, dx, dy float64) ViewBox {
	vb.X -= dx
	vb.Y -= dy
	return vb
}

// ConstrainViewBox caps the viewbox to the w x h image (no zooming out past
// 100%) and clamps its origin so it never extends outside the image.
func ConstrainViewBox(vb ViewBox, w, h float64) ViewBox {
	vb.Width = Clamp(vb.Width, minViewBoxSide, math.Max(w, minViewBoxSide))
	vb.Height = Clamp(vb.Height, minViewBoxSide, math.Max(h, minViewBoxSide))
	vb.X = Clamp(vb.X, 0, math.Max(w-vb.Width, 0))
	vb.Y = Clamp(vb.Y, 0, math.Max(h-vb.Height, 0))
	return vb
}
