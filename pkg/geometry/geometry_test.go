package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestDistanceAndAngle(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(3, 4)

	assert.InDelta(t, 5.0, Distance(a, b), eps)
	assert.InDelta(t, 5.0, a.Distance(b), eps)
	assert.InDelta(t, 0.0, AngleDegrees(a, NewPoint2D(10, 0)), eps)
	assert.InDelta(t, 90.0, AngleDegrees(a, NewPoint2D(0, 10)), eps)
	assert.InDelta(t, 180.0, AngleDegrees(a, NewPoint2D(-10, 0)), eps)
}

func TestDistanceToSegment(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(100, 0)

	assert.InDelta(t, 5.0, DistanceToSegment(NewPoint2D(50, 5), a, b), eps)
	// Beyond the end the projection is clamped to the endpoint.
	assert.InDelta(t, 5.0, DistanceToSegment(NewPoint2D(105, 0), a, b), eps)
	// Degenerate segment.
	assert.InDelta(t, 5.0, DistanceToSegment(NewPoint2D(3, 4), a, a), eps)
}

func TestRectCorners_Rotated(t *testing.T) {
	c := RectCorners(NewPoint2D(0, 0), 20, 10, 90)
	require.Len(t, c, 4)
	// nw corner (-10,-5) rotated 90 degrees clockwise on screen lands at (5,-10).
	assert.InDelta(t, 5.0, c[0].X, 1e-9)
	assert.InDelta(t, -10.0, c[0].Y, 1e-9)
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.True(t, PointInPolygon(NewPoint2D(5, 5), square))
	assert.False(t, PointInPolygon(NewPoint2D(15, 5), square))
	assert.False(t, PointInPolygon(NewPoint2D(5, 5), square[:2]))
}

func TestZoomViewBox_AnchoredAtCenter(t *testing.T) {
	vb := ViewBox{X: 0, Y: 0, Width: 1000, Height: 1000}
	center := NewPoint2D(500, 500)

	zoomed := ZoomViewBox(vb, 2, &center)
	assert.InDelta(t, 500.0, zoomed.Width, eps)
	assert.InDelta(t, 500.0, zoomed.Height, eps)
	assert.InDelta(t, 500.0, zoomed.Center().X, eps)
	assert.InDelta(t, 500.0, zoomed.Center().Y, eps)

	back := ZoomViewBox(zoomed, 0.5, &center)
	assert.InDelta(t, vb.X, back.X, eps)
	assert.InDelta(t, vb.Y, back.Y, eps)
	assert.InDelta(t, vb.Width, back.Width, eps)
	assert.InDelta(t, vb.Height, back.Height, eps)
}

func TestZoomViewBox_PointerAnchorStaysFixed(t *testing.T) {
	vb := ViewBox{X: 100, Y: 50, Width: 800, Height: 600}
	anchor := NewPoint2D(300, 200)

	zoomed := ZoomViewBox(vb, 1.5, &anchor)

	// The anchor keeps its relative position inside the viewbox.
	before := (anchor.X - vb.X) / vb.Width
	after := (anchor.X - zoomed.X) / zoomed.Width
	assert.InDelta(t, before, after, eps)
}

func TestZoomViewBox_DefaultCenterAndBadFactor(t *testing.T) {
	vb := ViewBox{X: 0, Y: 0, Width: 200, Height: 100}
	zoomed := ZoomViewBox(vb, 2, nil)
	assert.InDelta(t, 100.0, zoomed.Center().X, eps)
	assert.InDelta(t, 50.0, zoomed.Center().Y, eps)

	assert.Equal(t, vb, ZoomViewBox(vb, 0, nil))
	assert.Equal(t, vb, ZoomViewBox(vb, -1, nil))
}

func TestConstrainViewBox(t *testing.T) {
	// Zoomed out past 100%.
	vb := ConstrainViewBox(ViewBox{X: -100, Y: -100, Width: 4000, Height: 3000}, 1920, 1080)
	assert.Equal(t, ViewBox{X: 0, Y: 0, Width: 1920, Height: 1080}, vb)

	// Panned beyond the right/bottom edge.
	vb = ConstrainViewBox(ViewBox{X: 1800, Y: 1000, Width: 400, Height: 300}, 1920, 1080)
	assert.Equal(t, ViewBox{X: 1520, Y: 780, Width: 400, Height: 300}, vb)

	// Degenerate size stays positive.
	vb = ConstrainViewBox(ViewBox{Width: 0, Height: -5}, 100, 100)
	assert.Greater(t, vb.Width, 0.0)
	assert.Greater(t, vb.Height, 0.0)
}

func TestPanViewBox(t *testing.T) {
	vb := PanViewBox(ViewBox{X: 100, Y: 100, Width: 10, Height: 10}, 20, -5)
	assert.Equal(t, 80.0, vb.X)
	assert.Equal(t, 105.0, vb.Y)
}

func TestScreenToCanvas_RoundTrip(t *testing.T) {
	surfaces := []Surface{
		{Size: NewSize(800, 600), ViewBox: FitViewBox(1920, 1080)},
		{Origin: NewPoint2D(40, 25), Size: NewSize(1024, 768), ViewBox: ViewBox{X: 300, Y: 120, Width: 640, Height: 360}},
		{Origin: NewPoint2D(-10, 7), Size: NewSize(333, 999), ViewBox: ViewBox{X: 12.5, Y: 900, Width: 50, Height: 80}},
	}
	points := []Point2D{{0, 0}, {1, 1}, {123.4, 56.7}, {799.9, 599.9}, {400, 300}}

	for _, s := range surfaces {
		for _, p := range points {
			screen := Point2D{X: s.Origin.X + p.X*s.Size.Width/800, Y: s.Origin.Y + p.Y*s.Size.Height/600}
			canvas := ScreenToCanvas(s, screen.X, screen.Y)
			back := CanvasToScreen(s, canvas)
			assert.InDelta(t, screen.X, back.X, 1e-6)
			assert.InDelta(t, screen.Y, back.Y, 1e-6)
		}
	}
}

func TestScreenToCanvas_FitsAndCenters(t *testing.T) {
	// 1920x1080 into 960x960: scale 0.5, letterboxed vertically by 210.
	s := Surface{Size: NewSize(960, 960), ViewBox: FitViewBox(1920, 1080)}

	p := ScreenToCanvas(s, 480, 480)
	assert.InDelta(t, 960.0, p.X, 1e-6)
	assert.InDelta(t, 540.0, p.Y, 1e-6)

	p = ScreenToCanvas(s, 0, 210)
	assert.InDelta(t, 0.0, p.X, 1e-6)
	assert.InDelta(t, 0.0, p.Y, 1e-6)
}

func TestScreenToCanvas_Degenerate(t *testing.T) {
	s := Surface{Size: NewSize(0, 0), ViewBox: ViewBox{X: 5, Y: 6, Width: 10, Height: 10}}
	p := ScreenToCanvas(s, 100, 100)
	assert.Equal(t, NewPoint2D(5, 6), p)
}

func TestInvert(t *testing.T) {
	tr := Translation(10, 20).Compose(Scale(2, 4))
	inv, err := Invert(tr)
	require.NoError(t, err)
	p := inv.Apply(tr.Apply(NewPoint2D(3, 7)))
	assert.InDelta(t, 3.0, p.X, eps)
	assert.InDelta(t, 7.0, p.Y, eps)

	_, err = Invert(Scale(0, 0))
	assert.Error(t, err)
	assert.False(t, math.IsNaN(p.X))
}
