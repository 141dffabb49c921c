package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"signage-planner/internal/editor"
	"signage-planner/internal/marker"
	"signage-planner/pkg/colorutil"
	"signage-planner/pkg/geometry"
)

// Render colors.
var (
	Backdrop       = color.RGBA{R: 0x1F, G: 0x29, B: 0x37, A: 0xFF}
	SelectionColor = colorutil.Blue
	HandleFill     = colorutil.White
)

const (
	markerFillAlpha = 0.35
	draftAlpha      = 0.6
	outlineWidth    = 2.0
	lineWidth       = 4.0
)

// Scene is everything drawn in one frame.
type Scene struct {
	Image     image.Image
	FloorPlan marker.FloorPlan
	ViewBox   geometry.ViewBox

	Markers  []marker.Marker
	Selected []string
	Draft    *marker.Marker

	ShowGrid    bool
	GridSpacing float64
	ShowLabels  bool

	// Pulse is the selection animation phase, 0 to 1.
	Pulse float64
	Now   time.Time
}

// SceneFromState builds a scene from editor state. Live drag and resize
// geometry is drawn in place of the committed geometry.
func SceneFromState(s editor.State) Scene {
	return Scene{
		FloorPlan:  s.FloorPlan,
		ViewBox:    s.ViewBox,
		Markers:    s.RenderedMarkers(),
		Selected:   s.Selected,
		Draft:      s.Draft,
		ShowLabels: true,
		Now:        time.Now(),
	}
}

func (sc Scene) selected(id string) bool {
	for _, s := range sc.Selected {
		if s == id {
			return true
		}
	}
	return false
}

// Render draws sc into dst, fitting the viewbox to dst's bounds. Layers are
// drawn in order: image, grid, markers, selection, draft.
func Render(dst *image.RGBA, sc Scene) {
	b := dst.Bounds()
	surface := geometry.Surface{
		Origin:  geometry.Point2D{X: float64(b.Min.X), Y: float64(b.Min.Y)},
		Size:    geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())},
		ViewBox: sc.ViewBox,
	}
	toScreen := surface.CanvasToScreen()
	k := surface.Scale()

	draw.Draw(dst, b, image.NewUniform(Backdrop), image.Point{}, draw.Src)
	if k <= 0 {
		return
	}

	drawImage(dst, sc, surface)
	if sc.ShowGrid && sc.GridSpacing > 0 {
		drawGrid(dst, sc, toScreen, k)
	}

	now := sc.Now
	if now.IsZero() {
		now = time.Now()
	}
	for _, m := range sc.Markers {
		drawMarker(dst, m, marker.ColorFor(m, now), toScreen, k, 1)
	}
	for _, m := range sc.Markers {
		if sc.selected(m.ID) {
			drawSelection(dst, m, toScreen, k, sc.Pulse)
		}
	}
	if sc.ShowLabels {
		for _, m := range sc.Markers {
			drawMarkerLabel(dst, m, toScreen, k)
		}
	}
	if sc.Draft != nil {
		drawMarker(dst, *sc.Draft, marker.DraftColor, toScreen, k, draftAlpha)
	}
}

// drawImage samples the floor-plan image at native pixel size through the
// view transform, nearest neighbour.
func drawImage(dst *image.RGBA, sc Scene, surface geometry.Surface) {
	w, h := sc.FloorPlan.Dimensions()
	inv, err := geometry.Invert(surface.CanvasToScreen())
	if err != nil {
		return
	}
	b := dst.Bounds()

	if sc.Image == nil {
		// No image: show the plan's extent.
		tl := surface.CanvasToScreen().Apply(geometry.Point2D{})
		br := surface.CanvasToScreen().Apply(geometry.Point2D{X: w, Y: h})
		fillRect(dst, geometry.RectFromCorners(tl, br), colorutil.White)
		return
	}

	src := sc.Image
	sb := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := inv.Apply(pixelCenter(x, y))
			if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
				continue
			}
			sx, sy := sb.Min.X+int(p.X), sb.Min.Y+int(p.Y)
			if sx >= sb.Max.X || sy >= sb.Max.Y {
				continue
			}
			c := color.NRGBAModel.Convert(src.At(sx, sy)).(color.NRGBA)
			blendPixel(dst, x, y, c)
		}
	}
}

func drawGrid(dst *image.RGBA, sc Scene, toScreen geometry.AffineTransform, k float64) {
	w, h := sc.FloorPlan.Dimensions()
	step := sc.GridSpacing
	// Skip grids too dense to be useful.
	if step*k < 4 {
		return
	}
	vb := sc.ViewBox
	top := toScreen.Apply(geometry.Point2D{X: 0, Y: 0})
	bottom := toScreen.Apply(geometry.Point2D{X: w, Y: h})

	for gx := math.Ceil(vb.X/step) * step; gx <= math.Min(vb.X+vb.Width, w); gx += step {
		sx := int(toScreen.Apply(geometry.Point2D{X: gx}).X)
		for y := int(top.Y); y < int(bottom.Y); y++ {
			blendPixel(dst, sx, y, colorutil.GridInk)
		}
	}
	for gy := math.Ceil(vb.Y/step) * step; gy <= math.Min(vb.Y+vb.Height, h); gy += step {
		sy := int(toScreen.Apply(geometry.Point2D{Y: gy}).Y)
		for x := int(top.X); x < int(bottom.X); x++ {
			blendPixel(dst, x, sy, colorutil.GridInk)
		}
	}
}

// drawMarker draws one marker's shape. alpha scales the whole marker.
func drawMarker(dst *image.RGBA, m marker.Marker, col color.NRGBA, toScreen geometry.AffineTransform, k, alpha float64) {
	fill := colorutil.WithAlpha(col, markerFillAlpha*alpha)
	stroke := colorutil.WithAlpha(col, alpha)

	switch s := m.Shape.(type) {
	case marker.AreaShape:
		pts := screenPoints(geometry.RectCorners(m.Position(), s.Width, s.Height, m.Rotation), toScreen)
		fillPolygon(dst, pts, fill)
		strokePolygon(dst, pts, outlineWidth, stroke)
	case marker.LineShape:
		a := toScreen.Apply(m.Position())
		b := toScreen.Apply(geometry.NewPoint2D(s.X2, s.Y2))
		strokeSegment(dst, a, b, lineWidth, stroke)
	default:
		r := marker.DefaultRadius
		if ps, ok := m.Shape.(marker.PointShape); ok {
			r = ps.Radius
		}
		c := toScreen.Apply(m.Position())
		fillCircle(dst, c, r*k, fill)
		strokeCircle(dst, c, r*k, outlineWidth, stroke)
	}
}

// drawSelection outlines a selected marker with a pulsing ring and draws its
// resize handles.
func drawSelection(dst *image.RGBA, m marker.Marker, toScreen geometry.AffineTransform, k, pulse float64) {
	gap := 3 + 3*pulse
	ring := colorutil.WithAlpha(SelectionColor, 0.5+0.5*(1-pulse))

	switch s := m.Shape.(type) {
	case marker.AreaShape:
		pad := gap / k
		pts := screenPoints(geometry.RectCorners(m.Position(), s.Width+2*pad, s.Height+2*pad, m.Rotation), toScreen)
		strokePolygon(dst, pts, outlineWidth, ring)
	case marker.LineShape:
		a := toScreen.Apply(m.Position())
		b := toScreen.Apply(geometry.NewPoint2D(s.X2, s.Y2))
		strokeSegment(dst, a, b, lineWidth+2*gap, colorutil.WithAlpha(SelectionColor, 0.25*(1-pulse)+0.15))
	default:
		r := marker.DefaultRadius
		if ps, ok := m.Shape.(marker.PointShape); ok {
			r = ps.Radius
		}
		strokeCircle(dst, toScreen.Apply(m.Position()), r*k+gap, outlineWidth, ring)
	}

	for _, h := range marker.Handles(m) {
		c := toScreen.Apply(h.At)
		box := geometry.NewRect(c.X-HandleSize/2, c.Y-HandleSize/2, HandleSize, HandleSize)
		fillRect(dst, box, HandleFill)
		strokeRect(dst, box, 1.5, SelectionColor)
	}
}

func drawMarkerLabel(dst *image.RGBA, m marker.Marker, toScreen geometry.AffineTransform, k float64) {
	if m.Name == "" {
		return
	}
	below := 0.0
	switch s := m.Shape.(type) {
	case marker.AreaShape:
		below = math.Hypot(s.Width, s.Height) / 2
	case marker.PointShape:
		below = s.Radius
	}
	c := toScreen.Apply(m.Center())
	DrawLabel(dst, m.Name, int(c.X), int(c.Y+below*k)+4, colorutil.Black)
}

func screenPoints(pts []geometry.Point2D, t geometry.AffineTransform) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}
