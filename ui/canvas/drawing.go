package canvas

import (
	"image"
	"image/color"
	"math"

	"signage-planner/pkg/colorutil"
	"signage-planner/pkg/geometry"
)

// blendPixel composites col over the pixel at (x, y), ignoring positions
// outside dst.
func blendPixel(dst *image.RGBA, x, y int, col color.NRGBA) {
	if !(image.Point{X: x, Y: y}).In(dst.Rect) {
		return
	}
	i := dst.PixOffset(x, y)
	cur := color.RGBA{R: dst.Pix[i], G: dst.Pix[i+1], B: dst.Pix[i+2], A: dst.Pix[i+3]}
	out := colorutil.Blend(cur, col)
	dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = out.R, out.G, out.B, out.A
}

// clipBox returns the integer pixel box covering r, clipped to dst.
func clipBox(dst *image.RGBA, r geometry.Rect) image.Rectangle {
	box := image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width))+1, int(math.Ceil(r.Y+r.Height))+1,
	)
	return box.Intersect(dst.Rect)
}

// fillRect fills an axis-aligned rectangle.
func fillRect(dst *image.RGBA, r geometry.Rect, col color.NRGBA) {
	box := clipBox(dst, r)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if r.Contains(pixelCenter(x, y)) {
				blendPixel(dst, x, y, col)
			}
		}
	}
}

// strokeRect outlines an axis-aligned rectangle with the given width.
func strokeRect(dst *image.RGBA, r geometry.Rect, width float64, col color.NRGBA) {
	corners := []geometry.Point2D{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
	strokePolygon(dst, corners, width, col)
}

// fillCircle fills a disc.
func fillCircle(dst *image.RGBA, c geometry.Point2D, radius float64, col color.NRGBA) {
	box := clipBox(dst, geometry.NewRect(c.X-radius, c.Y-radius, 2*radius, 2*radius))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if geometry.Distance(pixelCenter(x, y), c) <= radius {
				blendPixel(dst, x, y, col)
			}
		}
	}
}

// strokeCircle draws a ring of the given width centered on radius.
func strokeCircle(dst *image.RGBA, c geometry.Point2D, radius, width float64, col color.NRGBA) {
	outer := radius + width/2
	inner := radius - width/2
	box := clipBox(dst, geometry.NewRect(c.X-outer, c.Y-outer, 2*outer, 2*outer))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			d := geometry.Distance(pixelCenter(x, y), c)
			if d <= outer && d >= inner {
				blendPixel(dst, x, y, col)
			}
		}
	}
}

// strokeSegment draws a thick line segment with round caps.
func strokeSegment(dst *image.RGBA, a, b geometry.Point2D, width float64, col color.NRGBA) {
	half := width / 2
	r := geometry.RectFromCorners(a, b)
	box := clipBox(dst, geometry.NewRect(r.X-half, r.Y-half, r.Width+width, r.Height+width))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if geometry.DistanceToSegment(pixelCenter(x, y), a, b) <= half {
				blendPixel(dst, x, y, col)
			}
		}
	}
}

// fillPolygon fills a simple polygon.
func fillPolygon(dst *image.RGBA, pts []geometry.Point2D, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	box := clipBox(dst, geometry.BoundingBox(pts))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if geometry.PointInPolygon(pixelCenter(x, y), pts) {
				blendPixel(dst, x, y, col)
			}
		}
	}
}

// strokePolygon outlines a closed polygon. Each pixel is painted at most
// once so translucent outlines stay even at the corners.
func strokePolygon(dst *image.RGBA, pts []geometry.Point2D, width float64, col color.NRGBA) {
	if len(pts) < 2 {
		return
	}
	half := width / 2
	bb := geometry.BoundingBox(pts)
	box := clipBox(dst, geometry.NewRect(bb.X-half, bb.Y-half, bb.Width+width, bb.Height+width))
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			pc := pixelCenter(x, y)
			for i := range pts {
				a, b := pts[i], pts[(i+1)%len(pts)]
				if geometry.DistanceToSegment(pc, a, b) <= half {
					blendPixel(dst, x, y, col)
					break
				}
			}
		}
	}
}

func pixelCenter(x, y int) geometry.Point2D {
	return geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}
