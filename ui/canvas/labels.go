package canvas

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelFace is the bitmap font used for marker names.
var labelFace = basicfont.Face7x13

// maxLabelRunes truncates long spot names.
const maxLabelRunes = 28

// LabelSize returns the pixel size of text drawn with DrawLabel.
func LabelSize(text string) (int, int) {
	text = truncateLabel(text)
	w := font.MeasureString(labelFace, text).Ceil()
	return w, labelFace.Metrics().Height.Ceil()
}

// DrawLabel draws text centered horizontally on x with its top at y, on a
// translucent backing so it stays readable over any floor plan.
func DrawLabel(dst *image.RGBA, text string, x, y int, ink color.Color) {
	text = truncateLabel(text)
	if text == "" {
		return
	}
	w, h := LabelSize(text)
	left := x - w/2

	backing := image.Rect(left-3, y-1, left+w+3, y+h+1).Intersect(dst.Rect)
	for py := backing.Min.Y; py < backing.Max.Y; py++ {
		for px := backing.Min.X; px < backing.Max.X; px++ {
			blendPixel(dst, px, py, color.NRGBA{R: 255, G: 255, B: 255, A: 200})
		}
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: labelFace,
		Dot:  fixed.P(left, y+labelFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func truncateLabel(text string) string {
	r := []rune(text)
	if len(r) <= maxLabelRunes {
		return text
	}
	return string(r[:maxLabelRunes-3]) + "..."
}
