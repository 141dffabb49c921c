package canvas

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
)

// Snapshot renders sc into a new width x height image. Zero dimensions
// default to the floor plan's size, keeping its aspect ratio when only one
// is given.
func Snapshot(sc Scene, width, height int) *image.RGBA {
	w, h := sc.FloorPlan.Dimensions()
	switch {
	case width <= 0 && height <= 0:
		width, height = int(w), int(h)
	case width <= 0:
		width = int(math.Round(float64(height) * w / h))
	case height <= 0:
		height = int(math.Round(float64(width) * h / w))
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	Render(out, sc)
	return out
}

// WritePNG renders sc and encodes it as PNG.
func WritePNG(w io.Writer, sc Scene, width, height int) error {
	if err := png.Encode(w, Snapshot(sc, width, height)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
