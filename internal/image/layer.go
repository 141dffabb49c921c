// Package image loads floor-plan images and watches them for changes.
package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"signage-planner/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// Layer is a floor-plan image as drawn under the markers.
type Layer struct {
	Path        string      // Original file path, empty for placeholders
	Image       image.Image // Loaded image data
	Placeholder bool        // True when the file could not be loaded
	Visible     bool
	Opacity     float64 // 0.0 - 1.0
}

// NewLayer wraps an already decoded image.
func NewLayer(img image.Image) *Layer {
	return &Layer{Image: img, Visible: true, Opacity: 1.0}
}

// Load decodes a png, jpeg or tiff file.
func Load(path string) (*Layer, error) {
	if !IsSupportedFormat(path) {
		return nil, fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	layer := NewLayer(img)
	layer.Path = path
	return layer, nil
}

// LoadOrPlaceholder loads path, falling back to a placeholder of the given
// size. The load error is returned alongside the placeholder.
func LoadOrPlaceholder(path string, width, height int) (*Layer, error) {
	if path == "" {
		return NewPlaceholder(width, height), nil
	}
	layer, err := Load(path)
	if err != nil {
		ph := NewPlaceholder(width, height)
		ph.Path = path
		return ph, err
	}
	return layer, nil
}

// Placeholder colors.
var (
	placeholderFill = color.NRGBA{R: 0xF3, G: 0xF4, B: 0xF6, A: 0xFF}
	placeholderInk  = color.NRGBA{R: 0xD1, G: 0xD5, B: 0xDB, A: 0xFF}
)

// placeholderCell is the checker size of generated placeholders.
const placeholderCell = 40

// NewPlaceholder generates a light checkerboard so an empty floor plan is
// still visibly bounded.
func NewPlaceholder(width, height int) *Layer {
	if width <= 0 || height <= 0 {
		width, height = 1920, 1080
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderFill), image.Point{}, draw.Src)

	for y := 0; y < height; y += placeholderCell {
		for x := 0; x < width; x += placeholderCell {
			if (x/placeholderCell+y/placeholderCell)%2 == 0 {
				continue
			}
			cell := image.Rect(x, y, x+placeholderCell, y+placeholderCell).Intersect(img.Bounds())
			draw.Draw(img, cell, image.NewUniform(placeholderInk), image.Point{}, draw.Src)
		}
	}

	layer := NewLayer(img)
	layer.Placeholder = true
	return layer
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (l *Layer) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(l.Width()),
		Height: float64(l.Height()),
	}
}

// PixelAt returns the color at the specified pixel coordinates.
func (l *Layer) PixelAt(x, y int) color.Color {
	if l.Image == nil {
		return color.Transparent
	}
	if !(image.Point{X: x, Y: y}).In(l.Image.Bounds()) {
		return color.Transparent
	}
	return l.Image.At(x, y)
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// FileFilter returns a file filter string for use in file dialogs.
func FileFilter() string {
	return "Floor Plans (*.png, *.jpg, *.jpeg, *.tiff, *.tif)"
}
