// Package colorutil provides shared color utilities for the signage planner.
package colorutil

import "image/color"

// Common overlay colors used throughout the application.
var (
	Black   = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Gray    = color.NRGBA{R: 0x9C, G: 0xA3, B: 0xAF, A: 255}
	Blue    = color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 255}
	Red     = color.NRGBA{R: 0xEF, G: 0x44, B: 0x44, A: 255}
	Amber   = color.NRGBA{R: 0xF5, G: 0x9E, B: 0x0B, A: 255}
	Green   = color.NRGBA{R: 0x22, G: 0xC5, B: 0x5E, A: 255}
	Purple  = color.NRGBA{R: 0x8B, G: 0x5C, B: 0xF6, A: 255}
	GridInk = color.NRGBA{R: 0x64, G: 0x74, B: 0x8B, A: 60}
)

// WithAlpha returns c with its alpha replaced by a (0-1).
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}

// Blend composites src over dst (straight alpha) and returns an opaque result
// when dst is opaque.
func Blend(dst color.RGBA, src color.NRGBA) color.RGBA {
	if src.A == 255 {
		return color.RGBA{R: src.R, G: src.G, B: src.B, A: 255}
	}
	if src.A == 0 {
		return dst
	}
	a := uint32(src.A)
	inv := 255 - a
	return color.RGBA{
		R: uint8((uint32(src.R)*a + uint32(dst.R)*inv) / 255),
		G: uint8((uint32(src.G)*a + uint32(dst.G)*inv) / 255),
		B: uint8((uint32(src.B)*a + uint32(dst.B)*inv) / 255),
		A: uint8(a + uint32(dst.A)*inv/255),
	}
}
