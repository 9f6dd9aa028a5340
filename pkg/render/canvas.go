// Package render provides the software rasterization pipeline for lilraster:
// projection, line drawing, triangle filling and the depth-compare canvas.
package render

import (
	"image"
)

// Canvas is a fixed-size grid of pixels in screen space. Row 0 is the
// bottom row, matching model space where Y grows upward; ToImage flips the
// rows for image space.
type Canvas struct {
	Width      int
	Height     int
	Background Color
	Pixels     []Color // Row-major pixel data
	Stats      PixelStats
}

// PixelStats counts the outcome of every WritePixel call.
type PixelStats struct {
	Written  int // Candidate was equal or nearer and was stored
	Rejected int // Candidate lost the depth compare
	Dropped  int // Coordinate was outside the canvas
}

// NewCanvas creates a width x height canvas filled with bg. Negative sizes
// are treated as zero.
func NewCanvas(width, height int, bg Color) *Canvas {
	width, height = max(width, 0), max(height, 0)
	cv := &Canvas{
		Width:      width,
		Height:     height,
		Background: bg,
		Pixels:     make([]Color, width*height),
	}
	for i := range cv.Pixels {
		cv.Pixels[i] = bg
	}
	return cv
}

// InBounds reports whether p addresses a pixel of the canvas.
func (cv *Canvas) InBounds(p ScreenPoint) bool {
	return p.X >= 0 && p.X < cv.Width && p.Y >= 0 && p.Y < cv.Height
}

// At returns the color at (x, y).
// Returns transparent black if out of bounds.
func (cv *Canvas) At(x, y int) Color {
	if !cv.InBounds(ScreenPoint{x, y}) {
		return Color{}
	}
	return cv.Pixels[y*cv.Width+x]
}

// WritePixel offers c for the pixel at p. Coordinates outside the canvas
// are ignored. Otherwise c replaces the stored color only when the stored
// color is less than or equal to c under CompareColors, so a pixel only ever
// gets brighter. Stored pixels are always opaque; the alpha of c is ignored.
func (cv *Canvas) WritePixel(p ScreenPoint, c Color) {
	if !cv.InBounds(p) {
		cv.Stats.Dropped++
		return
	}
	i := p.Y*cv.Width + p.X
	if CompareColors(cv.Pixels[i], c) > 0 {
		cv.Stats.Rejected++
		return
	}
	c.A = 255
	cv.Pixels[i] = c
	cv.Stats.Written++
}

// ToImage converts the canvas to a standard Go image.RGBA, flipping it
// vertically so the top image row holds the highest screen-space Y.
func (cv *Canvas) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cv.Width, cv.Height))
	for y := 0; y < cv.Height; y++ {
		row := cv.Height - 1 - y
		for x := 0; x < cv.Width; x++ {
			img.SetRGBA(x, row, cv.Pixels[y*cv.Width+x])
		}
	}
	return img
}
