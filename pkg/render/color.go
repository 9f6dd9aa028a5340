package render

import (
	"cmp"
	"image/color"
)

// Color is an alias for color.RGBA. Alpha is always opaque on a Canvas.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// Gray creates an opaque gray with all three channels set to v.
func Gray(v uint8) color.RGBA {
	return color.RGBA{v, v, v, 255}
}

// CompareColors orders colors lexicographically by (R, G, B) and returns
// -1, 0 or +1. Alpha is ignored. The Canvas uses this order as its depth
// proxy: a larger color counts as nearer to the viewer.
func CompareColors(a, b Color) int {
	if c := cmp.Compare(a.R, b.R); c != 0 {
		return c
	}
	if c := cmp.Compare(a.G, b.G); c != 0 {
		return c
	}
	return cmp.Compare(a.B, b.B)
}
