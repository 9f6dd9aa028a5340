package render

import (
	"math"

	"github.com/taigrr/lilraster/pkg/math3d"
)

// ScreenPoint is an integer pixel coordinate. Points outside the canvas are
// expected and are dropped when written.
type ScreenPoint struct {
	X, Y int
}

// Pt creates a ScreenPoint.
func Pt(x, y int) ScreenPoint {
	return ScreenPoint{x, y}
}

// Project maps the x and y of a normalized model-space vertex onto a
// width x height screen: [-1, 1] becomes [0, width] and [0, height]. No
// clamping is done, so x = 1 lands one past the last column.
func Project(v math3d.Vec3, width, height int) ScreenPoint {
	return ScreenPoint{
		X: int(math.Floor((v.X + 1) * float64(width) / 2)),
		Y: int(math.Floor((v.Y + 1) * float64(height) / 2)),
	}
}

// ProjectVertex projects v and also returns its depth.
func ProjectVertex(v math3d.Vec3, width, height int) (ScreenPoint, float64) {
	return Project(v, width, height), v.Z
}

// Shade turns the z values of a triangle's corners into a gray level:
// floor(((z0+z1+z2)/3 + 1) / 2 * 255). Depths outside [-1, 1] are clamped
// to black or white.
func Shade(z0, z1, z2 float64) uint8 {
	sum := z0 + z1 + z2
	s := math.Floor(((sum/3 + 1) / 2) * 255)
	switch {
	case s <= 0 || math.IsNaN(s):
		return 0
	case s >= 255:
		return 255
	default:
		return uint8(s)
	}
}
