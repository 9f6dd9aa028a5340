package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/lilraster/pkg/math3d"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name string
		v    math3d.Vec3
		want ScreenPoint
	}{
		{"bottom left", math3d.V3(-1, -1, 0), Pt(0, 0)},
		{"center", math3d.V3(0, 0, 0), Pt(5, 5)},
		{"top right is one past the edge", math3d.V3(1, 1, 0), Pt(10, 10)},
		{"floors", math3d.V3(-0.95, 0.19, 0.7), Pt(0, 5)},
		{"outside unit cube", math3d.V3(-3, 2, 0), Pt(-10, 15)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Project(tc.v, 10, 10))
		})
	}
}

func TestProjectVertexKeepsDepth(t *testing.T) {
	p, z := ProjectVertex(math3d.V3(0, 0, -0.25), 20, 8)
	assert.Equal(t, Pt(10, 4), p)
	assert.Equal(t, -0.25, z)
}

func TestShade(t *testing.T) {
	tests := []struct {
		name       string
		z0, z1, z2 float64
		want       uint8
	}{
		{"nearest", 1, 1, 1, 255},
		{"farthest", -1, -1, -1, 0},
		{"middle", 0, 0, 0, 127},
		{"mixed", 1, 0, -1, 127},
		{"half", 0.5, 0.5, 0.5, 191},
		{"clamped high", 3, 3, 3, 255},
		{"clamped low", -2, -5, -1, 0},
		{"nan", math.NaN(), 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Shade(tc.z0, tc.z1, tc.z2))
		})
	}
}
