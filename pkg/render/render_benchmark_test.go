package render

import (
	"testing"

	"github.com/taigrr/lilraster/pkg/math3d"
)

func benchmarkFill(b *testing.B, f Filler) {
	cv := NewCanvas(128, 128, ColorBlack)
	for b.Loop() {
		f.Fill(cv, Pt(4, 4), Pt(120, 10), Pt(60, 124), Gray(127))
	}
}

func BenchmarkBridgeFill(b *testing.B)      { benchmarkFill(b, BridgeFill{}) }
func BenchmarkDedupBridgeFill(b *testing.B) { benchmarkFill(b, DedupBridgeFill{}) }
func BenchmarkScanlineFill(b *testing.B)    { benchmarkFill(b, ScanlineFill{}) }

func BenchmarkLineSamples(b *testing.B) {
	for b.Loop() {
		_ = LineSamples(Pt(0, 0), Pt(500, 317))
	}
}

func BenchmarkRenderSolid(b *testing.B) {
	mesh := &mockMesh{
		vertices: []math3d.Vec3{
			math3d.V3(-1, -1, 0.2), math3d.V3(1, -1, 0.1), math3d.V3(0, 1, -0.3),
			math3d.V3(-0.5, 0.5, 0.6), math3d.V3(0.5, 0.5, 0.6), math3d.V3(0, -0.5, 0.6),
		},
		faces: [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
	r := NewRenderer(Options{Filler: DedupBridgeFill{}})
	for b.Loop() {
		cv := NewCanvas(64, 64, ColorBlack)
		_ = r.Render(cv, mesh)
	}
}
