package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/lilraster/pkg/math3d"
	"github.com/taigrr/lilraster/pkg/palette"
)

// mockMesh implements MeshRenderer for testing.
type mockMesh struct {
	vertices []math3d.Vec3
	faces    [][3]int
}

func (m *mockMesh) VertexCount() int            { return len(m.vertices) }
func (m *mockMesh) TriangleCount() int          { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int        { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) math3d.Vec3 { return m.vertices[i] }

func singleTriangle() *mockMesh {
	return &mockMesh{
		vertices: []math3d.Vec3{
			math3d.V3(-1, -1, 0),
			math3d.V3(1, -1, 0),
			math3d.V3(0, 1, 0),
		},
		faces: [][3]int{{0, 1, 2}},
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeSolid, ModeWireframe, ModePalette} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode("Wire")
	require.NoError(t, err)
	assert.Equal(t, ModeWireframe, got)

	_, err = ParseMode("phong")
	assert.Error(t, err)
}

func TestNewRendererDefaults(t *testing.T) {
	opts := NewRenderer(Options{}).Options()
	assert.Equal(t, FillBridge, opts.Filler.Name())
	assert.Equal(t, 100, opts.PaletteSize)
}

func TestRenderSolidTriangle(t *testing.T) {
	cv := NewCanvas(10, 10, ColorBlack)
	err := NewRenderer(Options{}).Render(cv, singleTriangle())
	require.NoError(t, err)

	shade := Gray(127)
	for _, p := range []ScreenPoint{{5, 5}, {0, 0}, {9, 0}} {
		assert.Equal(t, shade, cv.At(p.X, p.Y), "pixel %v", p)
	}
	for _, p := range []ScreenPoint{{0, 9}, {9, 9}} {
		assert.Equal(t, ColorBlack, cv.At(p.X, p.Y), "pixel %v", p)
	}

	// Every in-range pixel is either the face shade or untouched background.
	for y := range 10 {
		for x := range 10 {
			c := cv.At(x, y)
			assert.True(t, c == shade || c == ColorBlack, "pixel (%d,%d) = %v", x, y, c)
		}
	}
	assert.Positive(t, cv.Stats.Dropped, "samples at x=10 and y=10 are dropped")
}

func TestRenderSolidNearerFaceWins(t *testing.T) {
	// Two coplanar-in-xy triangles: the second is farther and must not
	// overwrite the first.
	mesh := &mockMesh{
		vertices: []math3d.Vec3{
			math3d.V3(-1, -1, 0.8), math3d.V3(1, -1, 0.8), math3d.V3(0, 1, 0.8),
			math3d.V3(-1, -1, -0.8), math3d.V3(1, -1, -0.8), math3d.V3(0, 1, -0.8),
		},
		faces: [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
	cv := NewCanvas(10, 10, ColorBlack)
	require.NoError(t, NewRenderer(Options{}).Render(cv, mesh))

	near := Gray(Shade(0.8, 0.8, 0.8))
	assert.Equal(t, near, cv.At(5, 5))
	assert.Positive(t, cv.Stats.Rejected)
}

func TestRenderFaceIndexOutOfRange(t *testing.T) {
	mesh := singleTriangle()
	mesh.faces = append(mesh.faces, [3]int{0, 1, 5})

	var calls int
	r := NewRenderer(Options{OnFace: func(done, total int) { calls++ }})
	err := r.Render(NewCanvas(10, 10, ColorBlack), mesh)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFaceIndex))
	assert.Equal(t, 1, calls, "faces before the bad one are drawn")

	mesh.faces = [][3]int{{-1, 0, 1}}
	assert.ErrorIs(t, r.Render(NewCanvas(4, 4, ColorBlack), mesh), ErrFaceIndex)
}

func TestRenderWireframe(t *testing.T) {
	cv := NewCanvas(10, 10, ColorBlack)
	r := NewRenderer(Options{Mode: ModeWireframe, Outline: ColorRed})
	require.NoError(t, r.Render(cv, singleTriangle()))

	assert.Equal(t, ColorRed, cv.At(0, 0))
	assert.Equal(t, ColorRed, cv.At(5, 0))
	assert.Equal(t, ColorBlack, cv.At(5, 5), "wireframe leaves the interior empty")
}

func TestRenderWireframeHighlight(t *testing.T) {
	cv := NewCanvas(10, 10, ColorBlack)
	r := NewRenderer(Options{
		Mode:           ModeWireframe,
		Outline:        ColorRed,
		Highlight:      true,
		HighlightColor: ColorWhite,
	})
	require.NoError(t, r.Render(cv, singleTriangle()))

	assert.Equal(t, ColorWhite, cv.At(0, 0))
	assert.Equal(t, ColorRed, cv.At(5, 0))
}

func TestRenderPaletteIsDeterministic(t *testing.T) {
	mesh := &mockMesh{
		vertices: []math3d.Vec3{
			math3d.V3(-1, -1, 0), math3d.V3(0.9, -1, 0), math3d.V3(-1, 0.9, 0),
			math3d.V3(0.9, 0.9, 0), math3d.V3(-0.2, 0.9, 0), math3d.V3(0.9, -0.2, 0),
		},
		faces: [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
	render := func(seed uint64) *Canvas {
		cv := NewCanvas(16, 16, ColorBlack)
		require.NoError(t, NewRenderer(Options{Mode: ModePalette, Seed: seed}).Render(cv, mesh))
		return cv
	}

	a, b := render(42), render(42)
	assert.Equal(t, a.Pixels, b.Pixels)

	var painted int
	for _, c := range a.Pixels {
		if c == ColorBlack {
			continue
		}
		painted++
		assert.Zero(t, c.G)
		assert.GreaterOrEqual(t, int(c.R), palette.Lo)
		assert.Less(t, int(c.R), palette.Hi)
		assert.GreaterOrEqual(t, int(c.B), palette.Lo)
		assert.Less(t, int(c.B), palette.Hi)
	}
	assert.Positive(t, painted)
}

func TestRenderFillStrategiesAgree(t *testing.T) {
	mesh := &mockMesh{
		vertices: []math3d.Vec3{
			math3d.V3(-0.9, -0.8, 0.1), math3d.V3(0.7, -0.6, 0.3), math3d.V3(0.1, 0.9, -0.2),
			math3d.V3(-0.5, 0.5, 0.9), math3d.V3(0.8, 0.2, -0.4), math3d.V3(-0.1, -0.9, 0.5),
		},
		faces: [][3]int{{0, 1, 2}, {3, 4, 5}, {0, 4, 3}},
	}
	bridge := NewCanvas(40, 30, ColorBlack)
	dedup := NewCanvas(40, 30, ColorBlack)
	require.NoError(t, NewRenderer(Options{Filler: BridgeFill{}}).Render(bridge, mesh))
	require.NoError(t, NewRenderer(Options{Filler: DedupBridgeFill{}}).Render(dedup, mesh))

	assert.Equal(t, bridge.Pixels, dedup.Pixels)
}

func TestRenderOnFace(t *testing.T) {
	mesh := singleTriangle()
	mesh.faces = append(mesh.faces, [3]int{2, 1, 0})

	var got [][2]int
	r := NewRenderer(Options{OnFace: func(done, total int) {
		got = append(got, [2]int{done, total})
	}})
	require.NoError(t, r.Render(NewCanvas(8, 8, ColorBlack), mesh))

	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, got)
}

func TestRenderEmptyMesh(t *testing.T) {
	cv := NewCanvas(4, 4, ColorWhite)
	require.NoError(t, NewRenderer(Options{}).Render(cv, &mockMesh{}))
	assert.Zero(t, cv.Stats)
}

func TestRenderWireframeZeroOutlineKeepsCanvasOpaque(t *testing.T) {
	cv := NewCanvas(10, 10, ColorBlack)
	require.NoError(t, NewRenderer(Options{Mode: ModeWireframe}).Render(cv, singleTriangle()))

	require.Positive(t, cv.Stats.Written)
	for i, c := range cv.Pixels {
		assert.Equal(t, uint8(255), c.A, "pixel %d", i)
	}
}
