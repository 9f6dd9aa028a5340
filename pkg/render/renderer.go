package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taigrr/lilraster/pkg/math3d"
	"github.com/taigrr/lilraster/pkg/palette"
)

// ErrFaceIndex is returned when a face references a vertex that does not
// exist. The render pass stops at the first such face.
var ErrFaceIndex = errors.New("face index out of range")

// Mode controls how each face is drawn.
type Mode int

const (
	ModeSolid     Mode = iota // Filled, gray level from average depth
	ModeWireframe             // Edges only, caller-supplied outline color
	ModePalette               // Filled, random color from a seeded palette
)

func (m Mode) String() string {
	switch m {
	case ModeSolid:
		return "solid"
	case ModeWireframe:
		return "wireframe"
	case ModePalette:
		return "palette"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "solid", "mesh", "":
		return ModeSolid, nil
	case "wireframe", "wire":
		return ModeWireframe, nil
	case "palette":
		return ModePalette, nil
	default:
		return ModeSolid, fmt.Errorf("unknown render mode %q (use solid, wireframe or palette)", s)
	}
}

// MeshRenderer is the read-only view of a mesh the renderer needs.
// It is satisfied by *models.Mesh without importing the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) math3d.Vec3
	GetFace(i int) [3]int
}

// Options configures a Renderer.
type Options struct {
	Mode           Mode
	Outline        Color  // Edge color in ModeWireframe
	Filler         Filler // Defaults to BridgeFill
	Highlight      bool   // Mark wireframe edge endpoints with HighlightColor
	HighlightColor Color
	Seed           uint64 // Palette seed in ModePalette
	PaletteSize    int    // Defaults to 100

	// OnFace is called after each face is fully drawn.
	OnFace func(done, total int)
}

// Renderer draws meshes onto a Canvas face by face, in mesh order, with no
// culling or sorting. Overlap is resolved only by Canvas.WritePixel.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer, filling in defaults for unset options.
func NewRenderer(opts Options) *Renderer {
	if opts.Filler == nil {
		opts.Filler = BridgeFill{}
	}
	if opts.PaletteSize <= 0 {
		opts.PaletteSize = 100
	}
	return &Renderer{opts: opts}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render draws every face of mesh onto cv. It returns an error wrapping
// ErrFaceIndex if a face references a missing vertex; faces before it have
// already been drawn.
func (r *Renderer) Render(cv *Canvas, mesh MeshRenderer) error {
	start := time.Now()

	var shades []Color
	pick := func() Color { return Color{} }
	if r.opts.Mode == ModePalette {
		rng := palette.NewRand(r.opts.Seed)
		shades = palette.Shades(rng, r.opts.PaletteSize)
		pick = func() Color { return shades[rng.IntN(len(shades))] }
	}

	vertexCount := mesh.VertexCount()
	total := mesh.TriangleCount()

	for i := range total {
		face := mesh.GetFace(i)

		var pts [3]ScreenPoint
		var zs [3]float64
		for k, idx := range face {
			if idx < 0 || idx >= vertexCount {
				return fmt.Errorf("%w: face %d corner %d references vertex %d of %d", ErrFaceIndex, i, k, idx, vertexCount)
			}
			pts[k], zs[k] = ProjectVertex(mesh.GetVertex(idx), cv.Width, cv.Height)
		}

		switch r.opts.Mode {
		case ModeWireframe:
			r.drawWireframe(cv, pts)
		case ModePalette:
			r.opts.Filler.Fill(cv, pts[0], pts[1], pts[2], pick())
		default:
			shade := Gray(Shade(zs[0], zs[1], zs[2]))
			r.opts.Filler.Fill(cv, pts[0], pts[1], pts[2], shade)
		}

		if r.opts.OnFace != nil {
			r.opts.OnFace(i+1, total)
		}
	}

	Logger().Debug("render pass",
		"faces", total,
		"mode", r.opts.Mode,
		"fill", r.opts.Filler.Name(),
		"written", cv.Stats.Written,
		"rejected", cv.Stats.Rejected,
		"dropped", cv.Stats.Dropped,
		"elapsed", time.Since(start),
	)
	return nil
}

func (r *Renderer) drawWireframe(cv *Canvas, pts [3]ScreenPoint) {
	if !r.opts.Highlight {
		cv.Wireframe(pts[0], pts[1], pts[2], r.opts.Outline)
		return
	}
	hc := r.opts.HighlightColor
	cv.LineHighlight(pts[0], pts[1], r.opts.Outline, hc)
	cv.LineHighlight(pts[2], pts[1], r.opts.Outline, hc)
	cv.LineHighlight(pts[0], pts[2], r.opts.Outline, hc)
}
