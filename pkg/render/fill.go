package render

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// Filler fills the interior of a screen-space triangle. Every pixel goes
// through Canvas.WritePixel, so all strategies share the same depth-compare
// policy.
type Filler interface {
	Fill(cv *Canvas, v1, v2, v3 ScreenPoint, c Color)
	Name() string
}

// Fill strategy names accepted by FillerByName.
const (
	FillBridge   = "bridge"
	FillDedup    = "dedup"
	FillScanline = "scanline"
)

// FillerByName returns the strategy registered under name.
func FillerByName(name string) (Filler, error) {
	switch name {
	case FillBridge, "":
		return BridgeFill{}, nil
	case FillDedup:
		return DedupBridgeFill{}, nil
	case FillScanline:
		return ScanlineFill{}, nil
	default:
		return nil, fmt.Errorf("unknown fill strategy %q (use %s, %s or %s)", name, FillBridge, FillDedup, FillScanline)
	}
}

// Wireframe draws the three edges v1-v2, v3-v2 and v1-v3 without filling.
func (cv *Canvas) Wireframe(v1, v2, v3 ScreenPoint, c Color) {
	cv.Line(v1, v2, c)
	cv.Line(v3, v2, c)
	cv.Line(v1, v3, c)
}

// BridgeFill draws edge A (v1-v2) and edge B (v3-v2), then draws a line
// from every sample of A to every sample of B. The interior is covered as a
// side effect of those bridging lines. Cost grows with |A| x |B|.
type BridgeFill struct{}

// Name implements Filler.
func (BridgeFill) Name() string { return FillBridge }

// Fill implements Filler.
func (BridgeFill) Fill(cv *Canvas, v1, v2, v3 ScreenPoint, c Color) {
	edgeA := cv.Line(v1, v2, c)
	edgeB := cv.Line(v3, v2, c)
	bridge(cv, edgeA, edgeB, c)
}

// DedupBridgeFill bridges the same pairs of edge samples as BridgeFill but
// collapses runs of identical samples first. Identical segments write
// identical pixels with the same color, so the final canvas is the same.
type DedupBridgeFill struct{}

// Name implements Filler.
func (DedupBridgeFill) Name() string { return FillDedup }

// Fill implements Filler.
func (DedupBridgeFill) Fill(cv *Canvas, v1, v2, v3 ScreenPoint, c Color) {
	edgeA := slices.Compact(cv.Line(v1, v2, c))
	edgeB := slices.Compact(cv.Line(v3, v2, c))
	bridge(cv, edgeA, edgeB, c)
}

func bridge(cv *Canvas, edgeA, edgeB []ScreenPoint, c Color) {
	for _, b := range edgeB {
		for _, a := range edgeA {
			cv.stroke(a, b, c)
		}
	}
}

// ScanlineFill outlines the triangle and fills it row by row. It covers the
// closed triangle spanned by the three points, which matches BridgeFill in
// the interior but can differ by a pixel along the edges.
type ScanlineFill struct{}

// Name implements Filler.
func (ScanlineFill) Name() string { return FillScanline }

// Fill implements Filler.
func (ScanlineFill) Fill(cv *Canvas, v1, v2, v3 ScreenPoint, c Color) {
	cv.Wireframe(v1, v2, v3, c)

	p := []ScreenPoint{v1, v2, v3}
	sort.Slice(p, func(i, j int) bool { return p[i].Y < p[j].Y })
	top, mid, bot := p[0], p[1], p[2]
	if top.Y == bot.Y {
		return
	}

	minY := max(top.Y, 0)
	maxY := min(bot.Y, cv.Height-1)
	for y := minY; y <= maxY; y++ {
		xa := edgeX(top, bot, y)
		var xb float64
		if y < mid.Y {
			xb = edgeX(top, mid, y)
		} else {
			xb = edgeX(mid, bot, y)
		}

		left := max(int(math.Floor(math.Min(xa, xb))), 0)
		right := min(int(math.Floor(math.Max(xa, xb))), cv.Width-1)
		for x := left; x <= right; x++ {
			cv.WritePixel(ScreenPoint{x, y}, c)
		}
	}
}

// edgeX returns the x where segment p-q crosses row y.
func edgeX(p, q ScreenPoint, y int) float64 {
	if p.Y == q.Y {
		return float64(q.X)
	}
	t := float64(y-p.Y) / float64(q.Y-p.Y)
	return float64(p.X) + t*float64(q.X-p.X)
}
