package render

import "math"

// walkLine visits the samples of the segment p1-p2. With d the Euclidean
// length, sample i (0 <= i <= floor(d)) is floor((p1*(d-i) + p2*i) / d).
// The first sample is always p1 and the last is always p2: when d is not a
// whole number the interpolation stops short of p2, so p2 is visited once
// more at the end. A zero-length segment visits nothing.
func walkLine(p1, p2 ScreenPoint, visit func(ScreenPoint)) {
	x1, y1 := float64(p1.X), float64(p1.Y)
	x2, y2 := float64(p2.X), float64(p2.Y)

	d := math.Sqrt((x2-x1)*(x2-x1) + (y2-y1)*(y2-y1))
	if d == 0 {
		return
	}

	visit(p1)
	last := p1
	steps := int(d)
	for i := 1; i <= steps; i++ {
		w1, w2 := d-float64(i), float64(i)
		p := ScreenPoint{
			X: int(math.Floor((x1*w1 + x2*w2) / d)),
			Y: int(math.Floor((y1*w1 + y2*w2) / d)),
		}
		visit(p)
		last = p
	}
	if last != p2 {
		visit(p2)
	}
}

// LineSamples returns the ordered pixel samples of p1-p2 without drawing
// them.
func LineSamples(p1, p2 ScreenPoint) []ScreenPoint {
	var pts []ScreenPoint
	walkLine(p1, p2, func(p ScreenPoint) {
		pts = append(pts, p)
	})
	return pts
}

// Line draws the segment p1-p2 through WritePixel and returns its samples
// in order from p1 to p2. A zero-length segment draws nothing and returns
// an empty slice.
func (cv *Canvas) Line(p1, p2 ScreenPoint, c Color) []ScreenPoint {
	pts := LineSamples(p1, p2)
	for _, p := range pts {
		cv.WritePixel(p, c)
	}
	return pts
}

// LineHighlight draws like Line and then offers hc for both endpoints.
func (cv *Canvas) LineHighlight(p1, p2 ScreenPoint, c, hc Color) []ScreenPoint {
	pts := cv.Line(p1, p2, c)
	if len(pts) > 0 {
		cv.WritePixel(p1, hc)
		cv.WritePixel(p2, hc)
	}
	return pts
}

// stroke draws p1-p2 without collecting samples.
func (cv *Canvas) stroke(p1, p2 ScreenPoint, c Color) {
	walkLine(p1, p2, func(p ScreenPoint) {
		cv.WritePixel(p, c)
	})
}
