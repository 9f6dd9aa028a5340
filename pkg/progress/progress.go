// Package progress draws a single-line progress bar whose fill is eased
// toward the real completion fraction with a harmonica spring.
package progress

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	DefaultWidth = 30
	DefaultFPS   = 30
)

// Bar renders "label [█████░░░░░]  50%" lines to a writer, redrawing in
// place with a carriage return. It is safe for concurrent use.
type Bar struct {
	mu sync.Mutex

	w     io.Writer
	label string
	width int
	fps   int

	// Frequency 6.0 = quick catch-up, damping 1.0 = critically damped (no overshoot)
	spring   harmonica.Spring
	pos, vel float64
	shown    float64
	target   float64

	now    func() time.Time
	last   time.Time
	frames int
	done   bool
}

// Option configures a Bar.
type Option func(*Bar)

// WithWidth sets the number of cells in the bar.
func WithWidth(n int) Option {
	return func(b *Bar) {
		if n > 0 {
			b.width = n
		}
	}
}

// WithFPS caps how often the bar is redrawn.
func WithFPS(fps int) Option {
	return func(b *Bar) {
		if fps > 0 {
			b.fps = fps
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Bar) { b.now = now }
}

// New creates a bar that writes to w.
func New(w io.Writer, label string, opts ...Option) *Bar {
	b := &Bar{
		w:     w,
		label: label,
		width: DefaultWidth,
		fps:   DefaultFPS,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.spring = harmonica.NewSpring(harmonica.FPS(b.fps), 6.0, 1.0)
	return b
}

// Update records that done of total units are complete and redraws the bar
// if at least one frame has passed since the last draw.
func (b *Bar) Update(done, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done || total <= 0 {
		return
	}
	b.target = math.Min(float64(done)/float64(total), 1)

	now := b.now()
	frame := time.Second / time.Duration(b.fps)
	if !b.last.IsZero() && now.Sub(b.last) < frame {
		return
	}
	b.last = now

	b.pos, b.vel = b.spring.Update(b.pos, b.vel, b.target)
	b.shown = math.Max(b.shown, math.Min(math.Max(b.pos, 0), b.target))
	b.draw()
}

// Finish draws the bar at 100% and ends the line. Later updates are ignored.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return
	}
	b.done = true
	b.shown = 1
	b.draw()
	fmt.Fprintln(b.w)
}

// Frames returns how many times the bar has been drawn.
func (b *Bar) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// Fraction returns the fraction currently displayed.
func (b *Bar) Fraction() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shown
}

func (b *Bar) draw() {
	filled := int(math.Round(b.shown * float64(b.width)))
	filled = min(max(filled, 0), b.width)
	fmt.Fprintf(b.w, "\r%s [%s%s] %3.0f%%",
		b.label,
		strings.Repeat("█", filled),
		strings.Repeat("░", b.width-filled),
		b.shown*100,
	)
	b.frames++
}
