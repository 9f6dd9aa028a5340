package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	uv "github.com/charmbracelet/ultraviolet"
	xdraw "golang.org/x/image/draw"
)

// HalfBlocks draws an image on a terminal screen two pixel rows per cell.
// The image height should be 2x the height of the area it is drawn into.
type HalfBlocks struct {
	Image *image.RGBA
}

// Draw converts the image to terminal cells and draws them on the screen.
func (h HalfBlocks) Draw(scr uv.Screen, area uv.Rectangle) {
	b := h.Image.Bounds()

	// ▀ (upper half block) with fg=top pixel and bg=bottom pixel
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := b.Min.Y + (row-area.Min.Y)*2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < b.Dx(); col++ {
			x := b.Min.X + col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(h.pixel(x, topY)),
					Bg: rgbaToColor(h.pixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

func (h HalfBlocks) pixel(x, y int) color.RGBA {
	if !(image.Point{x, y}).In(h.Image.Bounds()) {
		return color.RGBA{}
	}
	return h.Image.RGBAAt(x, y)
}

// Draw draws the canvas on a terminal screen, upright, one cell per column
// and two canvas rows per cell.
func (cv *Canvas) Draw(scr uv.Screen, area uv.Rectangle) {
	HalfBlocks{Image: cv.ToImage()}.Draw(scr, area)
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// PreviewSize picks a terminal size for cv. A non-positive cols defaults to
// the canvas width; a non-positive rows keeps the canvas aspect ratio.
func PreviewSize(cv *Canvas, cols, rows int) (int, int) {
	if cols <= 0 {
		cols = cv.Width
	}
	if rows <= 0 && cv.Width > 0 {
		rows = (cols*cv.Height/cv.Width + 1) / 2
	}
	return max(cols, 1), max(rows, 1)
}

// Preview writes a cols x rows half-block rendering of cv to w using ANSI
// true color. The canvas is resampled with nearest-neighbor scaling.
func Preview(w io.Writer, cv *Canvas, cols, rows int) error {
	if cv.Width == 0 || cv.Height == 0 {
		return fmt.Errorf("preview: empty canvas %dx%d", cv.Width, cv.Height)
	}
	cols, rows = PreviewSize(cv, cols, rows)

	src := cv.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	scr := uv.NewScreenBuffer(cols, rows)
	HalfBlocks{Image: dst}.Draw(scr, scr.Bounds())

	if _, err := io.WriteString(w, scr.Render()+"\n"); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
