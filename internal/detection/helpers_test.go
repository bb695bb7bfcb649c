package detection

import (
	"image"
	"testing"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// rect is a filled rectangle used to build test fixtures.
type rect struct {
	x, y, w, h int
}

// rectRows returns a height×width grid of zeros with every rectangle filled
// with v.
func rectRows(width, height int, v float64, rects ...rect) [][]float64 {
	rows := make([][]float64, height)
	for y := range rows {
		rows[y] = make([]float64, width)
	}
	for _, r := range rects {
		for y := r.y; y < r.y+r.h; y++ {
			for x := r.x; x < r.x+r.w; x++ {
				rows[y][x] = v
			}
		}
	}
	return rows
}

// mustArray builds a 2-D Array from rows or fails the test.
func mustArray(t *testing.T, rows [][]float64) *imaging.Array {
	t.Helper()
	a, err := imaging.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	return a
}

// colorArray builds a height×width×3 Array: pixels inside a rectangle take
// the rectangle's color, all others are black.
func colorArray(t *testing.T, width, height int, rects []rect, colors [][3]float64) *imaging.Array {
	t.Helper()
	pixels := make([][][]float64, height)
	for y := range pixels {
		pixels[y] = make([][]float64, width)
		for x := range pixels[y] {
			pixels[y][x] = []float64{0, 0, 0}
			for i, r := range rects {
				if x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h {
					pixels[y][x] = []float64{colors[i][0], colors[i][1], colors[i][2]}
				}
			}
		}
	}
	a, err := imaging.FromPixels(pixels)
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}
	return a
}

// maskFromRows builds a binary *image.Gray (nonzero -> 255) from rows.
func maskFromRows(rows [][]float64) *image.Gray {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y, row := range rows {
		for x, v := range row {
			if v != 0 {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}
