package detection

import (
	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// WatershedBoundary is the marker given to pixels where two basins meet.
const WatershedBoundary int32 = -1

// inQueue marks pixels waiting in the flooding queue.
const inQueue int32 = -2

// Watershed floods the unlabeled pixels of markers from the labeled ones,
// in the manner of Meyer's algorithm.
//
// markers holds one entry per pixel of img (row-major): positive values are
// seed labels, 0 marks pixels to be flooded. Every 0 pixel that can be
// reached from a seed receives the label of the basin that floods it first,
// or WatershedBoundary where basins with different labels meet. The
// elevation between two neighboring pixels is their largest absolute channel
// difference, and lower elevations flood first (FIFO within one elevation).
// The one-pixel image border is set to WatershedBoundary before flooding,
// overwriting any seeds there.
func Watershed(img *imaging.ColorImage, markers []int32) {
	width, height := img.Width(), img.Height()
	if width == 0 || height == 0 {
		return
	}
	pix := img.Pix()

	diff := func(a, b int) int {
		d := 0
		for c := 0; c < 3; c++ {
			v := int(pix[a*3+c]) - int(pix[b*3+c])
			if v < 0 {
				v = -v
			}
			if v > d {
				d = v
			}
		}
		return d
	}

	var queues [256][]int
	heads := [256]int{}
	active := 256
	push := func(p, level int) {
		queues[level] = append(queues[level], p)
		if level < active {
			active = level
		}
	}

	neighbors := func(p int, fn func(n int)) {
		x, y := p%width, p/width
		if y > 0 {
			fn(p - width)
		}
		if x > 0 {
			fn(p - 1)
		}
		if x < width-1 {
			fn(p + 1)
		}
		if y < height-1 {
			fn(p + width)
		}
	}

	for x := 0; x < width; x++ {
		markers[x] = WatershedBoundary
		markers[(height-1)*width+x] = WatershedBoundary
	}
	for y := 0; y < height; y++ {
		markers[y*width] = WatershedBoundary
		markers[y*width+width-1] = WatershedBoundary
	}

	// Seed the queues with the unlabeled pixels touching a labeled one.
	for p, m := range markers {
		if m != 0 {
			continue
		}
		level := 256
		neighbors(p, func(n int) {
			if markers[n] > 0 {
				if d := diff(p, n); d < level {
					level = d
				}
			}
		})
		if level < 256 {
			markers[p] = inQueue
			push(p, level)
		}
	}

	for {
		for active < 256 && heads[active] == len(queues[active]) {
			queues[active] = queues[active][:0]
			heads[active] = 0
			active++
		}
		if active == 256 {
			return
		}

		p := queues[active][heads[active]]
		heads[active]++

		var label int32
		neighbors(p, func(n int) {
			m := markers[n]
			if m <= 0 {
				return
			}
			if label == 0 {
				label = m
			} else if label != m {
				label = WatershedBoundary
			}
		})
		markers[p] = label
		if label == WatershedBoundary {
			continue
		}

		neighbors(p, func(n int) {
			if markers[n] == 0 {
				markers[n] = inQueue
				push(n, diff(p, n))
			}
		})
	}
}
