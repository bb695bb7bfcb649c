package imaging

// Unreachable marks pixels of a DistanceField that no source can reach.
const Unreachable = -1

// neighbors4 lists the 4-connected offsets as (dx, dy) pairs.
var neighbors4 = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// DistanceField runs a multi-source breadth-first search over a width×height
// grid. Every pixel with sources[i] set starts at distance 0 and distances
// grow by one per 4-connected step, so each pixel receives the length of the
// shortest grid path to its nearest source. Pixels that no source reaches are
// set to Unreachable.
//
// The search uses an explicit FIFO queue, so grid size is not limited by
// stack depth.
func DistanceField(sources []bool, width, height int) []int {
	dist := make([]int, width*height)
	queue := make([]int, 0, width*height)
	for i := range dist {
		if sources[i] {
			queue = append(queue, i)
		} else {
			dist[i] = Unreachable
		}
	}

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		x, y := p%width, p/width
		next := dist[p] + 1
		for _, d := range neighbors4 {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			n := ny*width + nx
			if dist[n] == Unreachable {
				dist[n] = next
				queue = append(queue, n)
			}
		}
	}
	return dist
}

// DistanceFromBinary computes the distance of every pixel to the nearest
// foreground pixel and normalizes the result into a MonoImage.
//
// Distances are divided by the largest observed distance (1 if that is 0)
// and scaled to 255, truncating. An all-foreground image therefore maps to
// all zeros. If the image has no foreground at all, no pixel is reachable and
// every pixel takes the maximum value 255.
func DistanceFromBinary(b *BinaryImage) *MonoImage {
	sources := make([]bool, len(b.pix))
	for i, v := range b.pix {
		sources[i] = v > 0
	}
	dist := DistanceField(sources, b.width, b.height)

	maxDist := 0
	for _, d := range dist {
		if d > maxDist {
			maxDist = d
		}
	}
	if maxDist == 0 {
		maxDist = 1
	}

	pix := make([]uint8, len(dist))
	for i, d := range dist {
		if d == Unreachable {
			d = maxDist
		}
		pix[i] = clampByte(float64(d) / float64(maxDist) * 255)
	}
	return newMono(b.width, b.height, pix)
}
