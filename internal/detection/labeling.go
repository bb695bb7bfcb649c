package detection

import (
	"image"
)

// Connectivity selects which neighbors join a pixel to a component.
type Connectivity int

const (
	// Connectivity4 joins horizontal and vertical neighbors.
	Connectivity4 Connectivity = 4

	// Connectivity8 additionally joins diagonal neighbors.
	Connectivity8 Connectivity = 8
)

var (
	offsets4 = []image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	offsets8 = []image.Point{
		{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
		{X: -1, Y: 0}, {X: 1, Y: 0},
		{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
	}
)

func (c Connectivity) offsets() []image.Point {
	if c == Connectivity8 {
		return offsets8
	}
	return offsets4
}

// Component holds the bounding box and pixel count of one label.
type Component struct {
	// Left is the leftmost column containing the label.
	Left int `json:"left"`

	// Top is the topmost row containing the label.
	Top int `json:"top"`

	// Width is the horizontal extent of the bounding box.
	Width int `json:"width"`

	// Height is the vertical extent of the bounding box.
	Height int `json:"height"`

	// Area is the number of pixels carrying the label.
	Area int `json:"area"`
}

// Bounds returns the component's bounding box as an image.Rectangle.
func (c Component) Bounds() image.Rectangle {
	return image.Rect(c.Left, c.Top, c.Left+c.Width, c.Top+c.Height)
}

// LabelMap is the result of connected-component labeling.
//
// Label 0 is the background. Foreground labels are numbered 1..Count-1 in
// raster-scan order of each component's first pixel.
type LabelMap struct {
	Width  int
	Height int

	// Labels holds one label per pixel, row-major.
	Labels []int32

	// Count is the number of labels including the background.
	Count int

	// Components holds the statistics of every label, indexed by label.
	// Components[0] describes the background and is zero if there is none.
	Components []Component
}

// At returns the label of pixel (x, y).
func (m *LabelMap) At(x, y int) int32 {
	return m.Labels[y*m.Width+x]
}

// LabelComponents labels the connected groups of nonzero pixels in mask.
func LabelComponents(mask *image.Gray, conn Connectivity) *LabelMap {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	fg := make([]bool, width*height)
	for y := 0; y < height; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for x, v := range row {
			fg[y*width+x] = v != 0
		}
	}
	return labelGrid(fg, width, height, conn)
}

// labelGrid labels the true cells of fg.
func labelGrid(fg []bool, width, height int, conn Connectivity) *LabelMap {
	labels := make([]int32, width*height)
	offsets := conn.offsets()

	var next int32 = 1
	stack := make([]int, 0, 64)
	for start := range fg {
		if !fg[start] || labels[start] != 0 {
			continue
		}

		labels[start] = next
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%width, p/width

			for _, d := range offsets {
				nx, ny := px+d.X, py+d.Y
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				n := ny*width + nx
				if fg[n] && labels[n] == 0 {
					labels[n] = next
					stack = append(stack, n)
				}
			}
		}
		next++
	}

	m := &LabelMap{
		Width:  width,
		Height: height,
		Labels: labels,
		Count:  int(next),
	}
	m.Components = componentStats(labels, width, height, m.Count)
	return m
}

// componentStats computes bounding boxes and areas for labels 0..count-1.
func componentStats(labels []int32, width, height, count int) []Component {
	type extent struct {
		minX, minY, maxX, maxY, area int
	}
	ext := make([]extent, count)
	for i := range ext {
		ext[i] = extent{minX: width, minY: height, maxX: -1, maxY: -1}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			e := &ext[labels[y*width+x]]
			if x < e.minX {
				e.minX = x
			}
			if x > e.maxX {
				e.maxX = x
			}
			if y < e.minY {
				e.minY = y
			}
			if y > e.maxY {
				e.maxY = y
			}
			e.area++
		}
	}

	comps := make([]Component, count)
	for i, e := range ext {
		if e.area == 0 {
			continue
		}
		comps[i] = Component{
			Left:   e.minX,
			Top:    e.minY,
			Width:  e.maxX - e.minX + 1,
			Height: e.maxY - e.minY + 1,
			Area:   e.area,
		}
	}
	return comps
}
