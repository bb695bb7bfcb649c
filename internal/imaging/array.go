package imaging

// Array is a raw numeric grid as handed over by decoders and callers.
//
// Data is stored row-major with the channel axis last, so a height×width×3
// grid stores pixel (x, y) channel c at Data[(y*width+x)*3+c]. Arrays carry no
// value-domain invariant; wrap them in a BinaryImage, MonoImage or ColorImage
// to get one.
type Array struct {
	// Shape lists the axis lengths: [height, width] or [height, width, channels].
	Shape []int

	// Data holds the element values, len(Data) == product(Shape).
	Data []float64
}

// NewArray builds an Array after checking that data matches shape.
//
// Returns a ShapeError if shape is empty, has a non-positive axis, or its
// product differs from len(data). The data slice is copied.
func NewArray(shape []int, data []float64) (*Array, error) {
	if len(shape) == 0 {
		return nil, shapeErr("NewArray", shape, "grid must have at least one dimension")
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, shapeErr("NewArray", shape, "every dimension must be positive")
		}
		n *= d
	}
	if n != len(data) {
		return nil, shapeErr("NewArray", shape, "shape holds %d elements but data has %d", n, len(data))
	}
	return &Array{
		Shape: append([]int(nil), shape...),
		Data:  append([]float64(nil), data...),
	}, nil
}

// FromRows builds a 2-D Array from a slice of equal-length rows.
func FromRows(rows [][]float64) (*Array, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, shapeErr("FromRows", nil, "grid must not be empty")
	}
	width := len(rows[0])
	data := make([]float64, 0, len(rows)*width)
	for y, row := range rows {
		if len(row) != width {
			return nil, shapeErr("FromRows", nil, "row %d has %d values, want %d", y, len(row), width)
		}
		data = append(data, row...)
	}
	return &Array{Shape: []int{len(rows), width}, Data: data}, nil
}

// FromPixels builds a 3-D Array from rows of per-pixel channel vectors.
// Every pixel must have the same number of channels.
func FromPixels(pixels [][][]float64) (*Array, error) {
	if len(pixels) == 0 || len(pixels[0]) == 0 || len(pixels[0][0]) == 0 {
		return nil, shapeErr("FromPixels", nil, "grid must not be empty")
	}
	width := len(pixels[0])
	channels := len(pixels[0][0])
	data := make([]float64, 0, len(pixels)*width*channels)
	for y, row := range pixels {
		if len(row) != width {
			return nil, shapeErr("FromPixels", nil, "row %d has %d pixels, want %d", y, len(row), width)
		}
		for x, px := range row {
			if len(px) != channels {
				return nil, shapeErr("FromPixels", nil, "pixel (%d,%d) has %d channels, want %d", x, y, len(px), channels)
			}
			data = append(data, px...)
		}
	}
	return &Array{Shape: []int{len(pixels), width, channels}, Data: data}, nil
}

// Ndim returns the number of axes.
func (a *Array) Ndim() int {
	return len(a.Shape)
}

// Height returns the first axis length, or 0 for an empty array.
func (a *Array) Height() int {
	if len(a.Shape) < 1 {
		return 0
	}
	return a.Shape[0]
}

// Width returns the second axis length, or 0 for arrays with fewer than two axes.
func (a *Array) Width() int {
	if len(a.Shape) < 2 {
		return 0
	}
	return a.Shape[1]
}

// Channels returns the third axis length for 3-D arrays and 1 otherwise.
func (a *Array) Channels() int {
	if len(a.Shape) < 3 {
		return 1
	}
	return a.Shape[2]
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		Shape: append([]int(nil), a.Shape...),
		Data:  append([]float64(nil), a.Data...),
	}
}

// consistent reports whether Shape and Data agree.
func (a *Array) consistent() bool {
	if a == nil || len(a.Shape) == 0 {
		return false
	}
	n := 1
	for _, d := range a.Shape {
		if d <= 0 {
			return false
		}
		n *= d
	}
	return n == len(a.Data)
}

// Require2D returns a ShapeError unless a is a consistent 2-D grid.
func Require2D(op string, a *Array) error {
	if a == nil {
		return shapeErr(op, nil, "nil grid")
	}
	if len(a.Shape) != 2 || !a.consistent() {
		return shapeErr(op, a.Shape, "expected a 2-D grid")
	}
	return nil
}

// RequireColor returns a ShapeError unless a is a consistent height×width×3 grid.
func RequireColor(op string, a *Array) error {
	if a == nil {
		return shapeErr(op, nil, "nil grid")
	}
	if len(a.Shape) != 3 || a.Shape[2] != 3 || !a.consistent() {
		return shapeErr(op, a.Shape, "expected a height×width×3 grid")
	}
	return nil
}
