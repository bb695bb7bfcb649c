package imaging

import (
	"image"
	"image/color"
	"math"
)

// TypedImage is a 2-D (or 2-D plus channel) grid with an enforced value domain.
//
// Implementations validate and normalize their input exactly once, in their
// constructor, and never change afterwards. Every accessor that exposes pixel
// data returns a copy.
type TypedImage interface {
	Width() int
	Height() int
	Channels() int

	// Pix returns a copy of the pixel bytes, row-major, channel-last.
	Pix() []uint8

	// Array returns the pixels as a raw grid with the image's own shape.
	Array() *Array

	// Image returns the pixels as a standard library image.
	Image() image.Image
}

// raster is the shared storage of the typed images.
type raster struct {
	width    int
	height   int
	channels int
	pix      []uint8
}

func (r *raster) Width() int    { return r.width }
func (r *raster) Height() int   { return r.height }
func (r *raster) Channels() int { return r.channels }

func (r *raster) Pix() []uint8 {
	return append([]uint8(nil), r.pix...)
}

func (r *raster) Array() *Array {
	shape := []int{r.height, r.width}
	if r.channels > 1 {
		shape = append(shape, r.channels)
	}
	data := make([]float64, len(r.pix))
	for i, v := range r.pix {
		data[i] = float64(v)
	}
	return &Array{Shape: shape, Data: data}
}

func (r *raster) grayImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.width, r.height))
	copy(img.Pix, r.pix)
	return img
}

// BinaryImage is a 2-D grid whose every element is exactly 0 or 255.
type BinaryImage struct {
	raster
}

// NewBinaryImage validates a 2-D grid and maps every value > 0 to 255 and
// every other value (including NaN) to 0.
func NewBinaryImage(a *Array) (*BinaryImage, error) {
	if err := Require2D("NewBinaryImage", a); err != nil {
		return nil, err
	}
	pix := make([]uint8, len(a.Data))
	for i, v := range a.Data {
		if v > 0 {
			pix[i] = 255
		}
	}
	return newBinary(a.Width(), a.Height(), pix), nil
}

func newBinary(width, height int, pix []uint8) *BinaryImage {
	return &BinaryImage{raster{width: width, height: height, channels: 1, pix: pix}}
}

// At reports whether the pixel at (x, y) is foreground.
func (b *BinaryImage) At(x, y int) bool {
	return b.pix[y*b.width+x] != 0
}

// Image returns the binary image as an *image.Gray with values 0 and 255.
func (b *BinaryImage) Image() image.Image {
	return b.grayImage()
}

// MonoImage is a 2-D grid of integer intensities in [0, 255].
type MonoImage struct {
	raster
}

// NewMonoImage validates a 2-D grid, clamps it to [0, 255] and truncates to integers.
func NewMonoImage(a *Array) (*MonoImage, error) {
	if err := Require2D("NewMonoImage", a); err != nil {
		return nil, err
	}
	pix := make([]uint8, len(a.Data))
	for i, v := range a.Data {
		pix[i] = clampByte(v)
	}
	return newMono(a.Width(), a.Height(), pix), nil
}

func newMono(width, height int, pix []uint8) *MonoImage {
	return &MonoImage{raster{width: width, height: height, channels: 1, pix: pix}}
}

// MonoFromImage converts any image to a MonoImage using the unweighted
// channel average, the same rule as GrayFromColor.
func MonoFromImage(img image.Image) *MonoImage {
	return GrayFromColor(ColorFromImage(img))
}

// At returns the intensity at (x, y).
func (m *MonoImage) At(x, y int) uint8 {
	return m.pix[y*m.width+x]
}

// Image returns the mono image as an *image.Gray.
func (m *MonoImage) Image() image.Image {
	return m.grayImage()
}

// ColorImage is a height×width×3 grid of integer channel values in [0, 255].
type ColorImage struct {
	raster
}

// NewColorImage validates a height×width×3 grid, clamps each channel to
// [0, 255] and truncates to integers.
func NewColorImage(a *Array) (*ColorImage, error) {
	if err := RequireColor("NewColorImage", a); err != nil {
		return nil, err
	}
	pix := make([]uint8, len(a.Data))
	for i, v := range a.Data {
		pix[i] = clampByte(v)
	}
	return newColor(a.Width(), a.Height(), pix), nil
}

func newColor(width, height int, pix []uint8) *ColorImage {
	return &ColorImage{raster{width: width, height: height, channels: 3, pix: pix}}
}

// ColorFromImage converts any image to a ColorImage, dropping alpha.
// 16-bit components are scaled down by right-shifting 8 bits.
func ColorFromImage(img image.Image) *ColorImage {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			i := (y*width + x) * 3
			pix[i] = uint8(r >> 8)
			pix[i+1] = uint8(g >> 8)
			pix[i+2] = uint8(b >> 8)
		}
	}
	return newColor(width, height, pix)
}

// At returns the three channel values at (x, y).
func (c *ColorImage) At(x, y int) (uint8, uint8, uint8) {
	i := (y*c.width + x) * 3
	return c.pix[i], c.pix[i+1], c.pix[i+2]
}

// Image returns the color image as an opaque *image.RGBA.
func (c *ColorImage) Image() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			r, g, b := c.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// clampByte clamps v to [0, 255] and truncates it. NaN maps to 0.
func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
