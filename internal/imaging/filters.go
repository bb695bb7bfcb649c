package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

// gaussianKernel5 is the 5x5 binomial Gaussian, the outer product of
// [1 4 6 4 1] with itself (weights sum to 256). It is the fixed kernel a
// 5x5 Gaussian with sigma derived from the size reduces to.
var gaussianKernel5 = [25]float64{
	1, 4, 6, 4, 1,
	4, 16, 24, 16, 4,
	6, 24, 36, 24, 6,
	4, 16, 24, 16, 4,
	1, 4, 6, 4, 1,
}

// ArrayToImage converts a raw grid to a standard library image for filtering.
// 2-D grids become *image.Gray, height×width×3 grids become opaque
// *image.RGBA; values are clamped to [0, 255] and truncated. Any other shape
// is a ShapeError.
func ArrayToImage(a *Array) (image.Image, error) {
	if err := Require2D("ArrayToImage", a); err == nil {
		img := image.NewGray(image.Rect(0, 0, a.Width(), a.Height()))
		for i, v := range a.Data {
			img.Pix[i] = clampByte(v)
		}
		return img, nil
	}
	if err := RequireColor("ArrayToImage", a); err != nil {
		return nil, err
	}
	width, height := a.Width(), a.Height()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4] = clampByte(a.Data[i*3])
		img.Pix[i*4+1] = clampByte(a.Data[i*3+1])
		img.Pix[i*4+2] = clampByte(a.Data[i*3+2])
		img.Pix[i*4+3] = 255
	}
	return img, nil
}

// MedianBlur replaces every pixel with the median of its ksize×ksize
// neighborhood, replicating border pixels. Color pixels are ranked as a
// whole by a weighted channel sum, so gray inputs get the exact intensity
// median. ksize must be a positive odd number.
func MedianBlur(img image.Image, ksize int) (*image.RGBA, error) {
	if ksize < 1 || ksize%2 == 0 {
		return nil, domainErr("MedianBlur", "kernel size must be a positive odd number, got %d", ksize)
	}
	if ksize == 1 {
		return clone.AsRGBA(img), nil
	}
	return effect.Median(img, float64(ksize/2)), nil
}

// GaussianBlur5 convolves img with the 5x5 Gaussian kernel, replicating
// border pixels. Alpha is preserved.
func GaussianBlur5(img image.Image) *image.RGBA {
	k := convolution.NewKernel(5, 5)
	copy(k.Matrix, gaussianKernel5[:])
	return convolution.Convolve(img, k.Normalized(), &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true})
}

// Erode applies a 3x3 minimum filter the given number of times.
func Erode(img image.Image, iterations int) *image.RGBA {
	out := clone.AsRGBA(img)
	for i := 0; i < iterations; i++ {
		out = effect.Erode(out, 1)
	}
	return out
}

// Dilate applies a 3x3 maximum filter the given number of times.
func Dilate(img image.Image, iterations int) *image.RGBA {
	out := clone.AsRGBA(img)
	for i := 0; i < iterations; i++ {
		out = effect.Dilate(out, 1)
	}
	return out
}

// Open performs a morphological opening: erosion then dilation, each
// repeated iterations times.
func Open(img image.Image, iterations int) *image.RGBA {
	return Dilate(Erode(img, iterations), iterations)
}

// GrayPlane reduces any image to a single 8-bit plane using the unweighted
// channel average. *image.Gray inputs are copied unchanged.
func GrayPlane(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < bounds.Dy(); y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+bounds.Dx()], g.Pix[y*g.Stride:y*g.Stride+bounds.Dx()])
		}
		return out
	}
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			sum := int(r>>8) + int(g>>8) + int(b>>8)
			out.SetGray(x, y, color.Gray{Y: uint8(sum / 3)})
		}
	}
	return out
}

// MonoFromGray wraps an *image.Gray as a MonoImage (copying the pixels).
func MonoFromGray(g *image.Gray) *MonoImage {
	return newMono(g.Bounds().Dx(), g.Bounds().Dy(), GrayPlane(g).Pix)
}

// BinaryImageGray returns the pixels of a BinaryImage as an *image.Gray.
func BinaryImageGray(b *BinaryImage) *image.Gray {
	return b.grayImage()
}
