package imaging

import (
	"fmt"
	"image"
	"math"
)

// Default Canny thresholds used by the grayscale pipeline.
const (
	CannyLowThreshold  = 100
	CannyHighThreshold = 200
)

// EdgeDetectResult contains an edge-detected image encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of pixels marked as edges.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the edge image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for edge detection results.
	MimeType string `json:"mime_type"`
}

// EdgeDetect blurs an image with the 5x5 Gaussian and runs CannyEdges on it.
//
// Parameters:
//   - img: Source image (color or grayscale). Color is reduced with the
//     unweighted channel average.
//   - thresholdLow: Gradient magnitude at or below which pixels are discarded.
//   - thresholdHigh: Gradient magnitude above which pixels are strong edges.
//
// Returns:
//   - *EdgeDetectResult: Grayscale edge image as base64 PNG.
//   - error: Non-nil if PNG encoding fails.
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int) (*EdgeDetectResult, error) {
	blurred := GrayPlane(GaussianBlur5(img))
	edges := CannyEdges(blurred, float64(thresholdLow), float64(thresholdHigh))

	count := 0
	for _, v := range edges.Pix {
		if v != 0 {
			count++
		}
	}

	encoded, err := encodePNGBase64(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	return &EdgeDetectResult{
		Width:       edges.Bounds().Dx(),
		Height:      edges.Bounds().Dy(),
		EdgePixels:  count,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// CannyEdges performs Canny-style edge detection on an already smoothed
// grayscale image and returns a binary edge map (0 or 255).
//
// # Algorithm
//
//  1. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = |Gx| + |Gy|, direction = atan2(Gy, Gx)
//
//  2. Non-maximum suppression: thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction. Border pixels are never edges.
//
//  3. Hysteresis thresholding:
//     - magnitude > high: strong edge, always kept
//     - low < magnitude <= high: weak edge, kept only if 8-connected to a
//     strong edge through other kept pixels
//     - magnitude <= low: discarded
//
// Thresholds are on the 0-255 intensity scale, so low=100, high=200 matches
// the classic Canny setting.
func CannyEdges(gray *image.Gray, low, high float64) *image.Gray {
	src := GrayPlane(gray)
	width := src.Bounds().Dx()
	height := src.Bounds().Dy()

	at := func(x, y int) float64 {
		return float64(src.Pix[clamp(y, 0, height-1)*src.Stride+clamp(x, 0, width-1)])
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := at(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = math.Abs(gx) + math.Abs(gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := direction[i]
			mag := magnitude[i]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[i-1]
				n2 = magnitude[i+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[i-width+1]
				n2 = magnitude[i+width-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[i-width]
				n2 = magnitude[i+width]
			} else {
				n1 = magnitude[i-width-1]
				n2 = magnitude[i+width+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Hysteresis: grow strong edges through weak candidates.
	result := image.NewGray(image.Rect(0, 0, width, height))
	stack := make([]int, 0)
	for i, v := range suppressed {
		if v > high {
			result.Pix[i] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		px, py := p%width, p/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := px+dx, py+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				n := ny*width + nx
				if result.Pix[n] == 0 && suppressed[n] > low {
					result.Pix[n] = 255
					stack = append(stack, n)
				}
			}
		}
	}

	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
