package detection

import (
	"image"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// GrayscaleStages is the variant for single-channel inputs: a 5×5 Gaussian
// blur, then the Canny edge map is labeled 4-connected.
type GrayscaleStages struct {
	// Low and High are the hysteresis thresholds. Zero values select
	// imaging.CannyLowThreshold and imaging.CannyHighThreshold.
	Low, High float64
}

// NewGrayscale returns the grayscale-input pipeline.
func NewGrayscale(opts ...Option) *Pipeline {
	return New(ModeGrayscale, GrayscaleStages{}, opts...)
}

// NoiseFilter applies the Gaussian blur. raw must be 2-D.
func (GrayscaleStages) NoiseFilter(raw *imaging.Array) (image.Image, error) {
	if err := imaging.Require2D("GrayscaleStages.NoiseFilter", raw); err != nil {
		return nil, err
	}
	img, err := imaging.ArrayToImage(raw)
	if err != nil {
		return nil, err
	}
	return imaging.GaussianBlur5(img), nil
}

// Segment labels the edge map of the filtered image.
func (s GrayscaleStages) Segment(filtered image.Image) (*Segmentation, error) {
	low, high := s.Low, s.High
	if low == 0 && high == 0 {
		low, high = imaging.CannyLowThreshold, imaging.CannyHighThreshold
	}
	edges := imaging.CannyEdges(imaging.GrayPlane(filtered), low, high)
	return labelMask(edges), nil
}
