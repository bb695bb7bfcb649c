package detection

import (
	"image"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// Parameters of the marker-controlled watershed segmentation.
const (
	openingIterations = 2
	sureBgIterations  = 3
	sureFgFraction    = 0.7
)

// ColorStages is the variant for three-channel inputs: a 5×5 Gaussian blur
// per channel, then a marker-controlled watershed separates touching objects.
type ColorStages struct{}

// NewColor returns the color-input pipeline.
func NewColor(opts ...Option) *Pipeline {
	return New(ModeColor, ColorStages{}, opts...)
}

// NoiseFilter blurs every channel. raw must be height×width×3.
func (ColorStages) NoiseFilter(raw *imaging.Array) (image.Image, error) {
	if err := imaging.RequireColor("ColorStages.NoiseFilter", raw); err != nil {
		return nil, err
	}
	img, err := imaging.ArrayToImage(raw)
	if err != nil {
		return nil, err
	}
	return imaging.GaussianBlur5(img), nil
}

// Segment runs the watershed segmentation:
//
//  1. gray (unweighted channel average), Gaussian blur, Otsu binarization
//  2. opening (3×3 erosion then dilation, twice each) removes specks
//  3. sure background: the opening dilated three times
//  4. sure foreground: opening pixels whose BFS distance to the opening's
//     background exceeds 70% of the maximum distance
//  5. unknown = sure background minus sure foreground
//  6. markers: 8-connected sure-foreground components numbered from 2, the
//     remaining known pixels 1, unknown pixels 0
//  7. watershed flooding over the filtered color image; the image border
//     and pixels where two basins meet become WatershedBoundary
//  8. pixels with a marker above 1 form the mask that is labeled 4-connected
func (ColorStages) Segment(filtered image.Image) (*Segmentation, error) {
	src := imaging.ColorFromImage(filtered)
	width, height := src.Width(), src.Height()

	gray := imaging.GrayPlane(imaging.GaussianBlur5(imaging.GrayPlane(filtered)))
	thresh := imaging.BinaryImageGray(imaging.BinaryFromMono(imaging.MonoFromGray(gray), imaging.AutoThreshold))

	opening := imaging.GrayPlane(imaging.Open(thresh, openingIterations))
	sureBg := imaging.GrayPlane(imaging.Dilate(opening, sureBgIterations))

	bgSources := make([]bool, width*height)
	for i, v := range opening.Pix {
		bgSources[i] = v == 0
	}
	dist := imaging.DistanceField(bgSources, width, height)
	maxDist := 0
	for _, d := range dist {
		if d > maxDist {
			maxDist = d
		}
	}

	sureFg := make([]bool, width*height)
	for i, d := range dist {
		sureFg[i] = d != imaging.Unreachable && float64(d) > sureFgFraction*float64(maxDist)
	}

	seeds := labelGrid(sureFg, width, height, Connectivity8)
	markers := make([]int32, width*height)
	for i, l := range seeds.Labels {
		unknown := sureBg.Pix[i] != 0 && !sureFg[i]
		if !unknown {
			markers[i] = l + 1
		}
	}

	Watershed(src, markers)

	mask := image.NewGray(image.Rect(0, 0, width, height))
	for i, m := range markers {
		if m > 1 {
			mask.Pix[i] = 255
		}
	}
	return labelMask(mask), nil
}
