package detection

import (
	"image"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// medianKernel is the side of the median filter of the binary variant.
const medianKernel = 5

// BinaryStages is the variant for binary inputs: a 5×5 median filter removes
// salt-and-pepper noise, then nonzero pixels are labeled 4-connected.
type BinaryStages struct{}

// NewBinary returns the binary-input pipeline.
func NewBinary(opts ...Option) *Pipeline {
	return New(ModeBinary, BinaryStages{}, opts...)
}

// NoiseFilter applies the median filter. raw must be 2-D.
func (BinaryStages) NoiseFilter(raw *imaging.Array) (image.Image, error) {
	if err := imaging.Require2D("BinaryStages.NoiseFilter", raw); err != nil {
		return nil, err
	}
	img, err := imaging.ArrayToImage(raw)
	if err != nil {
		return nil, err
	}
	return imaging.MedianBlur(img, medianKernel)
}

// Segment labels the nonzero pixels of the filtered image.
func (BinaryStages) Segment(filtered image.Image) (*Segmentation, error) {
	return labelMask(imaging.GrayPlane(filtered)), nil
}

// labelMask binarizes mask in place (nonzero -> 255) and labels it 4-connected.
func labelMask(mask *image.Gray) *Segmentation {
	for i, v := range mask.Pix {
		if v != 0 {
			mask.Pix[i] = 255
		}
	}
	return &Segmentation{Mask: mask, Labels: LabelComponents(mask, Connectivity4)}
}
