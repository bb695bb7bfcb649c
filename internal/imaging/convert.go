package imaging

import (
	"gonum.org/v1/gonum/stat"
)

// Default targets for StatNormalize and StatNormalizeColor.
const (
	DefaultTargetMean = 127.0
	DefaultTargetStd  = 64.0
)

// AutoThreshold asks BinaryFromMono and BinaryFromColor to pick the threshold
// with Otsu's method. Any negative threshold has the same effect.
const AutoThreshold = -1

// minStd is the standard deviation below which an image is treated as flat.
const minStd = 1e-6

// StatNormalize rescales a mono image so that its mean and (population)
// standard deviation match the targets:
//
//	out = (in - mean) / std * targetStd + targetMean
//
// The result is clamped to [0, 255] and truncated. A flat image (std < 1e-6)
// uses std = 1.
func StatNormalize(m *MonoImage, targetMean, targetStd float64) *MonoImage {
	return newMono(m.width, m.height, normalizePlane(m.pix, 1, 0, targetMean, targetStd))
}

// StatNormalizeColor applies StatNormalize to each channel independently.
func StatNormalizeColor(c *ColorImage, targetMeans, targetStds [3]float64) *ColorImage {
	out := make([]uint8, len(c.pix))
	for ch := 0; ch < 3; ch++ {
		plane := normalizePlane(c.pix, 3, ch, targetMeans[ch], targetStds[ch])
		for i, v := range plane {
			out[i*3+ch] = v
		}
	}
	return newColor(c.width, c.height, out)
}

// normalizePlane normalizes every stride-th byte of pix starting at offset.
func normalizePlane(pix []uint8, stride, offset int, targetMean, targetStd float64) []uint8 {
	values := make([]float64, len(pix)/stride)
	for i := range values {
		values[i] = float64(pix[i*stride+offset])
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	if !(std > minStd) {
		std = 1
	}

	out := make([]uint8, len(values))
	for i, v := range values {
		out[i] = clampByte((v-mean)/std*targetStd + targetMean)
	}
	return out
}

// GrayFromColor averages the three channels of every pixel without
// luminance weighting and truncates the result.
func GrayFromColor(c *ColorImage) *MonoImage {
	pix := make([]uint8, c.width*c.height)
	for i := range pix {
		sum := int(c.pix[i*3]) + int(c.pix[i*3+1]) + int(c.pix[i*3+2])
		pix[i] = uint8(sum / 3)
	}
	return newMono(c.width, c.height, pix)
}

// ColorFromMono maps every intensity through a 256-entry palette.
//
// A nil palette selects the grayscale identity ramp, so every output pixel
// has three equal channels. A non-nil palette must be a 256×3 grid; its
// entries are clamped to [0, 255]. Any other palette shape is a ShapeError.
func ColorFromMono(m *MonoImage, palette *Array) (*ColorImage, error) {
	lut, err := paletteTable(palette)
	if err != nil {
		return nil, err
	}
	pix := make([]uint8, len(m.pix)*3)
	for i, v := range m.pix {
		entry := lut[v]
		pix[i*3] = entry[0]
		pix[i*3+1] = entry[1]
		pix[i*3+2] = entry[2]
	}
	return newColor(m.width, m.height, pix), nil
}

// BinaryFromMono thresholds a mono image: pixels strictly above threshold
// become 255, all others 0. A negative threshold (see AutoThreshold) selects
// the threshold with OtsuThreshold.
func BinaryFromMono(m *MonoImage, threshold int) *BinaryImage {
	if threshold < 0 {
		threshold = OtsuThreshold(m)
	}
	pix := make([]uint8, len(m.pix))
	for i, v := range m.pix {
		if int(v) > threshold {
			pix[i] = 255
		}
	}
	return newBinary(m.width, m.height, pix)
}

// BinaryFromColor is BinaryFromMono applied to GrayFromColor(c).
func BinaryFromColor(c *ColorImage, threshold int) *BinaryImage {
	return BinaryFromMono(GrayFromColor(c), threshold)
}

// ColorFromBinary renders the distance transform of b through a palette.
func ColorFromBinary(b *BinaryImage, palette *Array) (*ColorImage, error) {
	return ColorFromMono(DistanceFromBinary(b), palette)
}

// BinaryCopy returns an independent copy of b.
func BinaryCopy(b *BinaryImage) *BinaryImage {
	return newBinary(b.width, b.height, b.Pix())
}
