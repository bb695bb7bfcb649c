package imaging

import (
	"github.com/anthonynsimon/bild/histogram"
)

// OtsuThreshold selects a binarization threshold with Otsu's method.
//
// For every candidate t the pixels are split into a background class
// (value <= t) and a foreground class (value > t), and the between-class
// variance wB·wF·(mB−mF)² is computed from the class pixel fractions and mean
// intensities. The t with the largest variance wins; ties keep the smallest t.
// Candidates with an empty background are skipped and the scan stops as soon
// as the foreground becomes empty, so a uniform image yields 0.
func OtsuThreshold(m *MonoImage) int {
	hist := Histogram256(m)

	total := float64(m.width * m.height)
	if total == 0 {
		return 0
	}

	var sumTotal float64
	for t, n := range hist {
		sumTotal += float64(t) * float64(n)
	}

	var (
		sumB      float64
		countB    float64
		maxVar    = -1.0
		threshold = 0
	)
	for t := 0; t < 256; t++ {
		countB += float64(hist[t])
		if countB == 0 {
			continue
		}
		countF := total - countB
		if countF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])

		meanB := sumB / countB
		meanF := (sumTotal - sumB) / countF
		wB := countB / total
		wF := countF / total

		variance := wB * wF * (meanB - meanF) * (meanB - meanF)
		if variance > maxVar {
			maxVar = variance
			threshold = t
		}
	}
	return threshold
}

// Histogram256 counts the pixels of each intensity in a mono image.
func Histogram256(m *MonoImage) [256]int {
	var out [256]int
	if m.width == 0 || m.height == 0 {
		return out
	}
	h := histogram.NewRGBAHistogram(m.grayImage())
	copy(out[:], h.R.Bins)
	return out
}
