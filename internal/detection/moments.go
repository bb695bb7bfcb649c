package detection

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyMask is returned when shape moments are requested for a label
// without pixels.
var ErrEmptyMask = errors.New("mask has no pixels")

// HuMoments holds the seven Hu invariants of a shape mask. They are
// invariant to translation, scale and rotation (the seventh changes sign
// under reflection).
type HuMoments [7]float64

// HuMomentSet lists the Hu invariants of several objects, in object order.
type HuMomentSet []HuMoments

// rawMoments accumulates the spatial moments of one binary mask.
type rawMoments struct {
	m00, m10, m01          float64
	mu20, mu11, mu02       float64
	mu30, mu21, mu12, mu03 float64
}

// huMomentsForLabels computes the Hu invariants of every listed label in
// two passes over the label map: spatial moments first, then central
// moments around each centroid.
func huMomentsForLabels(m *LabelMap, labels []int32) (HuMomentSet, error) {
	index := make(map[int32]int, len(labels))
	for i, l := range labels {
		if l <= 0 || int(l) >= m.Count {
			return nil, fmt.Errorf("label %d out of range [1, %d)", l, m.Count)
		}
		index[l] = i
	}
	acc := make([]rawMoments, len(labels))

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i, ok := index[m.Labels[y*m.Width+x]]
			if !ok {
				continue
			}
			acc[i].m00++
			acc[i].m10 += float64(x)
			acc[i].m01 += float64(y)
		}
	}

	for i, l := range labels {
		if acc[i].m00 == 0 {
			return nil, fmt.Errorf("label %d: %w", l, ErrEmptyMask)
		}
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i, ok := index[m.Labels[y*m.Width+x]]
			if !ok {
				continue
			}
			a := &acc[i]
			dx := float64(x) - a.m10/a.m00
			dy := float64(y) - a.m01/a.m00
			a.mu20 += dx * dx
			a.mu11 += dx * dy
			a.mu02 += dy * dy
			a.mu30 += dx * dx * dx
			a.mu21 += dx * dx * dy
			a.mu12 += dx * dy * dy
			a.mu03 += dy * dy * dy
		}
	}

	out := make(HuMomentSet, len(labels))
	for i, a := range acc {
		hu := a.hu()
		for _, v := range hu {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("label %d: non-finite shape moment", labels[i])
			}
		}
		out[i] = hu
	}
	return out, nil
}

// hu normalizes the central moments and combines them into the seven
// invariants.
func (a rawMoments) hu() HuMoments {
	s2 := a.m00 * a.m00
	s3 := s2 * math.Sqrt(a.m00)

	n20, n11, n02 := a.mu20/s2, a.mu11/s2, a.mu02/s2
	n30, n21, n12, n03 := a.mu30/s3, a.mu21/s3, a.mu12/s3, a.mu03/s3

	t0 := n30 + n12
	t1 := n21 + n03
	q0 := t0 * t0
	q1 := t1 * t1
	d0 := n30 - 3*n12
	d1 := 3*n21 - n03
	d := n20 - n02

	return HuMoments{
		n20 + n02,
		d*d + 4*n11*n11,
		d0*d0 + d1*d1,
		q0 + q1,
		d0*t0*(q0-3*q1) + d1*t1*(3*q0-q1),
		d*(q0-q1) + 4*n11*t0*t1,
		d1*t0*(q0-3*q1) - d0*t1*(3*q0-q1),
	}
}
