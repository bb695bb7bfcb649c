package histogram

import (
	"sort"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// Bins is the number of intensity levels of an 8-bit histogram.
const Bins = 256

// Hist is an immutable histogram.
type Hist struct {
	data map[int]float64
}

// New creates a histogram from a copy of data.
func New(data map[int]float64) *Hist {
	return &Hist{data: copyData(data)}
}

// FromDense creates a histogram with keys 0..len(values)-1.
func FromDense(values []float64) *Hist {
	data := make(map[int]float64, len(values))
	for k, v := range values {
		data[k] = v
	}
	return &Hist{data: data}
}

// FromMono builds the normalized intensity histogram of m: value k is the
// fraction of pixels with intensity k. All 256 keys are present.
func FromMono(m *imaging.MonoImage) *Hist {
	counts := imaging.Histogram256(m)
	total := float64(m.Width() * m.Height())

	values := make([]float64, Bins)
	if total > 0 {
		for k, n := range counts {
			values[k] = float64(n) / total
		}
	}
	return FromDense(values)
}

// Data returns a copy of the key/value pairs.
func (h *Hist) Data() map[int]float64 {
	return copyData(h.data)
}

// Get returns the value for key, or 0 if absent.
func (h *Hist) Get(key int) float64 {
	return h.data[key]
}

// Len returns the number of keys.
func (h *Hist) Len() int {
	return len(h.data)
}

// Keys returns the keys in ascending order.
func (h *Hist) Keys() []int {
	keys := make([]int, 0, len(h.data))
	for k := range h.data {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Values returns the values in key order.
func (h *Hist) Values() []float64 {
	keys := h.Keys()
	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = h.data[k]
	}
	return values
}

// Dense returns values for keys 0..Bins-1, missing keys as 0. Keys outside
// that range are ignored.
func (h *Hist) Dense() [Bins]float64 {
	var out [Bins]float64
	for k, v := range h.data {
		if k >= 0 && k < Bins {
			out[k] = v
		}
	}
	return out
}

func copyData(data map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
