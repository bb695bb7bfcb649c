package detection

import (
	"image"
)

// ObjectStats lists the detected objects as five index-aligned sequences.
//
// Entry i of every slice describes the same object. Objects appear in
// ascending label order; the background is never included. The JSON field
// order x, y, width, height, area is the tuple order used by every output.
type ObjectStats struct {
	X      []int `json:"x"`
	Y      []int `json:"y"`
	Width  []int `json:"width"`
	Height []int `json:"height"`
	Area   []int `json:"area"`
}

// Object is one row of an ObjectStats.
type Object struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Area   int `json:"area"`
}

// ObjectMetrics extracts the statistics of labels 1..Count-1 in ascending
// label order. It never fails.
func ObjectMetrics(m *LabelMap) *ObjectStats {
	n := 0
	if m.Count > 1 {
		n = m.Count - 1
	}
	stats := &ObjectStats{
		X:      make([]int, 0, n),
		Y:      make([]int, 0, n),
		Width:  make([]int, 0, n),
		Height: make([]int, 0, n),
		Area:   make([]int, 0, n),
	}
	for label := 1; label < m.Count; label++ {
		stats.append(objectFromComponent(m.Components[label]))
	}
	return stats
}

func objectFromComponent(c Component) Object {
	return Object{X: c.Left, Y: c.Top, Width: c.Width, Height: c.Height, Area: c.Area}
}

func (s *ObjectStats) append(o Object) {
	s.X = append(s.X, o.X)
	s.Y = append(s.Y, o.Y)
	s.Width = append(s.Width, o.Width)
	s.Height = append(s.Height, o.Height)
	s.Area = append(s.Area, o.Area)
}

// Len returns the number of objects.
func (s *ObjectStats) Len() int {
	return len(s.Area)
}

// Object returns entry i.
func (s *ObjectStats) Object(i int) Object {
	return Object{X: s.X[i], Y: s.Y[i], Width: s.Width[i], Height: s.Height[i], Area: s.Area[i]}
}

// Objects returns the entries as rows.
func (s *ObjectStats) Objects() []Object {
	out := make([]Object, s.Len())
	for i := range out {
		out[i] = s.Object(i)
	}
	return out
}

// Boxes returns the bounding box of every object.
func (s *ObjectStats) Boxes() []image.Rectangle {
	out := make([]image.Rectangle, s.Len())
	for i := range out {
		out[i] = image.Rect(s.X[i], s.Y[i], s.X[i]+s.Width[i], s.Y[i]+s.Height[i])
	}
	return out
}

// Filter returns the objects for which keep returns true, in order.
func (s *ObjectStats) Filter(keep func(Object) bool) *ObjectStats {
	out := &ObjectStats{
		X:      []int{},
		Y:      []int{},
		Width:  []int{},
		Height: []int{},
		Area:   []int{},
	}
	for i := 0; i < s.Len(); i++ {
		if o := s.Object(i); keep(o) {
			out.append(o)
		}
	}
	return out
}
