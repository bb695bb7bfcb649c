package detection

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

func TestBinaryPipeline(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		want *ObjectStats
	}{
		{
			name: "single square loses its corners to the median filter",
			rows: rectRows(20, 20, 255, rect{x: 5, y: 5, w: 5, h: 5}),
			want: &ObjectStats{
				X: []int{5}, Y: []int{5}, Width: []int{5}, Height: []int{5}, Area: []int{13},
			},
		},
		{
			name: "two squares",
			rows: rectRows(25, 15, 255, rect{x: 2, y: 3, w: 9, h: 9}, rect{x: 14, y: 3, w: 9, h: 9}),
			want: &ObjectStats{
				X: []int{2, 14}, Y: []int{3, 3}, Width: []int{9, 9}, Height: []int{9, 9}, Area: []int{69, 69},
			},
		},
		{
			name: "isolated specks are removed",
			rows: rectRows(20, 20, 255, rect{x: 3, y: 3, w: 1, h: 1}, rect{x: 12, y: 10, w: 1, h: 1}),
			want: &ObjectStats{
				X: []int{}, Y: []int{}, Width: []int{}, Height: []int{}, Area: []int{},
			},
		},
		{
			name: "all black",
			rows: rectRows(8, 8, 255),
			want: &ObjectStats{
				X: []int{}, Y: []int{}, Width: []int{}, Height: []int{}, Area: []int{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := NewBinary().Run(mustArray(t, tt.rows))
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if !reflect.DeepEqual(stats, tt.want) {
				t.Errorf("Run = %+v, want %+v", stats, tt.want)
			}
		})
	}
}

func TestBinaryPipeline_ZeroOneInput(t *testing.T) {
	stats, err := NewBinary().Run(mustArray(t, rectRows(20, 20, 1, rect{x: 5, y: 5, w: 5, h: 5})))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Len() != 1 || stats.Area[0] != 13 {
		t.Errorf("Run = %+v, want one object of area 13", stats)
	}
}

func TestBinaryPipeline_RejectsColor(t *testing.T) {
	raw := colorArray(t, 4, 4, nil, nil)

	_, err := NewBinary().Run(raw)
	if err == nil {
		t.Fatal("expected error for 3-D input")
	}
	if !errors.Is(err, imaging.ErrShape) {
		t.Errorf("error = %v, want ErrShape", err)
	}
}
