package imaging

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestNewArray(t *testing.T) {
	tests := []struct {
		name    string
		shape   []int
		data    []float64
		wantErr bool
	}{
		{"2-D", []int{2, 3}, make([]float64, 6), false},
		{"3-D", []int{2, 2, 3}, make([]float64, 12), false},
		{"no dimensions", []int{}, nil, true},
		{"zero axis", []int{0, 3}, nil, true},
		{"negative axis", []int{-1, 3}, make([]float64, 3), true},
		{"size mismatch", []int{2, 3}, make([]float64, 5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewArray(tt.shape, tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrShape) {
					t.Fatalf("error: got %v, want ErrShape", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Ndim() != len(tt.shape) {
				t.Errorf("Ndim: got %d, want %d", a.Ndim(), len(tt.shape))
			}
		})
	}
}

func TestNewArray_CopiesInput(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	a, err := NewArray([]int{2, 2}, data)
	if err != nil {
		t.Fatalf("NewArray failed: %v", err)
	}
	data[0] = 99
	if a.Data[0] != 1 {
		t.Errorf("Array shares caller data: Data[0] = %v", a.Data[0])
	}
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	if !errors.Is(err, ErrShape) {
		t.Errorf("error: got %v, want ErrShape", err)
	}
}

func TestFromPixels(t *testing.T) {
	a, err := FromPixels([][][]float64{
		{{1, 2, 3}, {4, 5, 6}},
	})
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}
	if a.Height() != 1 || a.Width() != 2 || a.Channels() != 3 {
		t.Errorf("shape: got %v, want [1 2 3]", a.Shape)
	}
	if a.Data[3] != 4 {
		t.Errorf("Data[3]: got %v, want 4", a.Data[3])
	}

	if _, err := FromPixels([][][]float64{{{1, 2, 3}, {4, 5}}}); !errors.Is(err, ErrShape) {
		t.Errorf("mixed channel counts: got %v, want ErrShape", err)
	}
}

func TestNewBinaryImage(t *testing.T) {
	a := mustRows(t, [][]float64{
		{0, 1, -3, 0.5},
		{255, 300, math.NaN(), 0},
	})

	b, err := NewBinaryImage(a)
	if err != nil {
		t.Fatalf("NewBinaryImage failed: %v", err)
	}

	want := []uint8{0, 255, 0, 255, 255, 255, 0, 0}
	got := b.Pix()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel %d: got %d, want %d", i, got[i], want[i])
		}
	}
	if !b.At(1, 0) || b.At(0, 0) {
		t.Error("At does not match pixel values")
	}
}

func TestNewBinaryImage_Idempotent(t *testing.T) {
	b := mustBinary(t, [][]float64{{0, 7}, {12, 0}})

	again, err := NewBinaryImage(b.Array())
	if err != nil {
		t.Fatalf("NewBinaryImage failed: %v", err)
	}

	first, second := b.Pix(), again.Pix()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("pixel %d: got %d after reconstruction, want %d", i, second[i], first[i])
		}
	}
}

func TestTypedImages_RejectWrongShape(t *testing.T) {
	gray := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	rgb, err := FromPixels([][][]float64{{{1, 2, 3}}})
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}
	rgba, err := FromPixels([][][]float64{{{1, 2, 3, 4}}})
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}

	tests := []struct {
		name string
		fn   func() error
	}{
		{"binary from color", func() error { _, err := NewBinaryImage(rgb); return err }},
		{"mono from color", func() error { _, err := NewMonoImage(rgb); return err }},
		{"color from gray", func() error { _, err := NewColorImage(gray); return err }},
		{"color from 4 channels", func() error { _, err := NewColorImage(rgba); return err }},
		{"mono from nil", func() error { _, err := NewMonoImage(nil); return err }},
		{"inconsistent grid", func() error {
			_, err := NewMonoImage(&Array{Shape: []int{2, 2}, Data: []float64{1}})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.Is(err, ErrShape) {
				t.Fatalf("error: got %v, want ErrShape", err)
			}
			var se *ShapeError
			if !errors.As(err, &se) || se.Op == "" {
				t.Errorf("error should be a *ShapeError naming the operation, got %#v", err)
			}
		})
	}
}

func TestNewMonoImage_ClampsAndTruncates(t *testing.T) {
	m := mustMono(t, [][]float64{{-10, 0, 12.9, 255, 256.5, math.NaN()}})

	want := []uint8{0, 0, 12, 255, 255, 0}
	for x, w := range want {
		if got := m.At(x, 0); got != w {
			t.Errorf("At(%d,0): got %d, want %d", x, got, w)
		}
	}
}

func TestNewColorImage(t *testing.T) {
	a, err := FromPixels([][][]float64{
		{{300, -1, 7.7}, {1, 2, 3}},
	})
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}

	c, err := NewColorImage(a)
	if err != nil {
		t.Fatalf("NewColorImage failed: %v", err)
	}

	if c.Channels() != 3 {
		t.Errorf("Channels: got %d, want 3", c.Channels())
	}
	r, g, b := c.At(0, 0)
	if r != 255 || g != 0 || b != 7 {
		t.Errorf("At(0,0): got (%d,%d,%d), want (255,0,7)", r, g, b)
	}
}

func TestTypedImage_PixIsCopy(t *testing.T) {
	m := mustMono(t, [][]float64{{10, 20}})

	pix := m.Pix()
	pix[0] = 99

	if m.At(0, 0) != 10 {
		t.Error("mutating Pix() changed the image")
	}

	arr := m.Array()
	arr.Data[1] = 99
	if m.At(1, 0) != 20 {
		t.Error("mutating Array() changed the image")
	}
}

func TestTypedImage_Array(t *testing.T) {
	c := ColorFromImage(createInMemoryImage(3, 2, color.RGBA{10, 20, 30, 255}))

	a := c.Array()
	if len(a.Shape) != 3 || a.Shape[0] != 2 || a.Shape[1] != 3 || a.Shape[2] != 3 {
		t.Fatalf("shape: got %v, want [2 3 3]", a.Shape)
	}
	if a.Data[0] != 10 || a.Data[1] != 20 || a.Data[2] != 30 {
		t.Errorf("first pixel: got %v, want [10 20 30]", a.Data[:3])
	}

	m := GrayFromColor(c)
	if got := m.Array().Shape; len(got) != 2 {
		t.Errorf("mono shape: got %v, want 2 axes", got)
	}
}

func TestTypedImage_Image(t *testing.T) {
	b := mustBinary(t, [][]float64{{0, 1}})
	if g, ok := b.Image().(*image.Gray); !ok || g.GrayAt(1, 0).Y != 255 {
		t.Errorf("binary Image: got %T", b.Image())
	}

	c := ColorFromImage(createInMemoryImage(1, 1, color.RGBA{1, 2, 3, 255}))
	rgba, ok := c.Image().(*image.RGBA)
	if !ok {
		t.Fatalf("color Image: got %T, want *image.RGBA", c.Image())
	}
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("color pixel: got %v", got)
	}
}

func TestMonoFromImage(t *testing.T) {
	img := createInMemoryImage(2, 2, color.RGBA{30, 60, 91, 255})

	m := MonoFromImage(img)

	// (30+60+91)/3 = 60.33 -> 60
	if m.At(1, 1) != 60 {
		t.Errorf("At(1,1): got %d, want 60", m.At(1, 1))
	}
}
