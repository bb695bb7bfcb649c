package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func grayFromRows(t *testing.T, rows [][]float64) *image.Gray {
	t.Helper()
	img, err := ArrayToImage(mustRows(t, rows))
	if err != nil {
		t.Fatalf("ArrayToImage failed: %v", err)
	}
	return img.(*image.Gray)
}

func TestArrayToImage(t *testing.T) {
	g, err := ArrayToImage(mustRows(t, [][]float64{{-5, 300, 12.7}}))
	if err != nil {
		t.Fatalf("ArrayToImage 2-D failed: %v", err)
	}
	gray, ok := g.(*image.Gray)
	if !ok {
		t.Fatalf("2-D grid: got %T, want *image.Gray", g)
	}
	if gray.Pix[0] != 0 || gray.Pix[1] != 255 || gray.Pix[2] != 12 {
		t.Errorf("gray pixels: got %v, want [0 255 12]", gray.Pix)
	}

	a, err := FromPixels([][][]float64{{{1, 2, 3}}})
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}
	c, err := ArrayToImage(a)
	if err != nil {
		t.Fatalf("ArrayToImage 3-D failed: %v", err)
	}
	if got := c.(*image.RGBA).RGBAAt(0, 0); got != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("color pixel: got %v", got)
	}

	b, err := FromPixels([][][]float64{{{1, 2}}})
	if err != nil {
		t.Fatalf("FromPixels failed: %v", err)
	}
	if _, err := ArrayToImage(b); !errors.Is(err, ErrShape) {
		t.Errorf("2-channel grid: got %v, want ErrShape", err)
	}
}

func TestMedianBlur_InvalidKernel(t *testing.T) {
	img := createInMemoryImage(5, 5, color.White)

	for _, k := range []int{0, -3, 2, 4} {
		if _, err := MedianBlur(img, k); !errors.Is(err, ErrDomain) {
			t.Errorf("ksize %d: got %v, want ErrDomain", k, err)
		}
	}
}

func TestMedianBlur_RemovesSaltNoise(t *testing.T) {
	rows := filledRows(9, 9, 0)
	rows[4][4] = 255
	rows[0][0] = 255

	out, err := MedianBlur(grayFromRows(t, rows), 5)
	if err != nil {
		t.Fatalf("MedianBlur failed: %v", err)
	}

	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			if r := out.RGBAAt(x, y).R; r != 0 {
				t.Fatalf("pixel (%d,%d): got %d, want 0", x, y, r)
			}
		}
	}
}

func TestMedianBlur_SquareCorners(t *testing.T) {
	rows := filledRows(20, 20, 0)
	for y := 5; y < 10; y++ {
		for x := 5; x < 10; x++ {
			rows[y][x] = 255
		}
	}

	out, err := MedianBlur(grayFromRows(t, rows), 5)
	if err != nil {
		t.Fatalf("MedianBlur failed: %v", err)
	}

	tests := []struct {
		x, y int
		want uint8
	}{
		{7, 7, 255}, // center
		{7, 5, 255}, // middle of top edge
		{5, 5, 0},   // corner
		{6, 5, 0},   // next to corner
		{5, 6, 0},
		{9, 9, 0},
		{2, 2, 0}, // background
	}
	for _, tt := range tests {
		if got := out.RGBAAt(tt.x, tt.y).R; got != tt.want {
			t.Errorf("pixel (%d,%d): got %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestMedianBlur_KernelOne(t *testing.T) {
	img := createPatternImage(4, 4)

	out, err := MedianBlur(img, 1)
	if err != nil {
		t.Fatalf("MedianBlur failed: %v", err)
	}
	if out.RGBAAt(3, 0) != img.RGBAAt(3, 0) {
		t.Errorf("ksize 1 should copy the image")
	}
}

func TestGaussianBlur5_Uniform(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{128, 128, 128, 255})

	out := GaussianBlur5(img)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := out.RGBAAt(x, y)
			if c.R < 127 || c.R > 128 {
				t.Fatalf("pixel (%d,%d): got %d, want ~128", x, y, c.R)
			}
			if c.A != 255 {
				t.Fatalf("alpha at (%d,%d): got %d, want 255", x, y, c.A)
			}
		}
	}
}

func TestGaussianBlur5_WithSpot(t *testing.T) {
	rows := filledRows(11, 11, 0)
	rows[5][5] = 255

	out := GaussianBlur5(grayFromRows(t, rows))

	center := out.RGBAAt(5, 5).R
	// 255 * 36/256
	if center < 35 || center > 36 {
		t.Errorf("center: got %d, want ~35", center)
	}

	for _, p := range []image.Point{{4, 5}, {6, 5}, {5, 4}, {5, 6}} {
		if v := out.RGBAAt(p.X, p.Y).R; v == 0 || v >= center {
			t.Errorf("neighbor %v: got %d, want between 0 and %d", p, v, center)
		}
	}
	if v := out.RGBAAt(0, 0).R; v != 0 {
		t.Errorf("far pixel: got %d, want 0", v)
	}
}

func TestErodeDilate(t *testing.T) {
	rows := filledRows(7, 7, 0)
	rows[3][3] = 255
	src := grayFromRows(t, rows)

	dilated := Dilate(src, 1)
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			want := uint8(0)
			if x >= 2 && x <= 4 && y >= 2 && y <= 4 {
				want = 255
			}
			if got := dilated.RGBAAt(x, y).R; got != want {
				t.Errorf("dilate (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}

	eroded := Erode(dilated, 1)
	for y := 0; y < 7; y++ {
		for x := 0; x < 7; x++ {
			want := uint8(0)
			if x == 3 && y == 3 {
				want = 255
			}
			if got := eroded.RGBAAt(x, y).R; got != want {
				t.Errorf("erode (%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestErode_ZeroIterations(t *testing.T) {
	img := createPatternImage(4, 4)

	out := Erode(img, 0)
	if out == img {
		t.Fatal("Erode should return a new image")
	}
	if out.RGBAAt(0, 0) != img.RGBAAt(0, 0) {
		t.Error("zero iterations should copy the image")
	}
}

func TestOpen(t *testing.T) {
	rows := filledRows(20, 20, 0)
	for y := 5; y < 12; y++ {
		for x := 5; x < 12; x++ {
			rows[y][x] = 255
		}
	}
	rows[1][17] = 255 // speck
	src := grayFromRows(t, rows)

	out := Open(src, 2)

	if v := out.RGBAAt(17, 1).R; v != 0 {
		t.Errorf("speck survived opening: %d", v)
	}
	for y := 5; y < 12; y++ {
		for x := 5; x < 12; x++ {
			if v := out.RGBAAt(x, y).R; v != 255 {
				t.Fatalf("block pixel (%d,%d): got %d, want 255", x, y, v)
			}
		}
	}
}

func TestGrayPlane(t *testing.T) {
	img := createInMemoryImage(2, 2, color.RGBA{30, 60, 91, 255})

	g := GrayPlane(img)
	if g.GrayAt(1, 1).Y != 60 {
		t.Errorf("average: got %d, want 60", g.GrayAt(1, 1).Y)
	}

	src := image.NewGray(image.Rect(2, 2, 4, 4))
	src.SetGray(3, 3, color.Gray{Y: 9})
	copied := GrayPlane(src)
	if copied.Bounds().Min != (image.Point{}) {
		t.Errorf("bounds should start at origin, got %v", copied.Bounds())
	}
	if copied.GrayAt(1, 1).Y != 9 {
		t.Errorf("copied pixel: got %d, want 9", copied.GrayAt(1, 1).Y)
	}
}

func TestMonoFromGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 1))
	g.Pix[2] = 200

	m := MonoFromGray(g)
	g.Pix[2] = 0

	if m.At(2, 0) != 200 {
		t.Errorf("At(2,0): got %d, want 200", m.At(2, 0))
	}
}
