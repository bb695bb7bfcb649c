package imaging

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
)

// saveImage writes img into a temp dir under name; the extension picks the
// encoder.
func saveImage(t *testing.T, img image.Image, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to save %s: %v", name, err)
	}
	return path
}

func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	return saveImage(t, createInMemoryImage(width, height, c), "solid.png")
}

func createTestImageWithPattern(t *testing.T, width, height int) string {
	t.Helper()
	return saveImage(t, createPatternImage(width, height), "pattern.png")
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 60, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img1.Bounds(); b.Dx() != 100 || b.Dy() != 60 {
		t.Errorf("dimensions: got %dx%d, want 100x60", b.Dx(), b.Dy())
	}

	// An unclean spelling of the same path hits the same entry.
	dir, file := filepath.Split(imgPath)
	img2, err := cache.Load(filepath.Join(dir, ".", file))
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 || cache.Len() != 1 {
		t.Errorf("second Load did not reuse the cached image (Len %d)", cache.Len())
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	notImage := filepath.Join(t.TempDir(), "notes.png")
	if err := os.WriteFile(notImage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", "/nonexistent/path/to/image.png"},
		{"not an image", notImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewImageCache()
			if _, err := cache.Load(tt.path); err == nil {
				t.Error("Load should fail")
			}
			if cache.Len() != 0 {
				t.Errorf("failed load was cached")
			}
		})
	}
}

func TestImageCache_Evict(t *testing.T) {
	cache := NewImageCache()
	a := createTestImage(t, 10, 10, color.White)
	b := createTestImageWithPattern(t, 10, 10)

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict("/nonexistent/path")
	if cache.Len() != 2 {
		t.Fatalf("Len after evicting unknown path: got %d, want 2", cache.Len())
	}
	cache.Evict(filepath.Dir(a) + "/./" + filepath.Base(a))
	if cache.Len() != 1 {
		t.Errorf("Len after Evict: got %d, want 1", cache.Len())
	}
	if _, err := cache.Load(b); err != nil || cache.Len() != 1 {
		t.Errorf("remaining image was evicted too (Len %d, err %v)", cache.Len(), err)
	}
}

func TestImageCache_ConcurrentLoad(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.Gray{128})

	const workers = 32
	images := make([]image.Image, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img, err := cache.Load(imgPath)
			if err != nil {
				t.Errorf("concurrent Load error: %v", err)
				return
			}
			images[i] = img
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if images[i] != images[0] {
			t.Fatalf("worker %d saw a different image value", i)
		}
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()

	gray := image.NewGray(image.Rect(0, 0, 12, 8))
	tests := []struct {
		name         string
		img          image.Image
		file         string
		wantFormat   string
		wantChannels int
	}{
		{"png color", createInMemoryImage(20, 10, color.RGBA{255, 128, 64, 255}), "a.png", "png", 3},
		{"png gray", gray, "g.png", "png", 1},
		{"jpeg", createInMemoryImage(20, 10, color.White), "b.jpg", "jpeg", 3},
		{"gif", createPatternImage(20, 10), "c.gif", "gif", 3},
		{"bmp", createInMemoryImage(20, 10, color.Black), "d.bmp", "bmp", 3},
		{"tiff", createInMemoryImage(20, 10, color.Black), "e.tiff", "tiff", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := saveImage(t, tt.img, tt.file)
			info, err := LoadImageInfo(cache, path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}

			b := tt.img.Bounds()
			if info.Width != b.Dx() || info.Height != b.Dy() {
				t.Errorf("dimensions: got %dx%d, want %dx%d", info.Width, info.Height, b.Dx(), b.Dy())
			}
			if info.Format != tt.wantFormat {
				t.Errorf("Format: got %s, want %s", info.Format, tt.wantFormat)
			}
			if info.Channels != tt.wantChannels {
				t.Errorf("Channels: got %d, want %d", info.Channels, tt.wantChannels)
			}

			st, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.FileSizeBytes != st.Size() {
				t.Errorf("FileSizeBytes: got %d, want %d", info.FileSizeBytes, st.Size())
			}
		})
	}
}

func TestLoadImageInfo_FormatFromContents(t *testing.T) {
	cache := NewImageCache()

	// A PNG payload behind a misleading extension is still reported as PNG.
	src := saveImage(t, createInMemoryImage(4, 4, color.White), "real.png")
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "fake.jpg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	if _, err := LoadImageInfo(NewImageCache(), "/nonexistent/image.png"); err == nil {
		t.Error("LoadImageInfo should fail for non-existent file")
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 300, 200, color.RGBA{100, 100, 100, 255})

	dims, err := GetDimensions(cache, imgPath)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("got %dx%d, want 300x200", dims.Width, dims.Height)
	}

	if _, err := GetDimensions(cache, "/nonexistent/image.png"); err == nil {
		t.Error("GetDimensions should fail for non-existent file")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		want    Kind
		wantErr bool
	}{
		{"binary", KindBinary, false},
		{"Mono", KindMono, false},
		{" color ", KindColor, false},
		{"rgb", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrDomain) {
					t.Errorf("error: got %v, want ErrDomain", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadTyped(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImageWithPattern(t, 20, 20)

	tests := []struct {
		kind         Kind
		wantChannels int
	}{
		{KindBinary, 1},
		{KindMono, 1},
		{KindColor, 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			img, err := ReadTyped(cache, imgPath, tt.kind)
			if err != nil {
				t.Fatalf("ReadTyped failed: %v", err)
			}
			if img.Width() != 20 || img.Height() != 20 {
				t.Errorf("dimensions: got %dx%d, want 20x20", img.Width(), img.Height())
			}
			if img.Channels() != tt.wantChannels {
				t.Errorf("Channels: got %d, want %d", img.Channels(), tt.wantChannels)
			}
		})
	}
}

func TestReadTyped_Binary(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImageWithPattern(t, 20, 20)

	img, err := ReadTyped(cache, imgPath, KindBinary)
	if err != nil {
		t.Fatalf("ReadTyped failed: %v", err)
	}
	b, ok := img.(*BinaryImage)
	if !ok {
		t.Fatalf("got %T, want *BinaryImage", img)
	}

	// Red, green and blue quadrants average to 85, white to 255.
	if b.At(2, 2) || !b.At(17, 17) {
		t.Errorf("quadrants: red=%v white=%v, want false/true", b.At(2, 2), b.At(17, 17))
	}
}

func TestReadTyped_UnknownKind(t *testing.T) {
	cache := NewImageCache()

	_, err := ReadTyped(cache, "/nonexistent/image.png", Kind("rgb"))
	if !errors.Is(err, ErrDomain) {
		t.Errorf("error: got %v, want ErrDomain", err)
	}
}

func TestReadTyped_NonExistent(t *testing.T) {
	cache := NewImageCache()
	if _, err := ReadTyped(cache, "/nonexistent/image.png", KindMono); err == nil {
		t.Error("ReadTyped should fail for non-existent file")
	}
}

func TestReadArray(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 4, 3, color.RGBA{10, 20, 30, 255})

	a, err := ReadArray(cache, imgPath, KindColor)
	if err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if len(a.Shape) != 3 || a.Shape[0] != 3 || a.Shape[1] != 4 || a.Shape[2] != 3 {
		t.Errorf("shape: got %v, want [3 4 3]", a.Shape)
	}

	m, err := ReadArray(cache, imgPath, KindMono)
	if err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if len(m.Shape) != 2 || m.Data[0] != 20 {
		t.Errorf("mono grid: shape %v first %v, want 2 axes and 20", m.Shape, m.Data[0])
	}
}
