package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache holds decoded image files keyed by their cleaned path, so the
// tools of one session decode every file once. It is safe for concurrent use.
//
// Entries live until Evict or Clear; a long-running server that walks many
// files should evict what it no longer needs.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*cachedImage
}

// cachedImage is a decoded file plus what LoadImageInfo reports about it.
type cachedImage struct {
	img    image.Image
	format string
	size   int64
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*cachedImage),
	}
}

// Load returns the decoded image at path, reading and decoding it on first
// use. EXIF orientation is applied to JPEG and TIFF files, so the pixel grid
// matches what an image viewer shows.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

func (c *ImageCache) entry(path string) (*cachedImage, error) {
	key := filepath.Clean(path)

	c.mu.RLock()
	entry, ok := c.images[key]
	c.mu.RUnlock()
	if ok {
		return entry, nil
	}

	data, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	// DecodeConfig only reads the header; it names the format that the
	// full decode below will use.
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", key, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", key, err)
	}

	entry = &cachedImage{img: img, format: format, size: int64(len(data))}

	c.mu.Lock()
	// Another goroutine may have decoded the same file meanwhile; keep the
	// first entry so every caller sees one image value.
	if existing, ok := c.images[key]; ok {
		entry = existing
	} else {
		c.images[key] = entry
	}
	c.mu.Unlock()

	return entry, nil
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict drops the image cached for path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, filepath.Clean(path))
	c.mu.Unlock()
}

// ImageInfo describes an image file.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the decoder that recognized the file contents ("png",
	// "jpeg", "gif", "bmp", "tiff"), independent of the file extension.
	Format string `json:"format"`

	// Channels is 1 for grayscale color models and 3 otherwise.
	Channels int `json:"channels"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	HasAlpha      bool  `json:"has_alpha"`
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	entry, err := cache.entry(path)
	if err != nil {
		return nil, err
	}

	info := &ImageInfo{
		Width:         entry.img.Bounds().Dx(),
		Height:        entry.img.Bounds().Dy(),
		Format:        entry.format,
		Channels:      3,
		ColorDepth:    "8-bit",
		FileSizeBytes: entry.size,
	}

	model := entry.img.ColorModel()
	if p, ok := model.(color.Palette); ok {
		info.HasAlpha = paletteHasAlpha(p)
		return info, nil
	}

	switch model {
	case color.GrayModel:
		info.Channels = 1
	case color.Gray16Model:
		info.Channels = 1
		info.ColorDepth = "16-bit"
	case color.RGBAModel, color.NRGBAModel:
		info.HasAlpha = true
	case color.RGBA64Model, color.NRGBA64Model:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	}
	return info, nil
}

func paletteHasAlpha(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

// DimensionsResult is the size of an image in pixels.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions loads path through the cache and returns its size.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// Kind selects how a file is decoded into a TypedImage.
type Kind string

const (
	// KindBinary reads a file as mono and binarizes it with Otsu's threshold.
	KindBinary Kind = "binary"

	// KindMono reads a file as a single-channel intensity image.
	KindMono Kind = "mono"

	// KindColor reads a file as a three-channel color image.
	KindColor Kind = "color"
)

// ParseKind converts a kind name (case-insensitive) to a Kind.
// Unknown names produce a DomainError.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(name))); k {
	case KindBinary, KindMono, KindColor:
		return k, nil
	}
	return "", domainErr("ParseKind", "unknown image kind %q (want binary, mono or color)", name)
}

// ReadTyped loads an image file through the cache and converts it to the
// TypedImage selected by kind.
//
// Returns:
//   - TypedImage: *BinaryImage, *MonoImage or *ColorImage.
//   - error: load failures are wrapped; an unknown kind is a DomainError.
func ReadTyped(cache *ImageCache, path string, kind Kind) (TypedImage, error) {
	switch kind {
	case KindBinary, KindMono, KindColor:
	default:
		return nil, domainErr("ReadTyped", "unknown image kind %q", kind)
	}

	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindBinary:
		return BinaryFromMono(MonoFromImage(img), AutoThreshold), nil
	case KindMono:
		return MonoFromImage(img), nil
	default:
		return ColorFromImage(img), nil
	}
}

// ReadArray loads an image file as a raw grid: height×width for binary and
// mono kinds, height×width×3 for color.
func ReadArray(cache *ImageCache, path string, kind Kind) (*Array, error) {
	typed, err := ReadTyped(cache, path, kind)
	if err != nil {
		return nil, err
	}
	return typed.Array(), nil
}
