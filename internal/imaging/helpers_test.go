package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// mustRows builds a 2-D Array from rows or fails the test.
func mustRows(t *testing.T, rows [][]float64) *Array {
	t.Helper()
	a, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	return a
}

// mustMono builds a MonoImage from rows or fails the test.
func mustMono(t *testing.T, rows [][]float64) *MonoImage {
	t.Helper()
	m, err := NewMonoImage(mustRows(t, rows))
	if err != nil {
		t.Fatalf("NewMonoImage failed: %v", err)
	}
	return m
}

// mustBinary builds a BinaryImage from rows or fails the test.
func mustBinary(t *testing.T, rows [][]float64) *BinaryImage {
	t.Helper()
	b, err := NewBinaryImage(mustRows(t, rows))
	if err != nil {
		t.Fatalf("NewBinaryImage failed: %v", err)
	}
	return b
}

// filledRows returns a height×width grid with every value set to v.
func filledRows(width, height int, v float64) [][]float64 {
	rows := make([][]float64, height)
	for y := range rows {
		rows[y] = make([]float64, width)
		for x := range rows[y] {
			rows[y][x] = v
		}
	}
	return rows
}

// decodePNG decodes a base64 PNG produced by one of the encoders.
func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}
