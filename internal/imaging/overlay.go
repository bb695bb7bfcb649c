package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultBoxColor is the bounding-box color used when none is given.
const DefaultBoxColor = "#FF0000"

// OverlayResult contains the image with object boxes drawn on it
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Objects     int    `json:"objects"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ObjectOverlay draws a one-pixel bounding box around every object on a copy
// of img and, if showIndex is set, labels each box with its position in
// boxes. Boxes are in image-relative coordinates. An empty boxColorHex selects
// DefaultBoxColor.
func ObjectOverlay(img image.Image, boxes []image.Rectangle, showIndex bool, boxColorHex string) (*OverlayResult, error) {
	if boxColorHex == "" {
		boxColorHex = DefaultBoxColor
	}
	boxColor, err := parseHexColor(boxColorHex)
	if err != nil {
		return nil, domainErr("ObjectOverlay", "invalid box color %q: %v", boxColorHex, err)
	}

	result := imaging.Clone(img)
	width := result.Bounds().Dx()
	height := result.Bounds().Dy()

	for _, box := range boxes {
		drawBox(result, box, boxColor)
	}

	if showIndex {
		for i, box := range boxes {
			// Above the box when there is room, otherwise just inside it.
			at := image.Pt(box.Min.X+1, box.Min.Y-glyphRows-2)
			if at.Y < 1 {
				at.Y = box.Min.Y + 2
			}
			drawIndex(result, at, i, color.White, boxColor)
		}
	}

	encoded, err := encodePNGBase64(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &OverlayResult{
		Width:       width,
		Height:      height,
		Objects:     len(boxes),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// drawBox outlines r (inclusive of its last row and column) clipped to img.
func drawBox(img draw.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// parseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (non-premultiplied
// alpha). The leading '#' is optional.
func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	alpha := uint8(0xff)
	switch len(s) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(s[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("bad alpha %q: %w", s[6:], err)
		}
		alpha = uint8(a)
		s = s[:6]
	default:
		return color.NRGBA{}, fmt.Errorf("want 3, 6 or 8 hex digits, got %d", len(s))
	}

	c, err := colorful.Hex("#" + s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// digitGlyphs is a 3x5 bitmap font for object indices. Each byte is one row;
// bit 2 is the left column.
var digitGlyphs = [10][glyphRows]uint8{
	{7, 5, 5, 5, 7},
	{2, 6, 2, 2, 7},
	{7, 1, 7, 4, 7},
	{7, 1, 7, 1, 7},
	{5, 5, 7, 1, 1},
	{7, 4, 7, 1, 7},
	{7, 4, 7, 5, 7},
	{7, 1, 1, 1, 1},
	{7, 5, 7, 5, 7},
	{7, 5, 7, 1, 7},
}

const (
	glyphRows    = 5
	glyphAdvance = 4
)

// drawIndex writes n with its top-left glyph pixel at p, on a background
// plate that extends one pixel beyond the digits. Pixels outside img are
// skipped.
func drawIndex(img draw.Image, p image.Point, n int, fg, bg color.Color) {
	if n < 0 {
		return
	}
	digits := strconv.Itoa(n)
	bounds := img.Bounds()

	plate := image.Rect(p.X-1, p.Y-1, p.X+len(digits)*glyphAdvance, p.Y+glyphRows+1)
	draw.Draw(img, plate.Intersect(bounds), image.NewUniform(bg), image.Point{}, draw.Src)

	for i, d := range digits {
		for row, bits := range digitGlyphs[d-'0'] {
			for col := 0; col < 3; col++ {
				if bits&(4>>col) == 0 {
					continue
				}
				pt := image.Pt(p.X+i*glyphAdvance+col, p.Y+row)
				if pt.In(bounds) {
					img.Set(pt.X, pt.Y, fg)
				}
			}
		}
	}
}
