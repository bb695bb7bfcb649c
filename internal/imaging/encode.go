package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// encodePNGBase64 encodes img as PNG and returns it base64-encoded.
func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodedImage is a TypedImage rendered as base64 PNG.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Channels    int    `json:"channels"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeTyped renders t as PNG. Binary and mono images become 8-bit
// grayscale PNGs, color images opaque RGBA PNGs.
func EncodeTyped(t TypedImage) (*EncodedImage, error) {
	encoded, err := encodePNGBase64(t.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       t.Width(),
		Height:      t.Height(),
		Channels:    t.Channels(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
