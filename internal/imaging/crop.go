package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// CropResult is a cropped region encoded as base64 PNG. X and Y locate the
// region in the source image; Width and Height are measured after scaling.
type CropResult struct {
	Index       int    `json:"index"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop cuts the region [x1,x2)×[y1,y2) out of img and rescales it by scale
// with a Lanczos filter. The region must be non-empty and inside the image.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	if x1 >= x2 || y1 >= y2 {
		return nil, domainErr("Crop", "empty region (%d,%d)-(%d,%d): need x1 < x2 and y1 < y2", x1, y1, x2, y2)
	}
	region := image.Rect(x1, y1, x2, y2)
	if !region.In(img.Bounds()) {
		return nil, domainErr("Crop", "region %v outside image bounds %v", region, img.Bounds())
	}
	return cropRegion(img, region, scale)
}

// CropObjects crops every box out of img, growing each by pad pixels on all
// sides and clipping to the image bounds. Boxes are in image-relative
// coordinates (origin at the top-left pixel). Results keep the order of boxes
// and carry its index.
func CropObjects(img image.Image, boxes []image.Rectangle, pad int, scale float64) ([]*CropResult, error) {
	if pad < 0 {
		return nil, domainErr("CropObjects", "padding must not be negative, got %d", pad)
	}
	bounds := img.Bounds()
	results := make([]*CropResult, 0, len(boxes))
	for i, box := range boxes {
		r := box.Add(bounds.Min).Inset(-pad).Intersect(bounds)
		if r.Empty() {
			return nil, fmt.Errorf("object %d box %v lies outside the image", i, box)
		}
		res, err := cropRegion(img, r, scale)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		res.Index = i
		res.X -= bounds.Min.X
		res.Y -= bounds.Min.Y
		results = append(results, res)
	}
	return results, nil
}

func cropRegion(img image.Image, region image.Rectangle, scale float64) (*CropResult, error) {
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return nil, domainErr("Crop", "scale must be a positive number, got %g", scale)
	}

	out := imaging.Crop(img, region)
	if scale != 1 {
		w := max(1, int(math.Round(float64(region.Dx())*scale)))
		h := max(1, int(math.Round(float64(region.Dy())*scale)))
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}

	encoded, err := encodePNGBase64(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}
	return &CropResult{
		X:           region.Min.X,
		Y:           region.Min.Y,
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
