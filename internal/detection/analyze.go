package detection

import (
	"fmt"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// Analysis is the result of analyzing one image file.
type Analysis struct {
	// Mode is the pipeline variant that ran.
	Mode string `json:"mode"`

	// Filtered reports whether the area band and shape descriptors applied.
	Filtered bool `json:"filtered"`

	// Count is the number of reported objects.
	Count int `json:"count"`

	// Objects lists the objects as (x, y, width, height, area) sequences.
	Objects *ObjectStats `json:"objects"`

	// HuMoments holds one descriptor per filtered object. It is null for
	// unfiltered runs and when the descriptors could not be computed.
	HuMoments HuMomentSet `json:"hu_moments"`
}

// KindForMode returns the image kind a pipeline mode reads its input as.
func KindForMode(mode string) (imaging.Kind, error) {
	switch mode {
	case ModeBinary:
		return imaging.KindBinary, nil
	case ModeGrayscale:
		return imaging.KindMono, nil
	case ModeColor:
		return imaging.KindColor, nil
	}
	return "", &imaging.DomainError{
		Op:      "KindForMode",
		Message: fmt.Sprintf("unknown pipeline mode %q (want one of %v)", mode, Modes),
	}
}

// AnalyzeFile loads path through cache in the kind the mode expects and runs
// the pipeline on it, wrapped by NewFiltered when filtered is set.
func AnalyzeFile(cache *imaging.ImageCache, path, mode string, filtered bool, opts ...Option) (*Analysis, error) {
	p, err := NewForMode(mode, opts...)
	if err != nil {
		return nil, err
	}
	kind, err := KindForMode(p.Name())
	if err != nil {
		return nil, err
	}
	raw, err := imaging.ReadArray(cache, path, kind)
	if err != nil {
		return nil, err
	}

	result := &Analysis{Mode: p.Name(), Filtered: filtered}
	if filtered {
		result.Objects, result.HuMoments, err = NewFiltered(p).Run(raw)
	} else {
		result.Objects, err = p.Run(raw)
	}
	if err != nil {
		return nil, err
	}
	result.Count = result.Objects.Len()
	return result, nil
}
