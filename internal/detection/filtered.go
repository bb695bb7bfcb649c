package detection

import (
	"fmt"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// Area band of FilteredPipeline, both bounds exclusive.
const (
	MinObjectArea = 10
	MaxObjectArea = 2500
)

// InAreaBand reports whether MinObjectArea < area < MaxObjectArea.
func InAreaBand(area int) bool {
	return area > MinObjectArea && area < MaxObjectArea
}

// FilteredPipeline wraps a Pipeline, keeps only objects inside the area band
// and adds Hu moment shape descriptors for them.
type FilteredPipeline struct {
	inner *Pipeline
}

// NewFiltered wraps p.
func NewFiltered(p *Pipeline) *FilteredPipeline {
	return &FilteredPipeline{inner: p}
}

// Run executes the wrapped pipeline and filters its objects by area.
//
// Shape descriptors come from a second noise filter and segment pass over
// raw: one HuMoments entry per label whose area lies in the band, in label
// order. If that pass fails or panics, the error is logged at warn level and
// the returned HuMomentSet is nil; the object statistics are still returned.
// Errors of the wrapped pipeline itself are returned unchanged.
func (f *FilteredPipeline) Run(raw *imaging.Array) (*ObjectStats, HuMomentSet, error) {
	stats, err := f.inner.Run(raw)
	if err != nil {
		return nil, nil, err
	}

	filtered := stats.Filter(func(o Object) bool {
		return InAreaBand(o.Area)
	})

	hu, err := f.shapeMoments(raw)
	if err != nil {
		f.inner.logger.Warn().
			Err(err).
			Str("pipeline", f.inner.name).
			Msg("shape moments unavailable")
		hu = nil
	}

	return filtered, hu, nil
}

func (f *FilteredPipeline) shapeMoments(raw *imaging.Array) (hu HuMomentSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			hu, err = nil, fmt.Errorf("shape moments panicked: %v", r)
		}
	}()

	seg, err := f.inner.segment(raw)
	if err != nil {
		return nil, err
	}

	labels := make([]int32, 0, seg.Labels.Count)
	for label := 1; label < seg.Labels.Count; label++ {
		if InAreaBand(seg.Labels.Components[label].Area) {
			labels = append(labels, int32(label))
		}
	}
	return huMomentsForLabels(seg.Labels, labels)
}
