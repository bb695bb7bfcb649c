package detection

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// Pipeline modes accepted by NewForMode.
const (
	ModeBinary    = "binary"
	ModeGrayscale = "grayscale"
	ModeColor     = "color"
)

// Modes lists the pipeline modes in a stable order.
var Modes = []string{ModeBinary, ModeGrayscale, ModeColor}

// Stages is the capability set a pipeline variant provides. The metrics
// stage is shared by all variants and is not part of it.
type Stages interface {
	// NoiseFilter suppresses noise in the raw grid. It returns a ShapeError
	// if the grid does not have the shape the variant expects.
	NoiseFilter(raw *imaging.Array) (image.Image, error)

	// Segment partitions the filtered image into labeled objects.
	Segment(filtered image.Image) (*Segmentation, error)
}

// Segmentation is the output of the segment stage.
type Segmentation struct {
	// Mask is the binary image that was labeled (0 or 255).
	Mask *image.Gray

	// Labels is the 4-connected labeling of Mask.
	Labels *LabelMap
}

// Pipeline runs noise filtering, segmentation and object metrics in order:
//
//	Run(raw) = ObjectMetrics(Segment(NoiseFilter(raw)))
//
// A Pipeline holds no state between runs and is safe for concurrent use.
type Pipeline struct {
	name   string
	stages Stages
	logger zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for debug traces and, when the pipeline
// is wrapped by NewFiltered, for soft-failure warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a pipeline from a stage implementation. The name appears in
// log output.
func New(name string, stages Stages, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:   name,
		stages: stages,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewForMode creates the pipeline variant for one of Modes. An unknown mode
// is a DomainError.
func NewForMode(mode string, opts ...Option) (*Pipeline, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeBinary:
		return NewBinary(opts...), nil
	case ModeGrayscale:
		return NewGrayscale(opts...), nil
	case ModeColor:
		return NewColor(opts...), nil
	}
	return nil, &imaging.DomainError{
		Op:      "NewForMode",
		Message: fmt.Sprintf("unknown pipeline mode %q (want one of %v)", mode, Modes),
	}
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Run executes the three stages on a raw grid.
func (p *Pipeline) Run(raw *imaging.Array) (*ObjectStats, error) {
	start := time.Now()

	seg, err := p.segment(raw)
	if err != nil {
		return nil, err
	}
	stats := ObjectMetrics(seg.Labels)

	p.logger.Debug().
		Str("pipeline", p.name).
		Int("objects", stats.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline run complete")

	return stats, nil
}

// Segment runs the noise filter and segment stages and returns the labeled
// segmentation without computing metrics.
func (p *Pipeline) Segment(raw *imaging.Array) (*Segmentation, error) {
	return p.segment(raw)
}

func (p *Pipeline) segment(raw *imaging.Array) (*Segmentation, error) {
	filtered, err := p.stages.NoiseFilter(raw)
	if err != nil {
		return nil, fmt.Errorf("%s noise filter: %w", p.name, err)
	}
	seg, err := p.stages.Segment(filtered)
	if err != nil {
		return nil, fmt.Errorf("%s segmentation: %w", p.name, err)
	}
	return seg, nil
}
