// Package detection finds objects in images and reports their bounding boxes
// and areas.
//
// # Pipelines
//
// A Pipeline runs three stages on a raw grid:
//
//  1. Noise filter: removes noise according to the input kind
//  2. Segment: produces a binary mask and its 4-connected labeling
//  3. Metrics: extracts one (x, y, width, height, area) entry per label
//
// The first two stages come from a Stages implementation; metrics are shared.
// Three variants exist, selected with NewForMode:
//
//   - binary: 5×5 median filter, then the nonzero pixels are labeled
//   - grayscale: 5×5 Gaussian blur, then the Canny edge map is labeled
//   - color: per-channel Gaussian blur, then a marker-controlled watershed
//     separates touching objects before labeling
//
// A FilteredPipeline wraps any Pipeline, keeps only objects whose area lies
// strictly between MinObjectArea and MaxObjectArea and attaches Hu moment
// shape descriptors. Failures while computing the descriptors are logged and
// never fail the run.
//
// # Object Statistics
//
// ObjectStats holds five index-aligned sequences in label order. Label 0 is
// the background and is never reported.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Thread Safety
//
// Pipelines hold no per-run state and may be shared between goroutines.
package detection
