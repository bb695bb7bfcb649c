// Package imaging provides the typed image model and the stateless
// conversions the object analysis pipelines are built on.
//
// Raw numeric grids arrive as *Array values. Wrapping one in a BinaryImage,
// MonoImage or ColorImage validates its shape and normalizes its values once;
// the typed images are immutable afterwards and every conversion allocates a
// new instance.
//
// # Value Domains
//
//   - BinaryImage: 2-D, every pixel exactly 0 or 255
//   - MonoImage: 2-D, integer intensities in [0, 255]
//   - ColorImage: height×width×3, integer channel values in [0, 255]
//
// # Conversions
//
// StatNormalize and StatNormalizeColor rescale to a target mean and standard
// deviation. GrayFromColor averages channels without luminance weighting.
// ColorFromMono maps intensities through a 256-entry palette (see
// NamedPalette). BinaryFromMono thresholds with a fixed value or, for
// AutoThreshold, Otsu's method. DistanceFromBinary computes the 4-connected
// BFS distance to the nearest foreground pixel, normalized to [0, 255].
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other operations are
// stateless and can be called concurrently.
//
// # Error Handling
//
// Wrong dimensionality or channel counts produce a *ShapeError (errors.Is
// ErrShape). Invalid configuration such as an unknown palette or image kind
// produces a *DomainError (errors.Is ErrDomain). File and encoding failures
// are wrapped with fmt.Errorf.
package imaging
