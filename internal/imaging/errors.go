package imaging

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	ErrShape  = errors.New("shape error")
	ErrDomain = errors.New("domain error")
)

// ShapeError reports an input grid with the wrong dimensionality or channel count.
//
// Shape errors are never recovered locally; callers should treat the input
// as unusable for the requested operation.
type ShapeError struct {
	// Op names the operation that rejected the input (e.g. "NewMonoImage").
	Op string

	// Shape is the offending shape, if one was available.
	Shape []int

	// Message describes the expected shape.
	Message string
}

func (e *ShapeError) Error() string {
	if e.Shape != nil {
		return fmt.Sprintf("%s: %s (got shape %v)", e.Op, e.Message, e.Shape)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is makes errors.Is(err, ErrShape) true for any *ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// DomainError reports invalid configuration such as an unknown palette name,
// an unknown image kind or an empty kernel.
type DomainError struct {
	Op      string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrDomain) true for any *DomainError.
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

func shapeErr(op string, shape []int, format string, args ...interface{}) error {
	var s []int
	if shape != nil {
		s = append([]int(nil), shape...)
	}
	return &ShapeError{Op: op, Shape: s, Message: fmt.Sprintf(format, args...)}
}

func domainErr(op string, format string, args ...interface{}) error {
	return &DomainError{Op: op, Message: fmt.Sprintf(format, args...)}
}
