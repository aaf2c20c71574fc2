package manager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/winctl/internal/platform"
)

var (
	// ErrNotFound is returned when a window or workspace id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed arguments such as an
	// unrecognized layout name.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPlatform matches every failure reported by the window driver.
	ErrPlatform = errors.New("platform error")
)

// PlatformError wraps a driver failure with the operation and handle.
type PlatformError struct {
	Op     string
	Handle platform.Handle
	Err    error
}

func (e *PlatformError) Error() string {
	if e.Handle == 0 {
		return fmt.Sprintf("platform %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("platform %s %s: %v", e.Op, e.Handle, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

func (e *PlatformError) Is(target error) bool { return target == ErrPlatform }

// HandleFailure is one failed handle in a bulk arrangement.
type HandleFailure struct {
	Handle platform.Handle
	Err    error
}

// ArrangeError collects every handle ArrangeSystemWindows could not place.
// Handles not listed were arranged.
type ArrangeError struct {
	Failures []HandleFailure
}

func (e *ArrangeError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Handle, f.Err))
	}
	return fmt.Sprintf("arrange failed for %d window(s): %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *ArrangeError) Is(target error) bool { return target == ErrPlatform }

func (e *ArrangeError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
