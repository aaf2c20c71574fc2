package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Handle is an opaque OS window token. Only the driver that produced it knows
// what it means; it is never a pointer and must not be reinterpreted as one.
type Handle uint64

func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uint64(h))
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  uint32
	Height uint32
}

// SystemWindow is a snapshot of one real OS window as reported by a Driver.
type SystemWindow struct {
	Handle      Handle `json:"handle"`
	Title       string `json:"title"`
	ProcessName string `json:"process_name"`
	PID         uint32 `json:"pid"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       uint32 `json:"width"`
	Height      uint32 `json:"height"`
	IsVisible   bool   `json:"is_visible"`
	IsMinimized bool   `json:"is_minimized"`
	IsMaximized bool   `json:"is_maximized"`
}

// Bounds returns the window geometry as a Rect.
func (w SystemWindow) Bounds() Rect {
	return Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}
}

// Driver abstracts OS window operations. Exactly one implementation is
// compiled in per target platform; see NewDriver.
//
// All calls are synchronous and may block for as long as the window system
// takes to answer.
type Driver interface {
	// Windows enumerates all top-level windows.
	Windows() ([]SystemWindow, error)
	// Window looks up a single window. A window that does not exist is
	// reported as (nil, nil), not as an error.
	Window(h Handle) (*SystemWindow, error)
	Move(h Handle, x, y int) error
	Resize(h Handle, width, height uint32) error
	SetBounds(h Handle, bounds Rect) error
	Minimize(h Handle) error
	Maximize(h Handle) error
	Restore(h Handle) error
	Close(h Handle) error
	Focus(h Handle) error
	Hide(h Handle) error
	Show(h Handle) error
}

// ScreenSizer is implemented by drivers that can report the usable screen
// size for arranging.
type ScreenSizer interface {
	ScreenSize() (width, height uint32, err error)
}

var (
	// ErrUnsupported is returned by NewDriver on platforms without a driver.
	ErrUnsupported = fmt.Errorf("no window driver for %s/%s; supported: linux (X11)", runtime.GOOS, runtime.GOARCH)

	// ErrInvalidHandle is returned when a handle cannot name a window on
	// this platform.
	ErrInvalidHandle = errors.New("invalid window handle")

	// ErrWindowNotFound is returned by mutating calls on a missing window.
	ErrWindowNotFound = errors.New("window not found")
)

// Open returns a driver by name. "memory" always works; "native" (or the
// empty string) selects the driver compiled in for this platform.
func Open(name string) (Driver, error) {
	switch name {
	case "", "native", "x11":
		return NewDriver()
	case "memory":
		return NewMemoryDriver(), nil
	default:
		return nil, fmt.Errorf("unknown driver %q (use native or memory)", name)
	}
}
