package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects how a workspace arranges its windows.
type Kind int

const (
	Tiling   Kind = iota // Row-major grid in insertion order.
	Floating             // No automatic arrangement.
	Monocle              // Every window full screen, stacked.
)

// ErrUnknownKind is returned when a layout name is not recognized.
var ErrUnknownKind = errors.New("unknown layout kind")

// ParseKind converts a layout name (tiling, floating, monocle) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tiling":
		return Tiling, nil
	case "floating":
		return Floating, nil
	case "monocle":
		return Monocle, nil
	default:
		return Tiling, fmt.Errorf("%w: %q (expected tiling, floating, or monocle)", ErrUnknownKind, s)
	}
}

func (k Kind) String() string {
	switch k {
	case Tiling:
		return "tiling"
	case Floating:
		return "floating"
	case Monocle:
		return "monocle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind as its lowercase name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Tiling, Floating, Monocle:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
}

// UnmarshalText decodes a lowercase layout name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Rect represents a window position and size
type Rect struct {
	X      int
	Y      int
	Width  uint32
	Height uint32
}

// Grid determines the grid dimensions for the given number of windows.
// Columns are the ceiling of the square root of n and rows the ceiling of
// n/cols, both computed on integers so boundary counts never drift.
func Grid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}

	cols = 1
	for cols*cols < n {
		cols++
	}
	rows = (n + cols - 1) / cols

	return rows, cols
}

// TileRects computes row-major grid positions for n windows on a
// width x height screen with gap pixels around and between cells.
func TileRects(n int, width, height, gap uint32) []Rect {
	if n <= 0 {
		return nil
	}

	if n == 1 {
		return []Rect{{
			X:      int(gap),
			Y:      int(gap),
			Width:  shrink(width, 2*uint64(gap)),
			Height: shrink(height, 2*uint64(gap)),
		}}
	}

	rows, cols := Grid(n)

	// Gaps: one before each column and one after the last.
	cellWidth := shrink(width, uint64(gap)*uint64(cols+1)) / uint32(cols)
	cellHeight := shrink(height, uint64(gap)*uint64(rows+1)) / uint32(rows)

	positions := make([]Rect, n)
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols

		positions[i] = Rect{
			X:      int(gap) + col*(int(cellWidth)+int(gap)),
			Y:      int(gap) + row*(int(cellHeight)+int(gap)),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}

	return positions
}

// StackRects stacks n windows over the whole screen. The gap does not apply.
func StackRects(n int, width, height uint32) []Rect {
	if n <= 0 {
		return nil
	}

	positions := make([]Rect, n)
	for i := range positions {
		positions[i] = Rect{X: 0, Y: 0, Width: width, Height: height}
	}
	return positions
}

// Arrange dispatches to the algorithm for kind. The boolean is false when
// the kind leaves existing geometry untouched (Floating).
func Arrange(kind Kind, n int, width, height, gap uint32) ([]Rect, bool) {
	switch kind {
	case Tiling:
		return TileRects(n, width, height, gap), true
	case Monocle:
		return StackRects(n, width, height), true
	default:
		return nil, false
	}
}

// shrink subtracts d from v, clamping at zero instead of wrapping. d is
// 64-bit so gap products cannot overflow before the comparison.
func shrink(v uint32, d uint64) uint32 {
	if d >= uint64(v) {
		return 0
	}
	return uint32(uint64(v) - d)
}
