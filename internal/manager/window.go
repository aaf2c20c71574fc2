package manager

import (
	"fmt"
	"strings"
	"time"
)

// WindowState is the logical lifecycle state of a managed window.
type WindowState int

const (
	StateNormal WindowState = iota
	StateMinimized
	StateMaximized
	StateFullscreen
)

func (s WindowState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	case StateFullscreen:
		return "fullscreen"
	default:
		return fmt.Sprintf("WindowState(%d)", int(s))
	}
}

// ParseWindowState accepts the lowercase state names.
func ParseWindowState(s string) (WindowState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return StateNormal, nil
	case "minimized":
		return StateMinimized, nil
	case "maximized":
		return StateMaximized, nil
	case "fullscreen":
		return StateFullscreen, nil
	default:
		return StateNormal, fmt.Errorf("%w: unknown window state %q", ErrInvalidInput, s)
	}
}

func (s WindowState) MarshalText() ([]byte, error) {
	if s < StateNormal || s > StateFullscreen {
		return nil, fmt.Errorf("invalid window state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *WindowState) UnmarshalText(text []byte) error {
	parsed, err := ParseWindowState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Position is a window's top-left corner in screen coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window's width and height in pixels.
type Size struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

const (
	defaultWindowWidth  = 800
	defaultWindowHeight = 600
)

// ManagedWindow is the logical record of an application window. It is
// independent of any OS window.
type ManagedWindow struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	AppName     string      `json:"app_name"`
	WorkspaceID string      `json:"workspace_id"`
	Position    Position    `json:"position"`
	Size        Size        `json:"size"`
	State       WindowState `json:"state"`
	CreatedAt   time.Time   `json:"created_at"`
	LastFocused time.Time   `json:"last_focused"`

	seq uint64
}
