package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Config holds the application configuration. The core only reads the screen
// dimensions and gap; everything else is passed through to hosts.
type Config struct {
	ScreenWidth         uint32            `yaml:"screen_width" toml:"screen_width" json:"screen_width"`
	ScreenHeight        uint32            `yaml:"screen_height" toml:"screen_height" json:"screen_height"`
	WindowGap           uint32            `yaml:"window_gap" toml:"window_gap" json:"window_gap"`
	AutoArrange         bool              `yaml:"auto_arrange" toml:"auto_arrange" json:"auto_arrange"`
	FocusFollowsMouse   bool              `yaml:"focus_follows_mouse" toml:"focus_follows_mouse" json:"focus_follows_mouse"`
	BorderWidth         uint32            `yaml:"border_width" toml:"border_width" json:"border_width"`
	BorderColorActive   string            `yaml:"border_color_active" toml:"border_color_active" json:"border_color_active"`
	BorderColorInactive string            `yaml:"border_color_inactive" toml:"border_color_inactive" json:"border_color_inactive"`
	KeyBindings         map[string]string `yaml:"keybindings" toml:"keybindings" json:"keybindings"`
	LogLevel            string            `yaml:"log_level,omitempty" toml:"log_level,omitempty" json:"log_level,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		ScreenWidth:         1920,
		ScreenHeight:        1080,
		WindowGap:           10,
		AutoArrange:         true,
		FocusFollowsMouse:   false,
		BorderWidth:         2,
		BorderColorActive:   "#0066cc",
		BorderColorInactive: "#666666",
		KeyBindings: map[string]string{
			"switch_workspace_1": "Super+1",
			"switch_workspace_2": "Super+2",
			"switch_workspace_3": "Super+3",
			"switch_workspace_4": "Super+4",
			"close_window":       "Super+q",
			"toggle_layout":      "Super+space",
			"focus_next":         "Super+j",
			"focus_prev":         "Super+k",
		},
		LogLevel: "info",
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	if c.KeyBindings != nil {
		cp.KeyBindings = make(map[string]string, len(c.KeyBindings))
		for action, accel := range c.KeyBindings {
			cp.KeyBindings[action] = accel
		}
	}
	return &cp
}

// ValidationError points at the offending config key.
type ValidationError struct {
	Path string
	File string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate performs strict validation of the configuration.
func (c *Config) Validate() error {
	if c.ScreenWidth == 0 {
		return &ValidationError{Path: "screen_width", Err: fmt.Errorf("screen_width must be > 0")}
	}
	if c.ScreenHeight == 0 {
		return &ValidationError{Path: "screen_height", Err: fmt.Errorf("screen_height must be > 0")}
	}
	if gap := 2 * uint64(c.WindowGap); gap >= uint64(c.ScreenWidth) || gap >= uint64(c.ScreenHeight) {
		return &ValidationError{Path: "window_gap", Err: fmt.Errorf("window_gap %d leaves no room on a %dx%d screen", c.WindowGap, c.ScreenWidth, c.ScreenHeight)}
	}
	if !hexColor.MatchString(c.BorderColorActive) {
		return &ValidationError{Path: "border_color_active", Err: fmt.Errorf("border_color_active must be #rrggbb, got %q", c.BorderColorActive)}
	}
	if !hexColor.MatchString(c.BorderColorInactive) {
		return &ValidationError{Path: "border_color_inactive", Err: fmt.Errorf("border_color_inactive must be #rrggbb, got %q", c.BorderColorInactive)}
	}
	for action, accel := range c.KeyBindings {
		if strings.TrimSpace(action) == "" {
			return &ValidationError{Path: "keybindings", Err: fmt.Errorf("keybindings contains an empty action name")}
		}
		if strings.TrimSpace(accel) == "" {
			return &ValidationError{Path: "keybindings." + action, Err: fmt.Errorf("accelerator must not be empty")}
		}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	return nil
}

// ParseLogLevel maps a config log level to slog. Empty means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be one of: debug, info, warning, error")
	}
}
