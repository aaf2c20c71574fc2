package command

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/1broseidon/winctl/internal/platform"
)

// Name identifies a host command.
type Name string

const (
	GetWindows         Name = "get_windows"
	AddWindow          Name = "add_window"
	RemoveWindow       Name = "remove_window"
	CloseWindow        Name = "close_window"
	FocusWindow        Name = "focus_window"
	MinimizeWindow     Name = "minimize_window"
	MaximizeWindow     Name = "maximize_window"
	CreateWorkspace    Name = "create_workspace"
	SwitchWorkspace    Name = "switch_workspace"
	GetWorkspaces      Name = "get_workspaces"
	GetActiveWorkspace Name = "get_active_workspace"
	ArrangeWindows     Name = "arrange_windows"
	SetWorkspaceLayout Name = "set_workspace_layout"
	GetConfig          Name = "get_config"
	UpdateConfig       Name = "update_config"

	GetSystemWindows      Name = "get_system_windows"
	MoveSystemWindow      Name = "move_system_window"
	ResizeSystemWindow    Name = "resize_system_window"
	SetSystemWindowBounds Name = "set_system_window_bounds"
	MinimizeSystemWindow  Name = "minimize_system_window"
	MaximizeSystemWindow  Name = "maximize_system_window"
	RestoreSystemWindow   Name = "restore_system_window"
	CloseSystemWindow     Name = "close_system_window"
	FocusSystemWindow     Name = "focus_system_window"
	HideSystemWindow      Name = "hide_system_window"
	ShowSystemWindow      Name = "show_system_window"
	ArrangeSystemWindows  Name = "arrange_system_windows"
)

var names = []Name{
	GetWindows, AddWindow, RemoveWindow, CloseWindow, FocusWindow,
	MinimizeWindow, MaximizeWindow, CreateWorkspace, SwitchWorkspace,
	GetWorkspaces, GetActiveWorkspace, ArrangeWindows, SetWorkspaceLayout,
	GetConfig, UpdateConfig,
	GetSystemWindows, MoveSystemWindow, ResizeSystemWindow,
	SetSystemWindowBounds, MinimizeSystemWindow, MaximizeSystemWindow,
	RestoreSystemWindow, CloseSystemWindow, FocusSystemWindow,
	HideSystemWindow, ShowSystemWindow, ArrangeSystemWindows,
}

// Names lists every command name, sorted. It needs no manager.
func Names() []Name {
	out := slices.Clone(names)
	slices.Sort(out)
	return out
}

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request is one host command with its JSON-encoded parameters.
type Request struct {
	Command Name            `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the result of a Request.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Kind   string          `json:"kind,omitempty"`
}

type AddWindowPayload struct {
	Title   string `json:"title"`
	AppName string `json:"app_name"`
}

type WindowIDPayload struct {
	WindowID string `json:"window_id"`
}

type CreateWorkspacePayload struct {
	Name   string `json:"name"`
	Layout string `json:"layout"`
}

type WorkspaceIDPayload struct {
	WorkspaceID string `json:"workspace_id"`
}

type SetWorkspaceLayoutPayload struct {
	WorkspaceID string `json:"workspace_id"`
	Layout      string `json:"layout"`
}

type HandlePayload struct {
	Handle platform.Handle `json:"handle"`
}

type MovePayload struct {
	Handle platform.Handle `json:"handle"`
	X      int             `json:"x"`
	Y      int             `json:"y"`
}

type ResizePayload struct {
	Handle platform.Handle `json:"handle"`
	Width  uint32          `json:"width"`
	Height uint32          `json:"height"`
}

type BoundsPayload struct {
	Handle platform.Handle `json:"handle"`
	X      int             `json:"x"`
	Y      int             `json:"y"`
	Width  uint32          `json:"width"`
	Height uint32          `json:"height"`
}

type ArrangeSystemWindowsPayload struct {
	Handles []platform.Handle `json:"handles"`
}

type WindowIDData struct {
	WindowID string `json:"window_id"`
}

type WorkspaceIDData struct {
	WorkspaceID string `json:"workspace_id"`
}

// FailureData lists per-handle failures of arrange_system_windows.
type FailureData struct {
	Failures []HandleFailure `json:"failures"`
}

type HandleFailure struct {
	Handle platform.Handle `json:"handle"`
	Error  string          `json:"error"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message and kind.
func NewErrorResponse(kind, errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
		Kind:   kind,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// OK reports whether the command succeeded.
func (r *Response) OK() bool {
	return r.Status == StatusOK
}
