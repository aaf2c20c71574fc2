package mcp

import (
	"time"

	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/manager"
	"github.com/1broseidon/winctl/internal/platform"
	"github.com/1broseidon/winctl/internal/workspace"
)

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// OKOutput is returned by tools whose only result is success.
type OKOutput struct {
	OK bool `json:"ok"`
}

// AddWindowInput is the input for the add_window tool.
type AddWindowInput struct {
	Title   string `json:"title" jsonschema:"Window title"`
	AppName string `json:"app_name" jsonschema:"Owning application name"`
}

// AddWindowOutput is the output for the add_window tool.
type AddWindowOutput struct {
	WindowID string `json:"window_id"`
}

// WindowInput names a managed window.
type WindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Managed window id returned by add_window"`
}

// SetWindowStateInput is the input for the set_window_state tool.
type SetWindowStateInput struct {
	WindowID string `json:"window_id" jsonschema:"Managed window id"`
	State    string `json:"state" jsonschema:"One of normal, minimized, maximized, fullscreen"`
}

// WindowView is a managed window with schema-friendly field types.
type WindowView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	AppName     string `json:"app_name"`
	WorkspaceID string `json:"workspace_id"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       uint32 `json:"width"`
	Height      uint32 `json:"height"`
	State       string `json:"state"`
	CreatedAt   string `json:"created_at"`
	LastFocused string `json:"last_focused"`
}

func windowView(w manager.ManagedWindow) WindowView {
	return WindowView{
		ID:          w.ID,
		Title:       w.Title,
		AppName:     w.AppName,
		WorkspaceID: w.WorkspaceID,
		X:           w.Position.X,
		Y:           w.Position.Y,
		Width:       w.Size.Width,
		Height:      w.Size.Height,
		State:       w.State.String(),
		CreatedAt:   w.CreatedAt.Format(time.RFC3339Nano),
		LastFocused: w.LastFocused.Format(time.RFC3339Nano),
	}
}

// ListWindowsOutput is the output for the get_windows tool.
type ListWindowsOutput struct {
	Windows []WindowView `json:"windows"`
}

// CreateWorkspaceInput is the input for the create_workspace tool.
type CreateWorkspaceInput struct {
	Name   string `json:"name" jsonschema:"Display name"`
	Layout string `json:"layout" jsonschema:"One of tiling, floating, monocle"`
}

// WorkspaceInput names a workspace.
type WorkspaceInput struct {
	WorkspaceID string `json:"workspace_id" jsonschema:"Workspace id"`
}

// WorkspaceOutput carries a workspace id.
type WorkspaceOutput struct {
	WorkspaceID string `json:"workspace_id"`
}

// SetLayoutInput is the input for the set_workspace_layout tool.
type SetLayoutInput struct {
	WorkspaceID string `json:"workspace_id" jsonschema:"Workspace id"`
	Layout      string `json:"layout" jsonschema:"One of tiling, floating, monocle"`
	Arrange     bool   `json:"arrange,omitempty" jsonschema:"Re-arrange the workspace after changing the layout"`
}

// WorkspaceView is a workspace with its layout as a name.
type WorkspaceView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Layout        string   `json:"layout"`
	Windows       []string `json:"windows"`
	FocusedWindow string   `json:"focused_window,omitempty"`
}

func workspaceView(ws workspace.Workspace) WorkspaceView {
	return WorkspaceView{
		ID:            ws.ID,
		Name:          ws.Name,
		Layout:        ws.Layout.String(),
		Windows:       ws.Windows,
		FocusedWindow: ws.FocusedWindow,
	}
}

// ListWorkspacesOutput is the output for the get_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []WorkspaceView `json:"workspaces"`
	Active     string          `json:"active"`
}

// ConfigOutput is the output for the get_config tool.
type ConfigOutput struct {
	Config config.Config `json:"config"`
}

// UpdateConfigInput replaces the whole configuration.
type UpdateConfigInput struct {
	Config config.Config `json:"config" jsonschema:"Complete configuration; omitted fields become zero"`
}

// SystemWindowsInput is the input for the get_system_windows tool.
type SystemWindowsInput struct {
	Cached bool `json:"cached,omitempty" jsonschema:"Return the last enumeration without querying the window system"`
}

// SystemWindowsOutput is the output for the get_system_windows tool.
type SystemWindowsOutput struct {
	Windows []platform.SystemWindow `json:"windows"`
}

// HandleInput names an OS window.
type HandleInput struct {
	Handle platform.Handle `json:"handle" jsonschema:"OS window handle from get_system_windows"`
}

// MoveInput is the input for the move_system_window tool.
type MoveInput struct {
	Handle platform.Handle `json:"handle" jsonschema:"OS window handle"`
	X      int             `json:"x" jsonschema:"Left edge in screen coordinates"`
	Y      int             `json:"y" jsonschema:"Top edge in screen coordinates"`
}

// ResizeInput is the input for the resize_system_window tool.
type ResizeInput struct {
	Handle platform.Handle `json:"handle" jsonschema:"OS window handle"`
	Width  uint32          `json:"width" jsonschema:"Width in pixels"`
	Height uint32          `json:"height" jsonschema:"Height in pixels"`
}

// BoundsInput is the input for the set_system_window_bounds tool.
type BoundsInput struct {
	Handle platform.Handle `json:"handle" jsonschema:"OS window handle"`
	X      int             `json:"x" jsonschema:"Left edge in screen coordinates"`
	Y      int             `json:"y" jsonschema:"Top edge in screen coordinates"`
	Width  uint32          `json:"width" jsonschema:"Width in pixels"`
	Height uint32          `json:"height" jsonschema:"Height in pixels"`
}

// ArrangeSystemInput is the input for the arrange_system_windows tool.
type ArrangeSystemInput struct {
	Handles []platform.Handle `json:"handles,omitempty" jsonschema:"Handles in tiling order (default: every visible window from a fresh enumeration)"`
}

// ArrangeSystemOutput reports which handles were placed.
type ArrangeSystemOutput struct {
	Arranged []platform.Handle `json:"arranged"`
	Failed   []FailedHandle    `json:"failed,omitempty"`
}

// FailedHandle is one handle arrange_system_windows could not place.
type FailedHandle struct {
	Handle platform.Handle `json:"handle"`
	Error  string          `json:"error"`
}
