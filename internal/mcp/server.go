package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winctl/internal/manager"
)

const (
	ServerName    = "winctl"
	ServerVersion = "0.1.0"
)

// Server exposes a Manager as MCP tools over stdio.
type Server struct {
	mcpServer *mcpsdk.Server
	mgr       *manager.Manager
	logger    *slog.Logger
}

// NewServer creates an MCP server for mgr. A nil logger discards.
func NewServer(mgr *manager.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		mgr:    mgr,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_windows",
		Description: "List all managed (logical) windows in creation order with their workspace, position, size and lifecycle state.",
	}, s.handleGetWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_window",
		Description: "Create a managed window on the active workspace. It becomes the workspace focus and the workspace is re-arranged. Returns the new window id.",
	}, s.handleAddWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_window",
		Description: "Remove a managed window. Focus moves to the last remaining window of its workspace, which is then re-arranged.",
	}, s.handleRemoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a managed window within its workspace without changing the tiling order.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_state",
		Description: "Set the lifecycle state of a managed window (normal, minimized, maximized, fullscreen). Does not touch the OS window.",
	}, s.handleSetWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_workspace",
		Description: "Create an empty workspace with the given layout. Returns the workspace id.",
	}, s.handleCreateWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_workspace",
		Description: "Make a workspace active. New windows are added to the active workspace. Windows on other workspaces are not moved or hidden.",
	}, s.handleSwitchWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_workspaces",
		Description: "List all workspaces in creation order and the active workspace id.",
	}, s.handleGetWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_workspace_layout",
		Description: "Change a workspace layout (tiling, floating, monocle). Pass arrange=true to apply it immediately.",
	}, s.handleSetWorkspaceLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Recompute positions and sizes of every window on a workspace from its layout and the configured screen size and gap.",
	}, s.handleArrangeWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_config",
		Description: "Return the current configuration.",
	}, s.handleGetConfig)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_config",
		Description: "Replace the whole configuration. It is validated first; an invalid config is rejected and the current one kept.",
	}, s.handleUpdateConfig)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_system_windows",
		Description: "Enumerate real OS windows and refresh the cached mirror. Pass cached=true to read the mirror without querying the window system.",
	}, s.handleGetSystemWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_system_window",
		Description: "Move an OS window to screen coordinates, keeping its size.",
	}, s.handleMoveSystemWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_system_window",
		Description: "Resize an OS window, keeping its position.",
	}, s.handleResizeSystemWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_system_window_bounds",
		Description: "Move and resize an OS window in one call.",
	}, s.handleSetSystemWindowBounds)

	for _, op := range []struct {
		name string
		desc string
		fn   handleOp
	}{
		{"minimize_system_window", "Minimize (iconify) an OS window.", s.mgr.MinimizeSystemWindow},
		{"maximize_system_window", "Maximize an OS window.", s.mgr.MaximizeSystemWindow},
		{"restore_system_window", "Restore an OS window from minimized or maximized state and raise it.", s.mgr.RestoreSystemWindow},
		{"close_system_window", "Ask an OS window to close gracefully and drop it from the mirror.", s.mgr.CloseSystemWindow},
		{"focus_system_window", "Raise and focus an OS window.", s.mgr.FocusSystemWindow},
		{"hide_system_window", "Hide (unmap) an OS window without closing it.", s.mgr.HideSystemWindow},
		{"show_system_window", "Show a previously hidden OS window.", s.mgr.ShowSystemWindow},
	} {
		mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
			Name:        op.name,
			Description: op.desc,
		}, s.handleHandleOp(op.name, op.fn))
	}

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_system_windows",
		Description: "Tile OS windows in a grid across the configured screen. Every handle is attempted; failed handles are reported alongside the arranged ones.",
	}, s.handleArrangeSystemWindows)
}
