package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winctl/internal/layout"
	"github.com/1broseidon/winctl/internal/manager"
	"github.com/1broseidon/winctl/internal/platform"
)

type handleOp func(platform.Handle) error

func parseLayout(name string) (layout.Kind, error) {
	kind, err := layout.ParseKind(name)
	if err != nil {
		return kind, fmt.Errorf("%w: %v", manager.ErrInvalidInput, err)
	}
	return kind, nil
}

func requireID(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", manager.ErrInvalidInput, field)
	}
	return nil
}

func (s *Server) handleGetWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows := s.mgr.Windows()
	out := ListWindowsOutput{Windows: make([]WindowView, 0, len(windows))}
	for _, w := range windows {
		out.Windows = append(out.Windows, windowView(w))
	}
	return nil, out, nil
}

func (s *Server) handleAddWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args AddWindowInput) (*mcpsdk.CallToolResult, AddWindowOutput, error) {
	id := s.mgr.AddWindow(args.Title, args.AppName)
	s.logger.Info("mcp add_window", "window_id", id, "title", args.Title)
	return nil, AddWindowOutput{WindowID: id}, nil
}

func (s *Server) handleRemoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := requireID("window_id", args.WindowID); err != nil {
		return nil, OKOutput{}, err
	}
	if err := s.mgr.RemoveWindow(args.WindowID); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := requireID("window_id", args.WindowID); err != nil {
		return nil, OKOutput{}, err
	}
	if err := s.mgr.FocusWindow(args.WindowID); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleSetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowStateInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	state, err := manager.ParseWindowState(args.State)
	if err != nil {
		return nil, OKOutput{}, err
	}
	if err := s.mgr.SetWindowState(args.WindowID, state); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleCreateWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateWorkspaceInput) (*mcpsdk.CallToolResult, WorkspaceOutput, error) {
	kind, err := parseLayout(args.Layout)
	if err != nil {
		return nil, WorkspaceOutput{}, err
	}
	id := s.mgr.CreateWorkspace(args.Name, kind)
	s.logger.Info("mcp create_workspace", "workspace_id", id, "name", args.Name, "layout", kind.String())
	return nil, WorkspaceOutput{WorkspaceID: id}, nil
}

func (s *Server) handleSwitchWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceInput) (*mcpsdk.CallToolResult, WorkspaceOutput, error) {
	if err := requireID("workspace_id", args.WorkspaceID); err != nil {
		return nil, WorkspaceOutput{}, err
	}
	if err := s.mgr.SwitchWorkspace(args.WorkspaceID); err != nil {
		return nil, WorkspaceOutput{}, err
	}
	return nil, WorkspaceOutput{WorkspaceID: args.WorkspaceID}, nil
}

func (s *Server) handleGetWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	workspaces := s.mgr.Workspaces()
	out := ListWorkspacesOutput{
		Workspaces: make([]WorkspaceView, 0, len(workspaces)),
		Active:     s.mgr.ActiveWorkspace(),
	}
	for _, ws := range workspaces {
		out.Workspaces = append(out.Workspaces, workspaceView(ws))
	}
	return nil, out, nil
}

func (s *Server) handleSetWorkspaceLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLayoutInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := requireID("workspace_id", args.WorkspaceID); err != nil {
		return nil, OKOutput{}, err
	}
	kind, err := parseLayout(args.Layout)
	if err != nil {
		return nil, OKOutput{}, err
	}
	if err := s.mgr.SetWorkspaceLayout(args.WorkspaceID, kind); err != nil {
		return nil, OKOutput{}, err
	}
	if args.Arrange {
		if err := s.mgr.ArrangeWorkspace(args.WorkspaceID); err != nil {
			return nil, OKOutput{}, err
		}
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleArrangeWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	id := args.WorkspaceID
	if id == "" {
		id = s.mgr.ActiveWorkspace()
	}
	if err := s.mgr.ArrangeWorkspace(id); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleGetConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ConfigOutput, error) {
	return nil, ConfigOutput{Config: s.mgr.Config()}, nil
}

func (s *Server) handleUpdateConfig(_ context.Context, _ *mcpsdk.CallToolRequest, args UpdateConfigInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.mgr.UpdateConfig(args.Config); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleGetSystemWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args SystemWindowsInput) (*mcpsdk.CallToolResult, SystemWindowsOutput, error) {
	if args.Cached {
		return nil, SystemWindowsOutput{Windows: s.mgr.CachedSystemWindows()}, nil
	}
	windows, err := s.mgr.GetSystemWindows()
	if err != nil {
		return nil, SystemWindowsOutput{}, err
	}
	if windows == nil {
		windows = []platform.SystemWindow{}
	}
	return nil, SystemWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleMoveSystemWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.mgr.MoveSystemWindow(args.Handle, args.X, args.Y); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleResizeSystemWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.mgr.ResizeSystemWindow(args.Handle, args.Width, args.Height); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleSetSystemWindowBounds(_ context.Context, _ *mcpsdk.CallToolRequest, args BoundsInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.mgr.SetSystemWindowBounds(args.Handle, args.X, args.Y, args.Width, args.Height); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleHandleOp(name string, op handleOp) func(context.Context, *mcpsdk.CallToolRequest, HandleInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, args HandleInput) (*mcpsdk.CallToolResult, OKOutput, error) {
		if err := op(args.Handle); err != nil {
			s.logger.Warn("mcp system window op failed", "tool", name, "handle", args.Handle.String(), "error", err)
			return nil, OKOutput{}, err
		}
		return nil, OKOutput{OK: true}, nil
	}
}

func (s *Server) handleArrangeSystemWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeSystemInput) (*mcpsdk.CallToolResult, ArrangeSystemOutput, error) {
	handles := args.Handles
	if len(handles) == 0 {
		windows, err := s.mgr.GetSystemWindows()
		if err != nil {
			return nil, ArrangeSystemOutput{}, err
		}
		for _, w := range windows {
			if w.IsVisible && !w.IsMinimized {
				handles = append(handles, w.Handle)
			}
		}
	}

	out := ArrangeSystemOutput{Arranged: make([]platform.Handle, 0, len(handles))}

	err := s.mgr.ArrangeSystemWindows(handles)
	failed := make(map[platform.Handle]bool)
	var aerr *manager.ArrangeError
	if errors.As(err, &aerr) {
		for _, f := range aerr.Failures {
			failed[f.Handle] = true
			out.Failed = append(out.Failed, FailedHandle{Handle: f.Handle, Error: f.Err.Error()})
		}
	} else if err != nil {
		return nil, ArrangeSystemOutput{}, err
	}

	for _, h := range handles {
		if !failed[h] {
			out.Arranged = append(out.Arranged, h)
		}
	}
	return nil, out, nil
}
