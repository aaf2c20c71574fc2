// Package command exposes manager operations as JSON request/response pairs
// for in-process hosts.
package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/layout"
	"github.com/1broseidon/winctl/internal/manager"
	"github.com/1broseidon/winctl/internal/platform"
)

// Error kinds carried in Response.Kind.
const (
	KindNotFound      = "not_found"
	KindInvalidInput  = "invalid_input"
	KindPlatformError = "platform_error"
	KindInternal      = "internal"
)

// ErrorKind classifies an error returned by a manager operation.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, manager.ErrNotFound):
		return KindNotFound
	case errors.Is(err, manager.ErrInvalidInput), errors.Is(err, layout.ErrUnknownKind):
		return KindInvalidInput
	case errors.Is(err, manager.ErrPlatform):
		return KindPlatformError
	default:
		return KindInternal
	}
}

type handlerFunc func(payload json.RawMessage) (any, error)

// Dispatcher routes requests to a Manager. It is safe for concurrent use;
// each request runs on the caller's goroutine.
type Dispatcher struct {
	mgr      *manager.Manager
	logger   *slog.Logger
	handlers map[Name]handlerFunc
}

// NewDispatcher creates a dispatcher for mgr. A nil logger discards.
func NewDispatcher(mgr *manager.Manager, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{mgr: mgr, logger: logger}
	d.handlers = map[Name]handlerFunc{
		GetWindows:         d.getWindows,
		AddWindow:          d.addWindow,
		RemoveWindow:       d.withWindowID(mgr.RemoveWindow),
		CloseWindow:        d.withWindowID(mgr.RemoveWindow),
		FocusWindow:        d.withWindowID(mgr.FocusWindow),
		MinimizeWindow:     d.withWindowID(mgr.MinimizeWindow),
		MaximizeWindow:     d.withWindowID(mgr.MaximizeWindow),
		CreateWorkspace:    d.createWorkspace,
		SwitchWorkspace:    d.withWorkspaceID(mgr.SwitchWorkspace),
		GetWorkspaces:      d.getWorkspaces,
		GetActiveWorkspace: d.getActiveWorkspace,
		ArrangeWindows:     d.withWorkspaceID(mgr.ArrangeWorkspace),
		SetWorkspaceLayout: d.setWorkspaceLayout,
		GetConfig:          d.getConfig,
		UpdateConfig:       d.updateConfig,

		GetSystemWindows:      d.getSystemWindows,
		MoveSystemWindow:      d.moveSystemWindow,
		ResizeSystemWindow:    d.resizeSystemWindow,
		SetSystemWindowBounds: d.setSystemWindowBounds,
		MinimizeSystemWindow:  d.withHandle(mgr.MinimizeSystemWindow),
		MaximizeSystemWindow:  d.withHandle(mgr.MaximizeSystemWindow),
		RestoreSystemWindow:   d.withHandle(mgr.RestoreSystemWindow),
		CloseSystemWindow:     d.withHandle(mgr.CloseSystemWindow),
		FocusSystemWindow:     d.withHandle(mgr.FocusSystemWindow),
		HideSystemWindow:      d.withHandle(mgr.HideSystemWindow),
		ShowSystemWindow:      d.withHandle(mgr.ShowSystemWindow),
		ArrangeSystemWindows:  d.arrangeSystemWindows,
	}
	return d
}

// Commands lists the supported command names, sorted.
func (d *Dispatcher) Commands() []Name {
	names := make([]Name, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Handle executes one request.
func (d *Dispatcher) Handle(req *Request) *Response {
	handler, ok := d.handlers[req.Command]
	if !ok {
		return NewErrorResponse(KindInvalidInput, fmt.Sprintf("Unknown command: %s", req.Command))
	}

	data, err := handler(req.Payload)
	if err != nil {
		d.logger.Debug("command failed", "command", string(req.Command), "error", err)
		return errorResponse(err)
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(KindInternal, err.Error())
	}
	return resp
}

// HandleJSON decodes a request, executes it and encodes the response.
func (d *Dispatcher) HandleJSON(data []byte) []byte {
	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(KindInvalidInput, fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = d.Handle(req)
	}

	out, err := resp.Marshal()
	if err != nil {
		out, _ = NewErrorResponse(KindInternal, err.Error()).Marshal()
	}
	return out
}

func errorResponse(err error) *Response {
	resp := NewErrorResponse(ErrorKind(err), err.Error())

	var aerr *manager.ArrangeError
	if errors.As(err, &aerr) {
		failures := FailureData{Failures: make([]HandleFailure, 0, len(aerr.Failures))}
		for _, f := range aerr.Failures {
			failures.Failures = append(failures.Failures, HandleFailure{Handle: f.Handle, Error: f.Err.Error()})
		}
		if data, merr := json.Marshal(failures); merr == nil {
			resp.Data = data
		}
	}
	return resp
}

// decode unmarshals payload strictly into T. An empty payload yields the
// zero value.
func decode[T any](payload json.RawMessage) (T, error) {
	var v T
	if len(bytes.TrimSpace(payload)) == 0 {
		return v, nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("%w: invalid payload: %v", manager.ErrInvalidInput, err)
	}
	return v, nil
}

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", manager.ErrInvalidInput, field)
	}
	return nil
}

func parseLayout(name string) (layout.Kind, error) {
	kind, err := layout.ParseKind(name)
	if err != nil {
		return kind, fmt.Errorf("%w: %v", manager.ErrInvalidInput, err)
	}
	return kind, nil
}

func (d *Dispatcher) getWindows(json.RawMessage) (any, error) {
	return d.mgr.Windows(), nil
}

func (d *Dispatcher) addWindow(payload json.RawMessage) (any, error) {
	p, err := decode[AddWindowPayload](payload)
	if err != nil {
		return nil, err
	}
	return WindowIDData{WindowID: d.mgr.AddWindow(p.Title, p.AppName)}, nil
}

func (d *Dispatcher) withWindowID(op func(string) error) handlerFunc {
	return func(payload json.RawMessage) (any, error) {
		p, err := decode[WindowIDPayload](payload)
		if err != nil {
			return nil, err
		}
		if err := required("window_id", p.WindowID); err != nil {
			return nil, err
		}
		return nil, op(p.WindowID)
	}
}

func (d *Dispatcher) withWorkspaceID(op func(string) error) handlerFunc {
	return func(payload json.RawMessage) (any, error) {
		p, err := decode[WorkspaceIDPayload](payload)
		if err != nil {
			return nil, err
		}
		if err := required("workspace_id", p.WorkspaceID); err != nil {
			return nil, err
		}
		return nil, op(p.WorkspaceID)
	}
}

func (d *Dispatcher) createWorkspace(payload json.RawMessage) (any, error) {
	p, err := decode[CreateWorkspacePayload](payload)
	if err != nil {
		return nil, err
	}
	kind, err := parseLayout(p.Layout)
	if err != nil {
		return nil, err
	}
	return WorkspaceIDData{WorkspaceID: d.mgr.CreateWorkspace(p.Name, kind)}, nil
}

func (d *Dispatcher) getWorkspaces(json.RawMessage) (any, error) {
	return d.mgr.Workspaces(), nil
}

func (d *Dispatcher) getActiveWorkspace(json.RawMessage) (any, error) {
	return WorkspaceIDData{WorkspaceID: d.mgr.ActiveWorkspace()}, nil
}

func (d *Dispatcher) setWorkspaceLayout(payload json.RawMessage) (any, error) {
	p, err := decode[SetWorkspaceLayoutPayload](payload)
	if err != nil {
		return nil, err
	}
	if err := required("workspace_id", p.WorkspaceID); err != nil {
		return nil, err
	}
	kind, err := parseLayout(p.Layout)
	if err != nil {
		return nil, err
	}
	return nil, d.mgr.SetWorkspaceLayout(p.WorkspaceID, kind)
}

func (d *Dispatcher) getConfig(json.RawMessage) (any, error) {
	return d.mgr.Config(), nil
}

// updateConfig replaces the whole config; omitted fields become zero and are
// rejected by validation where that matters.
func (d *Dispatcher) updateConfig(payload json.RawMessage) (any, error) {
	cfg, err := decode[config.Config](payload)
	if err != nil {
		return nil, err
	}
	return nil, d.mgr.UpdateConfig(cfg)
}

func (d *Dispatcher) getSystemWindows(json.RawMessage) (any, error) {
	return d.mgr.GetSystemWindows()
}

func (d *Dispatcher) withHandle(op func(platform.Handle) error) handlerFunc {
	return func(payload json.RawMessage) (any, error) {
		p, err := decode[HandlePayload](payload)
		if err != nil {
			return nil, err
		}
		return nil, op(p.Handle)
	}
}

func (d *Dispatcher) moveSystemWindow(payload json.RawMessage) (any, error) {
	p, err := decode[MovePayload](payload)
	if err != nil {
		return nil, err
	}
	return nil, d.mgr.MoveSystemWindow(p.Handle, p.X, p.Y)
}

func (d *Dispatcher) resizeSystemWindow(payload json.RawMessage) (any, error) {
	p, err := decode[ResizePayload](payload)
	if err != nil {
		return nil, err
	}
	return nil, d.mgr.ResizeSystemWindow(p.Handle, p.Width, p.Height)
}

func (d *Dispatcher) setSystemWindowBounds(payload json.RawMessage) (any, error) {
	p, err := decode[BoundsPayload](payload)
	if err != nil {
		return nil, err
	}
	return nil, d.mgr.SetSystemWindowBounds(p.Handle, p.X, p.Y, p.Width, p.Height)
}

func (d *Dispatcher) arrangeSystemWindows(payload json.RawMessage) (any, error) {
	p, err := decode[ArrangeSystemWindowsPayload](payload)
	if err != nil {
		return nil, err
	}
	return nil, d.mgr.ArrangeSystemWindows(p.Handles)
}
