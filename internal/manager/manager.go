// Package manager owns the logical window and workspace model and mirrors
// the real OS windows reported by a platform.Driver.
//
// Locking: Manager guards five independent regions (windows, workspaces,
// active workspace, config, system window mirror), each with its own
// RWMutex. A goroutine never holds two regions at once. An operation that
// needs several regions takes one, copies what it needs, releases it, and
// only then takes the next. Driver calls are made while holding no region,
// so a slow driver only blocks its own caller.
package manager

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/layout"
	"github.com/1broseidon/winctl/internal/platform"
	"github.com/1broseidon/winctl/internal/workspace"
)

// DefaultWorkspaceName names the workspace seeded by New.
const DefaultWorkspaceName = "Default"

// Manager is the window/workspace orchestrator. It is safe for concurrent
// use.
type Manager struct {
	driver platform.Driver
	logger *slog.Logger
	now    func() time.Time
	seq    atomic.Uint64

	windowsMu sync.RWMutex
	windows   map[string]*ManagedWindow
	arranged  map[string]uint64 // workspace id -> last applied arrangement gen

	arrangeGen atomic.Uint64

	workspacesMu sync.RWMutex
	workspaces   map[string]*workspace.Workspace
	order        []string

	activeMu sync.RWMutex
	active   string

	configMu sync.RWMutex
	config   *config.Config

	mirrorMu sync.RWMutex
	mirror   map[platform.Handle]platform.SystemWindow
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig sets the initial configuration. The manager keeps its own copy.
func WithConfig(cfg *config.Config) Option {
	return func(m *Manager) {
		if cfg != nil {
			m.config = cfg.Clone()
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides time.Now for window timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a manager with one empty tiling workspace named "Default",
// which is active.
func New(driver platform.Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:     driver,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
		windows:    make(map[string]*ManagedWindow),
		arranged:   make(map[string]uint64),
		workspaces: make(map[string]*workspace.Workspace),
		config:     config.DefaultConfig(),
		mirror:     make(map[platform.Handle]platform.SystemWindow),
	}
	for _, opt := range opts {
		opt(m)
	}

	ws := workspace.New(DefaultWorkspaceName, layout.Tiling)
	m.workspaces[ws.ID] = ws
	m.order = append(m.order, ws.ID)
	m.active = ws.ID

	return m
}

// AddWindow creates a window on the active workspace, focuses it and
// re-arranges the workspace. It returns the new window id.
func (m *Manager) AddWindow(title, appName string) string {
	wsID := m.ActiveWorkspace()
	now := m.now()

	win := &ManagedWindow{
		ID:          uuid.NewString(),
		Title:       title,
		AppName:     appName,
		WorkspaceID: wsID,
		Size:        Size{Width: defaultWindowWidth, Height: defaultWindowHeight},
		State:       StateNormal,
		CreatedAt:   now,
		LastFocused: now,
		seq:         m.seq.Add(1),
	}

	m.windowsMu.Lock()
	m.windows[win.ID] = win
	m.windowsMu.Unlock()

	m.workspacesMu.Lock()
	ws, ok := m.workspaces[wsID]
	if ok {
		ws.AddWindow(win.ID)
	}
	m.workspacesMu.Unlock()

	if !ok {
		panic(fmt.Sprintf("manager: active workspace %q does not exist", wsID))
	}

	if err := m.ArrangeWorkspace(wsID); err != nil {
		m.logger.Error("arrange after add failed", "workspace_id", wsID, "error", err)
	}

	m.logger.Debug("window added", "window_id", win.ID, "workspace_id", wsID)
	return win.ID
}

// RemoveWindow deletes a window, reassigns its workspace's focus and
// re-arranges that workspace.
func (m *Manager) RemoveWindow(id string) error {
	m.windowsMu.Lock()
	win, ok := m.windows[id]
	if ok {
		delete(m.windows, id)
	}
	m.windowsMu.Unlock()

	if !ok {
		return notFound("window", id)
	}

	m.workspacesMu.Lock()
	ws, ok := m.workspaces[win.WorkspaceID]
	if ok {
		ws.RemoveWindow(id)
	}
	m.workspacesMu.Unlock()

	if ok {
		if err := m.ArrangeWorkspace(win.WorkspaceID); err != nil {
			return err
		}
	}

	m.logger.Debug("window removed", "window_id", id, "workspace_id", win.WorkspaceID)
	return nil
}

// FocusWindow stamps the window's last-focused time and makes it the focus
// of its workspace. The window order is unchanged.
func (m *Manager) FocusWindow(id string) error {
	m.windowsMu.Lock()
	win, ok := m.windows[id]
	var wsID string
	if ok {
		win.LastFocused = m.now()
		wsID = win.WorkspaceID
	}
	m.windowsMu.Unlock()

	if !ok {
		return notFound("window", id)
	}

	m.workspacesMu.Lock()
	if ws, ok := m.workspaces[wsID]; ok {
		ws.FocusWindow(id)
	}
	m.workspacesMu.Unlock()

	return nil
}

// SetWindowState sets the logical lifecycle state. No driver call is made.
func (m *Manager) SetWindowState(id string, state WindowState) error {
	if state < StateNormal || state > StateFullscreen {
		return fmt.Errorf("%w: window state %d", ErrInvalidInput, int(state))
	}

	m.windowsMu.Lock()
	defer m.windowsMu.Unlock()

	win, ok := m.windows[id]
	if !ok {
		return notFound("window", id)
	}
	win.State = state
	return nil
}

func (m *Manager) MinimizeWindow(id string) error {
	return m.SetWindowState(id, StateMinimized)
}

func (m *Manager) MaximizeWindow(id string) error {
	return m.SetWindowState(id, StateMaximized)
}

// CreateWorkspace adds an empty, unfocused workspace and returns its id.
func (m *Manager) CreateWorkspace(name string, kind layout.Kind) string {
	ws := workspace.New(name, kind)

	m.workspacesMu.Lock()
	m.workspaces[ws.ID] = ws
	m.order = append(m.order, ws.ID)
	m.workspacesMu.Unlock()

	m.logger.Debug("workspace created", "workspace_id", ws.ID, "name", name, "layout", kind.String())
	return ws.ID
}

// SwitchWorkspace moves the active pointer. Windows on other workspaces are
// not touched.
func (m *Manager) SwitchWorkspace(id string) error {
	if !m.hasWorkspace(id) {
		return notFound("workspace", id)
	}

	m.activeMu.Lock()
	m.active = id
	m.activeMu.Unlock()

	return nil
}

// SetWorkspaceLayout replaces a workspace's layout kind. Call
// ArrangeWorkspace to apply it.
func (m *Manager) SetWorkspaceLayout(id string, kind layout.Kind) error {
	m.workspacesMu.Lock()
	defer m.workspacesMu.Unlock()

	ws, ok := m.workspaces[id]
	if !ok {
		return notFound("workspace", id)
	}
	ws.SetLayout(kind)
	return nil
}

// ArrangeWorkspace recomputes positions for every window on the workspace
// from its layout and the configured screen size and gap.
func (m *Manager) ArrangeWorkspace(id string) error {
	snap, ok := m.arrangeSnapshot(id)
	if !ok {
		return notFound("workspace", id)
	}

	m.configMu.RLock()
	width, height, gap := m.config.ScreenWidth, m.config.ScreenHeight, m.config.WindowGap
	m.configMu.RUnlock()

	rects, _ := layout.Arrange(snap.kind, len(snap.ids), width, height, gap)
	if !m.applyArrangement(id, snap, rects) {
		m.logger.Debug("stale arrangement dropped", "workspace_id", id)
	}
	return nil
}

// arrangement is a workspace's window order and layout as read at gen.
type arrangement struct {
	gen  uint64
	ids  []string
	kind layout.Kind
}

func (m *Manager) arrangeSnapshot(id string) (arrangement, bool) {
	m.workspacesMu.RLock()
	defer m.workspacesMu.RUnlock()

	ws, ok := m.workspaces[id]
	if !ok {
		return arrangement{}, false
	}
	// Taken under the workspace lock: a higher gen never saw older state.
	return arrangement{
		gen:  m.arrangeGen.Add(1),
		ids:  slices.Clone(ws.Windows),
		kind: ws.Layout,
	}, true
}

// applyArrangement writes rects to the snapshot's windows unless a newer
// snapshot of the same workspace was applied first. A nil rects (floating)
// writes nothing but still supersedes older snapshots.
func (m *Manager) applyArrangement(id string, snap arrangement, rects []layout.Rect) bool {
	m.windowsMu.Lock()
	defer m.windowsMu.Unlock()

	if snap.gen < m.arranged[id] {
		return false
	}
	m.arranged[id] = snap.gen

	for i, wid := range snap.ids {
		if i >= len(rects) {
			break
		}
		// Removed since the workspace was read.
		win, ok := m.windows[wid]
		if !ok {
			continue
		}
		win.Position = Position{X: rects[i].X, Y: rects[i].Y}
		win.Size = Size{Width: rects[i].Width, Height: rects[i].Height}
	}
	return true
}

// Windows returns a snapshot of all managed windows in creation order.
func (m *Manager) Windows() []ManagedWindow {
	m.windowsMu.RLock()
	out := make([]ManagedWindow, 0, len(m.windows))
	for _, win := range m.windows {
		out = append(out, *win)
	}
	m.windowsMu.RUnlock()

	slices.SortFunc(out, func(a, b ManagedWindow) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

// Window returns a snapshot of one managed window.
func (m *Manager) Window(id string) (ManagedWindow, bool) {
	m.windowsMu.RLock()
	defer m.windowsMu.RUnlock()

	win, ok := m.windows[id]
	if !ok {
		return ManagedWindow{}, false
	}
	return *win, true
}

// WorkspaceWindows returns the windows of a workspace in tiling order. An
// unknown workspace yields an empty list.
func (m *Manager) WorkspaceWindows(id string) []ManagedWindow {
	m.workspacesMu.RLock()
	var ids []string
	if ws, ok := m.workspaces[id]; ok {
		ids = slices.Clone(ws.Windows)
	}
	m.workspacesMu.RUnlock()

	m.windowsMu.RLock()
	defer m.windowsMu.RUnlock()

	out := make([]ManagedWindow, 0, len(ids))
	for _, wid := range ids {
		if win, ok := m.windows[wid]; ok {
			out = append(out, *win)
		}
	}
	return out
}

// Workspaces returns snapshots of all workspaces in creation order.
func (m *Manager) Workspaces() []workspace.Workspace {
	m.workspacesMu.RLock()
	defer m.workspacesMu.RUnlock()

	out := make([]workspace.Workspace, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.workspaces[id].Clone())
	}
	return out
}

// Workspace returns a snapshot of one workspace.
func (m *Manager) Workspace(id string) (workspace.Workspace, bool) {
	m.workspacesMu.RLock()
	defer m.workspacesMu.RUnlock()

	ws, ok := m.workspaces[id]
	if !ok {
		return workspace.Workspace{}, false
	}
	return ws.Clone(), true
}

// ActiveWorkspace returns the active workspace id.
func (m *Manager) ActiveWorkspace() string {
	m.activeMu.RLock()
	defer m.activeMu.RUnlock()
	return m.active
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() config.Config {
	m.configMu.RLock()
	defer m.configMu.RUnlock()
	return *m.config.Clone()
}

// UpdateConfig replaces the configuration wholesale. Existing window
// geometry is not recomputed until the next arrangement.
func (m *Manager) UpdateConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m.configMu.Lock()
	m.config = cfg.Clone()
	m.configMu.Unlock()

	m.logger.Info("config updated",
		"screen_width", cfg.ScreenWidth,
		"screen_height", cfg.ScreenHeight,
		"window_gap", cfg.WindowGap,
	)
	return nil
}

func (m *Manager) hasWorkspace(id string) bool {
	m.workspacesMu.RLock()
	defer m.workspacesMu.RUnlock()
	_, ok := m.workspaces[id]
	return ok
}
