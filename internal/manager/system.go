package manager

import (
	"cmp"
	"slices"

	"github.com/1broseidon/winctl/internal/layout"
	"github.com/1broseidon/winctl/internal/platform"
)

// GetSystemWindows enumerates all OS windows and replaces the mirror with
// the result. Handles missing from the enumeration are dropped.
func (m *Manager) GetSystemWindows() ([]platform.SystemWindow, error) {
	windows, err := m.driver.Windows()
	if err != nil {
		return nil, &PlatformError{Op: "windows", Err: err}
	}

	mirror := make(map[platform.Handle]platform.SystemWindow, len(windows))
	for _, w := range windows {
		mirror[w.Handle] = w
	}

	m.mirrorMu.Lock()
	m.mirror = mirror
	m.mirrorMu.Unlock()

	return windows, nil
}

// CachedSystemWindows returns the mirror without querying the driver,
// ordered by handle.
func (m *Manager) CachedSystemWindows() []platform.SystemWindow {
	m.mirrorMu.RLock()
	out := make([]platform.SystemWindow, 0, len(m.mirror))
	for _, w := range m.mirror {
		out = append(out, w)
	}
	m.mirrorMu.RUnlock()

	slices.SortFunc(out, func(a, b platform.SystemWindow) int {
		return cmp.Compare(a.Handle, b.Handle)
	})
	return out
}

// CachedSystemWindow returns one mirror entry.
func (m *Manager) CachedSystemWindow(h platform.Handle) (platform.SystemWindow, bool) {
	m.mirrorMu.RLock()
	defer m.mirrorMu.RUnlock()
	w, ok := m.mirror[h]
	return w, ok
}

func (m *Manager) MoveSystemWindow(h platform.Handle, x, y int) error {
	return m.systemOp("move", h, func() error { return m.driver.Move(h, x, y) })
}

func (m *Manager) ResizeSystemWindow(h platform.Handle, width, height uint32) error {
	return m.systemOp("resize", h, func() error { return m.driver.Resize(h, width, height) })
}

func (m *Manager) SetSystemWindowBounds(h platform.Handle, x, y int, width, height uint32) error {
	bounds := platform.Rect{X: x, Y: y, Width: width, Height: height}
	return m.systemOp("set_bounds", h, func() error { return m.driver.SetBounds(h, bounds) })
}

func (m *Manager) MinimizeSystemWindow(h platform.Handle) error {
	return m.systemOp("minimize", h, func() error { return m.driver.Minimize(h) })
}

func (m *Manager) MaximizeSystemWindow(h platform.Handle) error {
	return m.systemOp("maximize", h, func() error { return m.driver.Maximize(h) })
}

func (m *Manager) RestoreSystemWindow(h platform.Handle) error {
	return m.systemOp("restore", h, func() error { return m.driver.Restore(h) })
}

func (m *Manager) FocusSystemWindow(h platform.Handle) error {
	return m.systemOp("focus", h, func() error { return m.driver.Focus(h) })
}

func (m *Manager) HideSystemWindow(h platform.Handle) error {
	return m.systemOp("hide", h, func() error { return m.driver.Hide(h) })
}

func (m *Manager) ShowSystemWindow(h platform.Handle) error {
	return m.systemOp("show", h, func() error { return m.driver.Show(h) })
}

// CloseSystemWindow asks the driver to close the window and drops its
// mirror entry.
func (m *Manager) CloseSystemWindow(h platform.Handle) error {
	if err := m.driver.Close(h); err != nil {
		return &PlatformError{Op: "close", Handle: h, Err: err}
	}

	m.mirrorMu.Lock()
	delete(m.mirror, h)
	m.mirrorMu.Unlock()

	return nil
}

// ArrangeSystemWindows tiles the given OS windows in order across the
// configured screen. Every handle is attempted; failures are reported
// together as an *ArrangeError.
func (m *Manager) ArrangeSystemWindows(handles []platform.Handle) error {
	m.configMu.RLock()
	width, height, gap := m.config.ScreenWidth, m.config.ScreenHeight, m.config.WindowGap
	m.configMu.RUnlock()

	rects := layout.TileRects(len(handles), width, height, gap)

	var failures []HandleFailure
	for i, h := range handles {
		r := rects[i]
		if err := m.SetSystemWindowBounds(h, r.X, r.Y, r.Width, r.Height); err != nil {
			m.logger.Warn("arrange system window failed", "handle", h.String(), "error", err)
			failures = append(failures, HandleFailure{Handle: h, Err: err})
		}
	}

	if len(failures) > 0 {
		return &ArrangeError{Failures: failures}
	}
	return nil
}

// systemOp runs a mutating driver call and, on success, refreshes the
// mirror entry for h from the driver. A failed call leaves the mirror as
// it was.
func (m *Manager) systemOp(op string, h platform.Handle, call func() error) error {
	if err := call(); err != nil {
		return &PlatformError{Op: op, Handle: h, Err: err}
	}
	m.refresh(h)
	return nil
}

func (m *Manager) refresh(h platform.Handle) {
	w, err := m.driver.Window(h)
	if err != nil {
		m.logger.Warn("mirror refresh failed; entry left stale", "handle", h.String(), "error", err)
		return
	}

	m.mirrorMu.Lock()
	defer m.mirrorMu.Unlock()

	if w == nil {
		delete(m.mirror, h)
		return
	}
	m.mirror[h] = *w
}
