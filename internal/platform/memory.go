package platform

import (
	"fmt"
	"slices"
	"sync"
)

// MemoryDriver is an in-process Driver backed by a map of fake windows. It
// is safe for concurrent use and records every mutating call.
type MemoryDriver struct {
	mu       sync.Mutex
	windows  map[Handle]*SystemWindow
	order    []Handle
	failures map[string]error
	calls    []Call
	listErr  error
}

// Call records one mutating driver invocation.
type Call struct {
	Op     string
	Handle Handle
	Bounds Rect
}

var (
	_ Driver      = (*MemoryDriver)(nil)
	_ ScreenSizer = (*MemoryDriver)(nil)
)

// NewMemoryDriver returns an empty memory driver.
func NewMemoryDriver(windows ...SystemWindow) *MemoryDriver {
	d := &MemoryDriver{
		windows:  make(map[Handle]*SystemWindow),
		failures: make(map[string]error),
	}
	for _, w := range windows {
		d.Add(w)
	}
	return d
}

// Add inserts or replaces a window.
func (d *MemoryDriver) Add(w SystemWindow) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.windows[w.Handle]; !ok {
		d.order = append(d.order, w.Handle)
	}
	cp := w
	d.windows[w.Handle] = &cp
}

// Remove deletes a window as if it was destroyed outside the driver.
func (d *MemoryDriver) Remove(h Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remove(h)
}

// FailOn makes every call of op ("move", "set_bounds", ...) on h fail with
// err. A zero handle matches all handles. A nil err clears the failure.
func (d *MemoryDriver) FailOn(op string, h Handle, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := failureKey(op, h)
	if err == nil {
		delete(d.failures, key)
		return
	}
	d.failures[key] = err
}

// FailWindows makes Windows return err. A nil err clears the failure.
func (d *MemoryDriver) FailWindows(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listErr = err
}

// Calls returns a copy of the recorded mutating calls.
func (d *MemoryDriver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}

func (d *MemoryDriver) Windows() ([]SystemWindow, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listErr != nil {
		return nil, d.listErr
	}

	out := make([]SystemWindow, 0, len(d.order))
	for _, h := range d.order {
		out = append(out, *d.windows[h])
	}
	return out, nil
}

func (d *MemoryDriver) Window(h Handle) (*SystemWindow, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.failure("window", h); err != nil {
		return nil, err
	}
	w, ok := d.windows[h]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (d *MemoryDriver) Move(h Handle, x, y int) error {
	return d.mutate("move", h, Rect{X: x, Y: y}, func(w *SystemWindow) {
		w.X, w.Y = x, y
	})
}

func (d *MemoryDriver) Resize(h Handle, width, height uint32) error {
	return d.mutate("resize", h, Rect{Width: width, Height: height}, func(w *SystemWindow) {
		w.Width, w.Height = width, height
	})
}

func (d *MemoryDriver) SetBounds(h Handle, bounds Rect) error {
	return d.mutate("set_bounds", h, bounds, func(w *SystemWindow) {
		w.X, w.Y = bounds.X, bounds.Y
		w.Width, w.Height = bounds.Width, bounds.Height
		w.IsMaximized = false
	})
}

func (d *MemoryDriver) Minimize(h Handle) error {
	return d.mutate("minimize", h, Rect{}, func(w *SystemWindow) {
		w.IsMinimized = true
		w.IsVisible = false
	})
}

func (d *MemoryDriver) Maximize(h Handle) error {
	return d.mutate("maximize", h, Rect{}, func(w *SystemWindow) {
		w.IsMaximized = true
		w.IsMinimized = false
	})
}

func (d *MemoryDriver) Restore(h Handle) error {
	return d.mutate("restore", h, Rect{}, func(w *SystemWindow) {
		w.IsMaximized = false
		w.IsMinimized = false
		w.IsVisible = true
	})
}

func (d *MemoryDriver) Focus(h Handle) error {
	return d.mutate("focus", h, Rect{}, func(*SystemWindow) {})
}

func (d *MemoryDriver) Hide(h Handle) error {
	return d.mutate("hide", h, Rect{}, func(w *SystemWindow) {
		w.IsVisible = false
	})
}

func (d *MemoryDriver) Show(h Handle) error {
	return d.mutate("show", h, Rect{}, func(w *SystemWindow) {
		w.IsVisible = true
	})
}

// Close destroys the window immediately.
func (d *MemoryDriver) Close(h Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.check("close", h); err != nil {
		return err
	}
	d.calls = append(d.calls, Call{Op: "close", Handle: h})
	d.remove(h)
	return nil
}

// ScreenSize reports a fixed 1920x1080 screen.
func (d *MemoryDriver) ScreenSize() (uint32, uint32, error) {
	return 1920, 1080, nil
}

func (d *MemoryDriver) mutate(op string, h Handle, bounds Rect, apply func(*SystemWindow)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.check(op, h); err != nil {
		return err
	}
	d.calls = append(d.calls, Call{Op: op, Handle: h, Bounds: bounds})
	apply(d.windows[h])
	return nil
}

// check must be called with mu held.
func (d *MemoryDriver) check(op string, h Handle) error {
	if h == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	if err := d.failure(op, h); err != nil {
		return err
	}
	if _, ok := d.windows[h]; !ok {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, h)
	}
	return nil
}

func (d *MemoryDriver) failure(op string, h Handle) error {
	if err, ok := d.failures[failureKey(op, h)]; ok {
		return err
	}
	if err, ok := d.failures[failureKey(op, 0)]; ok {
		return err
	}
	return nil
}

func (d *MemoryDriver) remove(h Handle) {
	if _, ok := d.windows[h]; !ok {
		return
	}
	delete(d.windows, h)
	d.order = slices.DeleteFunc(d.order, func(o Handle) bool { return o == h })
}

func failureKey(op string, h Handle) string {
	return fmt.Sprintf("%s/%d", op, uint64(h))
}
