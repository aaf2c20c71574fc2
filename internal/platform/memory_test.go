package platform

import (
	"errors"
	"testing"
)

func TestMemoryDriver_WindowMissingIsNilNil(t *testing.T) {
	d := NewMemoryDriver()
	w, err := d.Window(42)
	if err != nil || w != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", w, err)
	}
}

func TestMemoryDriver_SetBoundsUpdatesWindow(t *testing.T) {
	d := NewMemoryDriver(SystemWindow{Handle: 1, Title: "term", IsVisible: true, IsMaximized: true})

	if err := d.SetBounds(1, Rect{X: 10, Y: 20, Width: 300, Height: 200}); err != nil {
		t.Fatalf("SetBounds: %v", err)
	}

	w, _ := d.Window(1)
	if w.Bounds() != (Rect{X: 10, Y: 20, Width: 300, Height: 200}) {
		t.Fatalf("unexpected bounds: %+v", w.Bounds())
	}
	if w.IsMaximized {
		t.Fatal("explicit bounds should clear maximized state")
	}

	calls := d.Calls()
	if len(calls) != 1 || calls[0].Op != "set_bounds" || calls[0].Handle != 1 {
		t.Fatalf("unexpected calls: %+v", calls)
	}
}

func TestMemoryDriver_StateTransitions(t *testing.T) {
	d := NewMemoryDriver(SystemWindow{Handle: 7, IsVisible: true})

	steps := []struct {
		name string
		op   func(Handle) error
		want func(SystemWindow) bool
	}{
		{"minimize", d.Minimize, func(w SystemWindow) bool { return w.IsMinimized && !w.IsVisible }},
		{"restore", d.Restore, func(w SystemWindow) bool { return !w.IsMinimized && w.IsVisible }},
		{"maximize", d.Maximize, func(w SystemWindow) bool { return w.IsMaximized }},
		{"hide", d.Hide, func(w SystemWindow) bool { return !w.IsVisible }},
		{"show", d.Show, func(w SystemWindow) bool { return w.IsVisible }},
	}
	for _, step := range steps {
		if err := step.op(7); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		w, _ := d.Window(7)
		if !step.want(*w) {
			t.Fatalf("%s: unexpected state %+v", step.name, *w)
		}
	}
}

func TestMemoryDriver_CloseRemovesWindow(t *testing.T) {
	d := NewMemoryDriver(SystemWindow{Handle: 1}, SystemWindow{Handle: 2})
	if err := d.Close(1); err != nil {
		t.Fatalf("Close: %v", err)
	}

	windows, err := d.Windows()
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if len(windows) != 1 || windows[0].Handle != 2 {
		t.Fatalf("expected only handle 2, got %+v", windows)
	}
}

func TestMemoryDriver_Errors(t *testing.T) {
	d := NewMemoryDriver(SystemWindow{Handle: 1})

	if err := d.Move(0, 1, 1); !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("expected ErrInvalidHandle, got %v", err)
	}
	if err := d.Move(9, 1, 1); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}

	boom := errors.New("boom")
	d.FailOn("move", 1, boom)
	if err := d.Move(1, 1, 1); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	d.FailOn("move", 1, nil)
	if err := d.Move(1, 1, 1); err != nil {
		t.Fatalf("expected failure cleared, got %v", err)
	}

	d.FailWindows(boom)
	if _, err := d.Windows(); !errors.Is(err, boom) {
		t.Fatalf("expected list failure, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	d, err := Open("memory")
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if _, ok := d.(*MemoryDriver); !ok {
		t.Fatalf("expected *MemoryDriver, got %T", d)
	}
	if _, err := Open("wayland"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
