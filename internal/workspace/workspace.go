package workspace

import (
	"slices"

	"github.com/google/uuid"

	"github.com/1broseidon/winctl/internal/layout"
)

// Workspace is an ordered, named group of window IDs sharing one layout and
// one focus pointer. The order of Windows is the tiling order.
//
// Workspace is not safe for concurrent use; the manager guards it.
type Workspace struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Layout        layout.Kind `json:"layout"`
	Windows       []string    `json:"windows"`
	FocusedWindow string      `json:"focused_window,omitempty"`
}

// New creates an empty, unfocused workspace with a generated ID.
func New(name string, kind layout.Kind) *Workspace {
	return &Workspace{
		ID:      uuid.NewString(),
		Name:    name,
		Layout:  kind,
		Windows: []string{},
	}
}

// AddWindow appends id and focuses it. Adding an existing member is a no-op.
func (w *Workspace) AddWindow(id string) {
	if w.Contains(id) {
		return
	}
	w.Windows = append(w.Windows, id)
	w.FocusedWindow = id
}

// RemoveWindow drops id from the sequence. If id held focus, focus moves to
// the last remaining window, or clears when the workspace becomes empty.
func (w *Workspace) RemoveWindow(id string) {
	w.Windows = slices.DeleteFunc(w.Windows, func(wid string) bool {
		return wid == id
	})

	if w.FocusedWindow == id {
		w.FocusedWindow = ""
		if n := len(w.Windows); n > 0 {
			w.FocusedWindow = w.Windows[n-1]
		}
	}
}

// FocusWindow focuses id if it is a member; otherwise nothing changes.
func (w *Workspace) FocusWindow(id string) {
	if w.Contains(id) {
		w.FocusedWindow = id
	}
}

// SetLayout replaces the layout kind. It does not re-arrange.
func (w *Workspace) SetLayout(kind layout.Kind) {
	w.Layout = kind
}

// Contains reports whether id is in the window sequence.
func (w *Workspace) Contains(id string) bool {
	return slices.Contains(w.Windows, id)
}

// HasFocus reports whether a window is focused.
func (w *Workspace) HasFocus() bool {
	return w.FocusedWindow != ""
}

// Clone returns a deep copy safe to hand out of the manager.
func (w *Workspace) Clone() Workspace {
	c := *w
	c.Windows = slices.Clone(w.Windows)
	if c.Windows == nil {
		c.Windows = []string{}
	}
	return c
}
