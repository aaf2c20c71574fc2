package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateRemove = 0
	stateAdd    = 1

	// pager/direct action
	sourceIndication = 2

	iconicState = 3
)

const (
	atomMaxVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	atomMaxHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	atomHidden  = "_NET_WM_STATE_HIDDEN"
)

// WindowInfo is the raw X11 view of a client window.
type WindowInfo struct {
	ID        xproto.Window
	Title     string
	PID       uint32
	X, Y      int
	Width     int
	Height    int
	Mapped    bool
	Minimized bool
	Maximized bool
}

// ClientList returns the EWMH managed client list.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}

// Info queries title, pid, geometry and state for a window. Errors for
// windows that no longer exist satisfy IsMissingWindow.
func (c *Connection) Info(windowID xproto.Window) (WindowInfo, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return WindowInfo{}, err
	}

	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return WindowInfo{}, err
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return WindowInfo{}, err
	}

	info := WindowInfo{
		ID:     windowID,
		Title:  c.title(windowID),
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
		Mapped: attrs.MapState == xproto.MapStateViewable,
	}

	if pid, err := ewmh.WmPidGet(c.XUtil, windowID); err == nil {
		info.PID = uint32(pid)
	}

	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		var maxV, maxH bool
		for _, state := range states {
			switch state {
			case atomHidden:
				info.Minimized = true
			case atomMaxVert:
				maxV = true
			case atomMaxHorz:
				maxH = true
			}
		}
		info.Maximized = maxV && maxH
	}

	return info, nil
}

func (c *Connection) title(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// The EWMH request goes to the root window and succeeds even for a
	// destroyed client, so ask the server about the window itself first.
	if _, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply(); err != nil {
		return err
	}

	// A maximized window ignores geometry requests on most WMs.
	if err := missingOnly(c.Unmaximize(windowID)); err != nil {
		return err
	}

	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// Maximize asks the window manager to maximize both axes.
func (c *Connection) Maximize(windowID xproto.Window) error {
	if err := ewmh.WmStateReq(c.XUtil, windowID, stateAdd, atomMaxVert); err != nil {
		return err
	}
	return ewmh.WmStateReq(c.XUtil, windowID, stateAdd, atomMaxHorz)
}

// Unmaximize removes maximized state from a window if present.
func (c *Connection) Unmaximize(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		if state == atomMaxVert || state == atomMaxHorz {
			if err := ewmh.WmStateReq(c.XUtil, windowID, stateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// Iconify minimizes a window via WM_CHANGE_STATE (ICCCM 4.1.4).
func (c *Connection) Iconify(windowID xproto.Window) error {
	return c.sendRootMessage(windowID, "WM_CHANGE_STATE", iconicState)
}

// Activate raises and focuses a window using _NET_ACTIVE_WINDOW.
func (c *Connection) Activate(windowID xproto.Window) error {
	return c.sendRootMessage(windowID, "_NET_ACTIVE_WINDOW", sourceIndication)
}

// Map maps a window. Mapping an iconic window returns it to normal state.
func (c *Connection) Map(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// Unmap withdraws a window from the screen without destroying it.
func (c *Connection) Unmap(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// RequestClose asks the client to close gracefully via WM_DELETE_WINDOW.
func (c *Connection) RequestClose(windowID xproto.Window) error {
	deleteAtom, err := c.internAtom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocolsAtom, err := c.internAtom("WM_PROTOCOLS")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	return len(types) == 0
}
