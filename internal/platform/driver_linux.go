//go:build linux

package platform

import (
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/1broseidon/winctl/internal/x11"
)

// X11Driver drives windows through an EWMH-compliant X11 window manager.
// Handles are X11 window IDs widened to 64 bits.
type X11Driver struct {
	conn *x11.Connection
}

var (
	_ Driver      = (*X11Driver)(nil)
	_ ScreenSizer = (*X11Driver)(nil)
)

// NewDriver connects to the X server named by $DISPLAY.
func NewDriver() (Driver, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11Driver{conn: conn}, nil
}

// NewX11Driver wraps an existing X11 connection.
func NewX11Driver(conn *x11.Connection) *X11Driver {
	return &X11Driver{conn: conn}
}

// Disconnect closes the underlying X11 connection.
func (d *X11Driver) Disconnect() {
	if d != nil && d.conn != nil {
		d.conn.Close()
	}
}

// Windows lists normal client windows in stacking-independent client order.
func (d *X11Driver) Windows() ([]SystemWindow, error) {
	clients, err := d.conn.ClientList()
	if err != nil {
		return nil, fmt.Errorf("read client list: %w", err)
	}

	windows := make([]SystemWindow, 0, len(clients))
	for _, id := range clients {
		if !d.conn.IsNormalWindow(id) {
			continue
		}
		info, err := d.conn.Info(id)
		if err != nil {
			// Client went away between list and query.
			continue
		}
		windows = append(windows, d.snapshot(info))
	}
	return windows, nil
}

// Window returns (nil, nil) when the X server no longer knows the window.
func (d *X11Driver) Window(h Handle) (*SystemWindow, error) {
	id, err := windowID(h)
	if err != nil {
		return nil, err
	}

	info, err := d.conn.Info(id)
	if err != nil {
		if x11.IsMissingWindow(err) {
			return nil, nil
		}
		return nil, err
	}

	w := d.snapshot(info)
	return &w, nil
}

func (d *X11Driver) Move(h Handle, x, y int) error {
	id, info, err := d.lookup(h)
	if err != nil {
		return err
	}
	return notFound(h, d.conn.MoveResizeWindow(id, x, y, info.Width, info.Height))
}

func (d *X11Driver) Resize(h Handle, width, height uint32) error {
	id, info, err := d.lookup(h)
	if err != nil {
		return err
	}
	return notFound(h, d.conn.MoveResizeWindow(id, info.X, info.Y, int(width), int(height)))
}

func (d *X11Driver) SetBounds(h Handle, bounds Rect) error {
	id, _, err := d.lookup(h)
	if err != nil {
		return err
	}
	return notFound(h, d.conn.MoveResizeWindow(id, bounds.X, bounds.Y, int(bounds.Width), int(bounds.Height)))
}

func (d *X11Driver) Minimize(h Handle) error {
	return d.with(h, d.conn.Iconify)
}

func (d *X11Driver) Maximize(h Handle) error {
	return d.with(h, d.conn.Maximize)
}

// Restore clears maximized and iconic state and brings the window forward.
func (d *X11Driver) Restore(h Handle) error {
	return d.with(h, func(id xproto.Window) error {
		if err := d.conn.Unmaximize(id); err != nil {
			return err
		}
		if err := d.conn.Map(id); err != nil {
			return err
		}
		return d.conn.Activate(id)
	})
}

func (d *X11Driver) Close(h Handle) error {
	return d.with(h, d.conn.RequestClose)
}

func (d *X11Driver) Focus(h Handle) error {
	return d.with(h, d.conn.Activate)
}

func (d *X11Driver) Hide(h Handle) error {
	return d.with(h, d.conn.Unmap)
}

func (d *X11Driver) Show(h Handle) error {
	return d.with(h, d.conn.Map)
}

// ScreenSize reports the monitor under the pointer.
func (d *X11Driver) ScreenSize() (uint32, uint32, error) {
	m, err := d.conn.PointerMonitor()
	if err != nil {
		return 0, 0, err
	}
	return uint32(m.Width), uint32(m.Height), nil
}

func (d *X11Driver) with(h Handle, op func(xproto.Window) error) error {
	id, err := windowID(h)
	if err != nil {
		return err
	}
	return notFound(h, op(id))
}

func (d *X11Driver) lookup(h Handle) (xproto.Window, x11.WindowInfo, error) {
	id, err := windowID(h)
	if err != nil {
		return 0, x11.WindowInfo{}, err
	}
	info, err := d.conn.Info(id)
	if err != nil {
		return 0, x11.WindowInfo{}, notFound(h, err)
	}
	return id, info, nil
}

// notFound maps an X "no such window" error to ErrWindowNotFound.
func notFound(h Handle, err error) error {
	if x11.IsMissingWindow(err) {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, h)
	}
	return err
}

func (d *X11Driver) snapshot(info x11.WindowInfo) SystemWindow {
	return SystemWindow{
		Handle:      Handle(info.ID),
		Title:       info.Title,
		ProcessName: d.processName(info),
		PID:         info.PID,
		X:           info.X,
		Y:           info.Y,
		Width:       uint32(info.Width),
		Height:      uint32(info.Height),
		IsVisible:   info.Mapped && !info.Minimized,
		IsMinimized: info.Minimized,
		IsMaximized: info.Maximized,
	}
}

// processName prefers the executable name for the window's PID and falls
// back to the WM_CLASS class.
func (d *X11Driver) processName(info x11.WindowInfo) string {
	if info.PID != 0 {
		if proc, err := process.NewProcess(int32(info.PID)); err == nil {
			if name, err := proc.Name(); err == nil && name != "" {
				return name
			}
		}
	}
	if class, err := icccm.WmClassGet(d.conn.XUtil, info.ID); err == nil {
		return strings.TrimSpace(class.Class)
	}
	return ""
}

func windowID(h Handle) (xproto.Window, error) {
	if h == 0 || uint64(h) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	return xproto.Window(h), nil
}
