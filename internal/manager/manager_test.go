package manager

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/winctl/internal/config"
	"github.com/1broseidon/winctl/internal/layout"
	"github.com/1broseidon/winctl/internal/platform"
)

func newTestManager(t *testing.T, opts ...Option) (*Manager, *platform.MemoryDriver) {
	t.Helper()
	driver := platform.NewMemoryDriver()
	return New(driver, opts...), driver
}

// assertConsistent checks that workspaces and windows reference each other
// in both directions and that every focus pointer names a member.
func assertConsistent(t *testing.T, m *Manager) {
	t.Helper()

	byID := make(map[string]ManagedWindow)
	for _, w := range m.Windows() {
		byID[w.ID] = w
	}

	seen := make(map[string]string)
	for _, ws := range m.Workspaces() {
		for _, id := range ws.Windows {
			win, ok := byID[id]
			if !ok {
				t.Fatalf("workspace %s lists unknown window %s", ws.ID, id)
			}
			if win.WorkspaceID != ws.ID {
				t.Fatalf("window %s has workspace %s but is listed in %s", id, win.WorkspaceID, ws.ID)
			}
			if prev, dup := seen[id]; dup {
				t.Fatalf("window %s listed in both %s and %s", id, prev, ws.ID)
			}
			seen[id] = ws.ID
		}
		if ws.FocusedWindow != "" && !ws.Contains(ws.FocusedWindow) {
			t.Fatalf("workspace %s focuses non-member %s", ws.ID, ws.FocusedWindow)
		}
	}
	for id := range byID {
		if _, ok := seen[id]; !ok {
			t.Fatalf("window %s is not listed in any workspace", id)
		}
	}

	if _, ok := m.Workspace(m.ActiveWorkspace()); !ok {
		t.Fatalf("active workspace %s does not exist", m.ActiveWorkspace())
	}
}

func TestNew_SeedsDefaultWorkspace(t *testing.T) {
	m, _ := newTestManager(t)

	workspaces := m.Workspaces()
	if len(workspaces) != 1 {
		t.Fatalf("expected one workspace, got %d", len(workspaces))
	}
	ws := workspaces[0]
	if ws.Name != DefaultWorkspaceName || ws.Layout != layout.Tiling {
		t.Fatalf("unexpected default workspace: %+v", ws)
	}
	if m.ActiveWorkspace() != ws.ID {
		t.Fatalf("active = %q, want %q", m.ActiveWorkspace(), ws.ID)
	}
}

func TestAddWindow_FourWindowsTileTwoByTwo(t *testing.T) {
	m, _ := newTestManager(t)

	var ids []string
	for i := 0; i < 4; i++ {
		ids = append(ids, m.AddWindow(fmt.Sprintf("w%d", i), "app"))
	}

	want := []struct {
		pos  Position
		size Size
	}{
		{Position{10, 10}, Size{945, 525}},
		{Position{965, 10}, Size{945, 525}},
		{Position{10, 545}, Size{945, 525}},
		{Position{965, 545}, Size{945, 525}},
	}
	for i, id := range ids {
		win, ok := m.Window(id)
		if !ok {
			t.Fatalf("window %d missing", i)
		}
		if win.Position != want[i].pos || win.Size != want[i].size {
			t.Errorf("window %d at %+v %+v, want %+v %+v", i, win.Position, win.Size, want[i].pos, want[i].size)
		}
	}

	ws, _ := m.Workspace(m.ActiveWorkspace())
	if ws.FocusedWindow != ids[3] {
		t.Fatalf("expected newest window focused, got %q", ws.FocusedWindow)
	}
	assertConsistent(t, m)
}

func TestAddWindow_SingleWindowInset(t *testing.T) {
	m, _ := newTestManager(t)
	id := m.AddWindow("solo", "app")

	win, _ := m.Window(id)
	if win.Position != (Position{10, 10}) || win.Size != (Size{1900, 1060}) {
		t.Fatalf("unexpected geometry: %+v %+v", win.Position, win.Size)
	}
	if win.State != StateNormal || win.Title != "solo" || win.AppName != "app" {
		t.Fatalf("unexpected record: %+v", win)
	}
}

func TestAddWindow_FloatingKeepsDefaults(t *testing.T) {
	m, _ := newTestManager(t)
	wsID := m.CreateWorkspace("float", layout.Floating)
	if err := m.SwitchWorkspace(wsID); err != nil {
		t.Fatalf("switch: %v", err)
	}

	id := m.AddWindow("f", "app")
	win, _ := m.Window(id)
	if win.Position != (Position{}) || win.Size != (Size{800, 600}) {
		t.Fatalf("floating window moved: %+v %+v", win.Position, win.Size)
	}
	if win.WorkspaceID != wsID {
		t.Fatalf("window assigned to %q, want %q", win.WorkspaceID, wsID)
	}
}

func TestArrangeWorkspace_Monocle(t *testing.T) {
	m, _ := newTestManager(t)
	wsID := m.ActiveWorkspace()
	for i := 0; i < 3; i++ {
		m.AddWindow("w", "app")
	}

	if err := m.SetWorkspaceLayout(wsID, layout.Monocle); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	if err := m.ArrangeWorkspace(wsID); err != nil {
		t.Fatalf("arrange: %v", err)
	}

	for _, win := range m.WorkspaceWindows(wsID) {
		if win.Position != (Position{}) || win.Size != (Size{1920, 1080}) {
			t.Fatalf("window %s not full screen: %+v %+v", win.ID, win.Position, win.Size)
		}
	}
}

func TestArrangeWorkspace_DropsStaleArrangement(t *testing.T) {
	m, _ := newTestManager(t)
	wsID := m.ActiveWorkspace()
	for i := 0; i < 4; i++ {
		m.AddWindow("w", "app")
	}

	stale, ok := m.arrangeSnapshot(wsID)
	if !ok {
		t.Fatal("snapshot of active workspace failed")
	}
	// AddWindow arranges the five-window grid with a newer snapshot.
	m.AddWindow("late", "app")

	if m.applyArrangement(wsID, stale, layout.TileRects(4, 1920, 1080, 10)) {
		t.Fatal("older arrangement applied over a newer one")
	}

	want := layout.TileRects(5, 1920, 1080, 10)
	for i, win := range m.WorkspaceWindows(wsID) {
		got := Position{want[i].X, want[i].Y}
		if win.Position != got || win.Size != (Size{want[i].Width, want[i].Height}) {
			t.Fatalf("window %d at %+v %+v, want %+v", i, win.Position, win.Size, want[i])
		}
	}

	fresh, _ := m.arrangeSnapshot(wsID)
	if !m.applyArrangement(wsID, fresh, want) {
		t.Fatal("newest arrangement was dropped")
	}
}

func TestSetWorkspaceLayout_DoesNotArrange(t *testing.T) {
	m, _ := newTestManager(t)
	wsID := m.ActiveWorkspace()
	id := m.AddWindow("w", "app")

	if err := m.SetWorkspaceLayout(wsID, layout.Monocle); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	win, _ := m.Window(id)
	if win.Position != (Position{10, 10}) {
		t.Fatalf("layout change re-arranged immediately: %+v", win.Position)
	}
}

func TestRemoveWindow_ReassignsFocusAndRearranges(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.AddWindow("A", "app")
	b := m.AddWindow("B", "app")
	c := m.AddWindow("C", "app")

	if err := m.RemoveWindow(c); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ws, _ := m.Workspace(m.ActiveWorkspace())
	if ws.FocusedWindow != b {
		t.Fatalf("focus = %q, want B", ws.FocusedWindow)
	}

	// Two windows side by side after removal.
	winA, _ := m.Window(a)
	if winA.Size != (Size{945, 1060}) {
		t.Fatalf("expected re-arranged size, got %+v", winA.Size)
	}
	assertConsistent(t, m)

	_ = m.RemoveWindow(a)
	_ = m.RemoveWindow(b)
	ws, _ = m.Workspace(m.ActiveWorkspace())
	if ws.FocusedWindow != "" || len(ws.Windows) != 0 {
		t.Fatalf("expected empty unfocused workspace, got %+v", ws)
	}
}

func TestNotFoundErrors(t *testing.T) {
	m, _ := newTestManager(t)

	checks := map[string]error{
		"remove":     m.RemoveWindow("missing"),
		"focus":      m.FocusWindow("missing"),
		"minimize":   m.MinimizeWindow("missing"),
		"switch":     m.SwitchWorkspace("missing"),
		"arrange":    m.ArrangeWorkspace("missing"),
		"set layout": m.SetWorkspaceLayout("missing", layout.Tiling),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestFocusWindow_UpdatesTimestampWithoutReorder(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m, _ := newTestManager(t, WithClock(func() time.Time { return clock }))

	a := m.AddWindow("A", "app")
	b := m.AddWindow("B", "app")

	clock = clock.Add(time.Minute)
	if err := m.FocusWindow(a); err != nil {
		t.Fatalf("focus: %v", err)
	}

	win, _ := m.Window(a)
	if !win.LastFocused.Equal(clock) {
		t.Fatalf("last focused = %v, want %v", win.LastFocused, clock)
	}
	if win.CreatedAt.Equal(clock) {
		t.Fatal("focus must not change creation time")
	}

	ws, _ := m.Workspace(m.ActiveWorkspace())
	if ws.FocusedWindow != a {
		t.Fatalf("focus = %q, want A", ws.FocusedWindow)
	}
	if ws.Windows[0] != a || ws.Windows[1] != b {
		t.Fatalf("focus reordered windows: %v", ws.Windows)
	}
}

func TestSetWindowState(t *testing.T) {
	m, _ := newTestManager(t)
	id := m.AddWindow("w", "app")

	if err := m.MaximizeWindow(id); err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if win, _ := m.Window(id); win.State != StateMaximized {
		t.Fatalf("state = %v, want maximized", win.State)
	}
	if err := m.SetWindowState(id, WindowState(42)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSwitchWorkspace_IsPointerOnly(t *testing.T) {
	m, _ := newTestManager(t)
	first := m.ActiveWorkspace()
	id := m.AddWindow("w", "app")
	before, _ := m.Window(id)

	second := m.CreateWorkspace("second", layout.Tiling)
	if err := m.SwitchWorkspace(second); err != nil {
		t.Fatalf("switch: %v", err)
	}

	after, _ := m.Window(id)
	if after != before || after.WorkspaceID != first {
		t.Fatalf("switching workspaces touched window: %+v -> %+v", before, after)
	}
	if ws, _ := m.Workspace(second); len(ws.Windows) != 0 || ws.HasFocus() {
		t.Fatalf("new workspace not empty: %+v", ws)
	}
}

func TestWorkspaces_CreationOrderAndKeyMatchesID(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.CreateWorkspace("a", layout.Tiling)
	b := m.CreateWorkspace("b", layout.Monocle)

	workspaces := m.Workspaces()
	if len(workspaces) != 3 || workspaces[1].ID != a || workspaces[2].ID != b {
		t.Fatalf("unexpected order: %+v", workspaces)
	}
	for _, ws := range workspaces {
		if got, ok := m.Workspace(ws.ID); !ok || got.ID != ws.ID {
			t.Fatalf("workspace %s not retrievable by its own id", ws.ID)
		}
	}
}

func TestUpdateConfig(t *testing.T) {
	m, _ := newTestManager(t)

	cfg := m.Config()
	cfg.ScreenWidth = 1000
	cfg.ScreenHeight = 500
	cfg.WindowGap = 0
	if err := m.UpdateConfig(cfg); err != nil {
		t.Fatalf("update: %v", err)
	}

	id := m.AddWindow("w", "app")
	if win, _ := m.Window(id); win.Size != (Size{1000, 500}) {
		t.Fatalf("new config not applied: %+v", win.Size)
	}

	cfg.ScreenWidth = 0
	if err := m.UpdateConfig(cfg); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if m.Config().ScreenWidth != 1000 {
		t.Fatal("invalid config must not replace the current one")
	}
}

func TestUpdateConfig_RejectsOverflowingGap(t *testing.T) {
	m, _ := newTestManager(t)

	cfg := m.Config()
	cfg.WindowGap = 1<<31 + 5
	if err := m.UpdateConfig(cfg); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	id := m.AddWindow("w", "app")
	win, _ := m.Window(id)
	if win.Position != (Position{10, 10}) || win.Size != (Size{1900, 1060}) {
		t.Fatalf("window placed with rejected gap: %+v %+v", win.Position, win.Size)
	}
}

func TestConfig_ReturnsCopy(t *testing.T) {
	m, _ := newTestManager(t, WithConfig(config.DefaultConfig()))
	cfg := m.Config()
	cfg.KeyBindings["close_window"] = "changed"
	if m.Config().KeyBindings["close_window"] != "Super+q" {
		t.Fatal("caller mutated manager config")
	}
}

func TestConcurrentMutationsKeepInvariants(t *testing.T) {
	m, _ := newTestManager(t)
	extra := m.CreateWorkspace("extra", layout.Monocle)
	workspaces := []string{m.ActiveWorkspace(), extra}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := m.AddWindow(fmt.Sprintf("g%d-%d", g, i), "app")
				_ = m.FocusWindow(id)
				if i%3 == 0 {
					_ = m.SwitchWorkspace(workspaces[i%2])
				}
				if i%2 == 0 {
					if err := m.RemoveWindow(id); err != nil {
						t.Errorf("remove %s: %v", id, err)
					}
				}
				_ = m.Windows()
				_ = m.Workspaces()
			}
		}(g)
	}
	wg.Wait()

	assertConsistent(t, m)
	if got := len(m.Windows()); got != 8*25 {
		t.Fatalf("expected %d windows, got %d", 8*25, got)
	}
}
