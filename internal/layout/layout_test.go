package layout

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestGrid(t *testing.T) {
	tests := []struct {
		n          int
		rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 2},
		{4, 2, 2},
		{5, 2, 3},
		{6, 2, 3},
		{7, 3, 3},
		{9, 3, 3},
		{10, 3, 4},
		{16, 4, 4},
		{17, 4, 5},
	}
	for _, tt := range tests {
		rows, cols := Grid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("Grid(%d) = %dx%d, want %dx%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestTileRects_FourWindowsTwoByTwo(t *testing.T) {
	got := TileRects(4, 1920, 1080, 10)
	want := []Rect{
		{X: 10, Y: 10, Width: 945, Height: 525},
		{X: 965, Y: 10, Width: 945, Height: 525},
		{X: 10, Y: 545, Width: 945, Height: 525},
		{X: 965, Y: 545, Width: 945, Height: 525},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rects, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rect %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTileRects_SingleWindowInsetByGap(t *testing.T) {
	got := TileRects(1, 1920, 1080, 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(got))
	}
	want := Rect{X: 10, Y: 10, Width: 1900, Height: 1060}
	if got[0] != want {
		t.Fatalf("got %+v, want %+v", got[0], want)
	}
}

func TestTileRects_EmptyIsNoop(t *testing.T) {
	if got := TileRects(0, 1920, 1080, 10); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestTileRects_FiveWindowsLeavesLastCellEmpty(t *testing.T) {
	got := TileRects(5, 1920, 1080, 10)
	if len(got) != 5 {
		t.Fatalf("expected 5 rects, got %d", len(got))
	}
	// cols=3, rows=2: cell width=(1920-40)/3=626, height=(1080-30)/2=525.
	last := got[4]
	if last.X != 10+1*(626+10) || last.Y != 545 {
		t.Fatalf("unexpected position for fifth window: %+v", last)
	}
	if last.Width != 626 || last.Height != 525 {
		t.Fatalf("unexpected size for fifth window: %+v", last)
	}
}

func TestTileRects_NonOverlappingWithinBounds(t *testing.T) {
	const width, height, gap = 1920, 1080, 10
	for n := 1; n <= 25; n++ {
		rects := TileRects(n, width, height, gap)
		if len(rects) != n {
			t.Fatalf("n=%d: expected %d rects, got %d", n, n, len(rects))
		}
		for i, r := range rects {
			if r.X < gap || r.Y < gap {
				t.Fatalf("n=%d rect %d starts inside the gap: %+v", n, i, r)
			}
			if r.X+int(r.Width) > width-gap || r.Y+int(r.Height) > height-gap {
				t.Fatalf("n=%d rect %d exceeds bounds: %+v", n, i, r)
			}
			for j := i + 1; j < len(rects); j++ {
				if overlaps(r, rects[j]) {
					t.Fatalf("n=%d rects %d and %d overlap: %+v %+v", n, i, j, r, rects[j])
				}
			}
		}
	}
}

func TestTileRects_GapLargerThanScreenClampsToZero(t *testing.T) {
	got := TileRects(4, 20, 20, 50)
	for i, r := range got {
		if r.Width != 0 || r.Height != 0 {
			t.Fatalf("rect %d: expected zero size, got %+v", i, r)
		}
	}
}

func TestTileRects_HugeGapDoesNotWrap(t *testing.T) {
	for _, n := range []int{1, 2, 4, 5} {
		for i, r := range TileRects(n, 1920, 1080, 1<<31+5) {
			if r.Width != 0 || r.Height != 0 {
				t.Fatalf("n=%d rect %d: expected zero size, got %+v", n, i, r)
			}
		}
	}
}

func TestMonocle_IgnoresGap(t *testing.T) {
	rects, ok := Arrange(Monocle, 3, 1920, 1080, 10)
	if !ok {
		t.Fatal("expected monocle to arrange")
	}
	for i, r := range rects {
		if r != (Rect{X: 0, Y: 0, Width: 1920, Height: 1080}) {
			t.Fatalf("rect %d = %+v, want full screen", i, r)
		}
	}
}

func TestArrange_FloatingLeavesGeometry(t *testing.T) {
	rects, ok := Arrange(Floating, 3, 1920, 1080, 10)
	if ok || rects != nil {
		t.Fatalf("expected floating to be a no-op, got %v %+v", ok, rects)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"tiling", Tiling},
		{"Floating", Floating},
		{" monocle ", Monocle},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Fatalf("ParseKind(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseKind("spiral"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestKind_JSONUsesNames(t *testing.T) {
	data, err := json.Marshal(struct {
		Layout Kind `json:"layout"`
	}{Layout: Monocle})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"layout":"monocle"}` {
		t.Fatalf("unexpected json: %s", data)
	}

	var decoded struct {
		Layout Kind `json:"layout"`
	}
	if err := json.Unmarshal([]byte(`{"layout":"floating"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Layout != Floating {
		t.Fatalf("expected floating, got %v", decoded.Layout)
	}
}

func overlaps(a, b Rect) bool {
	return a.X < b.X+int(b.Width) && b.X < a.X+int(a.Width) &&
		a.Y < b.Y+int(b.Height) && b.Y < a.Y+int(a.Height)
}
