package x11

import "testing"

func TestMonitorContains(t *testing.T) {
	m := Monitor{X: 1920, Y: 0, Width: 2560, Height: 1440}
	tests := []struct {
		x, y int
		want bool
	}{
		{1920, 0, true},
		{4479, 1439, true},
		{4480, 10, false},
		{1919, 10, false},
		{2000, 1440, false},
	}
	for _, tt := range tests {
		if got := m.contains(tt.x, tt.y); got != tt.want {
			t.Errorf("contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
