package x11

import (
	"errors"
	"fmt"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestIsMissingWindow(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad window", xproto.WindowError{NiceName: "Window"}, true},
		{"bad drawable", xproto.DrawableError{NiceName: "Drawable"}, true},
		{"wrapped bad window", fmt.Errorf("query: %w", xproto.WindowError{}), true},
		{"other", errors.New("no such property"), false},
	}
	for _, tt := range tests {
		if got := IsMissingWindow(tt.err); got != tt.want {
			t.Errorf("%s: IsMissingWindow = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMissingOnly(t *testing.T) {
	if err := missingOnly(errors.New("GetProperty: No such property")); err != nil {
		t.Fatalf("unrelated error should be dropped, got %v", err)
	}
	if err := missingOnly(xproto.WindowError{}); !IsMissingWindow(err) {
		t.Fatalf("missing-window error should be kept, got %v", err)
	}
	if err := missingOnly(nil); err != nil {
		t.Fatalf("nil should stay nil, got %v", err)
	}
}
