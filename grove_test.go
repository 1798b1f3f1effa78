package grove

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

// newTestTree creates a tree that logs nowhere.
func newTestTree(root Component) *TreeContext {
	return NewTreeContext(root, Config{DebugOutput: io.Discard})
}

// expectPanic runs fn and fails unless it panics with a message containing
// want.
func expectPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got none", want)
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, want) {
			t.Errorf("panic = %q, want it to contain %q", msg, want)
		}
	}()
	fn()
}

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"left edge", 10, 40, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- Rect.Intersects ---

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint above", Rect{10, -100, 50, 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Intersects(tt.other)
			if got != tt.expect {
				t.Errorf("Rect%v.Intersects(Rect%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	got := Rect{0, 0, 10, 10}.Union(Rect{20, -5, 5, 5})
	want := Rect{0, -5, 25, 15}
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
}

// --- Color ---

func TestColorRGBAPremultiplies(t *testing.T) {
	got := Color{R: 1, G: 0.5, B: 0, A: 0.5}.RGBA()
	if got.R != 128 || got.G != 64 || got.B != 0 || got.A != 128 {
		t.Errorf("RGBA = %+v, want {128 64 0 128}", got)
	}
}

func TestColorRGBAClamps(t *testing.T) {
	got := Color{R: 2, G: -1, B: 1, A: 1}.RGBA()
	if got.R != 255 || got.G != 0 {
		t.Errorf("RGBA = %+v, want R=255 G=0", got)
	}
}

// --- MouseButtons ---

func TestMouseButtonsWith(t *testing.T) {
	m := MouseButtons(0).With(MouseButtonLeft).With(MouseButtonMiddle)
	if !m.Has(MouseButtonLeft) || !m.Has(MouseButtonMiddle) {
		t.Errorf("buttons %b missing left or middle", m)
	}
	if m.Has(MouseButtonRight) {
		t.Errorf("buttons %b should not have right", m)
	}
}

func TestStringers(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{NodeClip.String(), "clip"},
		{NodeOnTop.String(), "on_top"},
		{NodeKind(99).String(), "NodeKind(99)"},
		{EventMouseDown.String(), "mouse_down"},
		{EventVisibilityChange.String(), "visibility_change"},
		{SignalTrackEq.String(), "track_eq"},
		{SignalID{Kind: SignalAtom, Index: 3}.String(), "atom#3"},
		{SignalID{Kind: SignalState, Index: 2, Instance: 7}.String(), "state#2@7"},
		{InstancePath{"root", "app#0"}.String(), "/root/app#0"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
