package grove

import (
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	tree := newTestTree(ComponentFunc(func(*RenderCtx) {}))
	tree.Screenshot("a")
	tree.Screenshot("b")
	if len(tree.screenshotQueue) != 2 {
		t.Fatalf("expected 2 queued screenshots, got %d", len(tree.screenshotQueue))
	}
	labels := tree.takeScreenshots()
	if len(labels) != 2 || labels[0] != "a" || labels[1] != "b" {
		t.Errorf("takeScreenshots = %v", labels)
	}
	if len(tree.takeScreenshots()) != 0 {
		t.Error("queue not cleared by takeScreenshots")
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	tree := newTestTree(ComponentFunc(func(*RenderCtx) {}))
	if tree.Config().ScreenshotDir != "screenshots" {
		t.Errorf("expected default dir 'screenshots', got %q", tree.Config().ScreenshotDir)
	}
}

func TestFlushScreenshotsNoLabels(t *testing.T) {
	paths, err := flushScreenshots(nil, nil, t.TempDir(), time.Time{})
	if err != nil || paths != nil {
		t.Errorf("flush with no labels = %v, %v", paths, err)
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		64, 32, 0, 128, // half-transparent
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)
	want := []byte{127, 63, 0, 128, 10, 20, 30, 255, 0, 0, 0, 0}
	for i := range want {
		if img.Pix[i] != want[i] {
			t.Fatalf("Pix = %v, want %v", img.Pix, want)
		}
	}
}
