package grove

import (
	"math"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

// tweenTree renders a single UseTween toward *target on a fake clock.
func tweenTree(target *float64, duration time.Duration, fn ease.TweenFunc) (*TreeContext, *float64, *time.Time) {
	var got float64
	now := time.Unix(1000, 0)
	tree := newTestTree(ComponentFunc(func(ctx *RenderCtx) {
		got = UseTween(ctx, *target, duration, fn)
	}))
	tree.SetClock(func() time.Time { return now })
	return tree, &got, &now
}

func TestUseTweenReachesTarget(t *testing.T) {
	target := 0.0
	tree, got, now := tweenTree(&target, time.Second, ease.Linear)

	tree.Step(nil)
	if *got != 0 || tree.Pending() {
		t.Fatalf("first render = %v, pending %v; want 0 and idle", *got, tree.Pending())
	}

	target = 100
	tree.Step(nil)
	if *got != 0 {
		t.Errorf("value at tween start = %v, want 0", *got)
	}
	if !tree.Pending() {
		t.Error("running tween should request another frame")
	}

	*now = now.Add(500 * time.Millisecond)
	tree.Step(nil)
	if math.Abs(*got-50) > 0.01 {
		t.Errorf("value at half time = %v, want ~50", *got)
	}

	*now = now.Add(500 * time.Millisecond)
	tree.Step(nil)
	if *got != 100 {
		t.Errorf("value after full duration = %v, want 100", *got)
	}
	if tree.Pending() {
		t.Error("finished tween still requests frames")
	}
}

func TestUseTweenZeroDurationJumps(t *testing.T) {
	target := 5.0
	tree, got, _ := tweenTree(&target, 0, ease.Linear)
	tree.Step(nil)
	target = 9
	tree.Step(nil)
	if *got != 9 || tree.Pending() {
		t.Errorf("zero duration = %v, pending %v; want 9 and idle", *got, tree.Pending())
	}
}

func TestUseTweenRetargetsFromCurrentValue(t *testing.T) {
	target := 0.0
	tree, got, now := tweenTree(&target, time.Second, ease.Linear)
	tree.Step(nil)
	target = 100
	tree.Step(nil)
	*now = now.Add(500 * time.Millisecond)
	tree.Step(nil)

	target = 0
	tree.Step(nil)
	if math.Abs(*got-50) > 0.01 {
		t.Errorf("value right after retarget = %v, want ~50", *got)
	}
	*now = now.Add(500 * time.Millisecond)
	tree.Step(nil)
	if math.Abs(*got-25) > 0.01 {
		t.Errorf("value half way back = %v, want ~25", *got)
	}
}

func TestUseTweenEasingFunctionsDiffer(t *testing.T) {
	mid := func(fn ease.TweenFunc) float64 {
		target := 0.0
		tree, got, now := tweenTree(&target, time.Second, fn)
		tree.Step(nil)
		target = 1
		tree.Step(nil)
		*now = now.Add(250 * time.Millisecond)
		tree.Step(nil)
		return *got
	}
	linear, quad := mid(ease.Linear), mid(ease.InQuad)
	if math.Abs(linear-quad) < 0.01 {
		t.Errorf("Linear and InQuad gave the same value %v at a quarter", linear)
	}
}
