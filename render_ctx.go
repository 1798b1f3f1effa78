package grove

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"time"
)

// Component describes a UI subtree. Render is called once per frame for
// every instance of the component still present in the tree; it reads and
// writes state through hooks on ctx and composes its output through ctx.
//
// Render must be free of side effects other than queuing mutations and
// spawning tasks.
type Component interface {
	Render(ctx *RenderCtx)
}

// Keyed is implemented by components that choose their own child key.
// Components without a key are keyed by type name and occurrence order
// among siblings of the same type.
type Keyed interface {
	Key() string
}

// typeNameOf returns the name instances of comp are recorded under.
func typeNameOf(comp Component) string {
	return reflect.TypeOf(comp).String()
}

// ComponentFunc adapts a plain function to Component.
type ComponentFunc func(ctx *RenderCtx)

// Render calls f(ctx).
func (f ComponentFunc) Render(ctx *RenderCtx) { f(ctx) }

// RenderCtx is the hook context of one render pass of one instance.
// It is only valid while the component's Render method runs.
type RenderCtx struct {
	tree    *TreeContext
	inst    *Instance
	compose *ComposeCtx
	active  bool
}

// check panics when a hook is used after the render pass ended.
func (ctx *RenderCtx) check(hook string) {
	if !ctx.active {
		panic(fmt.Sprintf("grove: %s: %s called outside its render pass", ctx.inst.path, hook))
	}
}

// Path returns the instance path of the component being rendered.
func (ctx *RenderCtx) Path() InstancePath {
	return slices.Clone(ctx.inst.path)
}

// FirstRender reports whether this is the instance's first render pass.
func (ctx *RenderCtx) FirstRender() bool {
	return ctx.inst.firstRender
}

// Now returns the frame clock, sampled once per iteration.
func (ctx *RenderCtx) Now() time.Time {
	return ctx.tree.frameTime
}

// Frame returns the current iteration number.
func (ctx *RenderCtx) Frame() uint64 {
	return ctx.tree.frame
}

// RequestFrame asks the frame loop for another iteration even when no
// signal changes.
func (ctx *RenderCtx) RequestFrame() {
	ctx.tree.wake()
}

// Effect runs body on the first render, and again on any later frame in
// which a signal read through Sig.Get during body's previous run changed.
// The dependency set is captured afresh on every run.
func (ctx *RenderCtx) Effect(label string, body func()) {
	ctx.check("Effect")
	ctx.effect(label, func() func() {
		body()
		return nil
	})
}

// EffectCleanup is Effect for bodies that acquire something. The cleanup
// body returns, if non-nil, runs before body's next run and when the
// instance is discarded.
func (ctx *RenderCtx) EffectCleanup(label string, body func() (cleanup func())) {
	ctx.check("EffectCleanup")
	ctx.effect(label, body)
}

func (ctx *RenderCtx) effect(label string, body func() func()) {
	in := ctx.inst
	idx := in.nextHook(&in.cursor.effects, len(in.effects), "effect")
	var run bool
	if idx == len(in.effects) {
		in.effects = append(in.effects, effectSlot{label: label})
		run = true
	} else {
		run = ctx.tree.anyUpdated(in.effects[idx].deps)
	}
	if !run {
		return
	}
	if cleanup := in.effects[idx].cleanup; cleanup != nil {
		in.effects[idx].cleanup = nil
		cleanup()
	}
	start := ctx.tree.rec.start()
	cleanup := body()
	deps := ctx.tree.rec.take(start)
	in.effects[idx] = effectSlot{label: label, deps: deps, cleanup: cleanup}
	if ctx.tree.cfg.Debug {
		ctx.tree.log.printf("effect %q ran at %s (%d deps)", label, in.path, len(deps))
	}
}

// Interval calls job on the instance's first render, then on the first
// render at least d of frame-clock time after its previous call. job gets
// the time since that call, zero the first time. While the instance lives
// the frame loop is woken when the next call is due.
func (ctx *RenderCtx) Interval(label string, d time.Duration, job func(dt time.Duration)) {
	ctx.check("Interval")
	in := ctx.inst
	idx := in.nextHook(&in.cursor.intervals, len(in.intervals), "interval")
	now := ctx.tree.frameTime
	if idx == len(in.intervals) {
		in.intervals = append(in.intervals, intervalSlot{label: label, last: now})
		job(0)
	} else if dt := now.Sub(in.intervals[idx].last); dt >= d {
		in.intervals[idx].last = now
		job(dt)
		if ctx.tree.cfg.Debug {
			ctx.tree.log.printf("interval %q ran at %s after %v", label, in.path, dt)
		}
	}
	slot := &in.intervals[idx]
	slot.arm(d-now.Sub(slot.last), ctx.tree.wake)
}

// Spawn starts fn on the task executor. Its context is cancelled when the
// instance is pruned or the tree is closed. A task reports results by
// calling setters; its error, if any, is logged and never retried.
func (ctx *RenderCtx) Spawn(fn func(ctx context.Context) error) {
	ctx.check("Spawn")
	in := ctx.inst
	ctx.tree.tasks.spawn(in.context(ctx.tree.base), in.path.String(), fn)
}

// Compose opens a nested composition context on the instance's output.
func (ctx *RenderCtx) Compose(fn func(c *ComposeCtx)) {
	ctx.compose.Compose(fn)
}

// Add renders a child component into the instance's output.
func (ctx *RenderCtx) Add(c Component) {
	ctx.compose.Add(c)
}

// AddLeaf appends a drawable primitive to the instance's output.
func (ctx *RenderCtx) AddLeaf(d Drawable) {
	ctx.compose.AddLeaf(d)
}

// Root returns the instance's root composition context.
func (ctx *RenderCtx) Root() *ComposeCtx {
	return ctx.compose
}
