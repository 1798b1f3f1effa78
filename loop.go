package grove

import (
	"context"
	"time"
)

// Backend consumes materialized trees. Draw is called once per iteration
// with a tree it must treat as read-only.
type Backend interface {
	Draw(tree *RenderingTree)
}

// InputSource delivers raw events. The frame loop stops when the channel
// is closed.
type InputSource interface {
	Events() <-chan RawEvent
}

// ChanInput is an InputSource backed by a buffered channel. It is handy in
// tests and for feeding events from another goroutine.
type ChanInput chan RawEvent

// Events returns the channel itself.
func (c ChanInput) Events() <-chan RawEvent { return c }

// TreeContext owns one component tree and runs its frame loop: drain
// mutations, render the root, materialize, hand off for drawing, then wait
// for input or loop again if more mutations are queued.
//
// Step, Run and the Inject methods must be called from a single goroutine.
// Setters may be called from anywhere.
type TreeContext struct {
	root Component
	cfg  Config
	log  *debugLog

	store   *instanceStore
	channel *mutationChannel
	atoms   *atomRegistry
	updated map[SignalID]struct{}
	rec     recorder
	tasks   *taskGroup

	base   context.Context
	cancel context.CancelFunc

	now       func() time.Time
	frameTime time.Time
	frame     uint64

	rawEvent *RawEvent
	stopped  bool

	last            *RenderingTree
	injectQueue     []RawEvent
	screenshotQueue []string
	testRunner      *TestRunner
}

// NewTreeContext creates a tree for root. Nothing is rendered until the
// first Step.
func NewTreeContext(root Component, cfg Config) *TreeContext {
	if root == nil {
		panic("grove: NewTreeContext called with nil root component")
	}
	cfg = cfg.withDefaults()
	log := newDebugLog(cfg.DebugOutput)
	base, cancel := context.WithCancel(context.Background())
	return &TreeContext{
		root:    root,
		cfg:     cfg,
		log:     log,
		store:   newInstanceStore(log, cfg.Debug),
		channel: newMutationChannel(),
		atoms:   newAtomRegistry(),
		updated: make(map[SignalID]struct{}),
		tasks:   newTaskGroup(cfg.MaxTasks),
		base:    base,
		cancel:  cancel,
		now:     time.Now,
	}
}

// SetClock replaces the frame clock. Useful for deterministic animation
// in tests.
func (t *TreeContext) SetClock(now func() time.Time) {
	t.now = now
}

// Config returns the effective configuration.
func (t *TreeContext) Config() Config { return t.cfg }

// Frame returns the number of iterations run so far.
func (t *TreeContext) Frame() uint64 { return t.frame }

// Tree returns the tree materialized by the last iteration, or nil before
// the first one.
func (t *TreeContext) Tree() *RenderingTree { return t.last }

// Pending reports whether mutations are queued for the next iteration.
func (t *TreeContext) Pending() bool { return t.channel.pending() }

// Instances returns the number of live component instances.
func (t *TreeContext) Instances() int { return t.store.len() }

// Step runs one iteration with ev as the iteration's raw event (nil for
// none) and returns the materialized tree. A panic raised while rendering
// propagates to the caller.
func (t *TreeContext) Step(ev *RawEvent) *RenderingTree {
	var stats frameStats
	t.frame++

	for _, err := range t.tasks.poll() {
		t.log.printf("%v", err)
	}

	start := time.Now()
	stats.mutationCount = t.drain()
	stats.drainTime = time.Since(start)

	t.rawEvent = ev
	t.stopped = false
	t.frameTime = t.now()

	start = time.Now()
	slot := &ComposeCtx{tree: t, transform: identityTransform}
	t.store.root.lastVisit = t.frame
	t.renderInstance(t.store.root.child(rootKey, typeNameOf(t.root)), t.root, slot)
	stats.renderTime = time.Since(start)

	start = time.Now()
	tree := slot.Materialize()
	stats.materializeTime = time.Since(start)

	stats.prunedCount = t.store.sweep(t.frame, t.cfg.PruneAfter)
	stats.updatedCount = len(t.updated)
	stats.instanceCount = t.store.len()

	t.rawEvent = nil
	clear(t.updated)
	t.last = tree
	t.debugLogFrame(stats)
	return tree
}

// rootKey is the child key of the root component under the store's root.
const rootKey = "root"

// renderInstance runs one render pass of comp on inst, composing into slot.
func (t *TreeContext) renderInstance(inst *Instance, comp Component, slot *ComposeCtx) {
	rc := &RenderCtx{tree: t, inst: inst, compose: slot, active: true}
	slot.owner = rc
	inst.beforeRender(t.frame)
	comp.Render(rc)
	rc.active = false
	inst.afterRender()
}

// drain applies queued mutations: atoms immediately, instance state into
// the owning instance's pending queue. It returns the number of items.
func (t *TreeContext) drain() int {
	items := t.channel.drain()
	for _, it := range items {
		switch {
		case it.kind == mutationWake:
		case it.id.Kind == SignalAtom:
			if t.atoms.apply(it) {
				t.markUpdated(it.id)
			} else if t.cfg.Debug {
				t.log.printf("dropped mutation of uninitialized %s", it.id)
			}
		case it.id.Kind == SignalState:
			in := t.store.lookup(it.id.Instance)
			if in == nil {
				if t.cfg.Debug {
					t.log.printf("dropped mutation of %s: instance pruned", it.id)
				}
				continue
			}
			in.pending[it.id.Index] = append(in.pending[it.id.Index], it)
		default:
			panic("grove: mutation targets read-only signal " + it.id.String())
		}
	}
	return len(items)
}

func (t *TreeContext) markUpdated(id SignalID) {
	t.updated[id] = struct{}{}
}

// anyUpdated reports whether any of ids changed this iteration.
func (t *TreeContext) anyUpdated(ids []SignalID) bool {
	for _, id := range ids {
		if _, ok := t.updated[id]; ok {
			return true
		}
	}
	return false
}

// Run mounts the tree and loops until ctx is cancelled or the input
// channel closes. Queued mutations trigger an immediate iteration; otherwise
// Run blocks until a raw event arrives or a setter wakes it. out may be nil.
func (t *TreeContext) Run(ctx context.Context, in InputSource, out Backend) error {
	var events <-chan RawEvent
	if in != nil {
		events = in.Events()
	}
	t.draw(out, t.Step(nil))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var ev *RawEvent
		switch {
		case len(t.injectQueue) > 0:
			ev = t.nextInjected()
		case t.Pending():
		default:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case e, ok := <-events:
				if !ok {
					return nil
				}
				ev = &e
			case <-t.channel.wake:
			}
		}
		t.draw(out, t.Step(ev))
	}
}

func (t *TreeContext) draw(out Backend, tree *RenderingTree) {
	if out == nil {
		return
	}
	start := time.Now()
	out.Draw(tree)
	t.debugLogDraw(time.Since(start))
}

// wake posts a signal-less item so the loop runs another iteration.
func (t *TreeContext) wake() {
	t.channel.push(mutationItem{kind: mutationWake})
}

// Close discards every instance, running effect cleanups, then cancels the
// context of every spawned task and waits for running tasks to return. Like
// Step, it must be called from the frame goroutine.
func (t *TreeContext) Close() {
	t.store.discardAll()
	t.cancel()
	t.tasks.wait()
}
