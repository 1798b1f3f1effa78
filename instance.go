package grove

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// InstancePath is the key sequence from the root to a component instance.
// It stays stable across frames as long as every ancestor keeps producing
// the same child key.
type InstancePath []string

// String returns the path joined with "/".
func (p InstancePath) String() string {
	return "/" + strings.Join(p, "/")
}

// hookCounts tracks how many hooks of each kind a render pass called.
type hookCounts struct {
	states   int
	memos    int
	effects   int
	trackEqs  int
	intervals int
}

type stateSlot struct {
	typ   reflect.Type
	value any
}

type memoSlot struct {
	typ   reflect.Type
	value any
	deps  []SignalID
}

type effectSlot struct {
	label   string
	deps    []SignalID
	cleanup func()
}

type trackSlot struct {
	typ   reflect.Type
	value any
}

type intervalSlot struct {
	label string
	last  time.Time
	timer *time.Timer
}

// arm wakes the frame loop after d, replacing any earlier wake-up.
func (s *intervalSlot) arm(d time.Duration, wake func()) {
	d = max(d, 0)
	if s.timer == nil {
		s.timer = time.AfterFunc(d, wake)
		return
	}
	s.timer.Reset(d)
}

// Instance is the persistent storage behind one occurrence of a component.
// It is owned by its parent's child map and lives until it is pruned.
type Instance struct {
	id       InstanceID
	path     InstancePath
	typeName string
	store    *instanceStore
	parent   *Instance
	children map[string]*Instance

	states   []stateSlot
	memos    []memoSlot
	effects   []effectSlot
	trackEqs  []trackSlot
	intervals []intervalSlot
	pending   map[int][]mutationItem

	cursor      hookCounts
	prev        hookCounts
	firstRender bool
	lastVisit   uint64

	// Per-pass child key bookkeeping.
	claimed map[string]struct{}
	seq     map[string]int

	taskCtx context.Context
	cancel  context.CancelFunc
}

// ID returns the instance identity used in SignalIDs.
func (in *Instance) ID() InstanceID { return in.id }

// Path returns the instance's position in the component tree.
func (in *Instance) Path() InstancePath { return in.path }

// TypeName returns the Go type name of the component rendered here.
func (in *Instance) TypeName() string { return in.typeName }

// child returns the child instance stored under key, creating it on first
// visit. A key reused by a component of a different type replaces the old
// instance and discards its state.
func (in *Instance) child(key, typeName string) *Instance {
	if c, ok := in.children[key]; ok {
		if c.typeName == typeName {
			return c
		}
		in.store.discard(c)
	}
	c := in.store.newInstance(in, key, typeName)
	in.children[key] = c
	if in.store.debug {
		debugCheckTreeDepth(in.store.log, c)
		debugCheckChildCount(in.store.log, in)
	}
	return c
}

// claimKey returns the key a component takes under in during the current
// pass. Components implementing Keyed choose their own; the rest are keyed
// by type name and occurrence.
func (in *Instance) claimKey(comp Component, typeName string) string {
	var key string
	if k, ok := comp.(Keyed); ok {
		key = k.Key()
	} else {
		key = fmt.Sprintf("%s#%d", typeName, in.seq[typeName])
		in.seq[typeName]++
	}
	if _, dup := in.claimed[key]; dup {
		panic(fmt.Sprintf("grove: %s: duplicate child key %q", in.path, key))
	}
	in.claimed[key] = struct{}{}
	return key
}

// beforeRender opens a render pass stamped with epoch.
func (in *Instance) beforeRender(epoch uint64) {
	in.cursor = hookCounts{}
	in.lastVisit = epoch
	clear(in.claimed)
	clear(in.seq)
}

// afterRender closes a render pass. Every pass after the first must call
// exactly as many hooks of each kind as the one before it.
func (in *Instance) afterRender() {
	if !in.firstRender && in.cursor != in.prev {
		panic(fmt.Sprintf("grove: %s: hook count changed between renders "+
			"(state %d->%d, memo %d->%d, effect %d->%d, track_eq %d->%d, interval %d->%d)",
			in.path,
			in.prev.states, in.cursor.states,
			in.prev.memos, in.cursor.memos,
			in.prev.effects, in.cursor.effects,
			in.prev.trackEqs, in.cursor.trackEqs,
			in.prev.intervals, in.cursor.intervals))
	}
	in.prev = in.cursor
	in.firstRender = false
}

// nextHook advances one hook cursor and returns the slot index. have is the
// number of slots of that kind already stored.
func (in *Instance) nextHook(cursor *int, have int, kind string) int {
	idx := *cursor
	*cursor++
	if !in.firstRender && idx >= have {
		panic(fmt.Sprintf("grove: %s: %s hook #%d was not called in the previous render",
			in.path, kind, idx))
	}
	return idx
}

// checkSlot panics when a slot is read with a type other than the one it
// was created with.
func (in *Instance) checkSlot(kind string, idx int, have, want reflect.Type) {
	if have != want {
		panic(fmt.Sprintf("grove: %s: %s hook #%d holds %v, read as %v",
			in.path, kind, idx, have, want))
	}
}

// applyPending applies the queued mutations of state slot idx in submission
// order. It reports whether any were applied.
func (in *Instance) applyPending(idx int) bool {
	q := in.pending[idx]
	if len(q) == 0 {
		return false
	}
	slot := &in.states[idx]
	for _, it := range q {
		switch it.kind {
		case mutationSet:
			slot.value = it.value
		case mutationMutate:
			slot.value = it.mutate(slot.value)
		}
	}
	delete(in.pending, idx)
	return true
}

// context returns the context handed to tasks spawned by this instance,
// creating it on first use.
func (in *Instance) context(base context.Context) context.Context {
	if in.taskCtx == nil {
		in.taskCtx, in.cancel = context.WithCancel(base)
	}
	return in.taskCtx
}

// instanceStore owns every live instance of one tree and indexes them by ID
// for mutation routing.
type instanceStore struct {
	root   *Instance
	byID   map[InstanceID]*Instance
	nextID InstanceID
	debug  bool
	log    *debugLog
}

func newInstanceStore(log *debugLog, debug bool) *instanceStore {
	s := &instanceStore{
		byID:  make(map[InstanceID]*Instance),
		debug: debug,
		log:   log,
	}
	s.root = s.newInstance(nil, "", "")
	return s
}

func (s *instanceStore) newInstance(parent *Instance, key, typeName string) *Instance {
	s.nextID++
	in := &Instance{
		id:          s.nextID,
		typeName:    typeName,
		store:       s,
		parent:      parent,
		children:    make(map[string]*Instance),
		pending:     make(map[int][]mutationItem),
		firstRender: true,
		claimed:     make(map[string]struct{}),
		seq:         make(map[string]int),
	}
	if parent != nil {
		in.path = append(append(InstancePath{}, parent.path...), key)
	}
	s.byID[in.id] = in
	return in
}

// lookup returns the live instance with the given ID, or nil.
func (s *instanceStore) lookup(id InstanceID) *Instance {
	return s.byID[id]
}

// len returns the number of live instances, the root sentinel excluded.
func (s *instanceStore) len() int {
	return len(s.byID) - 1
}

// discard unindexes in and its descendants, runs their effect cleanups
// (descendants first, later effects first), stops their interval wake-ups
// and cancels their tasks. The caller removes in from its parent's child map.
func (s *instanceStore) discard(in *Instance) {
	for _, c := range in.children {
		s.discard(c)
	}
	for i := len(in.effects) - 1; i >= 0; i-- {
		if cleanup := in.effects[i].cleanup; cleanup != nil {
			in.effects[i].cleanup = nil
			cleanup()
		}
	}
	for _, iv := range in.intervals {
		if iv.timer != nil {
			iv.timer.Stop()
		}
	}
	if in.cancel != nil {
		in.cancel()
	}
	delete(s.byID, in.id)
}

// discardAll discards every instance below the root sentinel.
func (s *instanceStore) discardAll() {
	for key, c := range s.root.children {
		s.discard(c)
		delete(s.root.children, key)
	}
}

// sweep removes instances that were not visited during the last pruneAfter
// passes. pruneAfter <= 0 disables pruning. It returns the number of
// instances removed.
func (s *instanceStore) sweep(epoch uint64, pruneAfter int) int {
	if pruneAfter <= 0 {
		return 0
	}
	before := len(s.byID)
	s.sweepChildren(s.root, epoch, uint64(pruneAfter))
	return before - len(s.byID)
}

func (s *instanceStore) sweepChildren(in *Instance, epoch, pruneAfter uint64) {
	for key, c := range in.children {
		if epoch-c.lastVisit >= pruneAfter {
			s.discard(c)
			delete(in.children, key)
			continue
		}
		s.sweepChildren(c, epoch, pruneAfter)
	}
}

// depth returns the number of ancestors between in and the root sentinel.
func (in *Instance) depth() int {
	return len(in.path)
}
