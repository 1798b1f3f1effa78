package grove

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// UseState returns the value of the next state slot of the instance and a
// setter for it. init runs on the first render only. Mutations queued by the
// setter are applied when the slot is read on a later frame.
func UseState[T any](ctx *RenderCtx, init func() T) (Sig[T], Setter[T]) {
	ctx.check("UseState")
	in := ctx.inst
	idx := in.nextHook(&in.cursor.states, len(in.states), "state")
	want := reflect.TypeFor[T]()
	if idx == len(in.states) {
		in.states = append(in.states, stateSlot{typ: want, value: init()})
	}
	in.checkSlot("state", idx, in.states[idx].typ, want)

	id := SignalID{Kind: SignalState, Index: idx, Instance: in.id}
	if in.applyPending(idx) {
		ctx.tree.markUpdated(id)
	}
	v, _ := in.states[idx].value.(T)
	return Sig[T]{id: id, value: v, rec: &ctx.tree.rec}, Setter[T]{id: id, ch: ctx.tree.channel}
}

// UseMemo caches the result of body. It recomputes on the first render and
// whenever a signal body read through Sig.Get last time changed. A
// recomputation marks the memo itself as changed, so effects and memos that
// read it follow.
func UseMemo[T any](ctx *RenderCtx, body func() T) Sig[T] {
	ctx.check("UseMemo")
	return memo(ctx, func(*T) (T, bool) { return body(), true })
}

// UseControlledMemo is UseMemo for bodies that can tell whether their
// result changed. body gets the previous value (nil on the first render)
// and reports whether the new one differs; only then do dependents rerun.
// Both UseMemo and UseControlledMemo take memo hook slots.
func UseControlledMemo[T any](ctx *RenderCtx, body func(prev *T) (next T, changed bool)) Sig[T] {
	ctx.check("UseControlledMemo")
	return memo(ctx, body)
}

func memo[T any](ctx *RenderCtx, body func(prev *T) (T, bool)) Sig[T] {
	in := ctx.inst
	idx := in.nextHook(&in.cursor.memos, len(in.memos), "memo")
	want := reflect.TypeFor[T]()
	var compute bool
	var prev *T
	if idx == len(in.memos) {
		in.memos = append(in.memos, memoSlot{typ: want})
		compute = true
	} else {
		in.checkSlot("memo", idx, in.memos[idx].typ, want)
		compute = ctx.tree.anyUpdated(in.memos[idx].deps)
		if v, ok := in.memos[idx].value.(T); ok {
			prev = &v
		}
	}

	id := SignalID{Kind: SignalMemo, Index: idx, Instance: in.id}
	if compute {
		start := ctx.tree.rec.start()
		v, changed := body(prev)
		deps := ctx.tree.rec.take(start)
		in.memos[idx].value = v
		in.memos[idx].deps = deps
		if changed {
			ctx.tree.markUpdated(id)
		}
	}
	v, _ := in.memos[idx].value.(T)
	return Sig[T]{id: id, value: v, rec: &ctx.tree.rec}
}

// exportAll lets cmp.Equal look into unexported struct fields.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// UseTrackEq stores value and marks the returned signal as changed whenever
// value differs structurally from the one stored on the previous render.
// It lets plain props drive effects and memos.
func UseTrackEq[T any](ctx *RenderCtx, value T) Sig[T] {
	ctx.check("UseTrackEq")
	in := ctx.inst
	idx := in.nextHook(&in.cursor.trackEqs, len(in.trackEqs), "track_eq")
	want := reflect.TypeFor[T]()
	id := SignalID{Kind: SignalTrackEq, Index: idx, Instance: in.id}
	if idx == len(in.trackEqs) {
		in.trackEqs = append(in.trackEqs, trackSlot{typ: want, value: value})
	} else {
		slot := &in.trackEqs[idx]
		in.checkSlot("track_eq", idx, slot.typ, want)
		if !cmp.Equal(slot.value, any(value), exportAll) {
			slot.value = value
			ctx.tree.markUpdated(id)
		}
	}
	v, _ := in.trackEqs[idx].value.(T)
	return Sig[T]{id: id, value: v, rec: &ctx.tree.rec}
}

// UseAtomInit reads atom, storing init() as its value if the tree holds
// none yet. Atoms are not instance slots and do not count toward the hook
// order of the calling component.
func UseAtomInit[T any](ctx *RenderCtx, atom *Atom[T], init func() T) (Sig[T], Setter[T]) {
	ctx.check("UseAtomInit")
	id := atom.ID()
	want := reflect.TypeFor[T]()
	slot := ctx.tree.atoms.lookup(id)
	if slot == nil {
		slot = ctx.tree.atoms.init(id, want, init())
	}
	return atomHandles[T](ctx, id, slot, want)
}

// UseAtom reads an atom that an earlier render initialized with
// UseAtomInit or a setter wrote. It panics otherwise.
func UseAtom[T any](ctx *RenderCtx, atom *Atom[T]) (Sig[T], Setter[T]) {
	ctx.check("UseAtom")
	id := atom.ID()
	slot := ctx.tree.atoms.lookup(id)
	if slot == nil {
		panic(fmt.Sprintf("grove: %s: %s read before it was initialized", ctx.inst.path, id))
	}
	return atomHandles[T](ctx, id, slot, reflect.TypeFor[T]())
}

func atomHandles[T any](ctx *RenderCtx, id SignalID, slot *atomSlot, want reflect.Type) (Sig[T], Setter[T]) {
	if slot.typ != want {
		panic(fmt.Sprintf("grove: %s: %s holds %v, read as %v", ctx.inst.path, id, slot.typ, want))
	}
	v, _ := slot.value.(T)
	return Sig[T]{id: id, value: v, rec: &ctx.tree.rec}, Setter[T]{id: id, ch: ctx.tree.channel}
}
