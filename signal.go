package grove

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// SignalKind identifies which registry a signal lives in.
type SignalKind uint8

const (
	SignalAtom    SignalKind = iota // tree-wide value declared with NewAtom
	SignalState                     // per-instance UseState slot
	SignalMemo                      // per-instance UseMemo slot
	SignalTrackEq                   // per-instance UseTrackEq slot
)

// String returns the kind name.
func (k SignalKind) String() string {
	switch k {
	case SignalAtom:
		return "atom"
	case SignalState:
		return "state"
	case SignalMemo:
		return "memo"
	case SignalTrackEq:
		return "track_eq"
	default:
		return fmt.Sprintf("SignalKind(%d)", k)
	}
}

// InstanceID identifies a live component instance. IDs are never reused
// within one process.
type InstanceID uint64

// SignalID is the stable identity of a reactive value. Dependency tracking
// compares identities, never values. Instance is zero for atoms.
type SignalID struct {
	Kind     SignalKind
	Index    int
	Instance InstanceID
}

// String returns a compact form such as "state#2@7".
func (id SignalID) String() string {
	if id.Kind == SignalAtom {
		return fmt.Sprintf("atom#%d", id.Index)
	}
	return fmt.Sprintf("%s#%d@%d", id.Kind, id.Index, id.Instance)
}

// atomCounter hands out atom indices. Indices are process-wide so one *Atom
// can be shared by several trees, each holding its own value.
var atomCounter atomic.Int64

// Atom is a signal shared by every component of a tree rather than owned by
// one instance. Declare atoms once, typically as package-level variables:
//
//	var counter = grove.NewAtom[int]()
//
// and read them with [UseAtomInit] or [UseAtom].
type Atom[T any] struct {
	once  sync.Once
	index int
}

// NewAtom declares a new atom.
func NewAtom[T any]() *Atom[T] {
	return &Atom[T]{}
}

// ID returns the atom's signal identity. The index is assigned on first call
// and is stable for the atom's lifetime. Safe for concurrent use.
func (a *Atom[T]) ID() SignalID {
	a.once.Do(func() {
		a.index = int(atomCounter.Add(1) - 1)
	})
	return SignalID{Kind: SignalAtom, Index: a.index}
}

// atomSlot is one stored atom value with its declared type.
type atomSlot struct {
	typ   reflect.Type
	value any
}

// atomRegistry stores the atom values of one TreeContext.
// Only the frame goroutine touches it.
type atomRegistry struct {
	values map[int]*atomSlot
}

func newAtomRegistry() *atomRegistry {
	return &atomRegistry{values: make(map[int]*atomSlot)}
}

// lookup returns the slot for id, or nil if the atom was never initialized.
func (r *atomRegistry) lookup(id SignalID) *atomSlot {
	return r.values[id.Index]
}

// init stores value as the atom's first value.
func (r *atomRegistry) init(id SignalID, typ reflect.Type, value any) *atomSlot {
	s := &atomSlot{typ: typ, value: value}
	r.values[id.Index] = s
	return s
}

// apply writes a drained mutation to the atom. It reports false when a
// Mutate targets an atom that holds no value yet.
func (r *atomRegistry) apply(it mutationItem) bool {
	s := r.values[it.id.Index]
	switch it.kind {
	case mutationSet:
		if s == nil {
			r.values[it.id.Index] = &atomSlot{typ: it.typ, value: it.value}
			return true
		}
		s.value = it.value
	case mutationMutate:
		if s == nil {
			return false
		}
		s.value = it.mutate(s.value)
	}
	return true
}

// Sig is a read handle on a signal's value as of the current render pass.
// A Sig is a snapshot: it may be captured by a spawned task and read from
// any goroutine.
type Sig[T any] struct {
	id    SignalID
	value T
	rec   *recorder
}

// Get returns the value and, inside an effect or memo body, records the
// signal as a dependency of that body. Tasks should read with Peek: a Get
// from another goroutine is safe, but it counts as a read of any body that
// happens to be running on the frame goroutine at that moment.
func (s Sig[T]) Get() T {
	if s.rec != nil {
		s.rec.record(s.id)
	}
	return s.value
}

// Peek returns the value without recording a dependency.
func (s Sig[T]) Peek() T { return s.value }

// ID returns the signal identity.
func (s Sig[T]) ID() SignalID { return s.id }

// recorder collects the signals read while effect and memo bodies run.
// Bodies nest (a memo read inside an effect), so each body remembers where
// its own reads start. Bodies run on the frame goroutine; record may be
// called from anywhere.
type recorder struct {
	depth atomic.Int32

	mu   sync.Mutex
	used []SignalID
}

// start opens a recording and returns its start index.
func (r *recorder) start() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depth.Add(1)
	return len(r.used)
}

// take closes the recording opened at start and returns the deduplicated
// signals read since then. Reads stay visible to enclosing recordings.
func (r *recorder) take(start int) []SignalID {
	r.mu.Lock()
	ids := slices.Clone(r.used[start:])
	if r.depth.Add(-1) == 0 {
		r.used = r.used[:0]
	}
	r.mu.Unlock()
	slices.SortFunc(ids, compareSignalID)
	return slices.Compact(ids)
}

func (r *recorder) record(id SignalID) {
	if r.depth.Load() == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.depth.Load() > 0 {
		r.used = append(r.used, id)
	}
}

func compareSignalID(a, b SignalID) int {
	switch {
	case a.Kind != b.Kind:
		return int(a.Kind) - int(b.Kind)
	case a.Instance != b.Instance:
		if a.Instance < b.Instance {
			return -1
		}
		return 1
	default:
		return a.Index - b.Index
	}
}
