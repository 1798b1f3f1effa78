package grove

import (
	"reflect"
	"sync"
)

// mutationKind selects how a mutationItem changes its signal.
type mutationKind uint8

const (
	mutationSet    mutationKind = iota // replace the value
	mutationMutate                     // run a closure over the current value
	mutationWake                       // no signal, only forces another iteration
)

// mutationItem is one queued change. mutate receives the then-current
// stored value and returns the new one. typ is the setter's declared type.
type mutationItem struct {
	id     SignalID
	kind   mutationKind
	typ    reflect.Type
	value  any
	mutate func(any) any
}

// mutationChannel is the ordered queue of pending changes. push may be
// called from any goroutine; drain runs on the frame goroutine only.
type mutationChannel struct {
	mu    sync.Mutex
	items []mutationItem
	wake  chan struct{}
}

func newMutationChannel() *mutationChannel {
	return &mutationChannel{wake: make(chan struct{}, 1)}
}

// push appends an item and signals the frame loop. It never blocks.
func (c *mutationChannel) push(it mutationItem) {
	c.mu.Lock()
	c.items = append(c.items, it)
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// drain removes and returns every queued item in submission order.
// A stale wake-up token is consumed too; items pushed after drain post a
// fresh one.
func (c *mutationChannel) drain() []mutationItem {
	select {
	case <-c.wake:
	default:
	}
	c.mu.Lock()
	items := c.items
	c.items = nil
	c.mu.Unlock()
	return items
}

// pending reports whether any item is queued.
func (c *mutationChannel) pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) > 0
}

// Setter writes a signal through the mutation channel. The change becomes
// visible on the next frame iteration, never within the render pass that
// issued it. Setters are values and may be copied freely and used from any
// goroutine.
type Setter[T any] struct {
	id SignalID
	ch *mutationChannel
}

// Set queues v as the signal's new value.
func (s Setter[T]) Set(v T) {
	s.ch.push(mutationItem{id: s.id, kind: mutationSet, typ: reflect.TypeFor[T](), value: v})
}

// Mutate queues fn to run against the value stored when the change is
// applied. Mutations of one signal apply in submission order.
func (s Setter[T]) Mutate(fn func(*T)) {
	s.ch.push(mutationItem{
		id:   s.id,
		kind: mutationMutate,
		typ:  reflect.TypeFor[T](),
		mutate: func(cur any) any {
			v, _ := cur.(T)
			fn(&v)
			return v
		},
	})
}

// ID returns the signal identity the setter writes.
func (s Setter[T]) ID() SignalID { return s.id }
