package grove

import "slices"

// clipEntry is one clip in effect for a composition context. inv maps
// global coordinates into the space the clip shape was given in.
type clipEntry struct {
	inv   [6]float64
	shape Shape
	op    ClipOp
}

// lazyNode is a pending node whose children are filled by slot. It turns
// into a RenderingTree only when materialized.
type lazyNode struct {
	kind   NodeKind
	x, y   float64
	angle  float64
	clip   Shape
	op     ClipOp
	cursor Cursor
	slot   *ComposeCtx
}

func (l *lazyNode) materialize() *RenderingTree {
	inner := l.slot.Materialize()
	if l.kind == NodeChildren {
		return inner
	}
	return &RenderingTree{
		Kind:     l.kind,
		X:        l.x,
		Y:        l.y,
		Angle:    l.angle,
		Clip:     l.clip,
		ClipOp:   l.op,
		Cursor:   l.cursor,
		Children: inner.Children,
	}
}

// composeChild is either an already materialized tree or a lazy node.
type composeChild struct {
	tree *RenderingTree
	lazy *lazyNode
}

// ComposeCtx builds a component's output. Each transforming call returns a
// child context whose additions inherit the accumulated transform.
//
// Children added earlier are in front of children added later: they are
// drawn last and see events first.
type ComposeCtx struct {
	tree      *TreeContext
	owner     *RenderCtx
	parent    *ComposeCtx
	transform [6]float64
	clips     []clipEntry
	children  []composeChild
	cached    *RenderingTree
}

// nest appends a lazy node and returns the context that fills it.
func (c *ComposeCtx) nest(n *lazyNode, transform [6]float64, clips []clipEntry) *ComposeCtx {
	child := &ComposeCtx{
		tree:      c.tree,
		owner:     c.owner,
		parent:    c,
		transform: transform,
		clips:     clips,
	}
	n.slot = child
	c.push(composeChild{lazy: n})
	return child
}

// push appends a child and drops cached materializations up to the root.
func (c *ComposeCtx) push(ch composeChild) {
	c.owner.check("compose")
	c.children = append(c.children, ch)
	for p := c; p != nil; p = p.parent {
		p.cached = nil
	}
}

// Transform returns the accumulated transform as [a b c d tx ty].
func (c *ComposeCtx) Transform() [6]float64 {
	return c.transform
}

// Translate returns a context offset by (x, y).
func (c *ComposeCtx) Translate(x, y float64) *ComposeCtx {
	return c.nest(&lazyNode{kind: NodeTranslate, x: x, y: y},
		multiplyAffine(c.transform, translateAffine(x, y)), c.clips)
}

// Absolute returns a context placed at (x, y) from the root, discarding the
// transforms of every ancestor.
func (c *ComposeCtx) Absolute(x, y float64) *ComposeCtx {
	return c.nest(&lazyNode{kind: NodeAbsolute, x: x, y: y},
		translateAffine(x, y), c.clips)
}

// Rotate returns a context rotated by angle radians about the local origin.
func (c *ComposeCtx) Rotate(angle float64) *ComposeCtx {
	return c.nest(&lazyNode{kind: NodeRotate, angle: angle},
		multiplyAffine(c.transform, rotateAffine(angle)), c.clips)
}

// Scale returns a context scaled by (sx, sy) about the local origin.
func (c *ComposeCtx) Scale(sx, sy float64) *ComposeCtx {
	return c.nest(&lazyNode{kind: NodeScale, x: sx, y: sy},
		multiplyAffine(c.transform, scaleAffine(sx, sy)), c.clips)
}

// Clip returns a context whose output and events are gated by shape, given
// in this context's local space.
func (c *ComposeCtx) Clip(shape Shape, op ClipOp) *ComposeCtx {
	entry := clipEntry{inv: invertAffine(c.transform), shape: shape, op: op}
	return c.nest(&lazyNode{kind: NodeClip, clip: shape, op: op},
		c.transform, append(slices.Clip(c.clips), entry))
}

// OnTop returns a context drawn and hit-tested above everything else.
func (c *ComposeCtx) OnTop() *ComposeCtx {
	return c.nest(&lazyNode{kind: NodeOnTop}, c.transform, c.clips)
}

// MouseCursor returns a context that requests cursor while the pointer is
// over anything composed into it.
func (c *ComposeCtx) MouseCursor(cursor Cursor) *ComposeCtx {
	return c.nest(&lazyNode{kind: NodeCursor, cursor: cursor}, c.transform, c.clips)
}

// Compose calls fn with a plain nested context.
func (c *ComposeCtx) Compose(fn func(c *ComposeCtx)) {
	fn(c.nest(&lazyNode{kind: NodeChildren}, c.transform, c.clips))
}

// Add renders comp synchronously as a child of the rendering instance and
// appends its output.
func (c *ComposeCtx) Add(comp Component) {
	c.owner.check("Add")
	if comp == nil {
		panic("grove: " + c.owner.inst.path.String() + ": Add called with nil component")
	}
	typeName := typeNameOf(comp)
	parent := c.owner.inst
	inst := parent.child(parent.claimKey(comp, typeName), typeName)
	slot := c.nest(&lazyNode{kind: NodeChildren}, c.transform, c.clips)
	c.tree.renderInstance(inst, comp, slot)
}

// AddLeaf appends a drawable primitive.
func (c *ComposeCtx) AddLeaf(d Drawable) {
	c.push(composeChild{tree: &RenderingTree{Kind: NodeLeaf, Leaf: d}})
}

// AddTree appends an already materialized tree.
func (c *ComposeCtx) AddTree(rt *RenderingTree) {
	if rt == nil {
		return
	}
	c.push(composeChild{tree: rt})
}

// Materialize returns the immutable tree of everything composed into c so
// far. The result is cached until something is appended to c or one of its
// descendants.
func (c *ComposeCtx) Materialize() *RenderingTree {
	if c.cached != nil {
		return c.cached
	}
	if len(c.children) == 0 {
		c.cached = &RenderingTree{Kind: NodeEmpty}
		return c.cached
	}
	n := &RenderingTree{Kind: NodeChildren, Children: make([]*RenderingTree, 0, len(c.children))}
	for i := len(c.children) - 1; i >= 0; i-- {
		ch := c.children[i]
		if ch.tree != nil {
			n.Children = append(n.Children, ch.tree)
			continue
		}
		n.Children = append(n.Children, ch.lazy.materialize())
	}
	c.cached = n
	return n
}

// AttachEvent offers the iteration's raw event, if any, to handler. A
// handler returning Stop hides the event from every AttachEvent and
// OnRawEvent call made after it.
func (c *ComposeCtx) AttachEvent(handler func(e Event) Propagation) {
	c.owner.check("AttachEvent")
	t := c.tree
	if t.rawEvent == nil || t.stopped {
		return
	}
	if handler(Event{Kind: t.rawEvent.Kind, raw: t.rawEvent, ctx: c}) == Stop {
		t.stopped = true
	}
}

// OnRawEvent calls fn with the iteration's raw event, if any, unless an
// earlier handler stopped it.
func (c *ComposeCtx) OnRawEvent(fn func(ev RawEvent)) {
	c.owner.check("OnRawEvent")
	t := c.tree
	if t.rawEvent == nil || t.stopped {
		return
	}
	fn(*t.rawEvent)
}

// containsGlobal reports whether the global point passes every clip in
// effect and hits something composed into c.
func (c *ComposeCtx) containsGlobal(gx, gy float64) bool {
	for _, cl := range c.clips {
		if cl.shape == nil {
			continue
		}
		lx, ly := transformPoint(cl.inv, gx, gy)
		if cl.shape.Contains(lx, ly) != (cl.op == ClipIntersect) {
			return false
		}
	}
	return c.Materialize().containsAt(c.transform, gx, gy)
}
