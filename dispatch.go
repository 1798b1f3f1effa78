package grove

// VisitAction controls a tree walk.
type VisitAction uint8

const (
	VisitContinue     VisitAction = iota // descend into the node's children
	VisitSkipChildren                    // continue with the node's next sibling
	VisitStop                            // end the walk
)

// visitFunc receives the path from the walk root to the current node (the
// node itself last) and the transform from the node's child space to
// global space.
type visitFunc func(path []*RenderingTree, m [6]float64) VisitAction

// walkFront visits the tree front-most first: nodes inside on-top subtrees
// in a first pass, then every other node. Within a pass a node is visited
// before its children, and children are visited in reverse draw order.
// On-top subtrees are not gated by clips outside them.
func (rt *RenderingTree) walkFront(m [6]float64, fn visitFunc) {
	var path []*RenderingTree
	if !walkPass(rt, m, true, false, &path, fn) {
		return
	}
	walkPass(rt, m, false, false, &path, fn)
}

// walkPass returns false once fn asks to stop.
func walkPass(n *RenderingTree, parent [6]float64, onTopPass, inOnTop bool, path *[]*RenderingTree, fn visitFunc) bool {
	if n == nil {
		return true
	}
	if n.Kind == NodeOnTop {
		if !onTopPass && !inOnTop {
			return true
		}
		inOnTop = true
	}
	m := n.local(parent)
	*path = append(*path, n)
	defer func() { *path = (*path)[:len(*path)-1] }()

	if onTopPass == inOnTop {
		switch fn(*path, m) {
		case VisitStop:
			return false
		case VisitSkipChildren:
			return true
		}
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if !walkPass(n.Children[i], m, onTopPass, inOnTop, path, fn) {
			return false
		}
	}
	return true
}

// Visit walks the tree front-most first, calling fn with each node and the
// inverse transform that maps global coordinates into the node's local
// space.
func (rt *RenderingTree) Visit(fn func(n *RenderingTree, inv [6]float64) VisitAction) {
	rt.walkFront(identityTransform, func(path []*RenderingTree, m [6]float64) VisitAction {
		return fn(path[len(path)-1], invertAffine(m))
	})
}

// Hit is a leaf under a point.
type Hit struct {
	Node  *RenderingTree
	Local Vec2
}

// walkHits calls fn for each leaf containing the global point, front-most
// first, until fn returns false. Clip nodes the point fails prune their
// subtree.
func (rt *RenderingTree) walkHits(m [6]float64, gx, gy float64, fn func(path []*RenderingTree, local Vec2) bool) {
	rt.walkFront(m, func(path []*RenderingTree, m [6]float64) VisitAction {
		n := path[len(path)-1]
		switch n.Kind {
		case NodeClip:
			if n.Clip == nil {
				return VisitContinue
			}
			lx, ly := transformPoint(invertAffine(m), gx, gy)
			if n.Clip.Contains(lx, ly) != (n.ClipOp == ClipIntersect) {
				return VisitSkipChildren
			}
		case NodeLeaf:
			if n.Leaf == nil {
				return VisitContinue
			}
			lx, ly := transformPoint(invertAffine(m), gx, gy)
			if n.Leaf.Contains(lx, ly) && !fn(path, Vec2{lx, ly}) {
				return VisitStop
			}
		}
		return VisitContinue
	})
}

// HitTest returns every leaf containing the global point (x, y), front-most
// first, with the point in each leaf's local coordinates.
func (rt *RenderingTree) HitTest(x, y float64) []Hit {
	var hits []Hit
	rt.walkHits(identityTransform, x, y, func(path []*RenderingTree, local Vec2) bool {
		hits = append(hits, Hit{Node: path[len(path)-1], Local: local})
		return true
	})
	return hits
}

// CursorAt returns the cursor requested by the nearest NodeCursor ancestor
// of the front-most leaf under (x, y). It reports false when no leaf is
// hit or that leaf requests no cursor.
func (rt *RenderingTree) CursorAt(x, y float64) (Cursor, bool) {
	cursor, found := CursorDefault, false
	rt.walkHits(identityTransform, x, y, func(path []*RenderingTree, _ Vec2) bool {
		for i := len(path) - 1; i >= 0; i-- {
			if path[i].Kind == NodeCursor {
				cursor, found = path[i].Cursor, true
				break
			}
		}
		return false
	})
	return cursor, found
}

// containsAt reports whether any leaf contains the global point, with m the
// transform of the tree's parent space.
func (rt *RenderingTree) containsAt(m [6]float64, gx, gy float64) bool {
	hit := false
	rt.walkHits(m, gx, gy, func([]*RenderingTree, Vec2) bool {
		hit = true
		return false
	})
	return hit
}
