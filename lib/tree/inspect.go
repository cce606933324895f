package tree

import (
	"github.com/benz9527/xbst/lib/infra"
)

// NodeView is a restricted view of one tree position. Keys and links are
// never exposed.
// Present reports whether the position holds a node. Only the Inspector
// itself may be vacant, views returned by navigation are always present.
type NodeView[M any] interface {
	Present() bool
	// Meta returns the zero value on a vacant position.
	Meta() M
	// SetMeta panics on a vacant position.
	SetMeta(meta M)
	Side() Direction
	Parent() (NodeView[M], bool)
	Sibling() (NodeView[M], bool)
	Child(side Direction) (NodeView[M], bool)
	// RotateUp promotes the viewed node over its parent by one single
	// rotation. Panics at the root or on a vacant position.
	RotateUp()
}

// Inspector is the handle given to a Balancer for one rebalance call.
// Every view taken from it becomes unusable when the call returns.
type Inspector[M any] interface {
	NodeView[M]
	// Climb moves the handle one level up. It returns false at the root.
	Climb() bool
	// Detached returns the metadata of the unlinked node. Only the first
	// RebalanceDelete call of a loop has it.
	Detached() (M, bool)
}

type inspectSession struct {
	closed bool
}

func (s *inspectSession) check() {
	if s.closed {
		panic(infra.NewErrorStack("[bstree] inspection handle used after its rebalance call"))
	}
}

func (s *inspectSession) close() {
	s.closed = true
}

// position addresses a node or, when node is nil, the vacant slot dir
// of parent. A nil parent with a nil node is the empty root.
type position[K infra.OrderedKey, M any] struct {
	node   *bstNode[K, M]
	parent *bstNode[K, M]
	dir    Direction
}

func (pos position[K, M]) current() *bstNode[K, M] {
	if pos.node != nil {
		return pos.node
	}
	if pos.parent != nil {
		return pos.parent.child(pos.dir)
	}
	return nil
}

func (pos position[K, M]) parentNode() *bstNode[K, M] {
	if cur := pos.current(); cur != nil {
		return cur.parent
	}
	return pos.parent
}

func (pos position[K, M]) side() Direction {
	if cur := pos.current(); cur != nil {
		return cur.direction()
	}
	if pos.parent == nil {
		return Root
	}
	return pos.dir
}

type nodeView[K infra.OrderedKey, M any] struct {
	session *inspectSession
	tree    *bsTree[K, M]
	node    *bstNode[K, M]
}

func (tree *bsTree[K, M]) newView(s *inspectSession, node *bstNode[K, M]) (NodeView[M], bool) {
	if node == nil {
		return nil, false
	}
	return &nodeView[K, M]{
		session: s,
		tree:    tree,
		node:    node,
	}, true
}

func (v *nodeView[K, M]) Present() bool {
	v.session.check()
	return true
}

func (v *nodeView[K, M]) Meta() M {
	v.session.check()
	return v.node.meta
}

func (v *nodeView[K, M]) SetMeta(meta M) {
	v.session.check()
	v.node.meta = meta
}

func (v *nodeView[K, M]) Side() Direction {
	v.session.check()
	return v.node.direction()
}

func (v *nodeView[K, M]) Parent() (NodeView[M], bool) {
	v.session.check()
	return v.tree.newView(v.session, v.node.parent)
}

func (v *nodeView[K, M]) Sibling() (NodeView[M], bool) {
	v.session.check()
	if v.node.isRoot() {
		return nil, false
	}
	return v.tree.newView(v.session, v.node.parent.child(v.node.direction().Opposite()))
}

func (v *nodeView[K, M]) Child(side Direction) (NodeView[M], bool) {
	v.session.check()
	return v.tree.newView(v.session, v.node.child(side))
}

func (v *nodeView[K, M]) RotateUp() {
	v.session.check()
	v.tree.rotateUp(v.node)
}

type inspector[K infra.OrderedKey, M any] struct {
	session     *inspectSession
	tree        *bsTree[K, M]
	pos         position[K, M]
	detached    M
	hasDetached bool
}

func (h *inspector[K, M]) Present() bool {
	h.session.check()
	return h.pos.current() != nil
}

func (h *inspector[K, M]) Meta() M {
	h.session.check()
	if cur := h.pos.current(); cur != nil {
		return cur.meta
	}
	var zero M
	return zero
}

func (h *inspector[K, M]) SetMeta(meta M) {
	h.session.check()
	cur := h.pos.current()
	if cur == nil {
		panic(infra.NewErrorStack("[bstree] set metadata of a vacant position"))
	}
	cur.meta = meta
}

func (h *inspector[K, M]) Side() Direction {
	h.session.check()
	return h.pos.side()
}

func (h *inspector[K, M]) Parent() (NodeView[M], bool) {
	h.session.check()
	return h.tree.newView(h.session, h.pos.parentNode())
}

func (h *inspector[K, M]) Sibling() (NodeView[M], bool) {
	h.session.check()
	p := h.pos.parentNode()
	if p == nil {
		return nil, false
	}
	return h.tree.newView(h.session, p.child(h.pos.side().Opposite()))
}

func (h *inspector[K, M]) Child(side Direction) (NodeView[M], bool) {
	h.session.check()
	cur := h.pos.current()
	if cur == nil {
		return nil, false
	}
	return h.tree.newView(h.session, cur.child(side))
}

func (h *inspector[K, M]) RotateUp() {
	h.session.check()
	cur := h.pos.current()
	if cur == nil {
		panic(infra.NewErrorStack("[bstree] rotate up a vacant position"))
	}
	h.tree.rotateUp(cur)
}

func (h *inspector[K, M]) Climb() bool {
	h.session.check()
	next, ok := h.up()
	if ok {
		h.pos = next
	}
	return ok
}

func (h *inspector[K, M]) Detached() (M, bool) {
	h.session.check()
	return h.detached, h.hasDetached
}

// up is the position one level above, usable after the session closed.
func (h *inspector[K, M]) up() (position[K, M], bool) {
	p := h.pos.parentNode()
	if p == nil {
		return position[K, M]{}, false
	}
	return position[K, M]{node: p}, true
}
