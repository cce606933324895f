package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xbst/lib/infra"
)

// Rotations rewire links only, metadata is left to the balancer.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *bsTree[K, M]) leftRotate(x *bstNode[K, M]) {
	if x == nil || x.right == nil {
		panic(infra.NewErrorStack("[bstree] left rotate node x is nil or x.right is nil"))
	}

	p, y := x.parent, x.right
	dir := x.direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()
	tree.replaceChild(p, dir, y)
	tree.stats.rotate()
}

/*
			 |                         |
			 X                         L
			/ \     rightRotate(X)    / \
	       L   S    ============>    Lc  X
		  / \                           / \
		Lc   Ld                        Ld  S
*/
func (tree *bsTree[K, M]) rightRotate(x *bstNode[K, M]) {
	if x == nil || x.left == nil {
		panic(infra.NewErrorStack("[bstree] right rotate node x is nil or x.left is nil"))
	}

	p, y := x.parent, x.left
	dir := x.direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()
	tree.replaceChild(p, dir, y)
	tree.stats.rotate()
}

// rotateUp promotes x over its parent.
func (tree *bsTree[K, M]) rotateUp(x *bstNode[K, M]) {
	if x == nil {
		panic(infra.NewErrorStack("[bstree] rotate up a vacant position"))
	}
	switch dir := x.direction(); dir {
	case Left:
		tree.rightRotate(x.parent)
	case Right:
		tree.leftRotate(x.parent)
	default:
		panic(infra.NewErrorStack("[bstree] rotate up the root node"))
	}
	tree.trace("rotate up", zap.Any("key", x.key))
}

// replaceChild links c into the slot dir of p, or into the root when
// dir is Root.
func (tree *bsTree[K, M]) replaceChild(p *bstNode[K, M], dir Direction, c *bstNode[K, M]) {
	switch dir {
	case Root:
		tree.root = c
		if c != nil {
			c.parent = nil
		}
	case Left, Right:
		p.setChild(dir, c)
	default:
		// impossible run to here
		panic(infra.NewErrorStack("[bstree] unknown node direction to replace"))
	}
}
