package tree

import (
	"github.com/benz9527/xbst/lib/infra"
)

// The parent link is navigation only. Subtrees are owned through left
// and right, teardown never follows parent.
type bstNode[K infra.OrderedKey, M any] struct {
	parent *bstNode[K, M]
	left   *bstNode[K, M]
	right  *bstNode[K, M]
	key    K
	meta   M
}

func (node *bstNode[K, M]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *bstNode[K, M]) isLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func (node *bstNode[K, M]) direction() Direction {
	if node == nil {
		// impossible run to here
		panic(infra.NewErrorStack("[bstree] nil node without direction"))
	}
	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *bstNode[K, M]) child(dir Direction) *bstNode[K, M] {
	switch dir {
	case Left:
		return node.left
	case Right:
		return node.right
	default:
	}
	return nil
}

func (node *bstNode[K, M]) setChild(dir Direction, c *bstNode[K, M]) {
	switch dir {
	case Left:
		node.left = c
	case Right:
		node.right = c
	default:
		// impossible run to here
		panic(infra.NewErrorStack("[bstree] set child with root direction"))
	}
	if c != nil {
		c.parent = node
	}
}

func (node *bstNode[K, M]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *bstNode[K, M]) minimum() *bstNode[K, M] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *bstNode[K, M]) maximum() *bstNode[K, M] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}
