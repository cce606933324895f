package tree

import (
	"github.com/benz9527/xbst/lib/infra"
)

// AVLHeight is the height of a subtree counted in edges. A leaf is 0 and
// an absent child counts -1.
type AVLHeight int

const absentAVLHeight AVLHeight = -1

// References:
// https://en.wikipedia.org/wiki/AVL_tree
// Balance factor bf = height(left) - height(right), kept in [-1, 1].
type AVL struct{}

var _ Balancer[AVLHeight] = AVL{}

func (AVL) InitMeta() AVLHeight {
	return 0
}

func avlChildHeight(v NodeView[AVLHeight], side Direction) AVLHeight {
	c, ok := v.Child(side)
	if !ok {
		return absentAVLHeight
	}
	return c.Meta()
}

func avlBalanceFactor(v NodeView[AVLHeight]) AVLHeight {
	return avlChildHeight(v, Left) - avlChildHeight(v, Right)
}

func avlUpdateHeight(v NodeView[AVLHeight]) {
	v.SetMeta(max(avlChildHeight(v, Left), avlChildHeight(v, Right)) + 1)
}

/*
Z is the unbalanced node, Y its heavier child, X the heavier child of Y.

LL (RR mirrored): rotate Y up.

	    Z              Y
	   /              / \
	  Y     ====>    X   Z
	 /
	X

LR (RL mirrored): rotate X up twice.

	  Z            Z             X
	 /            /             / \
	Y    ====>   X    ====>    Y   Z
	 \          /
	  X        Y

A tie of Y's children only happens on delete and takes the single
rotation.
*/
func avlRotate(z NodeView[AVLHeight]) {
	heavy := Left
	if avlBalanceFactor(z) < 0 {
		heavy = Right
	}
	y, ok := z.Child(heavy)
	if !ok {
		// impossible run to here
		panic(infra.NewErrorStack("[avl] unbalanced node without heavy child"))
	}

	ybf := avlBalanceFactor(y)
	if (heavy == Left && ybf < 0) || (heavy == Right && ybf > 0) {
		x, _ := y.Child(heavy.Opposite())
		x.RotateUp()
		x.RotateUp()
		avlUpdateHeight(y)
		avlUpdateHeight(z)
		avlUpdateHeight(x)
		return
	}
	y.RotateUp()
	avlUpdateHeight(z)
	avlUpdateHeight(y)
}

func (AVL) RebalanceInsert(h Inspector[AVLHeight]) Outcome {
	if _, ok := h.Child(Left); !ok {
		if _, ok = h.Child(Right); !ok {
			// New leaf, its height is already 0.
			return Continue
		}
	}

	old := h.Meta()
	avlUpdateHeight(h)
	if bf := avlBalanceFactor(h); bf > 1 || bf < -1 {
		// The subtree height is back to the one before the insert.
		avlRotate(h)
		return Stop
	}
	if h.Meta() == old {
		return Stop
	}
	return Continue
}

func (AVL) RebalanceDelete(h Inspector[AVLHeight]) Outcome {
	if !h.Present() {
		return Continue
	}
	avlUpdateHeight(h)
	if bf := avlBalanceFactor(h); bf > 1 || bf < -1 {
		avlRotate(h)
	}
	return Continue
}

func NewAVLTree[K infra.OrderedKey](opts ...BSTreeOpt[K, AVLHeight]) BSTree[K, AVLHeight] {
	return NewBSTree[K, AVLHeight](AVL{}, opts...)
}
