package tree

import (
	"errors"

	"github.com/benz9527/xbst/lib/infra"
)

var (
	ErrDuplicateKey = errors.New("[bstree] duplicate key")
	ErrKeyNotFound  = errors.New("[bstree] key not found")
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "RBColor(unknown)"
}

type Direction int8

const (
	Left Direction = -1 + iota
	Root
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "Direction(unknown)"
}

// Opposite returns the mirrored side. Root has no mirror.
func (d Direction) Opposite() Direction {
	return -d
}

// BSTree is a binary search tree whose shape is maintained by the
// Balancer bound at construction. Not safe for concurrent use.
type BSTree[K infra.OrderedKey, M any] interface {
	Len() int64
	IsEmpty() bool
	Insert(key K) error
	Remove(key K) (K, error)
	Search(key K) bool
	// Min and Max compare key values, the traversal order does not
	// change them.
	Min() (K, bool)
	Max() (K, bool)
	// Height returns the number of nodes on the longest root to leaf path.
	Height() int
	// Leaves returns the number of nodes without any child.
	Leaves() int
	// Foreach walks the keys in comparator order.
	Foreach(action func(idx int64, key K, meta M) bool)
	// PreorderForeach walks node, left subtree, right subtree.
	PreorderForeach(action func(depth int, side Direction, key K, meta M) bool)
	Clear()
	Release()
}
