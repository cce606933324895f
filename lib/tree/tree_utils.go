package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xbst/lib/infra"
)

// Tree rule validation utilities.

var errUnknownTreeImpl = errors.New("[bstree] unknown tree implementation to validate")

func unwrapTree[K infra.OrderedKey, M any](tree BSTree[K, M]) (*bsTree[K, M], error) {
	impl, ok := tree.(*bsTree[K, M])
	if !ok || impl == nil {
		return nil, errUnknownTreeImpl
	}
	return impl, nil
}

// OrderViolationValidate checks the keys order, the parent links and the
// node count.
func OrderViolationValidate[K infra.OrderedKey, M any](tree BSTree[K, M]) error {
	impl, err := unwrapTree[K, M](tree)
	if err != nil {
		return err
	}

	var (
		prev    K
		visited int64
	)
	impl.preorder(func(_ int, node *bstNode[K, M]) bool {
		for _, c := range []*bstNode[K, M]{node.left, node.right} {
			if c != nil && c.parent != node {
				err = multierr.Append(err, fmt.Errorf("bstree parent link violation at key %v", c.key))
			}
		}
		return true
	})
	impl.Foreach(func(idx int64, key K, meta M) bool {
		visited++
		if idx > 0 && impl.keyCompare(prev, key) >= 0 {
			err = multierr.Append(err, fmt.Errorf("bstree order violation at index %d, key %v after %v", idx, key, prev))
		}
		prev = key
		return true
	})
	if impl.root != nil && impl.root.parent != nil {
		err = multierr.Append(err, errors.New("bstree root with parent"))
	}
	if visited != impl.Len() {
		err = multierr.Append(err, fmt.Errorf("bstree count violation, %d nodes but len %d", visited, impl.Len()))
	}
	return err
}

// AVLViolationValidate checks every stored height and balance factor.
func AVLViolationValidate[K infra.OrderedKey](tree BSTree[K, AVLHeight]) error {
	impl, err := unwrapTree[K, AVLHeight](tree)
	if err != nil {
		return err
	}
	_, err = avlValidate(impl.root)
	return err
}

type avlFrame[K infra.OrderedKey] struct {
	node    *bstNode[K, AVLHeight]
	visited bool
}

// Post-order, children heights are known before their parent.
func avlValidate[K infra.OrderedKey](root *bstNode[K, AVLHeight]) (AVLHeight, error) {
	if root == nil {
		return absentAVLHeight, nil
	}
	heights := make(map[*bstNode[K, AVLHeight]]AVLHeight)
	heightOf := func(node *bstNode[K, AVLHeight]) AVLHeight {
		if node == nil {
			return absentAVLHeight
		}
		return heights[node]
	}

	var err error
	stack := []avlFrame[K]{{node: root}}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if !aux.visited {
			stack = append(stack, avlFrame[K]{node: aux.node, visited: true})
			if aux.node.right != nil {
				stack = append(stack, avlFrame[K]{node: aux.node.right})
			}
			if aux.node.left != nil {
				stack = append(stack, avlFrame[K]{node: aux.node.left})
			}
			continue
		}
		l, r := heightOf(aux.node.left), heightOf(aux.node.right)
		h := max(l, r) + 1
		heights[aux.node] = h
		if aux.node.meta != h {
			err = multierr.Append(err, fmt.Errorf("avl height violation at key %v, stored %d actual %d", aux.node.key, aux.node.meta, h))
		}
		if bf := l - r; bf > 1 || bf < -1 {
			err = multierr.Append(err, fmt.Errorf("avl balance violation at key %v, factor %d", aux.node.key, bf))
		}
	}
	return heights[root], err
}

// RedViolationValidate checks that no red node has a red child.
func RedViolationValidate[K infra.OrderedKey](tree BSTree[K, RBColor]) error {
	impl, err := unwrapTree[K, RBColor](tree)
	if err != nil {
		return err
	}
	impl.preorder(func(_ int, node *bstNode[K, RBColor]) bool {
		if node.meta != Red {
			return true
		}
		if (node.left != nil && node.left.meta == Red) || (node.right != nil && node.right.meta == Red) {
			err = fmt.Errorf("rbtree red violation at key %v", node.key)
			return false
		}
		return true
	})
	return err
}

func blackDepthTo[K infra.OrderedKey](target, to *bstNode[K, RBColor]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.parent {
		if aux.meta == Black {
			depth++
		}
	}
	return depth
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Every node with a NIL child ends a path, all of them must reach the
root through the same number of black nodes.
*/
func BlackViolationValidate[K infra.OrderedKey](tree BSTree[K, RBColor]) error {
	impl, err := unwrapTree[K, RBColor](tree)
	if err != nil {
		return err
	}
	depth := -1
	impl.preorder(func(_ int, node *bstNode[K, RBColor]) bool {
		if node.left != nil && node.right != nil {
			return true
		}
		d := blackDepthTo[K](node, nil)
		if depth < 0 {
			depth = d
		} else if d != depth {
			err = fmt.Errorf("rbtree black violation at key %v, black depth %d but %d", node.key, d, depth)
			return false
		}
		return true
	})
	return err
}

// RBViolationValidate checks all of the red black properties.
func RBViolationValidate[K infra.OrderedKey](tree BSTree[K, RBColor]) error {
	impl, err := unwrapTree[K, RBColor](tree)
	if err != nil {
		return err
	}
	if impl.root != nil && impl.root.meta != Black {
		err = errors.New("rbtree root violation, root is red")
	}
	return multierr.Combine(
		err,
		RedViolationValidate[K](tree),
		BlackViolationValidate[K](tree),
	)
}
