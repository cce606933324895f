package tree

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xbst/lib/infra"
	"github.com/benz9527/xbst/xlog"
)

type bsTree[K infra.OrderedKey, M any] struct {
	root           *bstNode[K, M]
	count          int64
	balancer       Balancer[M]
	keyCompare     infra.OrderedKeyComparator[K]
	isDesc         bool
	isRmBorrowSucc bool
	logger         xlog.XLogger
	stats          *bstreeStats
}

var _ BSTree[int, struct{}] = (*bsTree[int, struct{}])(nil)

// NewBSTree binds the balancer for the whole tree lifetime.
func NewBSTree[K infra.OrderedKey, M any](balancer Balancer[M], opts ...BSTreeOpt[K, M]) BSTree[K, M] {
	if balancer == nil {
		panic(infra.NewErrorStack("[bstree] nil balancer"))
	}
	tree := &bsTree[K, M]{
		count:          0,
		balancer:       balancer,
		keyCompare:     infra.AscKeyComparator[K],
		isDesc:         false,
		isRmBorrowSucc: false,
	}
	for _, o := range opts {
		o(tree)
	}
	return tree
}

func (tree *bsTree[K, M]) trace(msg string, fields ...zap.Field) {
	if tree.logger == nil || !tree.logger.Enabled(zapcore.DebugLevel) {
		return
	}
	tree.logger.Debug("[bstree] "+msg, fields...)
}

func (tree *bsTree[K, M]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *bsTree[K, M]) IsEmpty() bool {
	return tree.root == nil
}

func (tree *bsTree[K, M]) Insert(key K) error {
	var x, y *bstNode[K, M] = tree.root, nil
	dir := Root
	for x != nil {
		y = x
		res := tree.keyCompare(key, x.key)
		if /* equal */ res == 0 {
			return ErrDuplicateKey
		} else /* less */ if res < 0 {
			x, dir = x.left, Left
		} else /* greater */ {
			x, dir = x.right, Right
		}
	}

	z := &bstNode[K, M]{
		key:  key,
		meta: tree.balancer.InitMeta(),
	}
	tree.replaceChild(y, dir, z)
	atomic.AddInt64(&tree.count, 1)
	tree.stats.inserted()

	tree.climb(insertClimb, position[K, M]{node: z}, nil)
	return nil
}

func (tree *bsTree[K, M]) search(key K) *bstNode[K, M] {
	for aux := tree.root; aux != nil; {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return nil
}

// Search never calls the balancer.
func (tree *bsTree[K, M]) Search(key K) bool {
	return tree.search(key) != nil
}

/*
A node X with both children is replaced by its pred L (or succ S).
Only the keys are swapped, the donor has at most one child and is the
node physically unlinked.

	  |                    |
	  X                    L
	 / \                  / \
	L  ..   swap(X, L)   X  ..
	   |    =========>      |

Then the only child C (or nothing) of the unlinked node Y takes its slot
and the delete climb loop starts at that slot.

	  P              P
	  |              |
	  Y     ====>    C
	  |
	  C
*/
func (tree *bsTree[K, M]) Remove(key K) (K, error) {
	z := tree.search(key)
	if z == nil {
		var zero K
		return zero, ErrKeyNotFound
	}
	removed := z.key

	y := z
	if y.left != nil && y.right != nil {
		if tree.isRmBorrowSucc {
			y = z.right.minimum()
		} else {
			y = z.left.maximum()
		}
		z.key = y.key
	}

	child := y.left
	if child == nil {
		child = y.right
	}
	p, dir := y.parent, y.direction()
	tree.replaceChild(p, dir, child)
	detached := y.meta
	y.parent, y.left, y.right = nil, nil, nil
	atomic.AddInt64(&tree.count, -1)
	tree.stats.removed()

	if tree.root == nil {
		return removed, nil
	}
	pos := position[K, M]{node: child, parent: p, dir: dir}
	if child != nil {
		pos = position[K, M]{node: child}
	}
	tree.climb(removeClimb, pos, &detached)
	return removed, nil
}

// climb drives the balancer from pos towards the root.
func (tree *bsTree[K, M]) climb(kind climbKind, pos position[K, M], detached *M) {
	rebalance := tree.balancer.RebalanceInsert
	if kind == removeClimb {
		rebalance = tree.balancer.RebalanceDelete
	}

	steps := int64(0)
	for {
		h := &inspector[K, M]{
			session: &inspectSession{},
			tree:    tree,
			pos:     pos,
		}
		if detached != nil && steps == 0 {
			h.detached, h.hasDetached = *detached, true
		}
		outcome := rebalance(h)
		h.session.close()
		steps++
		tree.trace("rebalance", zap.String("climb", string(kind)), zap.Int64("step", steps), zap.Stringer("outcome", outcome))

		if outcome != Continue {
			break
		}
		next, ok := h.up()
		if !ok {
			break
		}
		pos = next
	}
	tree.stats.recordSteps(kind, steps)

	if fixer, ok := tree.balancer.(RootFixer[M]); ok && tree.root != nil {
		h := &inspector[K, M]{
			session: &inspectSession{},
			tree:    tree,
			pos:     position[K, M]{node: tree.root},
		}
		fixer.FixRoot(h)
		h.session.close()
	}
}

// Min returns the smallest key, which is the rightmost one in desc order.
func (tree *bsTree[K, M]) Min() (K, bool) {
	if tree.root == nil {
		var zero K
		return zero, false
	}
	if tree.isDesc {
		return tree.root.maximum().key, true
	}
	return tree.root.minimum().key, true
}

// Max returns the biggest key, which is the leftmost one in desc order.
func (tree *bsTree[K, M]) Max() (K, bool) {
	if tree.root == nil {
		var zero K
		return zero, false
	}
	if tree.isDesc {
		return tree.root.minimum().key, true
	}
	return tree.root.maximum().key, true
}

// Height by BFS, level by level.
func (tree *bsTree[K, M]) Height() int {
	if tree.root == nil {
		return 0
	}
	height := 0
	queue := make([]*bstNode[K, M], 0, tree.Len()>>1+1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, tree.root)
	for len(queue) > 0 {
		height++
		for size := len(queue); size > 0; size-- {
			aux := queue[0]
			queue = queue[1:]
			if aux.left != nil {
				queue = append(queue, aux.left)
			}
			if aux.right != nil {
				queue = append(queue, aux.right)
			}
		}
	}
	return height
}

func (tree *bsTree[K, M]) Leaves() int {
	leaves := 0
	tree.preorder(func(_ int, node *bstNode[K, M]) bool {
		if node.isLeaf() {
			leaves++
		}
		return true
	})
	return leaves
}

// Inorder traversal to implement the DFS.
func (tree *bsTree[K, M]) Foreach(action func(idx int64, key K, meta M) bool) {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]*bstNode[K, M], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.key, aux.meta) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

type depthNode[K infra.OrderedKey, M any] struct {
	node  *bstNode[K, M]
	depth int
}

func (tree *bsTree[K, M]) preorder(action func(depth int, node *bstNode[K, M]) bool) {
	if tree.root == nil {
		return
	}
	stack := make([]depthNode[K, M], 0, tree.Len()>>1+1)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, depthNode[K, M]{node: tree.root})
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if !action(aux.depth, aux.node) {
			return
		}
		// Right first, so that the left subtree pops first.
		if aux.node.right != nil {
			stack = append(stack, depthNode[K, M]{node: aux.node.right, depth: aux.depth + 1})
		}
		if aux.node.left != nil {
			stack = append(stack, depthNode[K, M]{node: aux.node.left, depth: aux.depth + 1})
		}
	}
}

func (tree *bsTree[K, M]) PreorderForeach(action func(depth int, side Direction, key K, meta M) bool) {
	tree.preorder(func(depth int, node *bstNode[K, M]) bool {
		return action(depth, node.direction(), node.key, node.meta)
	})
}

// Clear unlinks every node without recursion, the tree stays usable.
func (tree *bsTree[K, M]) Clear() {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*bstNode[K, M], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
	tree.stats.released(atomic.SwapInt64(&tree.count, 0))
}

// Release clears the tree and detaches the logger and the stats.
func (tree *bsTree[K, M]) Release() {
	tree.Clear()
	tree.logger = nil
	tree.stats = nil
}
