package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// moveToRoot rotates every inserted node up to the root. InitMeta
// hands out the insert sequence so that rotations can be checked not to
// touch the metadata.
type moveToRoot struct {
	seq int
}

func (b *moveToRoot) InitMeta() int {
	b.seq++
	return b.seq
}

func (b *moveToRoot) RebalanceInsert(h Inspector[int]) Outcome {
	for h.Side() != Root {
		h.RotateUp()
	}
	return Stop
}

func (b *moveToRoot) RebalanceDelete(Inspector[int]) Outcome {
	return Stop
}

func TestInspectorMoveToRoot(t *testing.T) {
	tree := NewBSTree[uint64, int](&moveToRoot{})
	inserts := []uint64{50, 20, 70, 10, 30, 60, 80, 25}
	seqOf := make(map[uint64]int, len(inserts))
	for i, key := range inserts {
		require.NoError(t, tree.Insert(key))
		seqOf[key] = i + 1
		require.NoError(t, OrderViolationValidate[uint64, int](tree))
		tree.PreorderForeach(func(depth int, side Direction, root uint64, meta int) bool {
			require.Equal(t, key, root)
			return false
		})
	}
	tree.Foreach(func(idx int64, key uint64, meta int) bool {
		require.Equal(t, seqOf[key], meta)
		return true
	})
	require.Equal(t, int64(len(inserts)), tree.Len())
}

type climbCall struct {
	present  bool
	side     Direction
	meta     int
	detached int
	hasDet   bool
}

// recorder continues until the root and records every delete call.
type recorder struct {
	calls    []climbCall
	climbs   int
	topSides []Direction
}

func (r *recorder) InitMeta() int {
	return 7
}

func (r *recorder) RebalanceInsert(h Inspector[int]) Outcome {
	for h.Climb() {
		r.climbs++
	}
	r.topSides = append(r.topSides, h.Side())
	return Continue
}

func (r *recorder) RebalanceDelete(h Inspector[int]) Outcome {
	det, ok := h.Detached()
	r.calls = append(r.calls, climbCall{
		present:  h.Present(),
		side:     h.Side(),
		meta:     h.Meta(),
		detached: det,
		hasDet:   ok,
	})
	return Continue
}

func TestInspectorClimbAndDetached(t *testing.T) {
	r := &recorder{}
	tree := NewBSTree[uint64, int](r)
	for _, key := range []uint64{50, 20, 70, 10} {
		require.NoError(t, tree.Insert(key))
	}
	// Depth of 10 is 2, Climb stops at the root.
	require.Equal(t, 0+1+1+2, r.climbs)
	require.Equal(t, []Direction{Root, Root, Root, Root}, r.topSides)

	_, err := tree.Remove(10)
	require.NoError(t, err)
	require.Equal(t, []climbCall{
		{present: false, side: Left, meta: 0, detached: 7, hasDet: true},
		{present: true, side: Left, meta: 7},
		{present: true, side: Root, meta: 7},
	}, r.calls)

	// Promoted child is the first position.
	r.calls = r.calls[:0]
	require.NoError(t, tree.Insert(60))
	_, err = tree.Remove(70)
	require.NoError(t, err)
	require.Equal(t, []climbCall{
		{present: true, side: Right, meta: 7, detached: 7, hasDet: true},
		{present: true, side: Root, meta: 7},
	}, r.calls)
}

func TestInspectorNavigation(t *testing.T) {
	var checked bool
	b := &funcBalancer{
		insert: func(h Inspector[int]) Outcome {
			if h.Side() != Right {
				return Stop
			}
			// 50(20, 70) and h at 70.
			p, ok := h.Parent()
			require.True(t, ok)
			require.Equal(t, Root, p.Side())
			s, ok := h.Sibling()
			require.True(t, ok)
			require.Equal(t, Left, s.Side())
			s.SetMeta(3)
			require.Equal(t, 3, s.Meta())
			c, ok := p.Child(Left)
			require.True(t, ok)
			require.Equal(t, 3, c.Meta())
			_, ok = h.Child(Left)
			require.False(t, ok)
			_, ok = p.Child(Root)
			require.False(t, ok)
			_, ok = p.Sibling()
			require.False(t, ok)
			checked = true
			return Stop
		},
	}
	tree := NewBSTree[uint64, int](b)
	require.NoError(t, tree.Insert(50))
	require.NoError(t, tree.Insert(20))
	require.NoError(t, tree.Insert(70))
	require.True(t, checked)
}

type funcBalancer struct {
	insert func(h Inspector[int]) Outcome
	delete func(h Inspector[int]) Outcome
}

func (b *funcBalancer) InitMeta() int {
	return 0
}

func (b *funcBalancer) RebalanceInsert(h Inspector[int]) Outcome {
	if b.insert == nil {
		return Stop
	}
	return b.insert(h)
}

func (b *funcBalancer) RebalanceDelete(h Inspector[int]) Outcome {
	if b.delete == nil {
		return Stop
	}
	return b.delete(h)
}

func TestInspectorContractViolations(t *testing.T) {
	t.Run("use after call", func(tt *testing.T) {
		var leaked Inspector[int]
		var leakedView NodeView[int]
		tree := NewBSTree[uint64, int](&funcBalancer{
			insert: func(h Inspector[int]) Outcome {
				leaked = h
				if p, ok := h.Parent(); ok {
					leakedView = p
				}
				return Stop
			},
		})
		require.NoError(tt, tree.Insert(2))
		require.NoError(tt, tree.Insert(1))
		msg := "[bstree] inspection handle used after its rebalance call"
		require.PanicsWithError(tt, msg, func() { leaked.Meta() })
		require.PanicsWithError(tt, msg, func() { leaked.Climb() })
		require.PanicsWithError(tt, msg, func() { leaked.RotateUp() })
		require.PanicsWithError(tt, msg, func() { leakedView.SetMeta(1) })
		require.PanicsWithError(tt, msg, func() { leakedView.Parent() })
	})
	t.Run("rotate root", func(tt *testing.T) {
		tree := NewBSTree[uint64, int](&funcBalancer{
			insert: func(h Inspector[int]) Outcome {
				h.RotateUp()
				return Stop
			},
		})
		require.PanicsWithError(tt, "[bstree] rotate up the root node", func() {
			_ = tree.Insert(1)
		})
	})
	t.Run("vacant position", func(tt *testing.T) {
		var op string
		tree := NewBSTree[uint64, int](&funcBalancer{
			delete: func(h Inspector[int]) Outcome {
				require.False(tt, h.Present())
				require.Equal(tt, 0, h.Meta())
				switch op {
				case "set":
					h.SetMeta(1)
				case "rotate":
					h.RotateUp()
				default:
				}
				return Stop
			},
		})
		for _, key := range []uint64{2, 1, 3, 4} {
			require.NoError(tt, tree.Insert(key))
		}
		op = "set"
		require.PanicsWithError(tt, "[bstree] set metadata of a vacant position", func() {
			_, _ = tree.Remove(1)
		})
		op = "rotate"
		require.PanicsWithError(tt, "[bstree] rotate up a vacant position", func() {
			_, _ = tree.Remove(4)
		})
	})
	t.Run("missing child", func(tt *testing.T) {
		tree := NewUnbalancedTree[uint64]().(*bsTree[uint64, struct{}])
		require.NoError(tt, tree.Insert(1))
		require.PanicsWithError(tt, "[bstree] left rotate node x is nil or x.right is nil", func() {
			tree.leftRotate(tree.root)
		})
		require.PanicsWithError(tt, "[bstree] right rotate node x is nil or x.left is nil", func() {
			tree.rightRotate(tree.root)
		})
		require.PanicsWithError(tt, "[bstree] left rotate node x is nil or x.right is nil", func() {
			tree.leftRotate(nil)
		})
	})
}

func TestRotatePreservesLinks(t *testing.T) {
	tree := NewUnbalancedTree[uint64]().(*bsTree[uint64, struct{}])
	for _, key := range []uint64{50, 20, 70, 10, 30} {
		require.NoError(t, tree.Insert(key))
	}
	tree.rightRotate(tree.root)
	require.Equal(t, uint64(20), tree.root.key)
	require.Nil(t, tree.root.parent)
	require.Equal(t, uint64(30), tree.root.right.left.key)
	require.NoError(t, OrderViolationValidate[uint64, struct{}](tree))
	tree.leftRotate(tree.root)
	require.Equal(t, uint64(50), tree.root.key)
	require.Equal(t, uint64(30), tree.root.left.right.key)
	require.NoError(t, OrderViolationValidate[uint64, struct{}](tree))
}
