package shell

import (
	"fmt"
	"strings"

	"github.com/benz9527/xbst/lib/infra"
	"github.com/benz9527/xbst/lib/tree"
	"github.com/benz9527/xbst/xlog"
)

// Kind selects the balancer of the shell tree.
type Kind string

const (
	KindRB   Kind = "rb"
	KindAVL  Kind = "avl"
	KindNone Kind = "none"
)

func (k Kind) displayName() string {
	switch k {
	case KindRB:
		return "RedBlack"
	case KindAVL:
		return "AVL"
	case KindNone:
		return "Unbalanced"
	default:
	}
	return string(k)
}

func ParseKind(kind string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(kind))); k {
	case KindRB, KindAVL, KindNone:
		return k, nil
	case "redblack", "1":
		return KindRB, nil
	case "2":
		return KindAVL, nil
	default:
	}
	return KindRB, infra.NewErrorStack("[shell] unknown tree kind " + kind)
}

// boundTree hides the metadata type of the tree behind the shell.
type boundTree interface {
	tree.BSTree[uint32, any]
	kind() Kind
	check() error
	metaLabel(meta any) (string, bool)
}

type erasedTree[M any] struct {
	k        Kind
	bst      tree.BSTree[uint32, M]
	validate func(tree.BSTree[uint32, M]) error
	label    func(M) (string, bool)
}

func (t *erasedTree[M]) kind() Kind { return t.k }

func (t *erasedTree[M]) Len() int64              { return t.bst.Len() }
func (t *erasedTree[M]) IsEmpty() bool           { return t.bst.IsEmpty() }
func (t *erasedTree[M]) Insert(key uint32) error { return t.bst.Insert(key) }
func (t *erasedTree[M]) Remove(key uint32) (uint32, error) {
	return t.bst.Remove(key)
}
func (t *erasedTree[M]) Search(key uint32) bool { return t.bst.Search(key) }
func (t *erasedTree[M]) Min() (uint32, bool)    { return t.bst.Min() }
func (t *erasedTree[M]) Max() (uint32, bool)    { return t.bst.Max() }
func (t *erasedTree[M]) Height() int            { return t.bst.Height() }
func (t *erasedTree[M]) Leaves() int            { return t.bst.Leaves() }
func (t *erasedTree[M]) Clear()                 { t.bst.Clear() }
func (t *erasedTree[M]) Release()               { t.bst.Release() }

func (t *erasedTree[M]) Foreach(action func(idx int64, key uint32, meta any) bool) {
	t.bst.Foreach(func(idx int64, key uint32, meta M) bool {
		return action(idx, key, meta)
	})
}

func (t *erasedTree[M]) PreorderForeach(action func(depth int, side tree.Direction, key uint32, meta any) bool) {
	t.bst.PreorderForeach(func(depth int, side tree.Direction, key uint32, meta M) bool {
		return action(depth, side, key, meta)
	})
}

// check runs the order validator and the balancer specific one.
func (t *erasedTree[M]) check() error {
	if err := tree.OrderViolationValidate[uint32, M](t.bst); err != nil {
		return err
	}
	if t.validate == nil {
		return nil
	}
	return t.validate(t.bst)
}

// metaLabel returns the printed metadata and whether the node is red.
func (t *erasedTree[M]) metaLabel(meta any) (string, bool) {
	m, ok := meta.(M)
	if !ok || t.label == nil {
		return "", false
	}
	return t.label(m)
}

func treeOpts[M any](logger xlog.XLogger, statsName string) []tree.BSTreeOpt[uint32, M] {
	opts := make([]tree.BSTreeOpt[uint32, M], 0, 2)
	if logger != nil {
		opts = append(opts, tree.WithBSTreeLogger[uint32, M](logger))
	}
	if len(statsName) > 0 {
		opts = append(opts, tree.WithBSTreeStats[uint32, M](statsName))
	}
	return opts
}

func newBoundTree(kind Kind, logger xlog.XLogger, statsName string) boundTree {
	switch kind {
	case KindAVL:
		return &erasedTree[tree.AVLHeight]{
			k:        kind,
			bst:      tree.NewAVLTree[uint32](treeOpts[tree.AVLHeight](logger, statsName)...),
			validate: tree.AVLViolationValidate[uint32],
			label: func(h tree.AVLHeight) (string, bool) {
				return fmt.Sprintf("h=%d", h), false
			},
		}
	case KindNone:
		return &erasedTree[struct{}]{
			k:   kind,
			bst: tree.NewUnbalancedTree[uint32](treeOpts[struct{}](logger, statsName)...),
		}
	case KindRB:
		fallthrough
	default:
	}
	return &erasedTree[tree.RBColor]{
		k:        KindRB,
		bst:      tree.NewRBTree[uint32](treeOpts[tree.RBColor](logger, statsName)...),
		validate: tree.RBViolationValidate[uint32],
		label: func(c tree.RBColor) (string, bool) {
			if c == tree.Red {
				return "R", true
			}
			return "B", false
		},
	}
}
