package tree

import (
	"github.com/benz9527/xbst/lib/infra"
	"github.com/benz9527/xbst/xlog"
)

type BSTreeOpt[K infra.OrderedKey, M any] func(*bsTree[K, M])

// WithBSTreeDesc orders the keys from the biggest to the smallest.
func WithBSTreeDesc[K infra.OrderedKey, M any]() BSTreeOpt[K, M] {
	return func(tree *bsTree[K, M]) {
		tree.isDesc = true
		tree.keyCompare = infra.DescKeyComparator[K]
	}
}

// WithBSTreeRemoveBorrowSucc replaces a removed node that has two
// children by its in-order successor instead of its predecessor.
func WithBSTreeRemoveBorrowSucc[K infra.OrderedKey, M any]() BSTreeOpt[K, M] {
	return func(tree *bsTree[K, M]) {
		tree.isRmBorrowSucc = true
	}
}

// WithBSTreeLogger traces the climb loops and rotations at debug level.
func WithBSTreeLogger[K infra.OrderedKey, M any](logger xlog.XLogger) BSTreeOpt[K, M] {
	return func(tree *bsTree[K, M]) {
		tree.logger = logger
	}
}

func WithBSTreeStats[K infra.OrderedKey, M any](name string) BSTreeOpt[K, M] {
	return func(tree *bsTree[K, M]) {
		tree.stats = newBSTreeStats(name)
	}
}
