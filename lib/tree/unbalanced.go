package tree

import (
	"github.com/benz9527/xbst/lib/infra"
)

// Unbalanced keeps the plain binary search tree shape.
type Unbalanced struct{}

var _ Balancer[struct{}] = Unbalanced{}

func (Unbalanced) InitMeta() struct{} {
	return struct{}{}
}

func (Unbalanced) RebalanceInsert(Inspector[struct{}]) Outcome {
	return Stop
}

func (Unbalanced) RebalanceDelete(Inspector[struct{}]) Outcome {
	return Stop
}

func NewUnbalancedTree[K infra.OrderedKey](opts ...BSTreeOpt[K, struct{}]) BSTree[K, struct{}] {
	return NewBSTree[K, struct{}](Unbalanced{}, opts...)
}
