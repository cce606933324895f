package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	BSTreeStatsName = "xbst/bstree"
)

type climbKind string

const (
	insertClimb climbKind = "insert"
	removeClimb climbKind = "remove"
)

var (
	insertClimbAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.String("xbst.climb", string(insertClimb))))
	removeClimbAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.String("xbst.climb", string(removeClimb))))
)

// bstreeStats methods are safe on a nil receiver, which is the disabled
// state.
type bstreeStats struct {
	insertCount    metric.Int64Counter
	removeCount    metric.Int64Counter
	rotateCount    metric.Int64Counter
	rebalanceSteps metric.Int64Histogram
	nodeCount      metric.Int64UpDownCounter
}

func (stats *bstreeStats) inserted() {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1)
	stats.nodeCount.Add(context.Background(), 1)
}

func (stats *bstreeStats) removed() {
	if stats == nil {
		return
	}
	stats.removeCount.Add(context.Background(), 1)
	stats.nodeCount.Add(context.Background(), -1)
}

func (stats *bstreeStats) released(count int64) {
	if stats == nil || count <= 0 {
		return
	}
	stats.nodeCount.Add(context.Background(), -count)
}

func (stats *bstreeStats) rotate() {
	if stats == nil {
		return
	}
	stats.rotateCount.Add(context.Background(), 1)
}

func (stats *bstreeStats) recordSteps(kind climbKind, steps int64) {
	if stats == nil {
		return
	}
	opt := insertClimbAttrs
	if kind == removeClimb {
		opt = removeClimbAttrs
	}
	stats.rebalanceSteps.Record(context.Background(), steps, opt)
}

func newBSTreeStats(name string) *bstreeStats {
	meterName := fmt.Sprintf("%s/%s", BSTreeStatsName, name)
	meter := otel.Meter(meterName)
	return &bstreeStats{
		insertCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xbst.insert.count",
			metric.WithDescription("The number of keys inserted into the tree."),
		)),
		removeCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xbst.remove.count",
			metric.WithDescription("The number of keys removed from the tree."),
		)),
		rotateCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xbst.rotate.count",
			metric.WithDescription("The number of single rotations done by the balancer."),
		)),
		rebalanceSteps: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"xbst.rebalance.steps",
			metric.WithDescription("The number of rebalance calls of one climb loop."),
		)),
		nodeCount: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"xbst.node.count",
			metric.WithDescription("The number of nodes in the tree."),
		)),
	}
}
