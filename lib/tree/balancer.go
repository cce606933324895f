package tree

// Outcome tells the climb loop what to do after a rebalance call.
type Outcome uint8

const (
	// Stop ends the climb loop.
	Stop Outcome = iota
	// Continue calls the balancer again one level above the handle's
	// current position.
	Continue
)

func (o Outcome) String() string {
	switch o {
	case Stop:
		return "Stop"
	case Continue:
		return "Continue"
	default:
	}
	return "Outcome(unknown)"
}

// Balancer restores a tree shape invariant after a structural edit.
// It reaches the structure only through the given Inspector, so it can
// rotate and rewrite metadata but never change the keys order.
// A Balancer must not call the tree's public methods from a rebalance call.
type Balancer[M any] interface {
	// InitMeta returns the metadata of a newly linked node.
	InitMeta() M
	// RebalanceInsert starts at the newly linked node.
	RebalanceInsert(h Inspector[M]) Outcome
	// RebalanceDelete starts at the slot of the unlinked node, which may
	// be vacant.
	RebalanceDelete(h Inspector[M]) Outcome
}

// RootFixer is called once with a handle at the root after every
// completed climb loop of a non-empty tree.
type RootFixer[M any] interface {
	FixRoot(h Inspector[M])
}
