package tree

import (
	"github.com/benz9527/xbst/lib/infra"
)

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
// NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
// because if it were black, its NIL descendants would sit at a different
// black depth than X's NIL child, violating p4.
type RedBlack struct{}

var (
	_ Balancer[RBColor]  = RedBlack{}
	_ RootFixer[RBColor] = RedBlack{}
)

func isRed(v NodeView[RBColor], ok bool) bool {
	return ok && v.Meta() == Red
}

// New node X is red by default.
func (RedBlack) InitMeta() RBColor {
	return Red
}

// FixRoot p5.
func (RedBlack) FixRoot(h Inspector[RBColor]) {
	if h.Meta() != Black {
		h.SetMeta(Black)
	}
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: Current node X is the root, paint it black.

im2: Current node X's parent P is black, hold p3 and p4.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Climb to X's parent, then continue from grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate X up twice, X takes place of G.

	  [G]                 [G]                [X]
	  / \    rotate(X)    / \    rotate(X)   / \
	<P> [U]  ========>  <X> [U]  =======>  <P> <G>
	  \                 /                        \
	  <X>             <P>                        [U]

im5: X is the same direction as P. Rotate P up, P takes place of G.

	    [G]                 <P>               [P]
	    / \    rotate(P)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (RedBlack) RebalanceInsert(h Inspector[RBColor]) Outcome {
	p, ok := h.Parent()
	if /* im1 */ !ok {
		h.SetMeta(Black)
		return Stop
	}
	if /* im2 */ p.Meta() == Black {
		return Stop
	}
	g, ok := p.Parent()
	if !ok {
		// A red root, repainted by FixRoot.
		return Stop
	}

	if /* im3 */ isRed(p.Sibling()) {
		u, _ := p.Sibling()
		p.SetMeta(Black)
		u.SetMeta(Black)
		g.SetMeta(Red)
		h.Climb()
		return Continue
	}

	if /* im4 */ h.Side() != p.Side() {
		h.RotateUp()
		h.RotateUp()
		h.SetMeta(Black)
	} else /* im5 */ {
		p.RotateUp()
		p.SetMeta(Black)
	}
	g.SetMeta(Red)
	return Stop
}

/*
X is the position which lost a black node, the removed node Y is given
by the handle as detached.

r1: Y is red, nothing to fix.

r2: X is red, paint it black to restore the black depth.

r3: X is the root, the whole tree lost one black level.

Otherwise X is double black.
Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. Rotate S up, repaint S into black, P into red.
Then re-evaluate X under the new sibling Sc.

	  [P]                   <S>               [S]
	  / \    rotate(S)      / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: X's sibling S is black, nephew Sd is red. Ignore P's color.
Rotate S up, S takes P's color, P and Sd into black.

	  {P}                   [S]                {S}
	  / \    rotate(S)      / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]

rm3: X's sibling S is black, Sd is black but Sc is red. Rotate Sc up
twice, Sc takes P's color and P into black.

	  {P}                                 {Sc}
	  / \     rotate(Sc) x2               /  \
	[X] [S]   ============>             [P]  [S]
	    / \                             /      \
	  <Sc> [Sd]                       [X]      [Sd]

rm4: S, Sc and Sd are black. Paint S into red, P lost one black level.
Continue from P, r2 stops there if P is red.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]
*/
func (RedBlack) RebalanceDelete(h Inspector[RBColor]) Outcome {
	if /* r1 */ color, ok := h.Detached(); ok && color == Red {
		return Stop
	}
	if /* r2 */ h.Present() && h.Meta() == Red {
		h.SetMeta(Black)
		return Stop
	}
	p, ok := h.Parent()
	if /* r3 */ !ok {
		return Stop
	}

	dir := h.Side()
	for {
		s, ok := h.Sibling()
		if !ok {
			// impossible run to here
			panic(infra.NewErrorStack("[rbtree] double black node without sibling, violate p4"))
		}
		if /* rm1 */ s.Meta() == Red {
			s.RotateUp()
			s.SetMeta(Black)
			p.SetMeta(Red)
			continue
		}

		if /* rm2 */ sd, ok := s.Child(dir.Opposite()); isRed(sd, ok) {
			s.RotateUp()
			s.SetMeta(p.Meta())
			p.SetMeta(Black)
			sd.SetMeta(Black)
			return Stop
		}
		if /* rm3 */ sc, ok := s.Child(dir); isRed(sc, ok) {
			color := p.Meta()
			sc.RotateUp()
			sc.RotateUp()
			sc.SetMeta(color)
			p.SetMeta(Black)
			return Stop
		}
		/* rm4 */
		s.SetMeta(Red)
		return Continue
	}
}

func NewRBTree[K infra.OrderedKey](opts ...BSTreeOpt[K, RBColor]) BSTree[K, RBColor] {
	return NewBSTree[K, RBColor](RedBlack{}, opts...)
}
