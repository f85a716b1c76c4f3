package aig

// Node is a single element of the arena (spec.md §3.1). Fanin2 is only
// meaningful for [KindMux]. PrimaryOutput nodes store their single driver
// edge in Fanin0 and leave Fanin1/Fanin2 unused.
type Node struct {
	Kind Kind

	Fanin0, Fanin1, Fanin2 Lit

	// Level is the longest path from the primary inputs to this node
	// (spec.md §3.2); Buf nodes forward the level of their single fanin.
	Level uint32

	// RevLevel is the longest path from this node to any primary output.
	// It is only maintained when a pass requests update_level (§4.4) and
	// is otherwise left at 0.
	RevLevel uint32

	// Phase is the result of evaluating the node with every primary input
	// held at its zero (non-complemented) value; used to short-circuit
	// some rewrite legality checks.
	Phase bool

	// RefCount is the node's structural fanout count: the number of
	// fanin edges elsewhere in the arena (plus one per PO) that name this
	// node, irrespective of polarity.
	RefCount uint32

	// Data is an opaque per-algorithm slot. No pass in this package uses
	// it (the cut manager keeps its own id-keyed cut lists). Only one
	// algorithm may own it at a time (spec.md §3.1).
	Data any

	// dead marks a tombstoned arena slot: a node whose fanouts have all
	// been redirected elsewhere by replace, or that cleanup found
	// unreferenced. Either way its fanins are released and the slot is
	// never reused. Not one of spec.md §3.1's named attributes — purely arena
	// bookkeeping so ids stay stable across a replace cascade.
	dead bool
}

// isAnd reports whether n is a two-input associative AND node.
func (n *Node) isAnd() bool { return n.Kind == KindAnd }

// isXor reports whether n is a two-input associative XOR node.
func (n *Node) isXor() bool { return n.Kind == KindXor }

// isTerminal reports whether n has no fanins of its own (PI or constant).
func (n *Node) isTerminal() bool { return n.Kind == KindPI || n.Kind == KindConst1 }

// reset clears n in place so the backing array slot can be reused by a
// fresh arena without holding on to stale fanin/Data references.
func (n *Node) reset() {
	*n = Node{}
}
