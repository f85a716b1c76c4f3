// Package cut implements K-feasible cut enumeration over an AIG (spec.md
// §4.2, component C2): for every node, the set of small leaf sets from
// which that node can be re-derived, each annotated with a 16-bit truth
// table over its leaves.
//
// The package only knows nodes as opaque uint32 ids with two uint32 fanin
// ids and a polarity pair; it does not import the root aig package, so the
// Manager decides how to drive it (one node at a time, in topological
// order) and owns the resulting cut lists.
package cut

import (
	"sort"

	"github.com/synthcore/aig/internal/markset"
	"github.com/synthcore/aig/internal/truth16"
)

// MaxLeaves is the largest K this package supports — truth tables are
// stored in 16 bits, which covers at most 4 variables.
const MaxLeaves = 4

// Cut is one K-feasible cut: a sorted, duplicate-free leaf set of node ids,
// together with the truth table of the cut's root expressed over those
// leaves in order (spec.md §4.2).
type Cut struct {
	Leaves [MaxLeaves]uint32
	NLeafs int
	Truth  uint16
	Sig    uint32 // signature: OR of 1<<(leaf%32), for cheap non-dominance rejection
}

// trivial returns the single-leaf cut {id} with truth table "var0".
func trivial(id uint32) Cut {
	c := Cut{NLeafs: 1, Truth: truth16.ElemVar[0]}
	c.Leaves[0] = id
	c.Sig = sigOf(id)
	return c
}

func sigOf(id uint32) uint32 { return 1 << (id % 32) }

// leq reports whether a's leaf set is a subset of b's (for cut dominance,
// spec.md §4.2 "a cut that is a superset of another, with the same or worse
// truth table, is dominated and discarded").
func leq(a, b Cut) bool {
	if a.Sig&^b.Sig != 0 {
		return false
	}
	if a.NLeafs > b.NLeafs {
		return false
	}
	for i := 0; i < a.NLeafs; i++ {
		if !contains(b, a.Leaves[i]) {
			return false
		}
	}
	return true
}

func contains(c Cut, id uint32) bool {
	for i := 0; i < c.NLeafs; i++ {
		if c.Leaves[i] == id {
			return true
		}
	}
	return false
}

// mergeLeaves unions two sorted leaf lists, failing if the result would
// exceed MaxLeaves.
func mergeLeaves(a, b Cut) ([MaxLeaves]uint32, int, bool) {
	var out [MaxLeaves]uint32
	i, j, n := 0, 0, 0
	for i < a.NLeafs && j < b.NLeafs {
		if n == MaxLeaves {
			return out, 0, false
		}
		switch {
		case a.Leaves[i] == b.Leaves[j]:
			out[n] = a.Leaves[i]
			i++
			j++
		case a.Leaves[i] < b.Leaves[j]:
			out[n] = a.Leaves[i]
			i++
		default:
			out[n] = b.Leaves[j]
			j++
		}
		n++
	}
	for i < a.NLeafs {
		if n == MaxLeaves {
			return out, 0, false
		}
		out[n] = a.Leaves[i]
		i++
		n++
	}
	for j < b.NLeafs {
		if n == MaxLeaves {
			return out, 0, false
		}
		out[n] = b.Leaves[j]
		j++
		n++
	}
	return out, n, true
}

// expandTruth spreads a cut's truth table, which is expressed over its own
// leaf indices, out over the positions those leaves occupy in merged's
// wider leaf set.
func expandTruth(c Cut, merged [MaxLeaves]uint32, nMerged int) uint16 {
	var posOf [MaxLeaves]int
	for i := 0; i < c.NLeafs; i++ {
		for k := 0; k < nMerged; k++ {
			if merged[k] == c.Leaves[i] {
				posOf[i] = k
				break
			}
		}
	}
	var out uint16
	for m := 0; m < 16; m++ {
		// project m (over merged's variables) down onto c's variables
		var cm int
		for i := 0; i < c.NLeafs; i++ {
			if (m>>uint(posOf[i]))&1 != 0 {
				cm |= 1 << uint(i)
			}
		}
		if truth16.Eval(c.Truth, cm) {
			out |= 1 << uint(m)
		}
	}
	return out
}

// Merge combines a node's two fanin cuts (with fanin polarities applied
// already by the caller via ComplTruth) into the candidate cut at that
// node, or reports ok=false if the merge would need more than MaxLeaves
// leaves.
func Merge(a, b Cut, combine func(ta, tb uint16) uint16) (Cut, bool) {
	leaves, n, ok := mergeLeaves(a, b)
	if !ok {
		return Cut{}, false
	}
	ta := expandTruth(a, leaves, n)
	tb := expandTruth(b, leaves, n)
	c := Cut{Leaves: leaves, NLeafs: n, Truth: combine(ta, tb)}
	for i := 0; i < n; i++ {
		c.Sig |= sigOf(leaves[i])
	}
	return minimizeSupport(c), true
}

// ComplTruth returns tt with a full bitwise complement, the effect of an
// inverted incoming edge on the cut's function.
func ComplTruth(tt uint16) uint16 { return ^tt & 0xFFFF }

// minimizeSupport drops leaves the truth table turns out not to depend on
// (spec.md §4.2 "support minimization": a merge can produce a cut whose
// function doesn't actually read one of the merged leaves).
func minimizeSupport(c Cut) Cut {
	for i := 0; i < c.NLeafs; {
		if truth16.CofactorEq(c.Truth, i) {
			c.Truth = truth16.Cofactor0(c.Truth, i)
			c.Truth = compactAfterDrop(c.Truth, i, c.NLeafs)
			copy(c.Leaves[i:], c.Leaves[i+1:c.NLeafs])
			c.NLeafs--
			continue
		}
		i++
	}
	c.Sig = 0
	for i := 0; i < c.NLeafs; i++ {
		c.Sig |= sigOf(c.Leaves[i])
	}
	return c
}

// compactAfterDrop shifts variables above the dropped index i down by one
// slot, since Cofactor0 leaves variable i's don't-care value spread through
// the table rather than closing the gap.
func compactAfterDrop(tt uint16, i, n int) uint16 {
	var out uint16
	for m := 0; m < 16; m++ {
		if (m>>uint(i))&1 != 0 {
			continue
		}
		var cm int
		b := 0
		for k := 0; k < n; k++ {
			if k == i {
				continue
			}
			if (m>>uint(k))&1 != 0 {
				cm |= 1 << uint(b)
			}
			b++
		}
		if truth16.Eval(tt, m) {
			out |= 1 << uint(cm)
		}
	}
	return out
}

// byLeafCount sorts cuts fewest-leaves-first, the priority order spec.md
// §4.2 recommends for the dominance sweep (a smaller cut is checked first
// and so evicts larger redundant ones rather than the reverse).
type byLeafCount []Cut

func (s byLeafCount) Len() int           { return len(s) }
func (s byLeafCount) Less(i, j int) bool { return s[i].NLeafs < s[j].NLeafs }
func (s byLeafCount) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// MaxCutsPerNode bounds the cut list kept per node (spec.md §4.2's
// priority-cutoff policy): once a node's list reaches this size, only
// cuts that dominate an existing entry are admitted.
const MaxCutsPerNode = 8

// Manager computes and stores K-feasible cuts for every node in an
// arena-sized, id-indexed table (spec.md §4.2's `Aig_ManComputeCuts`/
// `Cut_Man`). Nodes are addressed as opaque uint32 ids supplied by the
// caller in topological order.
type Manager struct {
	K       int
	perNode map[uint32][]Cut
	// marks records which ids have had their cut list computed (via
	// SetTrivial or ComputeCuts), so ComputeCuts can catch a caller that
	// requests a node's cuts before its fanins' cuts exist — the driver is
	// expected to visit nodes in topological order, and a gap here means a
	// bug in that traversal, not a recoverable condition.
	marks markset.Set
}

// NewManager creates a cut manager enumerating up to k-feasible cuts
// (k is clamped to the range [1, MaxLeaves]).
func NewManager(k int) *Manager {
	if k < 1 {
		k = 1
	}
	if k > MaxLeaves {
		k = MaxLeaves
	}
	return &Manager{K: k, perNode: map[uint32][]Cut{}}
}

// SetTrivial seeds id (a PI or constant) with only its own trivial cut.
func (cm *Manager) SetTrivial(id uint32) {
	cm.perNode[id] = []Cut{trivial(id)}
	cm.marks.Set(uint(id))
}

// ComputeCuts derives id's cut set from its two fanins' cut sets, given
// each fanin's id and whether that fanin edge is complemented, and the
// 2-input function id computes (and/xor) expressed as combine(ta, tb).
// Cuts exceeding k leaves are discarded; the trivial single-leaf {id} cut
// is always added; dominated cuts are pruned; the list is capped at
// MaxCutsPerNode, biased toward the smallest cuts found so far (spec.md
// §4.2's eviction policy).
func (cm *Manager) ComputeCuts(id, faninA uint32, complA bool, faninB uint32, complB bool, combine func(ta, tb uint16) uint16) {
	if !cm.marks.Test(uint(faninA)) || !cm.marks.Test(uint(faninB)) {
		panic("cut: ComputeCuts called out of topological order: a fanin's cuts were never computed")
	}

	as := cm.perNode[faninA]
	bs := cm.perNode[faninB]

	var candidates []Cut
	for _, a := range as {
		ta := a.Truth
		if complA {
			ta = ComplTruth(ta)
		}
		a2 := a
		a2.Truth = ta
		for _, b := range bs {
			tb := b.Truth
			if complB {
				tb = ComplTruth(tb)
			}
			b2 := b
			b2.Truth = tb
			if merged, ok := Merge(a2, b2, combine); ok {
				candidates = append(candidates, merged)
			}
		}
	}
	candidates = append(candidates, trivial(id))

	sort.Stable(byLeafCount(candidates))

	var kept []Cut
	for _, c := range candidates {
		if c.NLeafs > cm.K {
			continue
		}
		dominated := false
		for _, k := range kept {
			if leq(k, c) {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}
		// this new cut may dominate (and evict) larger already-kept ones
		filtered := kept[:0]
		for _, k := range kept {
			if !leq(c, k) {
				filtered = append(filtered, k)
			}
		}
		kept = filtered
		if len(kept) >= MaxCutsPerNode {
			continue
		}
		kept = append(kept, c)
	}
	cm.perNode[id] = kept
	cm.marks.Set(uint(id))
}

// Cuts returns the current cut list for id.
func (cm *Manager) Cuts(id uint32) []Cut { return cm.perNode[id] }

// ResetCuts discards every node's cut list, releasing the memory but
// keeping K (spec.md `Cut_ManStop` without a full teardown).
func (cm *Manager) ResetCuts() {
	cm.perNode = map[uint32][]Cut{}
	cm.marks.Reset()
}

// RestartFrom discards the cut lists of every id for which keep(id)
// reports false, used after a structural change invalidates a subset of
// the arena's cuts (spec.md §4.2 "cuts of nodes beyond the change's
// transitive fanout are still valid and are not recomputed").
func (cm *Manager) RestartFrom(keep func(id uint32) bool) {
	for id := range cm.perNode {
		if !keep(id) {
			delete(cm.perNode, id)
			cm.marks.Clear(uint(id))
		}
	}
}
