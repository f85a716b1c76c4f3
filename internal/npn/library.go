package npn

import "github.com/synthcore/aig/internal/truth16"

// ConstFalseRef and ConstTrueRef are the two sentinel diagram-edge values
// used in place of a [Diagram.Nodes] index to denote the Boolean constants.
const (
	ConstFalseRef int32 = -1
	ConstTrueRef  int32 = -2
)

// DiagNode is one interior node of a reduced, ordered decision diagram:
// test variable Var, branch to Then when Var=1, to Else when Var=0. Then
// and Else are either non-negative indices into the owning [Diagram]'s
// Nodes slice, or one of [ConstFalseRef]/[ConstTrueRef].
type DiagNode struct {
	Var        int
	Then, Else int32
}

// Diagram is one subgraph realizing an NPN class's canonical function: a
// reduced decision diagram over variables 0..3 in a fixed order, lowered by
// the caller into real MUX nodes by substituting each Var with the actual
// (possibly permuted/complemented) leaf literal (spec.md §4.3 `Build`).
type Diagram struct {
	Nodes []DiagNode
	Root  int32
}

// Size returns the number of interior (would-be-MUX) nodes in the diagram —
// the library's `Num`/priority proxy (spec.md §3.4): fewer nodes is always
// preferred, and is used to order a class's subgraph list.
func (d *Diagram) Size() int { return len(d.Nodes) }

type bddKey struct {
	v       int
	then, e int32
}

// buildROBDD lowers a truth table into a reduced ordered decision diagram,
// testing variables in the given order. Structural sharing comes from the
// memo: two cofactor pairs that reduce to the same (var, then, else) triple
// collapse to one node, exactly as ABC's darLib subgraphs reuse structure —
// here derived from the BDD reduction rule instead of hand-tuning.
func buildROBDD(tt uint16, order [4]int) *Diagram {
	d := &Diagram{}
	memo := map[bddKey]int32{}

	var rec func(tt uint16, pos int) int32
	rec = func(tt uint16, pos int) int32 {
		if pos == 4 {
			if tt&1 != 0 {
				return ConstTrueRef
			}
			return ConstFalseRef
		}
		v := order[pos]
		if truth16.CofactorEq(tt, v) {
			return rec(truth16.Cofactor0(tt, v), pos+1)
		}
		elseIdx := rec(truth16.Cofactor0(tt, v), pos+1)
		thenIdx := rec(truth16.Cofactor1(tt, v), pos+1)
		key := bddKey{v, thenIdx, elseIdx}
		if idx, ok := memo[key]; ok {
			return idx
		}
		idx := int32(len(d.Nodes))
		d.Nodes = append(d.Nodes, DiagNode{Var: v, Then: thenIdx, Else: elseIdx})
		memo[key] = idx
		return idx
	}

	d.Root = rec(tt, 0)
	return d
}

// variable orders used to generate alternative subgraphs for a class: the
// identity order plus three other variable orders, giving up to four structurally
// different (but functionally identical) decision diagrams to choose among
// in Evaluate — the practical analogue of darLib's per-class priority list.
var subgraphOrders = [][4]int{
	{0, 1, 2, 3},
	{3, 2, 1, 0},
	{1, 2, 3, 0},
	{2, 0, 3, 1},
}

// Library is the per-class subgraph catalogue (spec.md §4.3 `Dar_LibPrepare`/
// `Dar_LibMatch`). Create one with [NewLibrary]; the zero value has no
// class index and is not usable.
type Library struct {
	classes        *ClassIndex
	nSubgraphsMax  int
	perClassDiags  map[uint16][]*Diagram
}

// NewLibrary creates an empty library; call Prepare to set the per-class
// subgraph budget before the first Match.
func NewLibrary() *Library {
	return &Library{
		classes:       NewClassIndex(),
		nSubgraphsMax: 5,
		perClassDiags: map[uint16][]*Diagram{},
	}
}

// Prepare selects, per class, up to nSubgraphsPerClass subgraphs
// (spec.md `lib_prepare`). Subgraphs themselves are still built lazily per
// class on the first Subgraphs call for it, in the variable orders of subgraphOrders, capped at
// n.
func (l *Library) Prepare(nSubgraphsPerClass int) {
	if nSubgraphsPerClass < 1 {
		nSubgraphsPerClass = 1
	}
	if nSubgraphsPerClass > len(subgraphOrders) {
		nSubgraphsPerClass = len(subgraphOrders)
	}
	l.nSubgraphsMax = nSubgraphsPerClass
}

// Match returns the class index and the permutation/phase/out-negation
// needed to realize tt from that class's canonical function
// (spec.md `lib_match`).
func (l *Library) Match(tt uint16) (classIdx int, canon Result) {
	return l.classes.Of(tt)
}

// Subgraphs returns (building lazily, once, if necessary) the candidate
// diagrams for class canon, smallest first.
func (l *Library) Subgraphs(canon uint16) []*Diagram {
	if diags, ok := l.perClassDiags[canon]; ok {
		return diags
	}
	diags := make([]*Diagram, 0, l.nSubgraphsMax)
	seen := map[string]bool{}
	for i := 0; i < l.nSubgraphsMax && i < len(subgraphOrders); i++ {
		d := buildROBDD(canon, subgraphOrders[i])
		sig := diagSignature(d)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		diags = append(diags, d)
	}
	// smallest-size first: a simple insertion sort is plenty for <=4 items.
	for i := 1; i < len(diags); i++ {
		for j := i; j > 0 && diags[j].Size() < diags[j-1].Size(); j-- {
			diags[j], diags[j-1] = diags[j-1], diags[j]
		}
	}
	l.perClassDiags[canon] = diags
	return diags
}

func diagSignature(d *Diagram) string {
	b := make([]byte, 0, len(d.Nodes)*8+4)
	for _, n := range d.Nodes {
		b = append(b, byte(n.Var), byte(n.Then), byte(n.Then>>8), byte(n.Else), byte(n.Else>>8))
	}
	b = append(b, byte(d.Root), byte(d.Root>>8))
	return string(b)
}

// Canonicals returns every class's canonical truth table discovered so
// far, in class-index order (spec.md `lib_canonicals`).
func (l *Library) Canonicals() []uint16 {
	out := make([]uint16, l.classes.Count())
	for canon, idx := range l.classes.indices {
		out[idx] = canon
	}
	return out
}
