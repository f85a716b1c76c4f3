package aig

import (
	"io"
	"sync"

	"github.com/synthcore/aig/internal/cut"
	"github.com/synthcore/aig/internal/npn"
	"github.com/synthcore/aig/internal/order"
	"github.com/synthcore/aig/internal/structhash"
)

// RewriteParams configures one [Rewrite] pass (spec.md §6.2).
type RewriteParams struct {
	NCutsMax      uint8
	NSubgraphsMax uint8
	UpdateLevel   bool
	UseZeroCost   bool
	RecycleCuts   bool
	Verbose       bool
	// Writer receives one line per commit when Verbose is set; nil
	// discards the trace.
	Writer io.Writer
}

// DefaultRewriteParams returns spec.md §6.2's documented defaults.
func DefaultRewriteParams() RewriteParams {
	return RewriteParams{NCutsMax: 8, NSubgraphsMax: 5, UpdateLevel: true, RecycleCuts: true}
}

// rewriteMffcThreshold is the minimum MFFC size (in AND/XOR/MUX nodes) a
// node must have before rewrite bothers considering it (spec.md §4.4 step
// 1: "if the node's MFFC is below a size threshold, skip"; no exact value
// is given, so this resolves that open question — a node whose removal
// would free fewer than 2 nodes can never pay for even the cheapest
// 1-node library replacement).
const rewriteMffcThreshold = 2

// libSingleton is the process-wide NPN-4 library (spec.md §9: "treat as
// an OnceCell-style singleton"). The first caller's n_subgraphs_per_class
// wins; later calls with a different value reuse the already-prepared
// library, consistent with "thereafter immutable".
var (
	libSingleton     *npn.Library
	libSingletonOnce sync.Once
)

func sharedLibrary(nSubgraphsPerClass int) *npn.Library {
	libSingletonOnce.Do(func() {
		libSingleton = npn.NewLibrary()
		libSingleton.Prepare(nSubgraphsPerClass)
	})
	return libSingleton
}

func andCombine(ta, tb uint16) uint16 { return ta & tb }
func xorCombine(ta, tb uint16) uint16 { return ta ^ tb }

// Rewrite runs one DAG-aware-rewriting pass over m (spec.md §4.4,
// component C4): for every AND node with a large-enough MFFC, it looks
// for a smaller NPN-library subgraph realizing one of the node's 4-leaf
// cuts and, if found with positive gain (zero gain when p.UseZeroCost is
// set) and without violating the
// level budget, commits the replacement. It returns the number of nodes
// replaced.
func Rewrite(m *Manager, p RewriteParams) int {
	if p.NSubgraphsMax == 0 {
		p.NSubgraphsMax = 5
	}
	lib := sharedLibrary(int(p.NSubgraphsMax))

	if p.UpdateLevel {
		m.StartReverseLevels()
	}

	cm := cut.NewManager(cut.MaxLeaves)
	cm.SetTrivial(uint32(constOneID))
	for _, pi := range m.PIs() {
		cm.SetTrivial(uint32(pi))
	}

	// The work-list is a doubly linked order rather than a plain index
	// walk (spec.md §4.4's "dynamic reordering"): a replacement's newly
	// built nodes are spliced in right after the node they displace, so
	// they are considered in the same pass instead of waiting for a
	// from-scratch re-scan (`Aig_ManForEachNodeInOrder` in darCore.c).
	ord := order.New()
	for i := 1; i < m.NumNodes(); i++ {
		ord.PushBack(uint32(i))
	}

	replaced := 0
	ord.Each(func(idU uint32) {
		nid := NodeId(idU)
		n := m.Node(nid)
		if n.dead {
			return
		}
		if n.Kind == KindMux || n.Kind == KindPO {
			cm.SetTrivial(uint32(nid))
			return
		}
		if n.Kind != KindAnd && n.Kind != KindXor {
			return
		}

		combine := andCombine
		if n.Kind == KindXor {
			combine = xorCombine
		}
		cm.ComputeCuts(uint32(nid), uint32(n.Fanin0.ID()), n.Fanin0.IsCompl(), uint32(n.Fanin1.ID()), n.Fanin1.IsCompl(), combine)

		if n.Kind != KindAnd {
			return // the library's subgraphs are all AND/Mux networks; only AND roots are replacement candidates
		}

		mffc := m.mffcNodes(nid)
		if len(mffc) < rewriteMffcThreshold {
			return
		}

		best, ok := bestReplacement(m, lib, cm.Cuts(uint32(nid)), mffc)
		if !ok {
			return
		}
		minGain := 1
		if p.UseZeroCost {
			minGain = 0
		}
		if best.gain < minGain {
			return
		}
		if p.UpdateLevel && best.newLevel > m.RequiredLevel(nid) {
			return
		}

		beforeCount := m.NumNodes()
		newEdge := buildDiagram(m, best.diagram, best.leaves)
		if best.outNeg {
			newEdge = newEdge.Not()
		}
		if newEdge.ID() == nid {
			return
		}
		if err := m.Replace(nid, newEdge); err != nil {
			return
		}
		replaced++
		if p.Verbose {
			tracef(p.Writer, "rewrite: node %d -> %d (gain %d)\n", nid, newEdge.ID(), best.gain)
		}

		for id := NodeId(beforeCount); id < NodeId(m.NumNodes()); id++ {
			ord.InsertAfter(idU, uint32(id))
		}
	})

	if p.UpdateLevel {
		m.InvalidateReverseLevels()
	}
	return replaced
}

type replacement struct {
	diagram  *npn.Diagram
	leaves   [4]Lit
	outNeg   bool
	gain     int
	newLevel uint32
}

// bestReplacement matches every 4-leaf cut of nid against the NPN
// library and keeps the candidate with the largest gain, breaking ties by
// the smaller resulting level (spec.md §4.3 Evaluate / §4.4 step 3).
func bestReplacement(m *Manager, lib *npn.Library, cuts []cut.Cut, mffc map[NodeId]bool) (replacement, bool) {
	oldSize := len(mffc)
	var best replacement
	haveBest := false

	for _, c := range cuts {
		if c.NLeafs != cut.MaxLeaves {
			continue
		}
		_, canon := lib.Match(c.Truth)

		// canon.Perm[slot] names the original cut-variable feeding diagram
		// slot i; a slot whose original variable index falls outside the
		// cut's real leaf count is a pure don't-care of the canonical
		// function and is never actually tested by its diagram (buildROBDD
		// never branches on a don't-care variable), so its placeholder
		// value is never read.
		var leaves [4]Lit
		for i := 0; i < 4; i++ {
			k := int(canon.Perm[i])
			if k >= c.NLeafs {
				leaves[i] = ConstFalse
				continue
			}
			compl := (canon.Phase>>uint(k))&1 != 0
			leaves[i] = mkLit(NodeId(c.Leaves[k]), compl)
		}

		for _, d := range lib.Subgraphs(canon.Canon) {
			newCount, newLevel := evaluateDiagram(m, d, leaves, mffc)
			gain := oldSize - newCount
			// canon.OutNeg rides on the edge buildDiagram returns; it never
			// changes node count, so gain accounting doesn't need it here.
			if !haveBest || gain > best.gain || (gain == best.gain && newLevel < best.newLevel) {
				haveBest = true
				best = replacement{diagram: d, leaves: leaves, outNeg: canon.OutNeg, gain: gain, newLevel: newLevel}
			}
		}
	}
	return best, haveBest
}

// virtualBase offsets the placeholder node ids evaluateDiagram invents for
// not-yet-built diagram nodes, kept far above any id a real synthesis
// session will reach so they never alias a live node for the t==e /
// constant comparisons evaluateDiagram performs.
const virtualBase = NodeId(1 << 28)

// evaluateDiagram dry-runs building d against m's current structural
// hash, without allocating anything, and returns the number of new nodes
// it would add and the level of its root. A hash hit inside mffc still
// counts as new (spec.md §4.3: "A shared node inside the MFFC counts as
// new") because that existing node will itself be torn down by the
// replace this evaluation is considering.
func evaluateDiagram(m *Manager, d *npn.Diagram, leaves [4]Lit, mffc map[NodeId]bool) (newCount int, rootLevel uint32) {
	type probe struct {
		edge  Lit
		level uint32
		isNew bool
	}
	memo := make(map[int32]probe, len(d.Nodes))
	newSet := map[NodeId]bool{}

	var walk func(idx int32) probe
	walk = func(idx int32) probe {
		switch idx {
		case npn.ConstFalseRef:
			return probe{edge: ConstFalse}
		case npn.ConstTrueRef:
			return probe{edge: ConstTrue}
		}
		if p, ok := memo[idx]; ok {
			return p
		}
		node := d.Nodes[idx]
		c := leaves[node.Var]
		tp := walk(node.Then)
		ep := walk(node.Else)

		var res probe
		switch {
		case tp.edge == ep.edge:
			res = probe{edge: tp.edge, level: tp.level, isNew: tp.isNew}
		case c == ConstTrue:
			res = probe{edge: tp.edge, level: tp.level, isNew: tp.isNew}
		case c == ConstFalse:
			res = probe{edge: ep.edge, level: ep.level, isNew: ep.isNew}
		case tp.edge == ConstTrue && ep.edge == ConstFalse:
			res = probe{edge: c, level: levelOf(m, c)}
		case tp.edge == ConstFalse && ep.edge == ConstTrue:
			res = probe{edge: c.Not(), level: levelOf(m, c)}
		default:
			cc, tt, ee := c, tp.edge, ep.edge
			if cc.IsCompl() {
				cc, tt, ee = cc.Not(), ee, tt
			}
			lvl := levelOf(m, cc) + 1
			if lv := tp.level + 1; lv > lvl {
				lvl = lv
			}
			if lv := ep.level + 1; lv > lvl {
				lvl = lv
			}
			if id, ok := realMuxLookup(m, cc, tt, ee); ok {
				isNew := mffc[id] || tp.isNew || ep.isNew
				if isNew {
					newSet[id] = true
				}
				res = probe{edge: mkLit(id, false), level: m.Node(id).Level, isNew: isNew}
			} else {
				placeholder := mkLit(virtualBase+NodeId(idx), false)
				newSet[placeholder.ID()] = true
				res = probe{edge: placeholder, level: lvl, isNew: true}
			}
		}
		memo[idx] = res
		return res
	}

	root := walk(d.Root)
	return len(newSet), root.level
}

func realMuxLookup(m *Manager, c, t, e Lit) (NodeId, bool) {
	key := structhash.Key{Fanin0: uint32(c), Fanin1: uint32(t), Aux: uint32(e)}
	id, ok := m.muxHash.Lookup(key)
	return NodeId(id), ok
}

// buildDiagram lowers d into real arena nodes via MkMux, post-order,
// memoizing per diagram index for structural sharing, and returns the
// final edge (spec.md §4.3 Build).
func buildDiagram(m *Manager, d *npn.Diagram, leaves [4]Lit) Lit {
	memo := make(map[int32]Lit, len(d.Nodes))
	var walk func(idx int32) Lit
	walk = func(idx int32) Lit {
		switch idx {
		case npn.ConstFalseRef:
			return ConstFalse
		case npn.ConstTrueRef:
			return ConstTrue
		}
		if l, ok := memo[idx]; ok {
			return l
		}
		node := d.Nodes[idx]
		c := leaves[node.Var]
		t := walk(node.Then)
		e := walk(node.Else)
		l := m.MkMux(c, t, e)
		memo[idx] = l
		return l
	}
	return walk(d.Root)
}

// mffcNodes computes the maximum fanout-free cone rooted at id (spec.md
// glossary "MFFC"): the set of AND/XOR/MUX nodes that would become
// unreachable if id's single reference from outside the cone were
// removed. It simulates decrementing refcounts from root downward without
// mutating the arena.
func (m *Manager) mffcNodes(root NodeId) map[NodeId]bool {
	temp := map[NodeId]uint32{root: 0}
	in := map[NodeId]bool{}

	getRef := func(id NodeId) uint32 {
		if v, ok := temp[id]; ok {
			return v
		}
		return m.nodes[id].RefCount
	}

	var rec func(id NodeId)
	rec = func(id NodeId) {
		n := &m.nodes[id]
		if n.Kind != KindAnd && n.Kind != KindXor && n.Kind != KindMux {
			return
		}
		in[id] = true
		for _, f := range n.Fanins() {
			fid := f.ID()
			if fid == constOneID {
				continue
			}
			r := getRef(fid)
			if r == 0 {
				continue
			}
			r--
			temp[fid] = r
			if r == 0 {
				rec(fid)
			}
		}
	}
	rec(root)
	return in
}
