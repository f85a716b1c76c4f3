package aig

import (
	"sort"

	"github.com/synthcore/aig/internal/structhash"
)

// Balance rebuilds m into a fresh [Manager] in which every associative
// AND/XOR supergate has been re-balanced into a tree of (close to) minimal
// depth (spec.md §4.5, component C5). m itself is left untouched; the
// returned Manager is the one to keep using (spec.md §3.7: "rebuild
// produces a fresh arena and swaps it in").
//
// Only the default, level-preserving recombination is implemented
// (`Dar_BalanceBuildSuper` in the reference): §4.5 also describes a
// LUT-size-aware variant and an area-flow-driven variant, but neither is
// part of the public surface in §6.2 — `balance` takes only
// `update_level`, with no LUT-size or area-flow parameter to select them
// by — so there is no public entry point that would ever choose them.
// See DESIGN.md.
func Balance(m *Manager, updateLevel bool) *Manager {
	neu := NewManager()
	neu.SetRegisterCount(m.RegisterCount())

	piMap := make(map[NodeId]Lit, len(m.pis))
	for _, id := range m.PIs() {
		piMap[id] = neu.AddPI()
	}

	translated := make(map[NodeId]Lit, len(m.nodes))

	var translate func(e Lit) Lit
	translate = func(e Lit) Lit {
		id := e.ID()
		if id == constOneID {
			return composeLit(ConstTrue, e.IsCompl())
		}
		if lit, ok := translated[id]; ok {
			return composeLit(lit, e.IsCompl())
		}
		n := m.Node(id)
		var lit Lit
		switch n.Kind {
		case KindPI:
			lit = piMap[id]
		case KindAnd:
			lit = rebuildSupergate(m, neu, id, KindAnd, translate)
		case KindXor:
			lit = rebuildSupergate(m, neu, id, KindXor, translate)
		case KindMux:
			c := translate(n.Fanin0)
			t := translate(n.Fanin1)
			e2 := translate(n.Fanin2)
			lit = neu.MkMux(c, t, e2)
		default:
			lit = ConstTrue
		}
		translated[id] = lit
		return composeLit(lit, e.IsCompl())
	}

	for _, poID := range m.POs() {
		edge := translate(m.Node(poID).Fanin0)
		neu.AddPO(edge)
	}

	if updateLevel {
		neu.StartReverseLevels()
	}
	return neu
}

// rebuildSupergate gathers rootID's maximal associative cone in the
// source arena, translates each leaf into the destination arena, and
// rebuilds it there as a balanced tree.
func rebuildSupergate(src, dst *Manager, rootID NodeId, kind Kind, translate func(Lit) Lit) Lit {
	oldLeaves := collectSupergate(src, mkLit(rootID, false), kind, true)
	newLeaves := make([]Lit, len(oldLeaves))
	for i, l := range oldLeaves {
		newLeaves[i] = translate(l)
	}
	return buildBalancedTree(dst, newLeaves, kind)
}

// collectSupergate walks down from rootEdge, descending into same-kind,
// non-complemented interior nodes whose refcount is within the expansion
// limit (1 in strict mode, 3 otherwise — spec.md §4.5), and returns the
// cone's leaf edges. The root itself always expands regardless of its own
// refcount, since it is being dismantled and rebuilt by the caller.
func collectSupergate(m *Manager, rootEdge Lit, kind Kind, strict bool) []Lit {
	limit := uint32(1)
	if !strict {
		limit = 3
	}
	visited := map[NodeId]bool{}
	var leaves []Lit

	var rec func(e Lit, isRoot bool)
	rec = func(e Lit, isRoot bool) {
		id := e.ID()
		n := m.Node(id)
		sameKind := !e.IsCompl() && n.Kind == kind
		if sameKind && (isRoot || n.RefCount <= limit) {
			if visited[id] {
				return
			}
			visited[id] = true
			for _, f := range n.Fanins() {
				rec(f, false)
			}
			return
		}
		leaves = append(leaves, e)
	}
	rec(rootEdge, true)
	return leaves
}

// buildBalancedTree simplifies leaves for the given associative kind and
// recombines them bottom-up, repeatedly picking the two lowest-level
// operands (spec.md §4.5's level-preserving `balance`), preferring a pair
// that is already present in dst's structural hash when several pairs
// share the lowest level (the sharing heuristic).
func buildBalancedTree(dst *Manager, leaves []Lit, kind Kind) Lit {
	switch kind {
	case KindAnd:
		var isFalse bool
		leaves, isFalse = simplifyAnd(leaves)
		if isFalse {
			return ConstFalse
		}
		if len(leaves) == 0 {
			return ConstTrue
		}
	case KindXor:
		leaves = simplifyXor(leaves)
		if len(leaves) == 0 {
			return ConstFalse
		}
	}
	if len(leaves) == 1 {
		return leaves[0]
	}

	sort.Slice(leaves, func(i, j int) bool {
		return levelOf(dst, leaves[i]) < levelOf(dst, leaves[j])
	})

	for len(leaves) > 1 {
		i, j := pickPair(dst, leaves, kind)
		a, b := leaves[i], leaves[j]

		var r Lit
		if kind == KindAnd {
			r = dst.MkAnd(a, b)
		} else {
			r = dst.MkXor(a, b)
		}

		// remove j then i (j > i, so removing j first keeps i valid)
		leaves = append(leaves[:j], leaves[j+1:]...)
		leaves = append(leaves[:i], leaves[i+1:]...)

		pos := sort.Search(len(leaves), func(k int) bool {
			return levelOf(dst, leaves[k]) >= levelOf(dst, r)
		})
		leaves = append(leaves, ConstTrue)
		copy(leaves[pos+1:], leaves[pos:])
		leaves[pos] = r
	}
	return leaves[0]
}

// pickPair returns two indices into leaves (i < j) to combine next. Among
// every pair sharing the lowest level present, it prefers one that
// already exists in dst's structural hash (so combining it is free);
// otherwise it takes the first two lowest-level leaves.
func pickPair(dst *Manager, leaves []Lit, kind Kind) (int, int) {
	minLevel := levelOf(dst, leaves[0])
	n := 1
	for n < len(leaves) && levelOf(dst, leaves[n]) == minLevel {
		n++
	}
	if n < 2 {
		n = 2
		if n > len(leaves) {
			n = len(leaves)
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if hashHasPair(dst, kind, leaves[i], leaves[j]) {
				return i, j
			}
		}
	}
	return 0, 1
}

func hashHasPair(dst *Manager, kind Kind, a, b Lit) bool {
	switch kind {
	case KindAnd:
		if a.ID() > b.ID() {
			a, b = b, a
		}
		_, ok := dst.andHash.Lookup(structhash.Key{Fanin0: uint32(a), Fanin1: uint32(b)})
		return ok
	case KindXor:
		a0, b0 := mkLit(a.ID(), false), mkLit(b.ID(), false)
		if a0.ID() > b0.ID() {
			a0, b0 = b0, a0
		}
		_, ok := dst.xorHash.Lookup(structhash.Key{Fanin0: uint32(a0), Fanin1: uint32(b0)})
		return ok
	}
	return false
}

// simplifyAnd dedups/absorbs an AND cone's leaf list: repeated literals
// collapse to one (a&a=a), a literal appearing with both polarities makes
// the whole cone false (a&!a=0), and constant-true leaves are dropped.
func simplifyAnd(leaves []Lit) ([]Lit, bool) {
	filtered := leaves[:0]
	for _, l := range leaves {
		if l == ConstFalse {
			return nil, true
		}
		if l == ConstTrue {
			continue
		}
		filtered = append(filtered, l)
	}
	leaves = filtered

	sort.Slice(leaves, func(i, j int) bool { return leaves[i].ID() < leaves[j].ID() })
	out := leaves[:0]
	i := 0
	for i < len(leaves) {
		j := i
		sawPos, sawNeg := false, false
		for j < len(leaves) && leaves[j].ID() == leaves[i].ID() {
			if leaves[j].IsCompl() {
				sawNeg = true
			} else {
				sawPos = true
			}
			j++
		}
		if sawPos && sawNeg {
			return nil, true
		}
		out = append(out, leaves[i])
		i = j
	}
	return out, false
}

// simplifyXor cancels an XOR cone's repeated literals pairwise: two
// occurrences of the same variable with matching polarity cancel to 0 and
// are dropped; two occurrences with opposing polarity cancel to 1
// (x ^ !x = 1) and contribute a constant-true leaf instead, folding the
// parity flip into the recombination via MkXor's own complement lifting.
func simplifyXor(leaves []Lit) []Lit {
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].ID() < leaves[j].ID() })
	var out []Lit
	i := 0
	for i < len(leaves) {
		j := i
		for j < len(leaves) && leaves[j].ID() == leaves[i].ID() {
			j++
		}
		group := leaves[i:j]
		k := 0
		for k+1 < len(group) {
			if group[k].IsCompl() != group[k+1].IsCompl() {
				out = append(out, ConstTrue)
			}
			k += 2
		}
		if len(group)%2 == 1 {
			out = append(out, group[len(group)-1])
		}
		i = j
	}
	return out
}
