package npn

import "testing"

func TestLibrary_SubgraphsRealizeTheCanonicalFunction(t *testing.T) {
	lib := NewLibrary()
	lib.Prepare(3)

	tt := truthOfAnd(0, 1)
	classIdx, canon := lib.Match(tt)
	if classIdx < 0 {
		t.Fatalf("Match returned a negative class index")
	}

	diags := lib.Subgraphs(canon.Canon)
	if len(diags) == 0 {
		t.Fatalf("Subgraphs returned no diagrams for class %d", classIdx)
	}
	for _, d := range diags {
		if evalDiagram(d, canon.Canon) != canon.Canon {
			t.Fatalf("diagram does not realize the canonical truth table")
		}
	}
	// smallest first
	for i := 1; i < len(diags); i++ {
		if diags[i].Size() < diags[i-1].Size() {
			t.Fatalf("Subgraphs not sorted smallest-first: sizes %v", sizesOf(diags))
		}
	}
}

func TestLibrary_CanonicalsTracksDiscoveredClasses(t *testing.T) {
	lib := NewLibrary()
	lib.Prepare(1)
	lib.Match(truthOfAnd(0, 1))
	lib.Match(truthOfXor(0, 1))

	cs := lib.Canonicals()
	if len(cs) < 2 {
		t.Fatalf("Canonicals() returned %d entries, want at least 2", len(cs))
	}
}

func sizesOf(diags []*Diagram) []int {
	out := make([]int, len(diags))
	for i, d := range diags {
		out[i] = d.Size()
	}
	return out
}

// evalDiagram evaluates d over all 16 minterms and packs the result back
// into a truth table, to check it matches the table it was built from.
func evalDiagram(d *Diagram, want uint16) uint16 {
	var out uint16
	for m := 0; m < 16; m++ {
		if evalRef(d, d.Root, m) {
			out |= 1 << uint(m)
		}
	}
	return out
}

func evalRef(d *Diagram, ref int32, m int) bool {
	switch ref {
	case ConstTrueRef:
		return true
	case ConstFalseRef:
		return false
	}
	n := d.Nodes[ref]
	if (m>>uint(n.Var))&1 != 0 {
		return evalRef(d, n.Then, m)
	}
	return evalRef(d, n.Else, m)
}
