package cut

import "testing"

// buildAndChain sets up a cut manager over a tiny network: pi0, pi1, pi2,
// n0 = pi0 & pi1, n1 = n0 & pi2. Returns the manager with cuts computed
// through n1.
func buildAndChain() *Manager {
	cm := NewManager(4)
	cm.SetTrivial(0) // pi0
	cm.SetTrivial(1) // pi1
	cm.SetTrivial(2) // pi2
	cm.ComputeCuts(3, 0, false, 1, false, func(ta, tb uint16) uint16 { return ta & tb })
	cm.ComputeCuts(4, 3, false, 2, false, func(ta, tb uint16) uint16 { return ta & tb })
	return cm
}

func TestComputeCuts_IncludesTrivialAndWholeNodeCut(t *testing.T) {
	cm := buildAndChain()
	cuts := cm.Cuts(4)
	if len(cuts) == 0 {
		t.Fatalf("node 4 has no cuts")
	}

	var sawTrivial, sawFull bool
	for _, c := range cuts {
		if c.NLeafs == 1 && c.Leaves[0] == 4 {
			sawTrivial = true
		}
		if c.NLeafs == 3 {
			sawFull = true
			if !containsLeaf(c, 0) || !containsLeaf(c, 1) || !containsLeaf(c, 2) {
				t.Fatalf("3-leaf cut should be exactly {0,1,2}, got %v", c.Leaves[:c.NLeafs])
			}
		}
	}
	if !sawTrivial {
		t.Fatalf("missing the trivial single-leaf cut")
	}
	if !sawFull {
		t.Fatalf("missing the full 3-leaf cut spanning all three PIs")
	}
}

func TestComputeCuts_TruthTableMatchesAndOfLeaves(t *testing.T) {
	cm := buildAndChain()
	cuts := cm.Cuts(4)
	for _, c := range cuts {
		if c.NLeafs != 3 {
			continue
		}
		// node 4 = pi0 & pi1 & pi2, regardless of leaf order in the cut.
		posOf := map[uint32]int{}
		for i := 0; i < c.NLeafs; i++ {
			posOf[c.Leaves[i]] = i
		}
		for m := 0; m < 8; m++ {
			b0 := (m >> 0) & 1
			b1 := (m >> 1) & 1
			b2 := (m >> 2) & 1
			idx := (b0 << uint(posOf[0])) | (b1 << uint(posOf[1])) | (b2 << uint(posOf[2]))
			want := b0 == 1 && b1 == 1 && b2 == 1
			got := c.Truth&(1<<uint(idx)) != 0
			if got != want {
				t.Fatalf("cut truth table disagrees with AND(pi0,pi1,pi2) at minterm %d", m)
			}
		}
	}
}

func TestMinimizeSupport_DropsUnusedLeaf(t *testing.T) {
	// merge a 1-leaf cut (pi0) with a 1-leaf cut (pi1) under the absorbing
	// combine a | (a & b) == a: the merged cut starts with leaves {0, 1}
	// but its function depends on pi0 alone, so support minimization must
	// drop pi1 and leave NLeafs == 1.
	a := trivial(0)
	b := trivial(1)
	merged, ok := Merge(a, b, func(ta, tb uint16) uint16 { return ta | (ta & tb) })
	if !ok {
		t.Fatalf("Merge failed")
	}
	if merged.NLeafs != 1 {
		t.Fatalf("NLeafs = %d, want 1 after support minimization", merged.NLeafs)
	}
	if merged.Leaves[0] != 0 {
		t.Fatalf("remaining leaf = %d, want 0", merged.Leaves[0])
	}
}

func TestCutManager_CapsAtMaxCutsPerNode(t *testing.T) {
	// Two balanced 4-input AND trees (10 over pi0..pi3, 13 over pi4..pi7)
	// each carry five cuts; their 4-feasible merges at node 14 plus its
	// trivial cut make nine candidates, so node 14 must be capped at
	// MaxCutsPerNode cuts.
	and := func(ta, tb uint16) uint16 { return ta & tb }
	cm := NewManager(4)
	for i := uint32(0); i < 8; i++ {
		cm.SetTrivial(i)
	}
	cm.ComputeCuts(8, 0, false, 1, false, and)
	cm.ComputeCuts(9, 2, false, 3, false, and)
	cm.ComputeCuts(10, 8, false, 9, false, and)
	cm.ComputeCuts(11, 4, false, 5, false, and)
	cm.ComputeCuts(12, 6, false, 7, false, and)
	cm.ComputeCuts(13, 11, false, 12, false, and)
	cm.ComputeCuts(14, 10, false, 13, false, and)
	if len(cm.Cuts(14)) > MaxCutsPerNode {
		t.Fatalf("node 14 has %d cuts, want <= %d", len(cm.Cuts(14)), MaxCutsPerNode)
	}
}

func containsLeaf(c Cut, id uint32) bool {
	for i := 0; i < c.NLeafs; i++ {
		if c.Leaves[i] == id {
			return true
		}
	}
	return false
}
