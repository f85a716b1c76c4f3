package npn

import "testing"

func TestCanonicalize_TrivialFunctionsShareAClass(t *testing.T) {
	allZero := Canonicalize(0x0000)
	allOne := Canonicalize(0xFFFF)
	if allZero.Canon != allOne.Canon {
		t.Fatalf("constant-0 and constant-1 functions must canonicalize to the same class (one is the output-negation of the other)")
	}
}

func TestCanonicalize_PermutationInvariant(t *testing.T) {
	// AND of two variables, expressed over slots (0,1) vs (2,3) — a pure
	// relabeling — must canonicalize identically.
	and01 := truthOfAnd(0, 1)
	and23 := truthOfAnd(2, 3)
	r1 := Canonicalize(and01)
	r2 := Canonicalize(and23)
	if r1.Canon != r2.Canon {
		t.Fatalf("AND(v0,v1) and AND(v2,v3) should be NPN-equivalent: %04x vs %04x", r1.Canon, r2.Canon)
	}
}

func TestCanonicalize_NegationInvariant(t *testing.T) {
	and01 := truthOfAnd(0, 1)
	or01 := ^and01 & 0xFFFF // De Morgan: NOT(a&b) relabels to an OR-ish class under negation
	_ = or01
	// complementing both inputs of AND(a,b) gives AND(!a,!b), NPN-equivalent
	// to AND(a,b) itself (phase is part of the NPN group).
	compl := negateInputs(and01, 0b0011)
	r1 := Canonicalize(and01)
	r2 := Canonicalize(compl)
	if r1.Canon != r2.Canon {
		t.Fatalf("AND(a,b) and AND(!a,!b) should be NPN-equivalent")
	}
}

func TestClassIndex_AssignsSequentialFirstSeenIndices(t *testing.T) {
	ci := NewClassIndex()
	base := ci.Count()

	idx1, _ := ci.Of(truthOfAnd(0, 1))
	idx2, _ := ci.Of(truthOfAnd(2, 3)) // NPN-equivalent to the above
	if idx1 != idx2 {
		t.Fatalf("NPN-equivalent functions must get the same class index: %d vs %d", idx1, idx2)
	}
	if ci.Count() != base+1 {
		t.Fatalf("Count() = %d, want %d after one new class", ci.Count(), base+1)
	}

	idx3, _ := ci.Of(truthOfXor(0, 1))
	if idx3 == idx1 {
		t.Fatalf("AND and XOR must not share a class index")
	}
}

// truthOfAnd builds the 16-bit truth table for variable a AND variable b
// over the standard 4-variable minterm ordering.
func truthOfAnd(a, b int) uint16 {
	var tt uint16
	for m := 0; m < 16; m++ {
		if (m>>uint(a))&1 != 0 && (m>>uint(b))&1 != 0 {
			tt |= 1 << uint(m)
		}
	}
	return tt
}

func truthOfXor(a, b int) uint16 {
	var tt uint16
	for m := 0; m < 16; m++ {
		if ((m>>uint(a))&1 != 0) != ((m>>uint(b))&1 != 0) {
			tt |= 1 << uint(m)
		}
	}
	return tt
}

// negateInputs complements every variable named in mask (bit k = variable
// k) throughout tt.
func negateInputs(tt uint16, mask uint8) uint16 {
	var out uint16
	for m := 0; m < 16; m++ {
		src := m ^ int(mask)
		if tt&(1<<uint(src)) != 0 {
			out |= 1 << uint(m)
		}
	}
	return out
}
