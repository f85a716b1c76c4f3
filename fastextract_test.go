package aig

import "testing"

func cubeLits(cube []int32) []int32 { return cube[1:] }

func TestFastExtract_TwoCubeSharedFactor(t *testing.T) {
	// spec.md §8.4 scenario 2: owner 10's cubes (2,4) and (2,6) share
	// literal 2 and factor into w = 2·(4 ∪ 6).
	cubes := [][]int32{
		{10, 2, 4},
		{10, 2, 6},
	}
	n := FastExtract(&cubes, 10, FxParams{})
	if n != 1 {
		t.Fatalf("extracted %d divisors, want 1", n)
	}
	if len(cubes) != 3 {
		t.Fatalf("got %d cubes, want 3 (owner ref + 2 defining cubes)", len(cubes))
	}

	var ownerCube []int32
	var defCubes [][]int32
	for _, c := range cubes {
		if c[0] == 10 {
			ownerCube = c
		} else {
			defCubes = append(defCubes, c)
		}
	}
	if len(ownerCube) != 2 {
		t.Fatalf("owner cube = %v, want exactly one literal referencing w", ownerCube)
	}
	w := ownerCube[1] / 2
	if len(defCubes) != 2 {
		t.Fatalf("want 2 cubes defining w, got %d", len(defCubes))
	}
	for _, c := range defCubes {
		if c[0] != w {
			t.Fatalf("defining cube %v does not belong to w=%d", c, w)
		}
	}
}

func TestFastExtract_TwoCubeDoesNotMergeUnrelatedOwners(t *testing.T) {
	// Two owners share the literal 2 but have different remainders — they
	// must NOT be collapsed into one shared divisor (the bug this test
	// guards against).
	cubes := [][]int32{
		{10, 2, 4},
		{10, 2, 6},
		{11, 2, 8},
		{11, 2, 10},
	}
	orig := make([][]int32, len(cubes))
	copy(orig, cubes)

	n := FastExtract(&cubes, 11, FxParams{})
	if n != 2 {
		t.Fatalf("extracted %d divisors, want 2 (one per owner)", n)
	}

	owners := map[int32][]int32{}
	for _, c := range cubes {
		owners[c[0]] = append(owners[c[0]], c[1:]...)
	}
	// each of the two original owners (10, 11) must still resolve, via its
	// own defining variable, to exactly its own original remainder pair —
	// never to the other owner's.
	if len(owners) != 4 { // 2 original owners (now single-literal refs) + 2 new defining vars
		t.Fatalf("got %d distinct owners after extraction, want 4", len(owners))
	}
}

func TestFastExtract_MuxDivisor(t *testing.T) {
	// spec.md §8.4 scenario 4: o = s̄·a + s·b, i.e. o = s ? b : a. Literal
	// 2 = s (positive), 3 = ¬s, 4 = a, 6 = b.
	cubes := [][]int32{
		{30, 3, 4},
		{30, 2, 6},
	}
	n := FastExtract(&cubes, 30, FxParams{})
	if n != 1 {
		t.Fatalf("extracted %d divisors, want 1", n)
	}
	if len(cubes) != 3 {
		t.Fatalf("got %d cubes, want 3 (owner ref + 2 defining cubes)", len(cubes))
	}

	var ownerCube []int32
	var defCubes [][]int32
	for _, c := range cubes {
		if c[0] == 30 {
			ownerCube = c
		} else {
			defCubes = append(defCubes, c)
		}
	}
	if len(ownerCube) != 2 {
		t.Fatalf("owner cube = %v, want exactly one literal referencing the MUX divisor", ownerCube)
	}
	v := ownerCube[1] / 2
	if len(defCubes) != 2 {
		t.Fatalf("want 2 cubes defining the MUX divisor, got %d", len(defCubes))
	}

	var sawCtrl3, sawCtrl2 bool
	for _, c := range defCubes {
		if c[0] != v {
			t.Fatalf("defining cube %v does not belong to divisor %d", c, v)
		}
		switch {
		case contains(c[1:], 3):
			sawCtrl3 = true
			if !contains(c[1:], 4) {
				t.Fatalf("the ¬s-control cube should retain data literal 4, got %v", c)
			}
		case contains(c[1:], 2):
			sawCtrl2 = true
			if !contains(c[1:], 6) {
				t.Fatalf("the s-control cube should retain data literal 6, got %v", c)
			}
		default:
			t.Fatalf("defining cube %v carries neither control literal", c)
		}
	}
	if !sawCtrl3 || !sawCtrl2 {
		t.Fatalf("both control polarities {2,3} should appear across the defining cubes, got %v", defCubes)
	}
}

func TestFastExtract_CanonDivsOnlySkipsCommonFactor(t *testing.T) {
	// The same shared-AND-factor input as scenario 2, but with
	// CanonDivsOnly set: the common-factor search must not run, so no
	// divisor with an unrelated remainder pair is extracted.
	cubes := [][]int32{
		{10, 2, 4},
		{10, 2, 6},
	}
	n := FastExtract(&cubes, 10, FxParams{CanonDivsOnly: true})
	if n != 0 {
		t.Fatalf("extracted %d divisors with CanonDivsOnly set, want 0 (no AND/XOR/MUX shape present)", n)
	}
	if len(cubes) != 2 {
		t.Fatalf("cubes mutated despite no extraction: %v", cubes)
	}
}

func contains(lits []int32, l int32) bool {
	for _, x := range lits {
		if x == l {
			return true
		}
	}
	return false
}

func TestFastExtract_SingleCubeSharedPair(t *testing.T) {
	cubes := [][]int32{
		{20, 2, 4, 6},
		{21, 2, 4, 8},
	}
	n := FastExtract(&cubes, 21, FxParams{})
	if n != 1 {
		t.Fatalf("extracted %d divisors, want 1", n)
	}
	for _, c := range cubes {
		if c[0] == 20 || c[0] == 21 {
			if len(cubeLits(c)) != 2 {
				t.Fatalf("owner cube %v should have shrunk to 2 literals", c)
			}
		}
	}
}
