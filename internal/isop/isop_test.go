package isop

import "testing"

func TestExtract_CoverMatchesTruthTable(t *testing.T) {
	// AND of variables 0 and 1, over 2 variables.
	var and01 uint16
	for m := 0; m < 4; m++ {
		if m&1 != 0 && m&2 != 0 {
			and01 |= 1 << uint(m)
		}
	}
	cov := Extract(and01, 2)
	for m := 0; m < 4; m++ {
		want := and01&(1<<uint(m)) != 0
		if got := cov.Eval(m); got != want {
			t.Fatalf("cover disagrees with source truth table at minterm %d: got %v want %v", m, got, want)
		}
	}
}

func TestExtract_TautologyAndEmpty(t *testing.T) {
	if cov := Extract(0x0000, 4); len(cov) != 0 {
		t.Fatalf("constant-0 should extract to an empty cover, got %v", cov)
	}
	cov := Extract(0xFFFF, 4)
	for m := 0; m < 16; m++ {
		if !cov.Eval(m) {
			t.Fatalf("constant-1 cover should be true everywhere, false at %d", m)
		}
	}
}

func TestExtract_FourVariableRandomSample(t *testing.T) {
	// A handful of arbitrary 4-variable functions: check the extracted
	// cover reproduces the exact truth table over all 16 minterms.
	samples := []uint16{0x8000, 0xACE1, 0x1248, 0xFFF0, 0x6996}
	for _, tt := range samples {
		cov := Extract(tt, 4)
		for m := 0; m < 16; m++ {
			want := tt&(1<<uint(m)) != 0
			if got := cov.Eval(m); got != want {
				t.Fatalf("tt=%04x: cover disagrees at minterm %d: got %v want %v", tt, m, got, want)
			}
		}
	}
}
