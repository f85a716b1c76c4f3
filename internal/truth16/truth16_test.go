package truth16

import "testing"

func TestElemVar_MatchesEval(t *testing.T) {
	for v := 0; v < 4; v++ {
		for m := 0; m < 16; m++ {
			want := (m>>uint(v))&1 != 0
			if got := Eval(ElemVar[v], m); got != want {
				t.Fatalf("var%d at minterm %d: Eval=%v, want %v", v, m, got, want)
			}
		}
	}
}

func TestCofactorEq_ConstantIsDontCareInEveryVariable(t *testing.T) {
	for v := 0; v < 4; v++ {
		if !CofactorEq(0x0000, v) || !CofactorEq(0xFFFF, v) {
			t.Fatalf("variable %d should be a don't-care of a constant function", v)
		}
	}
	if CofactorEq(ElemVar[0], 0) {
		t.Fatalf("variable 0 should NOT be a don't-care of its own elementary function")
	}
}

func TestNegateVar_IsInvolution(t *testing.T) {
	tt := uint16(0xACE1)
	for v := 0; v < 4; v++ {
		twice := NegateVar(NegateVar(tt, v), v)
		if twice != tt {
			t.Fatalf("NegateVar applied twice to variable %d should be identity: got %04x, want %04x", v, twice, tt)
		}
	}
}

func TestSwapAdjacent_IsInvolution(t *testing.T) {
	tt := uint16(0x1248)
	for v := 0; v < 3; v++ {
		twice := SwapAdjacent(SwapAdjacent(tt, v), v)
		if twice != tt {
			t.Fatalf("SwapAdjacent applied twice at %d should be identity: got %04x, want %04x", v, twice, tt)
		}
	}
}

func TestPopCount32(t *testing.T) {
	cases := map[uint32]int{0: 0, 1: 1, 0xFFFFFFFF: 32, 0b1011: 3}
	for sig, want := range cases {
		if got := PopCount32(sig); got != want {
			t.Fatalf("PopCount32(%b) = %d, want %d", sig, got, want)
		}
	}
}
