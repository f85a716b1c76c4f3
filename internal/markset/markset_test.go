package markset

import "testing"

func TestSet_SetTestClear(t *testing.T) {
	var s Set
	if s.Test(5) {
		t.Fatalf("fresh set should not have bit 5 set")
	}
	s.Set(5)
	if !s.Test(5) {
		t.Fatalf("bit 5 should be set")
	}
	if s.Test(4) || s.Test(6) {
		t.Fatalf("neighboring bits should remain clear")
	}
	s.Clear(5)
	if s.Test(5) {
		t.Fatalf("bit 5 should be clear after Clear")
	}
}

func TestSet_GrowsAcrossWordBoundaries(t *testing.T) {
	var s Set
	ids := []uint{0, 63, 64, 127, 128, 1000}
	for _, id := range ids {
		s.Set(id)
	}
	for _, id := range ids {
		if !s.Test(id) {
			t.Fatalf("id %d should be marked", id)
		}
	}
	if s.Test(1) || s.Test(999) {
		t.Fatalf("untouched ids should remain unmarked")
	}
}

func TestSet_Count(t *testing.T) {
	var s Set
	for _, id := range []uint{1, 2, 3, 130} {
		s.Set(id)
	}
	if got := s.Count(); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}
}

func TestSet_Reset(t *testing.T) {
	var s Set
	s.Set(10)
	s.Set(200)
	s.Reset()
	if s.Count() != 0 {
		t.Fatalf("Count() after Reset = %d, want 0", s.Count())
	}
	// backing array still usable without reallocating past its capacity
	s.Set(10)
	if !s.Test(10) {
		t.Fatalf("set should still be usable after Reset")
	}
}

func TestSet_Clone(t *testing.T) {
	var s Set
	s.Set(3)
	c := s.Clone()
	c.Set(4)
	if s.Test(4) {
		t.Fatalf("mutating the clone should not affect the original")
	}
	if !c.Test(3) || !c.Test(4) {
		t.Fatalf("clone should carry the original bits plus its own")
	}
}

func TestSet_NextSet(t *testing.T) {
	var s Set
	s.Set(5)
	s.Set(70)

	id, ok := s.NextSet(0)
	if !ok || id != 5 {
		t.Fatalf("NextSet(0) = (%d, %v), want (5, true)", id, ok)
	}
	id, ok = s.NextSet(6)
	if !ok || id != 70 {
		t.Fatalf("NextSet(6) = (%d, %v), want (70, true)", id, ok)
	}
	if _, ok := s.NextSet(71); ok {
		t.Fatalf("NextSet past the last marked id should report false")
	}
}
