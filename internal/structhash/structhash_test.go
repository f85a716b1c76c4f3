package structhash

import "testing"

func TestTable_InsertLookupDelete(t *testing.T) {
	tbl := New(4)
	k := Key{Fanin0: 10, Fanin1: 20, Aux: 0}

	if _, ok := tbl.Lookup(k); ok {
		t.Fatalf("Lookup on empty table should miss")
	}

	actual, inserted := tbl.Insert(k, 99)
	if !inserted || actual != 99 {
		t.Fatalf("Insert = (%d, %v), want (99, true)", actual, inserted)
	}

	actual2, inserted2 := tbl.Insert(k, 42)
	if inserted2 || actual2 != 99 {
		t.Fatalf("re-Insert of an existing key should return the existing value: got (%d, %v)", actual2, inserted2)
	}

	v, ok := tbl.Lookup(k)
	if !ok || v != 99 {
		t.Fatalf("Lookup = (%d, %v), want (99, true)", v, ok)
	}

	tbl.Delete(k)
	if _, ok := tbl.Lookup(k); ok {
		t.Fatalf("Lookup after Delete should miss")
	}
}

func TestTable_GrowsAndKeepsAllEntries(t *testing.T) {
	tbl := New(4)
	const n = 500
	for i := uint32(0); i < n; i++ {
		tbl.Insert(Key{Fanin0: i, Fanin1: i + 1}, i)
	}
	if tbl.Len() != n {
		t.Fatalf("Len() = %d, want %d", tbl.Len(), n)
	}
	for i := uint32(0); i < n; i++ {
		v, ok := tbl.Lookup(Key{Fanin0: i, Fanin1: i + 1})
		if !ok || v != i {
			t.Fatalf("entry %d lost or corrupted after growth: (%d, %v)", i, v, ok)
		}
	}
}
