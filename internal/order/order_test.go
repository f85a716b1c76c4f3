package order

import (
	"reflect"
	"testing"
)

func TestList_PushBackPreservesOrder(t *testing.T) {
	l := New()
	l.PushBack(1)
	l.PushBack(2)
	l.PushBack(3)

	var got []uint32
	l.Each(func(id uint32) { got = append(got, id) })
	want := []uint32{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Each visited %v, want %v", got, want)
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
}

func TestList_InsertAfterVisitedInSamePass(t *testing.T) {
	l := New()
	l.PushBack(1)
	l.PushBack(2)

	var got []uint32
	l.Each(func(id uint32) {
		got = append(got, id)
		if id == 1 {
			l.InsertAfter(1, 99)
		}
	})
	want := []uint32{1, 99, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Each visited %v, want %v", got, want)
	}
}

func TestList_Remove(t *testing.T) {
	l := New()
	l.PushBack(1)
	l.PushBack(2)
	l.PushBack(3)
	l.Remove(2)

	if l.Contains(2) {
		t.Fatalf("Contains(2) should be false after Remove")
	}
	var got []uint32
	l.Each(func(id uint32) { got = append(got, id) })
	want := []uint32{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Each after Remove visited %v, want %v", got, want)
	}
}

func TestList_RemoveTailAndHead(t *testing.T) {
	l := New()
	l.PushBack(1)
	l.PushBack(2)
	l.Remove(2) // tail
	l.PushBack(3)

	var got []uint32
	l.Each(func(id uint32) { got = append(got, id) })
	want := []uint32{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	l.Remove(1) // now-head
	got = nil
	l.Each(func(id uint32) { got = append(got, id) })
	want = []uint32{3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
