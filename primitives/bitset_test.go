package primitives

import "testing"

func TestBitSetSetContainsClear(t *testing.T) {
	b := NewBitSet(130)
	b.Set(0)
	b.Set(63)
	b.Set(64)
	b.Set(129)

	for _, i := range []uint32{0, 63, 64, 129} {
		if !b.Contains(i) {
			t.Fatalf("expected bit %d set", i)
		}
	}
	if b.Contains(1) {
		t.Fatalf("bit 1 should be unset")
	}
	if b.Count() != 4 {
		t.Fatalf("count = %d, want 4", b.Count())
	}

	b.Clear(63)
	if b.Contains(63) {
		t.Fatal("bit 63 should be cleared")
	}
	if b.Count() != 3 {
		t.Fatalf("count = %d, want 3", b.Count())
	}
}

func TestBitSetRoundTrip(t *testing.T) {
	b := NewBitSet(200)
	b.Set(5)
	b.Set(199)
	data, err := b.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var out BitSet
	if err := out.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if out.Len() != b.Len() {
		t.Fatalf("length mismatch %d != %d", out.Len(), b.Len())
	}
	if !out.Contains(5) || !out.Contains(199) || out.Contains(6) {
		t.Fatal("round-trip lost bit state")
	}
}

func TestBitSetUnionRequiresEqualLength(t *testing.T) {
	a := NewBitSet(10)
	b := NewBitSet(20)
	if _, err := a.Union(b); err == nil {
		t.Fatal("expected length-mismatch error")
	}
}

func TestBitSetIterAscending(t *testing.T) {
	b := NewBitSet(200)
	b.Set(150)
	b.Set(3)
	b.Set(64)
	var got []uint32
	b.Iter(func(i uint32) { got = append(got, i) })
	want := []uint32{3, 64, 150}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
