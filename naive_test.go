package boa

import (
	"errors"
	"testing"
)

func TestRunNaiveFixture(t *testing.T) {
	data, dict := buildFixtureCoalg(t)
	dec := NewDecoder(&dict)

	ids, err := RunNaive(dec, data)
	if err != nil {
		t.Fatal(err)
	}
	got := Renumber(ids)
	want := []uint32{0, 0, 1, 1, 2, 3, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRunNaiveIsAFixedPoint(t *testing.T) {
	data, dict := buildFixtureCoalg(t)
	dec := NewDecoder(&dict)

	ids, err := RunNaive(dec, data)
	if err != nil {
		t.Fatal(err)
	}
	idOf := func(s uint32) uint64 { return uint64(ids[s]) }
	again, err := RepartitionAll(dec, data, 0, uint32(len(ids)), idOf)
	if err != nil {
		t.Fatal(err)
	}
	if countParts(again) != countParts(toU64(ids)) {
		t.Fatalf("repartitioning a converged assignment changed the partition count")
	}
}

// TestRunNaiveRejectsOutOfRangeReference mirrors
// TestNewIndexRejectsOutOfRangeReference for the naive driver's own entry
// point, which never builds an Index and so has its own dangling-reference
// path to validate.
func TestRunNaiveRejectsOutOfRangeReference(t *testing.T) {
	enc := NewEncoder()
	node := Coll{Typ: ListType, Children: []Node{StateRef{0}, StateRef{999}}}
	if err := node.Write(enc); err != nil {
		t.Fatal(err)
	}
	data, dict := enc.Finish()
	dec := NewDecoder(&dict)

	if _, err := RunNaive(dec, data); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("RunNaive error = %v, want ErrMalformedInput", err)
	}
}

func toU64(xs []uint32) []uint64 {
	out := make([]uint64, len(xs))
	for i, x := range xs {
		out[i] = uint64(x)
	}
	return out
}
