package boa

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

func sigOf(t *testing.T, n Node) uint64 {
	t.Helper()
	enc := NewEncoder()
	if err := n.Write(enc); err != nil {
		t.Fatal(err)
	}
	data, dict := enc.Finish()
	dec := NewDecoder(&dict)
	// These fixtures never reference a state id above single digits; 1000
	// is just a generous upper bound so Canonicalize's reference check
	// never rejects a legitimate test StateRef.
	sig, _, err := Canonicalize(dec, data, 0, 0, 1000, InitialIDLookup)
	if err != nil {
		t.Fatal(err)
	}
	return sig
}

// sigOfIDs is sigOf with every state in its own block (state i has id i),
// so child order and identity are visible to the signature.
func sigOfIDs(t *testing.T, n Node) uint64 {
	t.Helper()
	enc := NewEncoder()
	if err := n.Write(enc); err != nil {
		t.Fatal(err)
	}
	data, dict := enc.Finish()
	dec := NewDecoder(&dict)
	sig, _, err := Canonicalize(dec, data, 0, 0, 1000, func(s uint32) uint64 { return uint64(s) })
	if err != nil {
		t.Fatal(err)
	}
	return sig
}

func TestListOrderMatters(t *testing.T) {
	a := Coll{Typ: ListType, Children: []Node{StateRef{0}, StateRef{1}}}
	b := Coll{Typ: ListType, Children: []Node{StateRef{1}, StateRef{0}}}
	if sigOfIDs(t, a) == sigOfIDs(t, b) {
		t.Fatal("List nodes with different child order must not collide")
	}
}

func TestSetOrderIrrelevant(t *testing.T) {
	a := Coll{Typ: SetType, Children: []Node{StateRef{0}, StateRef{1}, StateRef{2}}}
	b := Coll{Typ: SetType, Children: []Node{StateRef{2}, StateRef{0}, StateRef{1}}}
	if sigOf(t, a) != sigOf(t, b) {
		t.Fatal("Set nodes that are permutations of each other must have the same signature")
	}
}

func TestSetDedups(t *testing.T) {
	a := Coll{Typ: SetType, Children: []Node{StateRef{0}, StateRef{1}}}
	b := Coll{Typ: SetType, Children: []Node{StateRef{0}, StateRef{1}, StateRef{1}, StateRef{0}}}
	if sigOf(t, a) != sigOf(t, b) {
		t.Fatal("Set nodes must dedup repeated children")
	}
}

func TestAddCombinesDuplicateChildren(t *testing.T) {
	a := Mon{Typ: AddType, Entries: []MonEntry{{StateRef{0}, 5}}}
	b := Mon{Typ: AddType, Entries: []MonEntry{{StateRef{0}, 2}, {StateRef{0}, 3}}}
	if sigOf(t, a) != sigOf(t, b) {
		t.Fatal("Add must combine values for duplicate children by summing")
	}
}

func TestOrCombinesDuplicateChildren(t *testing.T) {
	a := Mon{Typ: OrType, Entries: []MonEntry{{StateRef{0}, 0b110}}}
	b := Mon{Typ: OrType, Entries: []MonEntry{{StateRef{0}, 0b100}, {StateRef{0}, 0b010}}}
	if sigOf(t, a) != sigOf(t, b) {
		t.Fatal("Or must combine values for duplicate children by bitwise or")
	}
}

func TestMaxCombinesDuplicateChildren(t *testing.T) {
	a := Mon{Typ: MaxType, Entries: []MonEntry{{StateRef{0}, 9}}}
	b := Mon{Typ: MaxType, Entries: []MonEntry{{StateRef{0}, 3}, {StateRef{0}, 9}}}
	if sigOf(t, a) != sigOf(t, b) {
		t.Fatal("Max must combine values for duplicate children by taking the max")
	}
}

func TestTagKeepsDuplicateChildrenDistinct(t *testing.T) {
	// Unlike Add/Or/Max, Tag never merges entries that share a child: the
	// (child,value) pair is hashed as a unit, so two entries referencing the
	// same child with different values remain two distinct pair-hashes.
	a := Mon{Typ: TagType, Entries: []MonEntry{{StateRef{0}, 3}}}
	b := Mon{Typ: TagType, Entries: []MonEntry{{StateRef{0}, 3}, {StateRef{0}, 9}}}
	if sigOf(t, a) == sigOf(t, b) {
		t.Fatal("Tag must not collapse duplicate children the way Add/Or/Max do")
	}
}

func TestTagOrderIrrelevantDedupsIdenticalPairs(t *testing.T) {
	a := Mon{Typ: TagType, Entries: []MonEntry{{StateRef{0}, 1}, {StateRef{1}, 2}}}
	b := Mon{Typ: TagType, Entries: []MonEntry{{StateRef{1}, 2}, {StateRef{0}, 1}}}
	if sigOf(t, a) != sigOf(t, b) {
		t.Fatal("Tag must be insensitive to entry order")
	}

	c := Mon{Typ: TagType, Entries: []MonEntry{{StateRef{0}, 1}, {StateRef{0}, 1}}}
	d := Mon{Typ: TagType, Entries: []MonEntry{{StateRef{0}, 1}}}
	if sigOf(t, c) != sigOf(t, d) {
		t.Fatal("Tag must dedup identical (child,value) pairs")
	}
}

// TestSetSemanticsAgreeWithSetTheory cross-checks Set canonicalization
// against an independent set representation, guarding against a
// regression that would make it order- or multiplicity-sensitive.
func TestSetSemanticsAgreeWithSetTheory(t *testing.T) {
	ids := []uint32{5, 1, 5, 3, 1, 1}
	want := mapset.NewSet[uint32]()
	for _, id := range ids {
		want.Add(id)
	}

	children := make([]Node, len(ids))
	for i, id := range ids {
		children[i] = StateRef{id}
	}
	a := Coll{Typ: SetType, Children: children}

	shuffledIDs := want.ToSlice()
	shuffledChildren := make([]Node, len(shuffledIDs))
	for i, id := range shuffledIDs {
		shuffledChildren[i] = StateRef{id}
	}
	b := Coll{Typ: SetType, Children: shuffledChildren}

	if sigOfIDs(t, a) != sigOfIDs(t, b) {
		t.Fatal("Set signature must depend only on the underlying set of child signatures")
	}
}
