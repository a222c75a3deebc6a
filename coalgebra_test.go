package boa

import (
	"errors"
	"reflect"
	"testing"
)

// buildFixtureCoalg encodes the 8-state example used throughout this
// package's tests:
//
//	0: List[0]{@0,@1}
//	1: List[0]{@1,@1}
//	2: List[1]{@0,@0}
//	3: List[1]{@0,@0}
//	4: List[1]{@3,@4}
//	5: Add[0]{@0:1,@1:1}
//	6: Add[0]{@0:2}
//	7: Add[0]{@0:2,@1:1}
func buildFixtureCoalg(t *testing.T) ([]byte, Dictionaries) {
	t.Helper()
	enc := NewEncoder()
	nodes := []Node{
		Coll{Typ: ListType, Children: []Node{StateRef{0}, StateRef{1}}},
		Coll{Typ: ListType, Children: []Node{StateRef{1}, StateRef{1}}},
		Coll{Typ: ListType, Tag: 1, Children: []Node{StateRef{0}, StateRef{0}}},
		Coll{Typ: ListType, Tag: 1, Children: []Node{StateRef{0}, StateRef{0}}},
		Coll{Typ: ListType, Tag: 1, Children: []Node{StateRef{3}, StateRef{4}}},
		Mon{Typ: AddType, Entries: []MonEntry{{StateRef{0}, 1}, {StateRef{1}, 1}}},
		Mon{Typ: AddType, Entries: []MonEntry{{StateRef{0}, 2}}},
		Mon{Typ: AddType, Entries: []MonEntry{{StateRef{0}, 2}, {StateRef{1}, 1}}},
	}
	for _, n := range nodes {
		if err := n.Write(enc); err != nil {
			t.Fatal(err)
		}
	}
	return enc.Finish()
}

func TestIndexBackrefs(t *testing.T) {
	data, dict := buildFixtureCoalg(t)
	ix, err := NewIndex(data, dict)
	if err != nil {
		t.Fatal(err)
	}
	if ix.NumStates() != 8 {
		t.Fatalf("NumStates() = %d, want 8", ix.NumStates())
	}

	wantBackrefs := []uint32{7, 6, 5, 3, 3, 2, 2, 0, 7, 5, 1, 1, 0, 4, 4}
	if !reflect.DeepEqual(ix.Backrefs, wantBackrefs) {
		t.Fatalf("Backrefs = %v, want %v", ix.Backrefs, wantBackrefs)
	}

	wantLocs := []uint32{0, 8, 13, 13, 14, 15, 15, 15, 15}
	if !reflect.DeepEqual(ix.BackrefsLocs, wantLocs) {
		t.Fatalf("BackrefsLocs = %v, want %v", ix.BackrefsLocs, wantLocs)
	}

	want0 := []uint32{7, 6, 5, 3, 3, 2, 2, 0}
	if got := ix.StateBackrefs(0); !reflect.DeepEqual(got, want0) {
		t.Fatalf("StateBackrefs(0) = %v, want %v", got, want0)
	}
}

// TestNewIndexRejectsOutOfRangeReference covers a coalgebra with a single
// state whose tree dangles a reference past the end of the state space
// (e.g. a hand-edited .boa.txt line like "List[0]{@0,@999}" with no state
// 999 encoded anywhere): NewIndex must report ErrMalformedInput, not
// panic indexing its backref bookkeeping out of bounds.
func TestNewIndexRejectsOutOfRangeReference(t *testing.T) {
	enc := NewEncoder()
	node := Coll{Typ: ListType, Children: []Node{StateRef{0}, StateRef{999}}}
	if err := node.Write(enc); err != nil {
		t.Fatal(err)
	}
	data, dict := enc.Finish()

	if _, err := NewIndex(data, dict); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("NewIndex error = %v, want ErrMalformedInput", err)
	}
}
