package boa

import "testing"

func TestNewRefinablePartitionSingleBlock(t *testing.T) {
	p := NewRefinablePartition(5)
	if len(p.Partition) != 1 {
		t.Fatalf("expected a single block, got %d", len(p.Partition))
	}
	if len(p.Worklist) != 1 || p.Worklist[0] != 0 {
		t.Fatalf("expected worklist [0], got %v", p.Worklist)
	}
	b := p.Partition[0]
	if b.Start != 0 || b.Mid != 0 || b.End != 5 {
		t.Fatalf("unexpected initial block %+v", b)
	}
}

func TestRefineSplitsIntoBlocksBySignature(t *testing.T) {
	p := NewRefinablePartition(4)
	// All 4 states are dirty (Mid==Start), refiners returns all of them.
	states := p.Refiners(0)
	if len(states) != 4 {
		t.Fatalf("expected 4 refiners, got %d", len(states))
	}
	// signatures must already be renumbered 0..n; split states {0,1} -> sig 0,
	// {2,3} -> sig 1.
	sigs := make([]uint32, 4)
	for i, s := range states {
		if s < 2 {
			sigs[i] = 0
		} else {
			sigs[i] = 1
		}
	}
	newBlocks := p.Refine(0, sigs)
	if len(newBlocks) != 1 {
		t.Fatalf("expected exactly one new block (the larger sub-block keeps id 0), got %d", len(newBlocks))
	}
	if len(p.Partition) != 2 {
		t.Fatalf("expected 2 blocks total, got %d", len(p.Partition))
	}

	// Every state's block assignment must match its signature group.
	groupOf := map[uint32]uint32{}
	for blockID, b := range p.Partition {
		for i := b.Start; i < b.End; i++ {
			groupOf[p.Buffer[i]] = uint32(blockID)
		}
	}
	if groupOf[0] != groupOf[1] {
		t.Fatalf("states 0 and 1 should be in the same block")
	}
	if groupOf[2] != groupOf[3] {
		t.Fatalf("states 2 and 3 should be in the same block")
	}
	if groupOf[0] == groupOf[2] {
		t.Fatalf("states {0,1} and {2,3} should be in different blocks")
	}

	// Position must stay consistent with Buffer after the split.
	for i, s := range p.Buffer {
		if p.Position[s] != uint32(i) {
			t.Fatalf("Position[%d] = %d, want %d", s, p.Position[s], i)
		}
	}
	// State2Block must agree with the Buffer-derived grouping for every
	// state.
	for s, blockID := range groupOf {
		if p.State2Block[s] != blockID {
			t.Fatalf("State2Block[%d] = %d, want %d", s, p.State2Block[s], blockID)
		}
	}
}

func TestMarkDirtySingletonIsNoop(t *testing.T) {
	p := NewRefinablePartition(1)
	p.MarkDirty(0) // must not panic or push a duplicate worklist entry
	if len(p.Worklist) != 1 {
		t.Fatalf("singleton mark-dirty should not grow the worklist, got %v", p.Worklist)
	}
}

func TestWorklistIsLIFO(t *testing.T) {
	p := &RefinablePartition{Worklist: []uint32{1, 2, 3}}
	id, ok := p.PopWorklist()
	if !ok || id != 3 {
		t.Fatalf("expected to pop 3 first, got %d, %v", id, ok)
	}
	id, ok = p.PopWorklist()
	if !ok || id != 2 {
		t.Fatalf("expected to pop 2 second, got %d, %v", id, ok)
	}
}
