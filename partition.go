package boa

// block is one entry of a RefinablePartition's partition table: the
// half-open buffer range [Start, End) it owns, split at Mid into a clean
// prefix [Start, Mid) and a dirty suffix [Mid, End).
//
// Note this is the opposite split from what a literal reading of some
// descriptions of this structure suggests — it is the convention the
// reference implementation's mark_dirty/refiners actually walk: a state's
// buffer position growing past Mid is what makes it dirty.
type block struct {
	Start, Mid, End uint32
}

// RefinablePartition is a partition of states into blocks, where each
// block additionally tracks which of its states have been touched
// ("dirtied") since it was last refined. Refine() splits a block by a
// signature assignment of its refiners and keeps the largest resulting
// sub-block under the original block id, so that the total work done
// marking predecessors dirty across a run is O((n+m) log n).
type RefinablePartition struct {
	Buffer      []uint32 // states, grouped contiguously by block
	Position    []uint32 // Position[state] = index into Buffer
	State2Block []uint32 // State2Block[state] = current block id
	Partition   []block  // block id -> buffer range
	Worklist    []uint32 // LIFO stack of block ids with a nonempty dirty suffix
}

// NewRefinablePartition starts every state in a single block, entirely
// dirty, with that block on the worklist.
func NewRefinablePartition(numStates uint32) *RefinablePartition {
	buffer := make([]uint32, numStates)
	position := make([]uint32, numStates)
	for i := range buffer {
		buffer[i] = uint32(i)
		position[i] = uint32(i)
	}
	return &RefinablePartition{
		Buffer:      buffer,
		Position:    position,
		State2Block: make([]uint32, numStates),
		Partition:   []block{{Start: 0, Mid: 0, End: numStates}},
		Worklist:    []uint32{0},
	}
}

// PushWorklist adds id to the worklist.
func (p *RefinablePartition) PushWorklist(id uint32) {
	p.Worklist = append(p.Worklist, id)
}

// PopWorklist removes and returns the most recently pushed block id. The
// ok result is false once the worklist is empty.
func (p *RefinablePartition) PopWorklist() (uint32, bool) {
	n := len(p.Worklist)
	if n == 0 {
		return 0, false
	}
	id := p.Worklist[n-1]
	p.Worklist = p.Worklist[:n-1]
	return id, true
}

// MarkDirty moves state into its block's dirty suffix, pushing the block
// onto the worklist if it had no dirty states yet. O(1).
func (p *RefinablePartition) MarkDirty(state uint32) {
	id := p.State2Block[state]
	pos := p.Position[state]
	b := p.Partition[id]
	if b.End-b.Start <= 1 {
		return // singleton blocks can never split further
	}
	if b.Mid <= pos {
		return // already dirty
	}
	if b.Mid == b.End {
		p.PushWorklist(id)
	}
	p.Partition[id].Mid--
	otherState := p.Buffer[b.Mid-1]
	p.Position[otherState] = pos
	p.Position[state] = b.Mid - 1
	p.Buffer[pos] = otherState
	p.Buffer[b.Mid-1] = state
}

// Refiners returns the states to compute signatures for when refining
// block id: every dirty state, plus one clean representative first if the
// block has any clean states left. O(1).
func (p *RefinablePartition) Refiners(id uint32) []uint32 {
	b := p.Partition[id]
	if b.Start == b.Mid {
		return p.Buffer[b.Start:b.End]
	}
	return p.Buffer[b.Mid-1 : b.End]
}

func cumsum(xs []uint32) []uint32 {
	out := make([]uint32, len(xs))
	var sum uint32
	for i, x := range xs {
		sum += x
		out[i] = sum
	}
	return out
}

func countsVec(xs []uint32) []uint32 {
	var counts []uint32
	for _, x := range xs {
		for uint32(len(counts)) <= x {
			counts = append(counts, 0)
		}
		counts[x]++
	}
	return counts
}

// indexOfMax returns the index of the largest count, breaking ties toward
// the highest index — this is the convention the reference implementation
// uses (>=, not >) and it is load-bearing for which sub-block keeps the
// original block id.
func indexOfMax(counts []uint32) uint32 {
	var iMax uint32
	var vMax uint32
	for i, c := range counts {
		if c >= vMax {
			iMax = uint32(i)
			vMax = c
		}
	}
	return iMax
}

// Refine splits block partitionID according to signatures (one per
// Refiners(partitionID) state, assumed already renumbered to 0..n with the
// first entry, if any, equal to 0). The sub-block with the most states
// keeps partitionID; every other sub-block gets a freshly allocated id,
// returned in signature order (skipping the retained one). O(len(signatures)),
// plus O(number of clean states) when the clean states move to a new id.
func (p *RefinablePartition) Refine(partitionID uint32, signatures []uint32) []uint32 {
	counts := countsVec(signatures)

	b := p.Partition[partitionID]
	if b.Start < b.Mid {
		counts[0] += b.Mid - b.Start - 1 // the clean states not individually signed
	}

	largest := indexOfMax(counts)
	nextID := uint32(len(p.Partition))

	cumCounts := cumsum(counts)
	original := append([]uint32(nil), p.Refiners(partitionID)...)

	for i, state := range original {
		sig := signatures[i]
		cumCounts[sig]--
		j := b.Start + cumCounts[sig]
		p.Buffer[j] = state
		p.Position[state] = j

		if sig != largest {
			var newID uint32
			if sig < largest {
				newID = nextID + sig
			} else {
				newID = nextID + sig - 1
			}
			p.State2Block[state] = newID
		}
	}

	if largest != 0 {
		for i := b.Start; i < b.Mid; i++ {
			state := p.Buffer[i]
			p.State2Block[state] = nextID
		}
	}

	// cumCounts now holds each signature's start offset, except that the
	// clean states left in place never decremented signature 0's cursor.
	if b.Start < b.Mid {
		cumCounts[0] -= b.Mid - b.Start - 1
	}

	var newBlocks []uint32
	for sig := uint32(0); sig < uint32(len(counts)); sig++ {
		newStart := b.Start + cumCounts[sig]
		newEnd := b.Start + cumCounts[sig] + counts[sig]
		newBlock := block{Start: newStart, Mid: newEnd, End: newEnd}
		if sig == largest {
			p.Partition[partitionID] = newBlock
		} else {
			newBlocks = append(newBlocks, uint32(len(p.Partition)))
			p.Partition = append(p.Partition, newBlock)
		}
	}

	return newBlocks
}
