package boa

import "fmt"

// Index owns the byte-packed coalgebra and the auxiliary structures built
// from it in a few linear passes (see NewIndex): per-state start offsets and the
// block-predecessor (backref) CSR index. It is immutable after
// construction and safe for concurrent read-only use.
type Index struct {
	Data []byte
	Dict Dictionaries
	dec  *Decoder

	Locs []uint32 // Locs[i] = byte offset where state i's node starts

	// BackrefsLocs[i]..BackrefsLocs[i+1] indexes into Backrefs for the list
	// of states whose tree contains at least one State(i) reference (once
	// per occurrence). len(BackrefsLocs) == NumStates()+1.
	BackrefsLocs []uint32
	Backrefs     []uint32
}

// NumStates returns the number of top-level states in the coalgebra.
func (ix *Index) NumStates() uint32 { return uint32(len(ix.Locs)) }

// StateBackrefs returns the states whose tree references state, once per
// occurrence.
func (ix *Index) StateBackrefs(state uint32) []uint32 {
	start := ix.BackrefsLocs[state]
	end := ix.BackrefsLocs[state+1]
	return ix.Backrefs[start:end]
}

// walkState decodes exactly one state's node tree, calling visit once for
// every State(i) reference encountered (never descending through a
// State(_) into the target's own tree — cycles are broken by the ids
// lookup layer, not here), and returns the offset just past the node.
func walkState(dec *Decoder, data []byte, offset int, visit func(uint32) error) (int, error) {
	w, next, err := dec.ReadWord(data, offset)
	if err != nil {
		return 0, err
	}
	if IsStateWord(w) {
		if err := visit(StateWordID(w)); err != nil {
			return 0, err
		}
		return next, nil
	}
	typ, _, length := HeaderWordFields(w)
	offset = next
	switch typ {
	case ListType, SetType:
		for i := uint16(0); i < length; i++ {
			offset, err = walkState(dec, data, offset, visit)
			if err != nil {
				return 0, err
			}
		}
	case AddType, MaxType, OrType, TagType:
		for i := uint16(0); i < length; i++ {
			offset, err = walkState(dec, data, offset, visit)
			if err != nil {
				return 0, err
			}
			_, offset, err = dec.ReadValue(data, offset)
			if err != nil {
				return 0, err
			}
		}
	default:
		return 0, fmt.Errorf("%w: unknown operator type byte %d", ErrMalformedInput, uint8(typ))
	}
	return offset, nil
}

// countStates walks data once to learn how many top-level states it
// encodes, without validating any state reference found along the way —
// it exists only so callers can learn n before validating references
// against it (a forward reference to a not-yet-parsed state is legal, so
// reference validation can't happen until the total count is known).
func countStates(dec *Decoder, data []byte) (uint32, error) {
	var n uint32
	offset := 0
	for !dec.AtEnd(data, offset) {
		if n > MaxStateID {
			return 0, fmt.Errorf("%w: more than %d states", ErrResourceExhaustion, MaxStateID+1)
		}
		next, err := walkState(dec, data, offset, func(uint32) error { return nil })
		if err != nil {
			return 0, err
		}
		offset = next
		n++
	}
	return n, nil
}

// NewIndex builds an Index from an encoded byte stream and its
// dictionaries, per the two-pass algorithm: pass 1 counts backrefs per
// target state while recording each state's start offset, pass 2 (after a
// prefix sum turns the counts into CSR boundaries) fills the backref
// buffer by walking the data again and scattering into decreasing cursor
// positions. O(n+m) time and space; duplicate edges are kept.
//
// Every State(i) reference is validated against the state count learned
// up front: a reference to a state that does not exist in this coalgebra
// is malformed input, reported as ErrMalformedInput, never a panic from
// indexing counts/backrefsLocs out of bounds.
func NewIndex(data []byte, dict Dictionaries) (*Index, error) {
	dec := NewDecoder(&dict)

	n, err := countStates(dec, data)
	if err != nil {
		return nil, err
	}

	locs := make([]uint32, 0, n)
	counts := make([]uint32, n+1)

	offset := 0
	for !dec.AtEnd(data, offset) {
		locs = append(locs, uint32(offset))
		next, err := walkState(dec, data, offset, func(target uint32) error {
			if target >= n {
				return fmt.Errorf("%w: state reference %d exceeds state count %d", ErrMalformedInput, target, n)
			}
			counts[target]++
			return nil
		})
		if err != nil {
			return nil, err
		}
		offset = next
	}

	backrefsLocs := make([]uint32, n+1)
	var total uint32
	for i, c := range counts {
		total += c
		backrefsLocs[i] = total
	}
	backrefs := make([]uint32, total)

	offset = 0
	var state uint32
	for !dec.AtEnd(data, offset) {
		next, err := walkState(dec, data, offset, func(target uint32) error {
			backrefsLocs[target]--
			backrefs[backrefsLocs[target]] = state
			return nil
		})
		if err != nil {
			return nil, err
		}
		offset = next
		state++
	}
	if state != n {
		return nil, fmt.Errorf("%w: pass 1 saw %d states, pass 2 saw %d", ErrInvariantViolation, n, state)
	}

	return &Index{
		Data:         data,
		Dict:         dict,
		dec:          dec,
		Locs:         locs,
		BackrefsLocs: backrefsLocs,
		Backrefs:     backrefs,
	}, nil
}
