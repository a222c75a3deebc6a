package boa

import "fmt"

// IDLookup resolves a state to its current canonical id (a block id during
// the nlogn driver's rounds, or the previous round's u64 signature during
// the naive driver's rounds). InitialIDLookup resolves every state to 0,
// which is how the very first round computes a purely structural
// partition.
type IDLookup func(state uint32) uint64

// InitialIDLookup treats every state as belonging to the same initial
// block, yielding the structural-shape-only partition spec.md calls the
// "initial pass".
func InitialIDLookup(uint32) uint64 { return 0 }

// Canonicalize folds the node at offset into a 64-bit signature under the
// given id assignment, per the operator semantics: LIST hashes children in
// order, SET sorts and dedups child signatures, ADD/MAX/OR sort by child
// signature and combine values sharing a signature with the operator's
// semigroup, and TAG hashes each (child,value) pair independently before
// sorting and deduping the pair hashes. It consumes exactly one node and
// returns the offset just past it.
//
// numStates is the coalgebra's total state count; every State(i)
// reference is checked against it before idOf is ever called with it, so
// a dangling reference in malformed input surfaces as ErrMalformedInput
// instead of idOf (or one of its callers) indexing a slice out of bounds.
func Canonicalize(dec *Decoder, data []byte, offset int, seed uint64, numStates uint32, idOf IDLookup) (uint64, int, error) {
	w, next, err := dec.ReadWord(data, offset)
	if err != nil {
		return 0, 0, err
	}
	if IsStateWord(w) {
		id := StateWordID(w)
		if id >= numStates {
			return 0, 0, fmt.Errorf("%w: state reference %d exceeds state count %d", ErrMalformedInput, id, numStates)
		}
		return idOf(id), next, nil
	}
	typ, tag, length := HeaderWordFields(w)
	return canonicalizeHeader(dec, data, next, seed, numStates, idOf, typ, tag, length)
}

func canonicalizeHeader(dec *Decoder, data []byte, offset int, seed uint64, numStates uint32, idOf IDLookup, typ OperatorType, tag uint8, length uint16) (uint64, int, error) {
	h := newNodeHasher(seed, typ, tag)
	var err error

	switch typ {
	case ListType:
		for i := uint16(0); i < length; i++ {
			var sig uint64
			sig, offset, err = Canonicalize(dec, data, offset, seed, numStates, idOf)
			if err != nil {
				return 0, 0, err
			}
			h.writeU64(sig)
		}

	case SetType:
		sigs := make([]uint64, length)
		for i := range sigs {
			sigs[i], offset, err = Canonicalize(dec, data, offset, seed, numStates, idOf)
			if err != nil {
				return 0, 0, err
			}
		}
		sortU64(sigs)
		for i, sig := range sigs {
			if i > 0 && sig == sigs[i-1] {
				continue
			}
			h.writeU64(sig)
		}

	case AddType, MaxType, OrType:
		sigs := make([]uint64, length)
		vals := make([]uint64, length)
		for i := range sigs {
			sigs[i], offset, err = Canonicalize(dec, data, offset, seed, numStates, idOf)
			if err != nil {
				return 0, 0, err
			}
			vals[i], offset, err = dec.ReadValue(data, offset)
			if err != nil {
				return 0, 0, err
			}
		}
		op := monoidOp(typ)
		sortPairsBySig(sigs, vals)
		i := 0
		for i < len(sigs) {
			sig := sigs[i]
			total := vals[i]
			i++
			for i < len(sigs) && sigs[i] == sig {
				total = op(total, vals[i])
				i++
			}
			h.writeU64(sig)
			h.writeU64(total)
		}

	case TagType:
		pairHashes := make([]uint64, length)
		for i := range pairHashes {
			var sig uint64
			sig, offset, err = Canonicalize(dec, data, offset, seed, numStates, idOf)
			if err != nil {
				return 0, 0, err
			}
			var val uint64
			val, offset, err = dec.ReadValue(data, offset)
			if err != nil {
				return 0, 0, err
			}
			pairHashes[i] = hashPair(seed, sig, val)
		}
		sortU64(pairHashes)
		for i, ph := range pairHashes {
			if i > 0 && ph == pairHashes[i-1] {
				continue
			}
			h.writeU64(ph)
		}

	default:
		return 0, 0, fmt.Errorf("%w: unknown operator type byte %d", ErrMalformedInput, uint8(typ))
	}

	return h.finish(), offset, nil
}

func monoidOp(typ OperatorType) func(a, b uint64) uint64 {
	switch typ {
	case AddType:
		return func(a, b uint64) uint64 { return a + b }
	case OrType:
		return func(a, b uint64) uint64 { return a | b }
	case MaxType:
		return func(a, b uint64) uint64 {
			if a > b {
				return a
			}
			return b
		}
	}
	panic("boa: monoidOp called with non-monoid operator type")
}

// RepartitionStates computes the signature of each of states under idOf,
// preserving the order of states.
func RepartitionStates(ix *Index, states []uint32, seed uint64, idOf IDLookup) ([]uint64, error) {
	numStates := ix.NumStates()
	sigs := make([]uint64, len(states))
	for i, s := range states {
		sig, _, err := Canonicalize(ix.dec, ix.Data, int(ix.Locs[s]), seed, numStates, idOf)
		if err != nil {
			return nil, err
		}
		sigs[i] = sig
	}
	return sigs, nil
}

// RepartitionAll computes the signature of every state in the coalgebra,
// in state-id order, without needing an Index (used by the naive driver,
// which has no use for the backref CSR). numStates must be the
// coalgebra's true state count (see countStates) so that Canonicalize can
// validate state references as it goes.
func RepartitionAll(dec *Decoder, data []byte, seed uint64, numStates uint32, idOf IDLookup) ([]uint64, error) {
	var sigs []uint64
	offset := 0
	for !dec.AtEnd(data, offset) {
		sig, next, err := Canonicalize(dec, data, offset, seed, numStates, idOf)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
		offset = next
	}
	return sigs, nil
}
