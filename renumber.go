package boa

import "sort"

// Renumber assigns each distinct value in ids a dense id in first-occurrence
// order, so the first element's id is always 0.
func Renumber[T comparable](ids []T) []uint32 {
	canon := make(map[T]uint32, len(ids))
	out := make([]uint32, len(ids))
	var next uint32
	for i, id := range ids {
		v, ok := canon[id]
		if !ok {
			v = next
			canon[id] = v
			next++
		}
		out[i] = v
	}
	return out
}

// RenumberSort assigns dense ids like Renumber but via a sort, so ids
// follow ascending signature order rather than first-occurrence order. It
// then swaps id 0 with whatever id the first element landed on, so the
// first element's id is 0 as with Renumber (the grouping is the same; ids
// other than 0 generally differ) — the nlogn driver's refinement step relies
// on the first (clean-representative) signature always renumbering to 0.
func RenumberSort(sigs []uint64) []uint32 {
	n := len(sigs)
	idx := make([]uint32, n)
	for i := range idx {
		idx[i] = uint32(i)
	}
	sort.Slice(idx, func(i, j int) bool { return sigs[idx[i]] < sigs[idx[j]] })

	ids := make([]uint32, n)
	var id uint32
	lastSig := sigs[idx[0]]
	for _, i := range idx {
		sig := sigs[i]
		if sig != lastSig {
			id++
			lastSig = sig
		}
		ids[i] = id
	}

	firstID := ids[0]
	if firstID != 0 {
		for i, v := range ids {
			switch v {
			case 0:
				ids[i] = firstID
			case firstID:
				ids[i] = 0
			}
		}
	}
	return ids
}
