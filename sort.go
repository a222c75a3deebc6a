package boa

import "sort"

// sortU64 sorts a slice of u64 signatures ascending, used by SET/TAG
// canonicalization to make duplicate detection a single linear scan.
func sortU64(xs []uint64) {
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
}

// sortPairsBySig sorts the parallel (sigs, vals) slices ascending by sig,
// used by ADD/MAX/OR canonicalization before the duplicate-combining scan.
func sortPairsBySig(sigs, vals []uint64) {
	idx := make([]int, len(sigs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return sigs[idx[i]] < sigs[idx[j]] })

	sortedSigs := make([]uint64, len(sigs))
	sortedVals := make([]uint64, len(vals))
	for newPos, oldPos := range idx {
		sortedSigs[newPos] = sigs[oldPos]
		sortedVals[newPos] = vals[oldPos]
	}
	copy(sigs, sortedSigs)
	copy(vals, sortedVals)
}
