package boa

import "fmt"

// countParts returns the number of distinct values in sigs. It sorts a
// copy, so sigs itself is left unchanged.
func countParts(sigs []uint64) int {
	sigs2 := append([]uint64(nil), sigs...)
	sortU64(sigs2)
	n := 0
	for i, s := range sigs2 {
		if i == 0 || s != sigs2[i-1] {
			n++
		}
	}
	return n
}

// RunNaive computes the coarsest bisimulation partition of data by
// repeatedly recomputing every state's signature from the previous round's
// partition until the partition count stops growing, then returning a
// dense 0..n block id per state (via Renumber over the converged 64-bit
// signatures — truncating a signature to 32 bits before grouping would
// risk merging two genuinely distinct classes that happen to share low
// bits, so the full 64-bit value is what gets compared, never a cast of
// it).
//
// This is the textbook O(iterations * n) fixed-point algorithm: simple,
// and a useful correctness oracle for RunNlogn, but quadratic-ish on
// inputs that need many refinement rounds.
func RunNaive(dec *Decoder, data []byte, opts ...Option) ([]uint32, error) {
	cfg, err := newRunConfig(opts...)
	if err != nil {
		return nil, err
	}

	numStates, err := countStates(dec, data)
	if err != nil {
		return nil, err
	}

	ids, err := RepartitionAll(dec, data, cfg.seed, numStates, InitialIDLookup)
	if err != nil {
		return nil, err
	}
	partCount := countParts(ids)
	cfg.logger.Debug("naive: initial partition", "blocks", partCount, "states", len(ids))

	for iter := 0; iter < cfg.maxIterations; iter++ {
		idOf := func(s uint32) uint64 { return ids[s] }
		newIDs, err := RepartitionAll(dec, data, cfg.seed, numStates, idOf)
		if err != nil {
			return nil, err
		}
		newPartCount := countParts(newIDs)
		cfg.logger.Debug("naive: iteration", "iter", iter, "blocks", newPartCount, "states", len(newIDs))

		if newPartCount == len(newIDs) || newPartCount == partCount {
			return Renumber(newIDs), nil
		}
		ids = newIDs
		partCount = newPartCount
	}
	return nil, fmt.Errorf("%w: naive driver did not converge in %d iterations", ErrResourceExhaustion, cfg.maxIterations)
}
