package boa

// RunNlogn computes the coarsest bisimulation partition of ix using
// Hopcroft-style refinement: a worklist of dirty blocks, each refined by
// the signatures of its touched states, propagating dirtiness only to the
// predecessors of whichever sub-blocks were newly carved off. Because
// Refine always keeps the largest sub-block under the original id, the
// total number of (state, mark-dirty) events across the whole run is
// O((n+m) log n).
func RunNlogn(ix *Index, opts ...Option) ([]uint32, error) {
	cfg, err := newRunConfig(opts...)
	if err != nil {
		return nil, err
	}

	p := NewRefinablePartition(ix.NumStates())
	iters := 0

	for {
		blockID, ok := p.PopWorklist()
		if !ok {
			break
		}

		states := p.Refiners(blockID)
		idOf := func(s uint32) uint64 { return uint64(p.State2Block[s]) }
		sigs, err := RepartitionStates(ix, states, cfg.seed, idOf)
		if err != nil {
			return nil, err
		}

		newBlocks := p.Refine(blockID, Renumber(sigs))

		for _, nb := range newBlocks {
			b := p.Partition[nb]
			touched := append([]uint32(nil), p.Buffer[b.Start:b.End]...)
			for _, state := range touched {
				for _, pred := range ix.StateBackrefs(state) {
					p.MarkDirty(pred)
				}
			}
		}
		iters++
	}

	cfg.logger.Debug("nlogn: converged", "iterations", iters, "blocks", len(p.Partition))
	return Renumber(p.State2Block), nil
}
