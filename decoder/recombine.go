package decoder

import "sort"

// RecombineAndSort folds a buffer of instantiated hyperedges into the new
// stack for one node. Hyperedges whose heads share an equivalence key merge
// into one canonical vertex: the higher-scoring edge stays `best`, the
// loser joins `recombined`, and the losing provisional head vertex is
// abandoned (nothing references it afterwards; the GC reclaims it). Equal
// scores keep the first-seen edge as best. The surviving vertices are
// sorted by best score descending, first-seen first on ties, and truncated
// to stackLimit when positive.
func RecombineAndSort(buffer []*SHyperedge, scorer Scorer, stackLimit int) Stack {
	byKey := make(map[string]*SVertex, len(buffer))
	var stack Stack
	for _, h := range buffer {
		key := scorer.EquivalenceKey(h)
		stored, ok := byKey[key]
		if !ok {
			byKey[key] = h.Head
			stack = append(stack, h.Head)
			continue
		}
		if h.Score > stored.Best.Score {
			stored.Recombined = append(stored.Recombined, stored.Best)
			stored.Best = h
		} else {
			stored.Recombined = append(stored.Recombined, h)
		}
		h.Head.Best = nil
		h.Head = stored
	}
	sort.SliceStable(stack, func(i, j int) bool {
		return stack[i].Score() > stack[j].Score()
	})
	if stackLimit > 0 && len(stack) > stackLimit {
		stack = stack[:stackLimit]
	}
	return stack
}
