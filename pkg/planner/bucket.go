package planner

import "sort"

type equivalence interface {
	Equivalent(a *Label, b *Label) bool
}

// insertLabel adds candidate to a stop's bucket unless an existing label
// dominates it. Labels the candidate dominates are dropped, the bucket is
// re-sorted by score and truncated to capacity. The returned bool reports
// whether the candidate survived.
func insertLabel(labels []*Label, candidate *Label, strategy Strategy, capacity int) ([]*Label, bool) {
	same, _ := strategy.(equivalence)

	for _, existing := range labels {
		if strategy.Dominates(existing, candidate) {
			return labels, false
		}
		if same != nil && same.Equivalent(existing, candidate) {
			return labels, false
		}
	}

	kept := make([]*Label, 0, len(labels)+1)
	for _, existing := range labels {
		if !strategy.Dominates(candidate, existing) {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, candidate)

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	if capacity > 0 && len(kept) > capacity {
		kept = kept[:capacity]
	}

	for _, label := range kept {
		if label == candidate {
			return kept, true
		}
	}

	return kept, false
}

// better reports whether candidate should replace the current best result:
// higher score wins, then earlier arrival, otherwise the first found stays.
func better(candidate *Label, best *Label) bool {
	if best == nil {
		return true
	}
	if candidate.Score != best.Score {
		return candidate.Score > best.Score
	}
	return candidate.Arrival < best.Arrival
}
