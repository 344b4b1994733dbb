package domain

// DedupeEvidence collapses a retrieved evidence list to one item per
// breadcrumb, keeping the highest-scoring duplicate. Ties keep the item
// encountered first. Output order is the first-occurrence order of each
// surviving breadcrumb in the input, not score order.
//
// Pure projection: the input slice is never mutated.
func DedupeEvidence(evidence []Evidence) []Evidence {
	if len(evidence) == 0 {
		return nil
	}

	best := make(map[string]int, len(evidence)) // breadcrumb -> index into out
	out := make([]Evidence, 0, len(evidence))

	for _, ev := range evidence {
		key := ev.Location.Breadcrumb
		if i, seen := best[key]; seen {
			if ev.RelevanceScore > out[i].RelevanceScore {
				out[i] = ev
			}
			continue
		}
		best[key] = len(out)
		out = append(out, ev)
	}
	return out
}

// AggregateScore returns the mean relevance score of the given evidence,
// or 0 for an empty list.
func AggregateScore(evidence []Evidence) float64 {
	if len(evidence) == 0 {
		return 0
	}
	var sum float64
	for _, ev := range evidence {
		sum += ev.RelevanceScore
	}
	return sum / float64(len(evidence))
}
