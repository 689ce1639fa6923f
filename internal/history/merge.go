package history

import "sort"

// Merge reconciles newly fetched events into the existing persisted history.
// Events are deduplicated by play instant with keep-first semantics, so a
// re-fetched event never displaces the row already persisted for its key.
// The result is sorted ascending by PlayedAt. Merging the same incoming
// batch twice yields the same result as merging it once.
func Merge(existing, incoming []PlayEvent) []PlayEvent {
	merged := make([]PlayEvent, 0, len(existing)+len(incoming))
	seen := make(map[int64]struct{}, len(existing)+len(incoming))

	for _, batch := range [][]PlayEvent{existing, incoming} {
		for _, e := range batch {
			key := e.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, e)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].PlayedAt.Before(merged[j].PlayedAt)
	})
	return merged
}
