// Package timeline derives the ordered set of timelines from a milestone
// collection, assigns their colors and tracks which ones are hidden.
package timeline

import "github.com/runnerr0/milestones/internal/milestone"

// Compute returns the distinct timeline keys of ms in first-seen order.
func Compute(ms []milestone.Milestone) []string {
	seen := make(map[string]struct{}, len(ms))
	index := make([]string, 0)
	for _, m := range ms {
		if _, ok := seen[m.Timeline]; ok {
			continue
		}
		seen[m.Timeline] = struct{}{}
		index = append(index, m.Timeline)
	}
	return index
}

// Position returns the zero-based position of key in index, or -1.
func Position(index []string, key string) int {
	for i, k := range index {
		if k == key {
			return i
		}
	}
	return -1
}
