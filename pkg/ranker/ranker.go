// Package ranker selects the busiest threads from a sampling snapshot.
package ranker

import (
	"sort"

	"github.com/mvp2008/jbusy/pkg/threadstat"
)

// SelectedThread is a sample together with its 1-based rank within the
// round.
type SelectedThread struct {
	threadstat.Sample
	Rank int `json:"rank"`
}

// Rank sorts samples by CPU percentage, descending, and keeps the top
// count. The sort is stable so identical OS readings produce identical
// output. The result length is min(count, len(samples)).
func Rank(samples []threadstat.Sample, count int) []SelectedThread {
	sorted := make([]threadstat.Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CPUPercent > sorted[j].CPUPercent
	})

	if count > len(sorted) {
		count = len(sorted)
	}
	if count < 0 {
		count = 0
	}

	selected := make([]SelectedThread, count)
	for i := 0; i < count; i++ {
		selected[i] = SelectedThread{Sample: sorted[i], Rank: i + 1}
	}
	return selected
}
