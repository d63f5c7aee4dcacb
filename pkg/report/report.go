// Package report renders per-thread results for the operator.
package report

import (
	"time"

	"github.com/mvp2008/jbusy/pkg/ranker"
)

// Entry is the report unit: one selected thread with either its stack
// segment or the reason it could not be produced. Every selected thread
// yields exactly one entry; failures are never silently dropped.
type Entry struct {
	ranker.SelectedThread
	Nid   string `json:"nid"`
	Stack string `json:"stack,omitempty"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the entry carries a failure instead of a stack.
func (e Entry) Failed() bool {
	return e.Error != ""
}

// RoundInfo describes one sampling round for the report header.
type RoundInfo struct {
	Round   int       `json:"round"`
	When    time.Time `json:"when"`
	Sampled int       `json:"sampled_threads"`
}

// Summary aggregates one round's outcomes.
type Summary struct {
	Reported int `json:"reported"`
	Failed   int `json:"failed"`
}

// Reporter is the sink a sampling round emits into, in rank order.
type Reporter interface {
	Begin(info RoundInfo) error
	Emit(e Entry) error
	End(s Summary) error
}
