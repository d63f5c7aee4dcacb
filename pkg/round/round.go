// Package round orchestrates one sampling pass: sample threads, rank
// them, dump each implicated process once, extract the matching stack
// segments, and report in rank order.
package round

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/mvp2008/jbusy/pkg/extract"
	"github.com/mvp2008/jbusy/pkg/jstack"
	"github.com/mvp2008/jbusy/pkg/ranker"
	"github.com/mvp2008/jbusy/pkg/report"
	"github.com/mvp2008/jbusy/pkg/threadstat"
)

// threadExitedMessage is reported when a sampled thread is no longer
// present in the process's dump.
const threadExitedMessage = "thread exited before dump was taken"

// DumpSource provides per-process dumps for a round. jstack.Provider is
// the real implementation.
type DumpSource interface {
	Get(ctx context.Context, cache *jstack.Cache, pid int, owner string, invoker jstack.Identity) (*jstack.Dump, error)
}

// Params carries the per-run parameters a round needs.
type Params struct {
	TargetPID int
	Count     int
	Mode      jstack.Mode
	Invoker   jstack.Identity
}

// Round wires the sampling pipeline together. Components execute
// sequentially; no two dump operations run concurrently.
type Round struct {
	Source   threadstat.Source
	Dumps    DumpSource
	Reporter report.Reporter
	Log      *logrus.Logger
}

// Run executes one full pass. The cache scopes dump memoization to this
// round; the caller owns its release. Per-thread dump and extraction
// failures degrade to reported entries, never abort the pass.
func (r *Round) Run(ctx context.Context, cache *jstack.Cache, info report.RoundInfo, p Params) error {
	if r.Log == nil {
		r.Log = logrus.New()
		r.Log.SetLevel(logrus.WarnLevel)
	}

	samples, err := r.Source.List(p.TargetPID)
	if err != nil {
		return err
	}

	selected := ranker.Rank(samples, p.Count)
	info.Sampled = len(samples)
	if err := r.Reporter.Begin(info); err != nil {
		return err
	}

	var summary report.Summary
	for _, sel := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry := r.resolve(ctx, cache, sel, p)
		if entry.Failed() {
			summary.Failed++
			r.Log.WithFields(logrus.Fields{
				"pid":  sel.PID,
				"tid":  sel.TID,
				"rank": sel.Rank,
			}).Warn(entry.Error)
		}
		summary.Reported++
		if err := r.Reporter.Emit(entry); err != nil {
			return err
		}
	}

	return r.Reporter.End(summary)
}

// resolve produces the report entry for one selected thread: its stack
// segment on success, a descriptive failure otherwise.
func (r *Round) resolve(ctx context.Context, cache *jstack.Cache, sel ranker.SelectedThread, p Params) report.Entry {
	entry := report.Entry{
		SelectedThread: sel,
		Nid:            extract.Nid(sel.TID),
	}

	dump, err := r.Dumps.Get(ctx, cache, sel.PID, sel.User, p.Invoker)
	if err != nil {
		entry.Error = dumpFailureMessage(err)
		return entry
	}

	stack, ok := extract.Stack(dump.Raw, sel.TID, dump.Mode)
	if !ok {
		entry.Error = threadExitedMessage
		return entry
	}
	entry.Stack = stack
	return entry
}

// dumpFailureMessage keeps the typed errors' actionable wording and
// falls back to the raw error text for anything unexpected.
func dumpFailureMessage(err error) string {
	var permErr *jstack.PermissionError
	if errors.As(err, &permErr) {
		return permErr.Error()
	}
	var toolErr *jstack.ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Error()
	}
	return err.Error()
}
