package jstack

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Provider obtains thread dumps with a privilege-aware invocation policy:
// dump directly when the invoker owns the process, elevate when the
// invoker can, otherwise fail with a remediation hint. Results are
// memoized in the caller-owned round cache.
type Provider struct {
	Tool     string
	Mode     Mode
	LockInfo bool
	Runner   Runner
	Elevator Elevator
	Log      *logrus.Logger
}

// NewProvider builds a Provider around a resolved tool path.
func NewProvider(tool string, mode Mode, lockInfo bool, log *logrus.Logger) *Provider {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &Provider{
		Tool:     tool,
		Mode:     mode,
		LockInfo: lockInfo,
		Runner:   ExecRunner{},
		Elevator: SudoElevator{},
		Log:      log,
	}
}

// Get returns the dump for pid, running the tool at most once per pid per
// cache lifetime. owner is the target process's user; invoker is the
// identity running this tool.
func (p *Provider) Get(ctx context.Context, cache *Cache, pid int, owner string, invoker Identity) (*Dump, error) {
	if e, ok := cache.lookup(pid); ok {
		return e.dump, e.err
	}

	dump, err := p.invoke(ctx, pid, owner, invoker)
	cache.store(pid, dump, err)
	return dump, err
}

// invoke runs the dump tool once according to the invocation policy.
func (p *Provider) invoke(ctx context.Context, pid int, owner string, invoker Identity) (*Dump, error) {
	args := append(p.Mode.flags(p.LockInfo), strconv.Itoa(pid))

	name := p.Tool
	switch {
	case invoker.User == owner:
		// Direct invocation.
	case p.Elevator != nil && p.Elevator.CanElevate(invoker):
		name, args = p.Elevator.Wrap(owner, p.Tool, args)
	default:
		return nil, &PermissionError{Owner: owner}
	}

	start := time.Now()
	out, err := p.Runner.Run(ctx, name, args...)
	p.Log.WithFields(logrus.Fields{
		"pid":      pid,
		"command":  name,
		"args":     strings.Join(args, " "),
		"duration": time.Since(start),
	}).Debug("dump tool invoked")

	if err != nil {
		return nil, &ToolError{PID: pid, Err: err}
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return nil, &ToolError{PID: pid}
	}

	return &Dump{PID: pid, Raw: string(out), Mode: p.Mode}, nil
}
