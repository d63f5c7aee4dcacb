package jstack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeRunner records every invocation and replies from a canned script.
type fakeRunner struct {
	calls  []string
	output string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.output), nil
}

func newTestProvider(t *testing.T, runner Runner, mode Mode) *Provider {
	t.Helper()
	p := NewProvider("/opt/jdk/bin/jstack", mode, false, nil)
	p.Runner = runner
	return p
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache()
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { cache.Release() })
	return cache
}

func TestGetRunsToolOncePerProcess(t *testing.T) {
	runner := &fakeRunner{output: "Full thread dump\n"}
	p := newTestProvider(t, runner, ModeDefault)
	cache := newTestCache(t)
	invoker := Identity{User: "app", UID: 1000}

	for i := 0; i < 4; i++ {
		if _, err := p.Get(context.Background(), cache, 1234, "app", invoker); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if _, err := p.Get(context.Background(), cache, 5678, "app", invoker); err != nil {
		t.Fatalf("Get second pid: %v", err)
	}

	if len(runner.calls) != 2 {
		t.Fatalf("tool ran %d times, want 2 (once per pid): %v", len(runner.calls), runner.calls)
	}
}

func TestGetMemoizesFailures(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	p := newTestProvider(t, runner, ModeDefault)
	cache := newTestCache(t)
	invoker := Identity{User: "app", UID: 1000}

	for i := 0; i < 3; i++ {
		_, err := p.Get(context.Background(), cache, 1234, "app", invoker)
		var toolErr *ToolError
		if !errors.As(err, &toolErr) || toolErr.PID != 1234 {
			t.Fatalf("Get error = %v, want ToolError for pid 1234", err)
		}
	}
	if len(runner.calls) != 1 {
		t.Fatalf("failed dump retried: tool ran %d times, want 1", len(runner.calls))
	}
}

func TestInvocationPolicy(t *testing.T) {
	tests := []struct {
		name     string
		invoker  Identity
		owner    string
		wantCall string
	}{
		{
			name:     "owner invokes directly",
			invoker:  Identity{User: "app", UID: 1000},
			owner:    "app",
			wantCall: "/opt/jdk/bin/jstack 42",
		},
		{
			name:     "root elevates via sudo",
			invoker:  Identity{User: "root", UID: 0},
			owner:    "app",
			wantCall: "sudo -u app /opt/jdk/bin/jstack 42",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{output: "dump"}
			p := newTestProvider(t, runner, ModeDefault)
			cache := newTestCache(t)

			if _, err := p.Get(context.Background(), cache, 42, tt.owner, tt.invoker); err != nil {
				t.Fatalf("Get: %v", err)
			}
			if len(runner.calls) != 1 || runner.calls[0] != tt.wantCall {
				t.Fatalf("invocation = %v, want %q", runner.calls, tt.wantCall)
			}
		})
	}
}

func TestUnprivilegedNonOwnerIsDenied(t *testing.T) {
	runner := &fakeRunner{output: "dump"}
	p := newTestProvider(t, runner, ModeDefault)
	cache := newTestCache(t)

	_, err := p.Get(context.Background(), cache, 42, "app", Identity{User: "guest", UID: 1001})
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("Get error = %v, want PermissionError", err)
	}
	if permErr.Owner != "app" {
		t.Fatalf("PermissionError.Owner = %q, want %q", permErr.Owner, "app")
	}
	if !strings.Contains(permErr.Error(), "sudo") {
		t.Fatalf("error %q lacks an elevation hint", permErr.Error())
	}
	if len(runner.calls) != 0 {
		t.Fatalf("tool was invoked despite denial: %v", runner.calls)
	}
}

func TestModeFlags(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		lockInfo bool
		want     string
	}{
		{"default", ModeDefault, false, "/opt/jdk/bin/jstack 7"},
		{"default with lock info", ModeDefault, true, "/opt/jdk/bin/jstack -l 7"},
		{"force", ModeForce, false, "/opt/jdk/bin/jstack -F 7"},
		{"mixed native", ModeMixedNative, false, "/opt/jdk/bin/jstack -m 7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{output: "dump"}
			p := newTestProvider(t, runner, tt.mode)
			p.LockInfo = tt.lockInfo
			cache := newTestCache(t)

			if _, err := p.Get(context.Background(), cache, 7, "app", Identity{User: "app", UID: 1000}); err != nil {
				t.Fatalf("Get: %v", err)
			}
			if runner.calls[0] != tt.want {
				t.Fatalf("invocation = %q, want %q", runner.calls[0], tt.want)
			}
		})
	}
}

func TestEmptyOutputIsToolError(t *testing.T) {
	runner := &fakeRunner{output: "  \n\t\n"}
	p := newTestProvider(t, runner, ModeDefault)
	cache := newTestCache(t)

	_, err := p.Get(context.Background(), cache, 9, "app", Identity{User: "app", UID: 1000})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Get error = %v, want ToolError", err)
	}
	if msg := toolErr.Error(); !strings.Contains(msg, fmt.Sprint(9)) {
		t.Fatalf("error %q does not mention the pid", msg)
	}
}
