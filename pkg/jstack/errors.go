package jstack

import (
	"errors"
	"fmt"
)

// ErrToolUnresolvable indicates no usable dump tool binary was found at
// startup. This is fatal; per-round failures use the typed errors below.
var ErrToolUnresolvable = errors.New("no usable jstack binary found (set --jstack-path or JAVA_HOME)")

// PermissionError reports that the invoker may neither dump the target
// process directly nor elevate to its owner.
type PermissionError struct {
	Owner string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: process is owned by %s; re-run as %s or with sudo", e.Owner, e.Owner)
}

// ToolError reports that the dump tool ran but failed or produced no
// output for a process.
type ToolError struct {
	PID int
	Err error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jstack failed for pid %d: %v", e.PID, e.Err)
	}
	return fmt.Sprintf("jstack produced no output for pid %d", e.PID)
}

func (e *ToolError) Unwrap() error { return e.Err }
