// Package threadstat samples per-thread CPU usage from the OS process table.
package threadstat

import (
	"errors"
	"time"
)

// JVMLauncher is the process name that identifies a Java process.
const JVMLauncher = "java"

// ErrUnsupportedPlatform indicates the host OS cannot provide per-thread
// CPU accounting.
var ErrUnsupportedPlatform = errors.New("per-thread CPU sampling is not supported on this platform")

// Sample is a point-in-time CPU reading for one native thread.
type Sample struct {
	PID        int           `json:"pid"`
	TID        int           `json:"tid"`
	User       string        `json:"user"`
	Command    string        `json:"command"`
	CPUPercent float64       `json:"cpu_percent"`
	CPUTime    time.Duration `json:"cpu_time"`
}

// Source produces a fresh snapshot of thread samples on every call.
type Source interface {
	// List returns samples for all threads of Java-named processes, or,
	// when targetPID is positive, only that process's threads. A target
	// process that has already exited yields an empty slice, not an error.
	List(targetPID int) ([]Sample, error)
}
