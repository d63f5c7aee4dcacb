//go:build !linux

package threadstat

import "time"

// DefaultWindow mirrors the Linux sampling interval so callers can be
// written without build tags.
const DefaultWindow = 500 * time.Millisecond

// ProcSource is a stub on platforms without per-thread CPU accounting.
type ProcSource struct {
	Window   time.Duration
	Launcher string
}

// NewSource returns a ProcSource whose List always fails.
func NewSource() *ProcSource {
	return &ProcSource{Window: DefaultWindow, Launcher: JVMLauncher}
}

// List implements Source.
func (s *ProcSource) List(targetPID int) ([]Sample, error) {
	return nil, ErrUnsupportedPlatform
}
