// Package jstack obtains JVM thread dumps from running Java processes.
package jstack

// Mode selects the dump tool's invocation flavor. Exactly one mode is
// active for the whole run; it governs both the tool's flags and the
// grammar used to segment the resulting dump text.
type Mode int

const (
	// ModeDefault is a plain thread dump.
	ModeDefault Mode = iota
	// ModeForce asks the tool to dump even an unresponsive target.
	ModeForce
	// ModeMixedNative interleaves native frames, which changes the
	// dump's per-thread delimiters.
	ModeMixedNative
)

// String returns the mode name for logs and reports.
func (m Mode) String() string {
	switch m {
	case ModeForce:
		return "force"
	case ModeMixedNative:
		return "mixed-native"
	default:
		return "default"
	}
}

// flags returns the dump tool arguments for this mode. lockInfo is only
// meaningful for the default mode.
func (m Mode) flags(lockInfo bool) []string {
	switch m {
	case ModeForce:
		return []string{"-F"}
	case ModeMixedNative:
		return []string{"-m"}
	default:
		if lockInfo {
			return []string{"-l"}
		}
		return nil
	}
}

// Dump is one process's full textual thread dump. It is created at most
// once per process per round and never mutated.
type Dump struct {
	PID  int
	Raw  string
	Mode Mode
}
