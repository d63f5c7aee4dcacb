// Package extract pulls a single thread's stack-trace segment out of the
// free-form text of a JVM thread dump.
package extract

import (
	"strconv"
	"strings"

	"github.com/mvp2008/jbusy/pkg/jstack"
)

// mixedSeparatorPrefix starts every per-thread separator line in a
// mixed-native dump.
const mixedSeparatorPrefix = "---------------"

// Nid renders a native thread id the way the JVM prints it in dump text:
// lowercase hex with a 0x prefix and no padding.
func Nid(tid int) string {
	return "0x" + strconv.FormatInt(int64(tid), 16)
}

// Stack returns the stack-trace segment for the given native thread id,
// segmented according to the dump mode's grammar. The second return is
// false when the thread does not appear in the dump, which is expected
// when it exited between sampling and dumping.
func Stack(dumpText string, tid int, mode jstack.Mode) (string, bool) {
	lines := strings.Split(dumpText, "\n")
	switch mode {
	case jstack.ModeForce:
		return untilBlank(lines, "Thread "+strconv.Itoa(tid)+":", true)
	case jstack.ModeMixedNative:
		return mixedSegment(lines, tid)
	default:
		return untilBlank(lines, "nid="+Nid(tid)+" ", false)
	}
}

// untilBlank finds the line carrying the thread marker, as a line prefix
// or anywhere in the line, and returns it together with every following
// line up to the next blank line.
func untilBlank(lines []string, marker string, atStart bool) (string, bool) {
	start := -1
	for i, line := range lines {
		if atStart && strings.HasPrefix(line, marker) {
			start = i
			break
		}
		if !atStart && strings.Contains(line, marker) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	var b strings.Builder
	for _, line := range lines[start:] {
		if line == "" {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), true
}

// mixedSegment handles mixed-native dumps, where threads are delimited by
// dashed separator lines rather than blank lines. The segment runs from
// just after the thread's separator up to the next separator, which is
// replaced by a blank line so the next thread's marker never leaks into
// the output.
func mixedSegment(lines []string, tid int) (string, bool) {
	separator := mixedSeparatorPrefix + " " + strconv.Itoa(tid) + " " + mixedSeparatorPrefix

	start := -1
	for i, line := range lines {
		if line == separator {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return "", false
	}

	var b strings.Builder
	for _, line := range lines[start:] {
		if strings.HasPrefix(line, mixedSeparatorPrefix) {
			return b.String(), true
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	// No closing separator: the dump is malformed for this grammar.
	return "", false
}
