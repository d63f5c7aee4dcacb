package jstack

import (
	"os"
	"os/exec"
	"path/filepath"
)

// ResolveTool locates the dump tool binary. Candidates are tried in
// order: the explicit override, a PATH lookup, and the JAVA_HOME-relative
// path. The first usable executable wins; if none is usable the result is
// ErrToolUnresolvable, which callers treat as a fatal startup error.
func ResolveTool(override string) (string, error) {
	if override != "" && isExecutable(override) {
		return override, nil
	}

	if path, err := exec.LookPath("jstack"); err == nil {
		return path, nil
	}

	if home := os.Getenv("JAVA_HOME"); home != "" {
		candidate := filepath.Join(home, "bin", "jstack")
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", ErrToolUnresolvable
}

// isExecutable reports whether path is a regular file with an execute
// bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}
