package jstack

import (
	"fmt"
	"os"
	"path/filepath"
)

// Cache memoizes dump results for one sampling round so the expensive
// dump operation runs at most once per process. Each successful dump is
// also written to a temp artifact; Release removes every artifact, and
// the owning round must call it on all exit paths.
type Cache struct {
	dir     string
	entries map[int]cacheEntry
}

type cacheEntry struct {
	dump *Dump
	err  error
}

// NewCache creates an empty cache backed by a fresh temp directory.
func NewCache() (*Cache, error) {
	dir, err := os.MkdirTemp("", "jbusy-dumps-")
	if err != nil {
		return nil, fmt.Errorf("cannot create dump cache directory: %w", err)
	}
	return &Cache{
		dir:     dir,
		entries: make(map[int]cacheEntry),
	}, nil
}

// Dir returns the artifact directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// lookup returns the memoized result for pid, if any.
func (c *Cache) lookup(pid int) (cacheEntry, bool) {
	e, ok := c.entries[pid]
	return e, ok
}

// store memoizes a result and persists the dump text as an artifact.
// Failed dumps are memoized too: a dump attempt happens at most once per
// process per round, whatever its outcome.
func (c *Cache) store(pid int, dump *Dump, err error) {
	c.entries[pid] = cacheEntry{dump: dump, err: err}
	if dump == nil {
		return
	}
	path := filepath.Join(c.dir, fmt.Sprintf("jstack-%d.txt", pid))
	// Artifact write failure is not worth failing the round over; the
	// in-memory dump still serves extraction.
	_ = os.WriteFile(path, []byte(dump.Raw), 0600)
}

// Release removes all cache artifacts. Safe to call more than once.
func (c *Cache) Release() error {
	if c.dir == "" {
		return nil
	}
	dir := c.dir
	c.dir = ""
	c.entries = nil
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("cannot remove dump cache directory: %w", err)
	}
	return nil
}
