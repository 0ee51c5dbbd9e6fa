// Package statcache provides the process-wide path/stat cache (spec §3
// "PathStatCache", §4.2 "C2"): a single-writer-then-read-only mapping
// from absolute path to a stat snapshot, shared across check modules so
// a per-entry check run after a whole-tree check never re-stats a path.
package statcache

import (
	"os"
	"sync"
	"time"

	"github.com/arjank/datachecker/internal/types"
)

// Cache is a process-wide absolute-path -> stat mapping. Entries are
// never evicted during a run (lifetime = process lifetime per spec
// §3's PathStatCache invariants). The zero value is usable but disabled
// semantics belong to the caller: pass enabled=false to New to get a
// cache that never stores anything, matching the ENABLE_CACHE=false
// "each check walks afresh" contract.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]types.Stat
	enabled bool

	// statFn is overridable for tests to count/inject stat calls
	// (spec §8 invariant 6: "no stat syscall on any already-cached entry").
	statFn func(path string) (os.FileInfo, error)
}

// New creates a path/stat cache. When enabled is false, FetchOrInsert
// always queries the filesystem and never stores the result.
func New(enabled bool) *Cache {
	return &Cache{
		entries: make(map[string]types.Stat),
		enabled: enabled,
		statFn:  os.Lstat,
	}
}

// SetStatFunc overrides the stat function used on cache misses. Used by
// tests to count filesystem stat calls.
func (c *Cache) SetStatFunc(fn func(path string) (os.FileInfo, error)) {
	c.statFn = fn
}

// FetchOrInsert returns the cached stat for absPath if present;
// otherwise it stats the filesystem, caches the result (when enabled),
// and returns it. Directories that fail to stat with ENOTDIR-adjacent
// errors are never expected here; a directory that stats successfully
// is recorded with Kind=KindDir and zeroed size/time fields per spec
// §3(b).
func (c *Cache) FetchOrInsert(absPath string) (types.Stat, error) {
	if c.enabled {
		c.mu.RLock()
		st, ok := c.entries[absPath]
		c.mu.RUnlock()
		if ok {
			return st, nil
		}
	}

	info, err := c.statFn(absPath)
	if err != nil {
		return types.Stat{}, err
	}

	st := ToStat(info)

	if c.enabled {
		c.mu.Lock()
		// key is an owned copy: absPath came from the caller's own
		// string, already independent of any walker path buffer.
		c.entries[absPath] = st
		c.mu.Unlock()
	}

	return st, nil
}

// Insert stores a stat directly, bypassing a filesystem query. Used by
// the walker, which already has a types.Stat computed from os.DirEntry.
func (c *Cache) Insert(absPath string, st types.Stat) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	c.entries[absPath] = st
	c.mu.Unlock()
}

// Enabled reports whether this cache stores entries.
func (c *Cache) Enabled() bool { return c.enabled }

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// IterFiles calls fn for every cached entry with Kind==KindFile. Iteration
// order is unspecified but stable within a run (map order is not
// reconstructed between calls within the same process run because the
// map itself is never mutated mid-iteration by a second writer).
func (c *Cache) IterFiles(fn func(path string, st types.Stat)) { c.iterKind(types.KindFile, fn) }

// IterDirs calls fn for every cached entry with Kind==KindDir.
func (c *Cache) IterDirs(fn func(path string, st types.Stat)) { c.iterKind(types.KindDir, fn) }

// IterAll calls fn for every cached entry regardless of kind.
func (c *Cache) IterAll(fn func(path string, st types.Stat)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for p, st := range c.entries {
		fn(p, st)
	}
}

func (c *Cache) iterKind(kind types.EntryKind, fn func(path string, st types.Stat)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for p, st := range c.entries {
		if st.Kind == kind {
			fn(p, st)
		}
	}
}

// ToStat converts an os.FileInfo into the stat snapshot used throughout
// the cache and checks, extracting platform-specific access/creation
// time where available. Exported so the walker can build the same
// snapshot for entries it classifies directly from os.DirEntry.Info,
// without going through a second filesystem query via FetchOrInsert.
func ToStat(info os.FileInfo) types.Stat {
	if info.IsDir() {
		return types.Stat{Kind: types.KindDir}
	}
	kind := types.KindFile
	if info.Mode()&os.ModeSymlink != 0 {
		kind = types.KindSymlink
	} else if !info.Mode().IsRegular() {
		kind = types.KindOther
	}
	mt := info.ModTime()
	return types.Stat{
		Kind:       kind,
		Size:       info.Size(),
		ModTime:    mt,
		AccessTime: accessTime(info, mt),
		CreateTime: createTime(info, mt),
	}
}

// accessTime and createTime are platform-specific (extracted from
// syscall.Stat_t on unix); see statcache_unix.go. The time.Time fallback
// here is only reached on platforms without that extraction.
var (
	accessTimeFn = func(info os.FileInfo, fallback time.Time) time.Time { return fallback }
	createTimeFn = func(info os.FileInfo, fallback time.Time) time.Time { return fallback }
)

func accessTime(info os.FileInfo, fallback time.Time) time.Time { return accessTimeFn(info, fallback) }
func createTime(info os.FileInfo, fallback time.Time) time.Time { return createTimeFn(info, fallback) }
