// Package checkapi defines the well-typed check contract that replaces
// the "anytype callback" design flagged in spec.md §9: a single
// CheckContext record plus two narrow interfaces, PerEntryCheck and
// WholeTreeCheck, dispatched on by the check dispatcher (internal/dispatcher)
// and implemented by every concrete check (internal/checks).
//
// This package exists separately from both dispatcher and checks so
// that dispatcher can hold a registry of checks without checks needing
// to import dispatcher.
package checkapi

import (
	"github.com/arjank/datachecker/internal/statcache"
	"github.com/arjank/datachecker/internal/types"
	"github.com/arjank/datachecker/internal/walk"
)

// CheckContext is the single record passed to every check, carrying
// everything a check might need: the scan root, the shared stat cache,
// the resolved configuration, and the reporter to emit findings through.
type CheckContext struct {
	Root     string
	Cache    *statcache.Cache
	Config   types.ScanConfig
	Reporter types.Reporter
	Sem      types.Semaphore
}

// PerEntryCheck is a check the dispatcher drives by iterating entries
// (from the cache if populated, otherwise a fresh walk) filtered by Kind.
type PerEntryCheck interface {
	Name() string
	Kind() types.EntryKind // entries of this kind are delivered; KindFile and KindDir cover most checks
	Both() bool            // when true, both files and directories are delivered regardless of Kind()
	CheckEntry(ctx *CheckContext, path string, stat types.Stat) (types.Finding, bool)
}

// WholeTreeCheck is a check that needs the whole tree's shape at once
// (duplicates, links, integrity, temporary, confidential): the
// dispatcher hands it the walker directly (or lets it iterate the cache)
// and a running match counter via the returned CheckResult.
type WholeTreeCheck interface {
	Name() string
	RunTree(ctx *CheckContext, w *walk.Walker) types.CheckResult
}
