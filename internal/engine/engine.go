// Package engine assembles the scan engine's mutable state into one
// value (spec §9 REDESIGN FLAG 1, "Global mutable state -> Engine
// value"): the cache, semaphore, reporter, and configuration that used
// to be package-level globals in the teacher's cmd/dupedog become
// fields on Engine, constructed once by the CLI layer and threaded
// through the dispatcher explicitly.
package engine

import (
	"fmt"
	"runtime"

	"github.com/arjank/datachecker/internal/confidential"
	"github.com/arjank/datachecker/internal/dispatcher"
	"github.com/arjank/datachecker/internal/statcache"
	"github.com/arjank/datachecker/internal/types"
)

// Engine owns every piece of shared state a scan run needs: the
// path/stat cache, the worker-bounding semaphore, the reporter, and the
// resolved configuration. One Engine serves one scan run.
type Engine struct {
	Config   types.ScanConfig
	Cache    *statcache.Cache
	Sem      types.Semaphore
	Reporter types.Reporter
	scanner  *confidential.Scanner
}

// New builds an Engine for a scan rooted at a later-supplied directory.
// cfg.MaxJobs<=0 means "detect CPU count" (spec §6 --workers default).
// reporter must not be nil.
func New(cfg types.ScanConfig, reporter types.Reporter) (*Engine, error) {
	jobs := cfg.MaxJobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	scanner, err := confidential.New(cfg.Patterns, cfg.PatternBase64Bytes, cfg.BufferSize)
	if err != nil {
		return nil, fmt.Errorf("engine: building confidential scanner: %w", err)
	}

	return &Engine{
		Config:   cfg,
		Cache:    statcache.New(cfg.EnableCache),
		Sem:      types.NewSemaphore(jobs),
		Reporter: reporter,
		scanner:  scanner,
	}, nil
}

// Dispatcher builds a dispatcher.Dispatcher bound to this Engine's
// shared state, scoped to scan root.
func (e *Engine) Dispatcher(root string) *dispatcher.Dispatcher {
	return dispatcher.New(root, e.Config, e.Cache, e.Reporter, e.Sem, e.scanner)
}

// RunAll runs every enabled check against root in the fixed dispatch
// order (spec §4.5), returning one CheckResult per check that ran.
func (e *Engine) RunAll(root string) []types.CheckResult {
	return e.Dispatcher(root).RunAll(e.scanner)
}

// RunSingle runs exactly one named check against root, ignoring its
// enabled flag (spec §6 "per-check alias flags"). The caller is
// expected to have disabled the cache in cfg beforehand so the single
// check walks the tree itself rather than reusing a stale cache.
func (e *Engine) RunSingle(root, name string) (types.CheckResult, bool) {
	return e.Dispatcher(root).RunSingle(name, e.scanner)
}
