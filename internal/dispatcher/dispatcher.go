// Package dispatcher runs every enabled check in the fixed order spec.md
// §4.5 requires, routing each to the walker-driven or per-entry dispatch
// shape its interface implements. This is the "Check dispatcher" (C5),
// and the home of the "comptime feature flags" redesign from spec §9:
// a single ordered table of {enabled, name, runner} replaces the
// teacher's ad-hoc command-per-subsystem wiring in cmd/dupedog/main.go.
package dispatcher

import (
	"github.com/arjank/datachecker/internal/checkapi"
	"github.com/arjank/datachecker/internal/checks"
	"github.com/arjank/datachecker/internal/confidential"
	"github.com/arjank/datachecker/internal/statcache"
	"github.com/arjank/datachecker/internal/tables"
	"github.com/arjank/datachecker/internal/types"
	"github.com/arjank/datachecker/internal/walk"
)

// registration is one entry in the fixed dispatch order. Exactly one of
// WholeTree or PerEntry is set.
type registration struct {
	enabled   func(types.CheckFlags) bool
	wholeTree checkapi.WholeTreeCheck
	perEntry  checkapi.PerEntryCheck
}

// Dispatcher runs every enabled check against a scan root, in the order
// spec §4.5 fixes, sharing one walker-populated cache across all of them.
type Dispatcher struct {
	ctx *checkapi.CheckContext
}

// New builds a Dispatcher. scanner, if non-nil, is the pre-built
// confidential-content matcher (construction can fail on bad base64, so
// it is built once by the caller and threaded through here rather than
// rebuilt per run).
func New(root string, cfg types.ScanConfig, cache *statcache.Cache, reporter types.Reporter, sem types.Semaphore, scanner *confidential.Scanner) *Dispatcher {
	return &Dispatcher{
		ctx: &checkapi.CheckContext{
			Root:     root,
			Cache:    cache,
			Config:   cfg,
			Reporter: reporter,
			Sem:      sem,
		},
	}
}

func (d *Dispatcher) registrations(scanner *confidential.Scanner) []registration {
	return []registration{
		{enabled: func(c types.CheckFlags) bool { return c.Duplicates }, wholeTree: checks.DuplicatesCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.Links }, wholeTree: checks.LinksCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.Integrity }, wholeTree: checks.IntegrityCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.Temporary }, wholeTree: checks.TemporaryCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.Confidential }, wholeTree: checks.ConfidentialCheck{Scanner: scanner}},
		{enabled: func(c types.CheckFlags) bool { return c.Compressed }, perEntry: checks.CompressedCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.DuplicateChars }, perEntry: checks.DuplicateCharsCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.EmptyFiles }, perEntry: checks.EmptyFilesCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.LargeFiles }, perEntry: checks.LargeFilesCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.LastAccess }, perEntry: checks.LastAccessCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.Legacy }, perEntry: checks.LegacyCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.MagicNumbers }, perEntry: checks.MagicNumbersCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.NoExtension }, perEntry: checks.NoExtensionCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.JSONParse }, perEntry: checks.JSONParseCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.WrongDates }, perEntry: checks.WrongDatesCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.EmptyDirs }, perEntry: checks.EmptyDirsCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.ManyItemsDirs }, perEntry: checks.ManyItemsDirsCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.OneItemDirs }, perEntry: checks.OneItemDirsCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.NameSize }, perEntry: checks.NameSizeCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.PathSize }, perEntry: checks.PathSizeCheck{}},
		{enabled: func(c types.CheckFlags) bool { return c.UnportableChars }, perEntry: checks.UnportableCharsCheck{}},
	}
}

// RunAll runs every check enabled in the configuration, in fixed order.
// After each check it emits a header before and a CheckResult summary
// after via the reporter, per spec §4.5.
func (d *Dispatcher) RunAll(scanner *confidential.Scanner) []types.CheckResult {
	var results []types.CheckResult
	for _, reg := range d.registrations(scanner) {
		if !reg.enabled(d.ctx.Config) {
			continue
		}
		results = append(results, d.runOne(reg))
	}
	return results
}

// RunSingle runs exactly one named check (spec §6 "per-check alias
// flags"), regardless of its enabled flag, for single-check CLI
// invocations. The caller is expected to have disabled the cache first.
func (d *Dispatcher) RunSingle(name string, scanner *confidential.Scanner) (types.CheckResult, bool) {
	for _, reg := range d.registrations(scanner) {
		if reg.name() == name {
			return d.runOne(reg), true
		}
	}
	return types.CheckResult{}, false
}

func (r registration) name() string {
	if r.wholeTree != nil {
		return r.wholeTree.Name()
	}
	return r.perEntry.Name()
}

func (d *Dispatcher) runOne(reg registration) types.CheckResult {
	name := reg.name()
	d.ctx.Reporter.Header(name)

	var result types.CheckResult
	if reg.wholeTree != nil {
		w, err := walk.New(d.ctx.Root, d.ctx.Cache)
		if err != nil {
			d.ctx.Reporter.Error(name, d.ctx.Root, "could not initialize walker: "+err.Error())
			result = types.CheckResult{Check: name, Matches: 0}
		} else {
			w.OnError = func(path string, walkErr error) error {
				d.ctx.Reporter.Warning(name, path, "access error: "+walkErr.Error())
				return nil
			}
			result = reg.wholeTree.RunTree(d.ctx, w)
		}
	} else {
		result = d.runPerEntry(reg.perEntry)
	}

	d.ctx.Reporter.Footer(result)
	return result
}

func (d *Dispatcher) runPerEntry(check checkapi.PerEntryCheck) types.CheckResult {
	matches := 0

	visit := func(path string, st types.Stat) {
		if !check.Both() && st.Kind != check.Kind() {
			return
		}
		if f, ok := check.CheckEntry(d.ctx, path, st); ok {
			matches++
			emit(d.ctx.Reporter, f)
		}
	}

	if d.ctx.Cache != nil && d.ctx.Cache.Enabled() && d.ctx.Cache.Len() > 0 {
		d.ctx.Cache.IterAll(func(path string, st types.Stat) { visit(path, st) })
	} else {
		w, err := walk.New(d.ctx.Root, d.ctx.Cache)
		if err != nil {
			d.ctx.Reporter.Error(check.Name(), d.ctx.Root, "could not initialize walker: "+err.Error())
			return types.CheckResult{Check: check.Name()}
		}
		w.OnError = func(path string, walkErr error) error {
			d.ctx.Reporter.Warning(check.Name(), path, "access error: "+walkErr.Error())
			return nil
		}
		_ = w.Walk(func(e types.Entry) error {
			if d.ctx.Cache != nil {
				d.ctx.Cache.Insert(e.Abs, e.Stat)
			}
			visit(e.Abs, e.Stat)
			return nil
		})
	}

	return types.CheckResult{Check: check.Name(), Matches: matches}
}

func emit(reporter types.Reporter, f types.Finding) {
	switch f.Level {
	case types.LevelOK:
		reporter.OK(f.Check, f.Path, f.Message)
	case types.LevelCheck:
		reporter.Check(f.Check, f.Path, f.Message)
	case types.LevelWarning:
		reporter.Warning(f.Check, f.Path, f.Message)
	case types.LevelError:
		reporter.Error(f.Check, f.Path, f.Message)
	}
}

// DefaultSecretPatterns re-exports tables.DefaultSecretPatterns for
// callers (e.g. the CLI layer) that build a confidential.Scanner without
// wanting to import internal/tables directly.
func DefaultSecretPatterns() ([]string, []string) {
	return tables.DefaultSecretPatterns, tables.DefaultSecretPatternsBase64
}
