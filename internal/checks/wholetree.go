// Package checks implements every concrete check in the fixed dispatch
// order of spec.md §4.5, against the checkapi.PerEntryCheck and
// checkapi.WholeTreeCheck contracts.
package checks

import (
	"fmt"
	"os"

	"github.com/arjank/datachecker/internal/checkapi"
	"github.com/arjank/datachecker/internal/confidential"
	"github.com/arjank/datachecker/internal/dupdetect"
	"github.com/arjank/datachecker/internal/integrity"
	"github.com/arjank/datachecker/internal/tables"
	"github.com/arjank/datachecker/internal/types"
	"github.com/arjank/datachecker/internal/walk"
)

// entriesForTree returns every file entry the walker or cache produces,
// per the dispatch-shape rule in spec §4.5: "if the cache already has
// entries, the check iterates the cache; else it drives its own walk
// and calls fetch_or_insert for each entry."
func entriesForTree(ctx *checkapi.CheckContext, w *walk.Walker, kind types.EntryKind, both bool) []types.Entry {
	var out []types.Entry

	if ctx.Cache != nil && ctx.Cache.Enabled() && ctx.Cache.Len() > 0 {
		ctx.Cache.IterAll(func(path string, st types.Stat) {
			if both || st.Kind == kind {
				out = append(out, types.Entry{Kind: st.Kind, Abs: path, Stat: st})
			}
		})
		return out
	}

	_ = w.Walk(func(e types.Entry) error {
		if ctx.Cache != nil {
			ctx.Cache.Insert(e.Abs, e.Stat)
		}
		if both || e.Kind == kind {
			out = append(out, e)
		}
		return nil
	})
	return out
}

// DuplicatesCheck wraps internal/dupdetect (spec §4.6).
type DuplicatesCheck struct{}

func (DuplicatesCheck) Name() string { return "duplicates" }

func (DuplicatesCheck) RunTree(ctx *checkapi.CheckContext, w *walk.Walker) types.CheckResult {
	entries := entriesForTree(ctx, w, types.KindFile, false)

	var files []dupdetect.FileEntry
	for _, e := range entries {
		files = append(files, dupdetect.FileEntry{Abs: e.Abs, Size: e.Stat.Size})
	}

	cfg := dupdetect.Config{BufferSize: ctx.Config.BufferSize, Parallel: ctx.Config.DuplicateFilesParallel, Sem: ctx.Sem}
	matches, wasted := dupdetect.Run(files, cfg, ctx.Reporter)

	if matches > 0 {
		ctx.Reporter.Total("duplicates", matches, "duplicate file", "duplicate files")
	}
	if wasted > 0 {
		ctx.Reporter.Check("duplicates", "", fmt.Sprintf("wasted %d bytes across duplicate copies", wasted))
	}
	return types.CheckResult{Check: "duplicates", Matches: matches}
}

// IntegrityCheck wraps internal/integrity (spec §4.7).
type IntegrityCheck struct{}

func (IntegrityCheck) Name() string { return "integrity" }

func (IntegrityCheck) RunTree(ctx *checkapi.CheckContext, w *walk.Walker) types.CheckResult {
	entries := entriesForTree(ctx, w, types.KindFile, false)

	var sidecars []integrity.Sidecar
	for _, e := range entries {
		sidecars = append(sidecars, integrity.Sidecar{Abs: e.Abs})
	}

	cfg := integrity.Config{BufferSize: ctx.Config.BufferSize, Parallel: ctx.Config.IntegrityFilesParallel, Sem: ctx.Sem}
	matches := integrity.Run(sidecars, cfg, ctx.Reporter)

	ctx.Reporter.Total("integrity", matches, "sidecar processed", "sidecars processed")
	return types.CheckResult{Check: "integrity", Matches: matches}
}

// ConfidentialCheck wraps internal/confidential (spec §4.8).
type ConfidentialCheck struct {
	Scanner *confidential.Scanner
}

func (ConfidentialCheck) Name() string { return "confidential" }

func (c ConfidentialCheck) RunTree(ctx *checkapi.CheckContext, w *walk.Walker) types.CheckResult {
	entries := entriesForTree(ctx, w, types.KindFile, false)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Abs)
	}

	matches := confidential.Run(c.Scanner, paths, ctx.Reporter)
	if matches > 0 {
		ctx.Reporter.Total("confidential", matches, "file with confidential content", "files with confidential content")
	}
	return types.CheckResult{Check: "confidential", Matches: matches}
}

// LinksCheck reports broken symlinks (spec §4.5's "links/shortcuts",
// walker-driven: it needs to see every symlink entry plus the ability
// to test its target, the same shape as the other whole-tree checks).
type LinksCheck struct{}

func (LinksCheck) Name() string { return "links" }

func (LinksCheck) RunTree(ctx *checkapi.CheckContext, w *walk.Walker) types.CheckResult {
	matches := 0
	_ = w.Walk(func(e types.Entry) error {
		if e.Kind != types.KindSymlink {
			return nil
		}
		if _, err := os.Stat(e.Abs); err != nil {
			matches++
			ctx.Reporter.Warning("links", e.Abs, "broken symlink")
		}
		return nil
	})
	if matches > 0 {
		ctx.Reporter.Total("links", matches, "broken link", "broken links")
	}
	return types.CheckResult{Check: "links", Matches: matches}
}

// TemporaryCheck reports files whose name or extension marks them as
// transient (spec §4.5 "temporary", walker-driven).
type TemporaryCheck struct{}

func (TemporaryCheck) Name() string { return "temporary" }

func (TemporaryCheck) RunTree(ctx *checkapi.CheckContext, w *walk.Walker) types.CheckResult {
	entries := entriesForTree(ctx, w, types.KindFile, false)

	matches := 0
	for _, e := range entries {
		if isTemporary(e.Abs) {
			matches++
			ctx.Reporter.Check("temporary", e.Abs, "temporary file")
		}
	}
	if matches > 0 {
		ctx.Reporter.Total("temporary", matches, "temporary file", "temporary files")
	}
	return types.CheckResult{Check: "temporary", Matches: matches}
}

func isTemporary(path string) bool {
	base := baseName(path)
	for _, prefix := range tables.TemporaryNamePrefixes {
		if hasPrefix(base, prefix) {
			return true
		}
	}
	for _, ext := range tables.TemporaryExtensions {
		if hasSuffixFold(base, ext) {
			return true
		}
	}
	return false
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	return toLower(s[len(s)-len(suffix):]) == toLower(suffix)
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}
