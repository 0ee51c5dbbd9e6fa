package checks

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/arjank/datachecker/internal/checkapi"
	"github.com/arjank/datachecker/internal/magic"
	"github.com/arjank/datachecker/internal/tables"
	"github.com/arjank/datachecker/internal/types"
)

func noFinding() (types.Finding, bool) { return types.Finding{}, false }

func finding(check, path, msg string, lvl types.Level) (types.Finding, bool) {
	return types.Finding{Check: check, Level: lvl, Path: path, Message: msg}, true
}

// EmptyFilesCheck reports zero-byte regular files.
type EmptyFilesCheck struct{}

func (EmptyFilesCheck) Name() string          { return "empty_files" }
func (EmptyFilesCheck) Kind() types.EntryKind { return types.KindFile }
func (EmptyFilesCheck) Both() bool            { return false }

func (EmptyFilesCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	if stat.Size == 0 {
		return finding("empty_files", path, "empty file", types.LevelCheck)
	}
	return noFinding()
}

// LargeFilesCheck reports files at or above the configured large-file
// threshold.
type LargeFilesCheck struct{}

func (LargeFilesCheck) Name() string          { return "large_files" }
func (LargeFilesCheck) Kind() types.EntryKind { return types.KindFile }
func (LargeFilesCheck) Both() bool            { return false }

func (LargeFilesCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	if ctx.Config.LargeFileSize > 0 && stat.Size >= ctx.Config.LargeFileSize {
		return finding("large_files", path, "large file", types.LevelCheck)
	}
	return noFinding()
}

// LastAccessCheck reports files not accessed within the configured
// threshold duration.
type LastAccessCheck struct{}

func (LastAccessCheck) Name() string          { return "last_access" }
func (LastAccessCheck) Kind() types.EntryKind { return types.KindFile }
func (LastAccessCheck) Both() bool            { return false }

func (LastAccessCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	if ctx.Config.LastAccessTime <= 0 {
		return noFinding()
	}
	threshold := time.Duration(ctx.Config.LastAccessTime)
	if stat.AccessTime.IsZero() {
		return noFinding()
	}
	if time.Since(stat.AccessTime) >= threshold {
		return finding("last_access", path, "not accessed recently", types.LevelCheck)
	}
	return noFinding()
}

// WrongDatesCheck reports files whose modification time is in the
// future relative to the scan (a common sign of clock skew or a
// corrupted archive restore).
type WrongDatesCheck struct{}

func (WrongDatesCheck) Name() string          { return "wrong_dates" }
func (WrongDatesCheck) Kind() types.EntryKind { return types.KindFile }
func (WrongDatesCheck) Both() bool            { return false }

func (WrongDatesCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	if stat.ModTime.After(time.Now()) {
		return finding("wrong_dates", path, "modification time is in the future", types.LevelWarning)
	}
	return noFinding()
}

// LegacyCheck reports files carrying a superseded file-format extension.
type LegacyCheck struct{}

func (LegacyCheck) Name() string          { return "legacy" }
func (LegacyCheck) Kind() types.EntryKind { return types.KindFile }
func (LegacyCheck) Both() bool            { return false }

func (LegacyCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	ext := toLower(filepath.Ext(path))
	for _, le := range tables.LegacyExtensions {
		if ext == le {
			return finding("legacy", path, "legacy file format", types.LevelCheck)
		}
	}
	return noFinding()
}

// MagicNumbersCheck validates a recognized extension's signature
// against the file's actual bytes (spec §4.9, recognized-extension path).
type MagicNumbersCheck struct{}

func (MagicNumbersCheck) Name() string          { return "magic_numbers" }
func (MagicNumbersCheck) Kind() types.EntryKind { return types.KindFile }
func (MagicNumbersCheck) Both() bool            { return false }

func (MagicNumbersCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return noFinding()
	}
	switch magic.CheckExtension(path, ext) {
	case magic.Mismatch:
		return finding("magic_numbers", path, "extension does not match file signature", types.LevelWarning)
	case magic.ReadError:
		return finding("magic_numbers", path, "could not read signature window", types.LevelError)
	default:
		return noFinding()
	}
}

// NoExtensionCheck infers a format for extensionless files and reports
// format-unknown when nothing matches (spec §4.9 reverse-table mode).
type NoExtensionCheck struct{}

func (NoExtensionCheck) Name() string          { return "no_extension" }
func (NoExtensionCheck) Kind() types.EntryKind { return types.KindFile }
func (NoExtensionCheck) Both() bool            { return false }

func (NoExtensionCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	if filepath.Ext(path) != "" {
		return noFinding()
	}
	if inferred, ok := magic.InferNoExtension(path); ok {
		return finding("no_extension", path, "missing extension, inferred format: "+inferred, types.LevelCheck)
	}
	return finding("no_extension", path, "missing extension, format unknown", types.LevelWarning)
}

// JSONParseCheck reports files named *.json that fail to parse as JSON.
type JSONParseCheck struct{}

func (JSONParseCheck) Name() string          { return "json_parse" }
func (JSONParseCheck) Kind() types.EntryKind { return types.KindFile }
func (JSONParseCheck) Both() bool            { return false }

// maxJSONBytes bounds memory use per spec §7's StreamTooLong error kind.
const maxJSONBytes = 64 << 20

func (JSONParseCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	if toLower(filepath.Ext(path)) != ".json" {
		return noFinding()
	}
	if stat.Size > maxJSONBytes {
		return finding("json_parse", path, "file exceeds JSON parse size cap, skipped", types.LevelError)
	}

	f, err := os.Open(path)
	if err != nil {
		return finding("json_parse", path, "could not open file", types.LevelError)
	}
	defer func() { _ = f.Close() }()

	var v any
	dec := json.NewDecoder(bufio.NewReader(f))
	if err := dec.Decode(&v); err != nil {
		return finding("json_parse", path, "invalid JSON: "+err.Error(), types.LevelWarning)
	}
	return noFinding()
}

// CompressedCheck reports files whose extension claims a compressed
// format but whose bytes are not actually gzip-compressed, catching
// files renamed without being (de)compressed. Grounded on the same
// offset-0 magic-number technique as internal/magic, scoped to the one
// format the standard library can cheaply verify without decompressing
// the whole stream.
type CompressedCheck struct{}

func (CompressedCheck) Name() string          { return "compressed" }
func (CompressedCheck) Kind() types.EntryKind { return types.KindFile }
func (CompressedCheck) Both() bool            { return false }

func (CompressedCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	ext := toLower(filepath.Ext(path))
	if ext != ".gz" && ext != ".tgz" {
		return noFinding()
	}

	f, err := os.Open(path)
	if err != nil {
		return finding("compressed", path, "could not open file", types.LevelError)
	}
	defer func() { _ = f.Close() }()

	if _, err := gzip.NewReader(f); err != nil {
		return finding("compressed", path, "not a valid gzip stream despite extension", types.LevelWarning)
	}
	return noFinding()
}

// DuplicateCharsCheck reports names containing a long run of the same
// repeated character, a common artifact of corrupted transfers or
// generated filenames (e.g. "aaaaaaaa.txt").
type DuplicateCharsCheck struct{}

func (DuplicateCharsCheck) Name() string          { return "duplicate_chars" }
func (DuplicateCharsCheck) Kind() types.EntryKind { return types.KindFile }
func (DuplicateCharsCheck) Both() bool            { return true }

const duplicateCharsRunThreshold = 4

func (DuplicateCharsCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	name := filepath.Base(path)
	run := 1
	var prev rune
	for i, r := range name {
		if i > 0 && r == prev {
			run++
			if run >= duplicateCharsRunThreshold {
				return finding("duplicate_chars", path, "name contains a long run of a repeated character", types.LevelCheck)
			}
		} else {
			run = 1
		}
		prev = r
	}
	return noFinding()
}

// UnportableCharsCheck reports names containing characters reserved or
// unsafe on at least one major filesystem.
type UnportableCharsCheck struct{}

func (UnportableCharsCheck) Name() string          { return "unportable_chars" }
func (UnportableCharsCheck) Kind() types.EntryKind { return types.KindFile }
func (UnportableCharsCheck) Both() bool            { return true }

func (UnportableCharsCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	name := filepath.Base(path)
	for _, r := range name {
		if r < 0x20 {
			return finding("unportable_chars", path, "name contains a control character", types.LevelWarning)
		}
		for _, bad := range tables.UnportableChars {
			if r == bad {
				return finding("unportable_chars", path, "name contains an unportable character", types.LevelWarning)
			}
		}
	}
	return noFinding()
}

// NameSizeCheck reports names exceeding the configured maximum length.
type NameSizeCheck struct{}

func (NameSizeCheck) Name() string          { return "name_size" }
func (NameSizeCheck) Kind() types.EntryKind { return types.KindFile }
func (NameSizeCheck) Both() bool            { return true }

func (NameSizeCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	name := filepath.Base(path)
	limit := ctx.Config.MaxDirFileNameSize
	if limit <= 0 {
		return noFinding()
	}
	if utf8.RuneCountInString(name) > limit {
		return finding("name_size", path, "name exceeds configured length limit", types.LevelWarning)
	}
	return noFinding()
}

// PathSizeCheck reports full paths exceeding the configured maximum length.
type PathSizeCheck struct{}

func (PathSizeCheck) Name() string          { return "path_size" }
func (PathSizeCheck) Kind() types.EntryKind { return types.KindFile }
func (PathSizeCheck) Both() bool            { return true }

func (PathSizeCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	limit := ctx.Config.MaxFullPathSize
	if limit <= 0 {
		return noFinding()
	}
	if utf8.RuneCountInString(path) > limit {
		return finding("path_size", path, "full path exceeds configured length limit", types.LevelWarning)
	}
	return noFinding()
}

// EmptyDirsCheck reports directories containing no entries.
type EmptyDirsCheck struct{}

func (EmptyDirsCheck) Name() string          { return "empty_dirs" }
func (EmptyDirsCheck) Kind() types.EntryKind { return types.KindDir }
func (EmptyDirsCheck) Both() bool            { return false }

func (EmptyDirsCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	n, err := dirEntryCount(path)
	if err != nil {
		return noFinding()
	}
	if n == 0 {
		return finding("empty_dirs", path, "empty directory", types.LevelCheck)
	}
	return noFinding()
}

// ManyItemsDirsCheck reports directories with more entries than the
// configured maximum.
type ManyItemsDirsCheck struct{}

func (ManyItemsDirsCheck) Name() string          { return "many_items_dirs" }
func (ManyItemsDirsCheck) Kind() types.EntryKind { return types.KindDir }
func (ManyItemsDirsCheck) Both() bool            { return false }

func (ManyItemsDirsCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	limit := ctx.Config.MaxItemsDirectory
	if limit <= 0 {
		return noFinding()
	}
	n, err := dirEntryCount(path)
	if err != nil {
		return noFinding()
	}
	if n > limit {
		return finding("many_items_dirs", path, "directory exceeds configured item count limit", types.LevelWarning)
	}
	return noFinding()
}

// OneItemDirsCheck reports directories containing exactly one entry,
// often a sign of an unnecessary nesting level.
type OneItemDirsCheck struct{}

func (OneItemDirsCheck) Name() string          { return "one_item_dirs" }
func (OneItemDirsCheck) Kind() types.EntryKind { return types.KindDir }
func (OneItemDirsCheck) Both() bool            { return false }

func (OneItemDirsCheck) CheckEntry(ctx *checkapi.CheckContext, path string, stat types.Stat) (types.Finding, bool) {
	n, err := dirEntryCount(path)
	if err != nil {
		return noFinding()
	}
	if n == 1 {
		return finding("one_item_dirs", path, "directory contains a single item", types.LevelCheck)
	}
	return noFinding()
}

func dirEntryCount(path string) (int, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
