// Package reporter implements the terminal Reporter (spec §6 "Reporter
// interface", SPEC_FULL.md §4.12): the only place in the repository that
// formats, colors, or counts for display. The core depends only on
// types.Reporter; this is the one concrete implementation, wrapping one
// schollz/progressbar spinner per check and dustin/go-humanize for
// byte/count formatting, the way the teacher's cmd/dupedog wires its
// own progress.Bar and manual byte formatting together.
package reporter

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/arjank/datachecker/internal/progress"
	"github.com/arjank/datachecker/internal/types"
)

// Terminal is a types.Reporter that writes human-readable, optionally
// colored lines to an io.Writer, serialized by one mutex (spec §5
// "reporter mutex").
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	color    bool
	progress bool
	bar      *progress.Bar
}

// New builds a Terminal reporter. out defaults to os.Stdout if nil.
func New(out io.Writer, color, showProgress bool) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{out: out, color: color, progress: showProgress}
}

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

func (t *Terminal) paint(code, s string) string {
	if !t.color {
		return s
	}
	return code + s + colorReset
}

func (t *Terminal) writeLine(prefix, color, check, path, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	label := t.paint(color, prefix)
	fmt.Fprintf(t.out, "[%s] %-20s %s: %s\n", label, check, path, message)
}

func (t *Terminal) OK(check, path, message string)      { t.writeLine("ok", colorGreen, check, path, message) }
func (t *Terminal) Check(check, path, message string)   { t.writeLine("check", colorCyan, check, path, message) }
func (t *Terminal) Warning(check, path, message string) { t.writeLine("warn", colorYellow, check, path, message) }
func (t *Terminal) Error(check, path, message string)   { t.writeLine("error", colorRed, check, path, message) }

func (t *Terminal) DuplicateCluster(sizeBytes int64, paths []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "[%s] duplicate cluster, %s each:\n", t.paint(colorCyan, "dup"), humanize.Bytes(uint64(sizeBytes)))
	for _, p := range paths {
		fmt.Fprintf(t.out, "    %s\n", p)
	}
}

func (t *Terminal) Total(check string, count int, singular, plural string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	word := plural
	if count == 1 {
		word = singular
	}
	fmt.Fprintf(t.out, "[%s] %s: %s %s\n", t.paint(colorCyan, "total"), check, humanize.Comma(int64(count)), word)
}

func (t *Terminal) Header(check string) {
	t.mu.Lock()
	fmt.Fprintf(t.out, "== %s ==\n", check)
	t.mu.Unlock()

	if t.progress {
		bar := progress.New(true, -1)
		bar.Describe(headerLabel(check))
		t.mu.Lock()
		t.bar = bar
		t.mu.Unlock()
	}
}

func (t *Terminal) Footer(result types.CheckResult) {
	t.mu.Lock()
	bar := t.bar
	t.bar = nil
	t.mu.Unlock()

	if bar != nil {
		bar.Finish(footerLabel(result))
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "-- %s: %s matches --\n", result.Check, humanize.Comma(int64(result.Matches)))
}

type headerLabel string

func (h headerLabel) String() string { return "scanning: " + string(h) }

type footerLabel types.CheckResult

func (f footerLabel) String() string {
	return fmt.Sprintf("%s: %s matches", f.Check, humanize.Comma(int64(f.Matches)))
}
