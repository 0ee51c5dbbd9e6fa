package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arjank/datachecker/internal/types"
)

func TestTerminalBasicLevels(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false, false)

	r.OK("empty_files", "/a", "empty file")
	r.Check("large_files", "/b", "large file")
	r.Warning("wrong_dates", "/c", "future date")
	r.Error("integrity", "/d", "read error")

	out := buf.String()
	for _, want := range []string{"empty_files", "/a", "large_files", "/b", "wrong_dates", "/c", "integrity", "/d"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTerminalNoColorPlainText(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false, false)
	r.OK("c", "/p", "m")
	if strings.Contains(buf.String(), "\033[") {
		t.Error("expected no ANSI escape codes when color is disabled")
	}
}

func TestTerminalDuplicateClusterAndTotal(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false, false)

	r.DuplicateCluster(1024, []string{"/a", "/b"})
	r.Total("duplicates", 2, "duplicate file", "duplicate files")

	out := buf.String()
	if !strings.Contains(out, "/a") || !strings.Contains(out, "/b") {
		t.Errorf("expected both cluster members in output:\n%s", out)
	}
	if !strings.Contains(out, "duplicate files") {
		t.Errorf("expected plural total message:\n%s", out)
	}
}

func TestTerminalHeaderFooterNoProgress(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false, false) // progress disabled: Header/Footer must not block or panic
	r.Header("duplicates")
	r.Footer(types.CheckResult{Check: "duplicates", Matches: 3})

	out := buf.String()
	if !strings.Contains(out, "duplicates") {
		t.Errorf("expected header/footer to mention check name:\n%s", out)
	}
}
