package dupdetect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arjank/datachecker/internal/types"
)

type fakeReporter struct {
	clusters []Cluster
}

func (r *fakeReporter) OK(string, string, string)                     {}
func (r *fakeReporter) Check(string, string, string)                  {}
func (r *fakeReporter) Warning(string, string, string)                {}
func (r *fakeReporter) Error(string, string, string)                  {}
func (r *fakeReporter) Total(string, int, string, string)             {}
func (r *fakeReporter) Header(string)                                 {}
func (r *fakeReporter) Footer(types.CheckResult)                      {}
func (r *fakeReporter) DuplicateCluster(size int64, paths []string) {
	ps := append([]string(nil), paths...)
	r.clusters = append(r.clusters, Cluster{Paths: ps, Size: size})
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestRunDuplicateTrio(t *testing.T) {
	// S1 scenario from the spec: three 7-byte files with identical
	// content, one cluster expected, wasted bytes = 14.
	dir := t.TempDir()
	content := []byte("hello\n!")
	a := writeFile(t, dir, "a", content)
	b := writeFile(t, dir, "b", content)
	c := writeFile(t, dir, "c", content)

	entries := []FileEntry{
		{Abs: a, Size: int64(len(content))},
		{Abs: b, Size: int64(len(content))},
		{Abs: c, Size: int64(len(content))},
	}

	rep := &fakeReporter{}
	matches, wasted := Run(entries, Config{BufferSize: 64}, rep)

	if matches != 3 {
		t.Errorf("matches = %d, want 3", matches)
	}
	if wasted != 14 {
		t.Errorf("wasted = %d, want 14", wasted)
	}
	if len(rep.clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(rep.clusters))
	}
	if len(rep.clusters[0].Paths) != 3 {
		t.Errorf("cluster size = %d, want 3", len(rep.clusters[0].Paths))
	}
}

func TestRunNoDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", []byte("aaaa"))
	b := writeFile(t, dir, "b", []byte("bbbb"))

	entries := []FileEntry{
		{Abs: a, Size: 4},
		{Abs: b, Size: 4},
	}

	rep := &fakeReporter{}
	matches, wasted := Run(entries, Config{BufferSize: 64}, rep)

	if matches != 0 || wasted != 0 {
		t.Errorf("expected no duplicates, got matches=%d wasted=%d", matches, wasted)
	}
}

func TestRunSizeCollisionNotDuplicate(t *testing.T) {
	// Same size, different content: size is only a prefilter.
	dir := t.TempDir()
	a := writeFile(t, dir, "a", []byte("aaaa"))
	b := writeFile(t, dir, "b", []byte("bbbb"))

	entries := []FileEntry{{Abs: a, Size: 4}, {Abs: b, Size: 4}}
	rep := &fakeReporter{}
	matches, _ := Run(entries, Config{BufferSize: 64}, rep)
	if matches != 0 {
		t.Errorf("matches = %d, want 0 (same size, different content)", matches)
	}
}

func TestRunParallelPipelineMatchesSerial(t *testing.T) {
	dir := t.TempDir()
	content := []byte("duplicate content for hash pipeline test")
	a := writeFile(t, dir, "a", content)
	b := writeFile(t, dir, "b", content)

	entries := []FileEntry{
		{Abs: a, Size: int64(len(content))},
		{Abs: b, Size: int64(len(content))},
	}

	rep := &fakeReporter{}
	sem := types.NewSemaphore(2)
	matches, wasted := Run(entries, Config{BufferSize: 64, Parallel: true, Sem: sem}, rep)

	if matches != 2 {
		t.Errorf("matches = %d, want 2", matches)
	}
	if wasted != int64(len(content)) {
		t.Errorf("wasted = %d, want %d", wasted, len(content))
	}
}

func TestRunExcludesZeroByteFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", nil)
	b := writeFile(t, dir, "b", nil)

	entries := []FileEntry{{Abs: a, Size: 0}, {Abs: b, Size: 0}}
	rep := &fakeReporter{}
	matches, _ := Run(entries, Config{BufferSize: 64}, rep)
	if matches != 0 {
		t.Errorf("zero-byte files must be excluded, got matches=%d", matches)
	}
}
