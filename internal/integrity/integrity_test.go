package integrity

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/arjank/datachecker/internal/hashfamily"
	"github.com/arjank/datachecker/internal/types"
)

type fakeReporter struct {
	oks, warnings, errors []string
}

func (r *fakeReporter) OK(check, path, msg string)      { r.oks = append(r.oks, path+":"+msg) }
func (r *fakeReporter) Check(string, string, string)    {}
func (r *fakeReporter) Warning(check, path, msg string) { r.warnings = append(r.warnings, path+":"+msg) }
func (r *fakeReporter) Error(check, path, msg string)   { r.errors = append(r.errors, path+":"+msg) }
func (r *fakeReporter) Total(string, int, string, string)          {}
func (r *fakeReporter) Header(string)                              {}
func (r *fakeReporter) Footer(types.CheckResult)                   {}
func (r *fakeReporter) DuplicateCluster(int64, []string)           {}

func TestIntegrityCreate(t *testing.T) {
	// S2 scenario: empty sidecar gets populated with the target's digest.
	dir := t.TempDir()
	target := filepath.Join(dir, "img.png")
	if err := os.WriteFile(target, []byte("arbitrary bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	sidecar := target + ".sha-256"
	if err := os.WriteFile(sidecar, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	rep := &fakeReporter{}
	matches := Run([]Sidecar{{Abs: sidecar}}, Config{BufferSize: 4096}, rep)

	if matches != 1 {
		t.Fatalf("matches = %d, want 1", matches)
	}
	content, err := os.ReadFile(sidecar)
	if err != nil {
		t.Fatal(err)
	}
	if len(content) != 64 {
		t.Errorf("sidecar content length = %d, want 64", len(content))
	}
	want, err := hashfamily.DigestOf(hashfamily.SHA256, mustOpen(t, target))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != hex.EncodeToString(want) {
		t.Errorf("sidecar content = %q, want %q", content, hex.EncodeToString(want))
	}
}

func TestIntegrityVerify(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "img.png")
	data := []byte("arbitrary bytes")
	if err := os.WriteFile(target, data, 0o644); err != nil {
		t.Fatal(err)
	}
	digest, err := hashfamily.DigestOf(hashfamily.SHA256, mustOpen(t, target))
	if err != nil {
		t.Fatal(err)
	}
	sidecar := target + ".sha-256"
	if err := os.WriteFile(sidecar, []byte(hex.EncodeToString(digest)), 0o644); err != nil {
		t.Fatal(err)
	}

	rep := &fakeReporter{}
	Run([]Sidecar{{Abs: sidecar}}, Config{BufferSize: 4096}, rep)

	if len(rep.oks) != 1 {
		t.Fatalf("expected one ok report, got %v / %v", rep.oks, rep.warnings)
	}
	after, _ := os.ReadFile(sidecar)
	if string(after) != hex.EncodeToString(digest) {
		t.Error("sidecar must be unchanged after verify")
	}
}

func TestIntegrityMismatch(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "img.png")
	if err := os.WriteFile(target, []byte("arbitrary bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	digest, err := hashfamily.DigestOf(hashfamily.SHA256, mustOpen(t, target))
	if err != nil {
		t.Fatal(err)
	}
	sidecar := target + ".sha-256"
	if err := os.WriteFile(sidecar, []byte(hex.EncodeToString(digest)), 0o644); err != nil {
		t.Fatal(err)
	}

	// Mutate target by one byte.
	if err := os.WriteFile(target, []byte("Arbitrary bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep := &fakeReporter{}
	Run([]Sidecar{{Abs: sidecar}}, Config{BufferSize: 4096}, rep)

	if len(rep.warnings) != 1 {
		t.Fatalf("expected one mismatch warning, got oks=%v warnings=%v", rep.oks, rep.warnings)
	}
	after, _ := os.ReadFile(sidecar)
	if string(after) != hex.EncodeToString(digest) {
		t.Error("sidecar must be unchanged after mismatch")
	}
}

func TestIntegrityReadErrorOnBadLength(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "img.png")
	if err := os.WriteFile(target, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	sidecar := target + ".sha-256"
	// 63 hex chars: 2*digest_length - 1, a read-error not a mismatch.
	if err := os.WriteFile(sidecar, []byte(string(make([]byte, 63))), 0o644); err != nil {
		t.Fatal(err)
	}

	rep := &fakeReporter{}
	Run([]Sidecar{{Abs: sidecar}}, Config{BufferSize: 4096}, rep)

	if len(rep.errors) != 1 {
		t.Fatalf("expected one read-error, got %v", rep)
	}
}

func TestIntegrityUnrecognizedExtensionSkipped(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep := &fakeReporter{}
	matches := Run([]Sidecar{{Abs: p}}, Config{BufferSize: 4096}, rep)
	if matches != 0 {
		t.Errorf("matches = %d, want 0 for unrecognized extension", matches)
	}
}

func TestIntegrityTargetNotFound(t *testing.T) {
	dir := t.TempDir()
	sidecar := filepath.Join(dir, "missing.bin.sha-256")
	if err := os.WriteFile(sidecar, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	rep := &fakeReporter{}
	Run([]Sidecar{{Abs: sidecar}}, Config{BufferSize: 4096}, rep)
	if len(rep.errors) != 1 {
		t.Fatalf("expected target-not-found error, got %v", rep)
	}
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}
