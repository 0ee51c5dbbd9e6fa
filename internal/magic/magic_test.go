package magic

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCheckExtensionS6MagicMismatch(t *testing.T) {
	dir := t.TempDir()
	photo := write(t, dir, "photo.png", []byte("not a real png header"))
	if got := CheckExtension(photo, "png"); got != Mismatch {
		t.Errorf("photo.png = %v, want Mismatch", got)
	}

	archive := write(t, dir, "archive.zip", append([]byte{'P', 'K', 0x03, 0x04}, []byte("rest of zip")...))
	if got := CheckExtension(archive, "zip"); got != Match {
		t.Errorf("archive.zip = %v, want Match", got)
	}
}

func TestCheckExtensionPNGValid(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "real.png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 'x', 'y'})
	if got := CheckExtension(p, "png"); got != Match {
		t.Errorf("got %v, want Match", got)
	}
}

func TestCheckExtensionUnrecognized(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "file.xyz123", []byte("whatever"))
	if got := CheckExtension(p, "xyz123"); got != Unrecognized {
		t.Errorf("got %v, want Unrecognized", got)
	}
}

func TestCheckExtensionReadErrorOnShortFile(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "tiny.png", []byte{0x89, 'P'}) // shorter than the 8-byte signature
	if got := CheckExtension(p, "png"); got != ReadError {
		t.Errorf("got %v, want ReadError", got)
	}
}

func TestCompositeWAV(t *testing.T) {
	dir := t.TempDir()
	content := append([]byte("RIFF"), append([]byte{0, 0, 0, 0}, []byte("WAVEfmt ")...)...)
	p := write(t, dir, "sound.wav", content)
	if got := CheckExtension(p, "wav"); got != Match {
		t.Errorf("got %v, want Match", got)
	}
}

func TestCompositeTarUstarOffset(t *testing.T) {
	dir := t.TempDir()
	content := make([]byte, 262)
	copy(content[257:], []byte("ustar"))
	p := write(t, dir, "archive.tar", content)
	if got := CheckExtension(p, "tar"); got != Match {
		t.Errorf("got %v, want Match", got)
	}
}

func TestInferNoExtension(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "mystery", []byte{0x1f, 0x8b, 0x08, 0x00})
	ext, ok := InferNoExtension(p)
	if !ok || ext != "gz" {
		t.Errorf("InferNoExtension = %q, %v, want \"gz\", true", ext, ok)
	}
}

func TestInferNoExtensionUnknown(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "mystery2", []byte("plain text with no known signature at all"))
	_, ok := InferNoExtension(p)
	if ok {
		t.Error("expected format-unknown for unrecognized content")
	}
}
