package qrcode

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateWritesImage(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(filepath.Join(dir, "qr_codes"))

	path, err := gen.Generate("550e8400-e29b-41d4-a716-446655440000", "guest-1")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected image at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Error("rendered image is empty")
	}
	if got := gen.Path("guest-1"); got != path {
		t.Errorf("Path() = %s, want %s", got, path)
	}
}

func TestGenerateEmptyToken(t *testing.T) {
	gen := NewGenerator(t.TempDir())
	if _, err := gen.Generate("", "guest-1"); err == nil {
		t.Fatal("Generate() with empty token should fail")
	}
}

func TestRemove(t *testing.T) {
	gen := NewGenerator(t.TempDir())

	path, err := gen.Generate("some-token", "guest-2")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if err := gen.Remove("guest-2"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("image still present after Remove()")
	}

	// removing again is fine
	if err := gen.Remove("guest-2"); err != nil {
		t.Errorf("Remove() on missing file: %v", err)
	}
}
