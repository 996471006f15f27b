package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")

	payload := []byte("fake pcm payload")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}

	copied, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(copied) != string(payload) {
		t.Fatalf("destination contents differ: %q", copied)
	}
}

func TestCopyFileVerifiedOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")

	if err := os.WriteFile(src, []byte("new take"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if err := os.WriteFile(dst, []byte("previous export with longer payload"), 0o644); err != nil {
		t.Fatalf("write stale destination: %v", err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}
	copied, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(copied) != "new take" {
		t.Fatalf("destination = %q, want the fresh payload", copied)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.wav")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestFreeSpace(t *testing.T) {
	dir := t.TempDir()
	available, err := FreeSpace(dir)
	if err != nil {
		t.Fatalf("FreeSpace: %v", err)
	}
	if available == 0 {
		t.Fatal("expected non-zero free space in temp dir")
	}
	if err := EnsureFreeSpace(dir, 1); err != nil {
		t.Fatalf("EnsureFreeSpace(1 byte): %v", err)
	}
}
