package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "lightdance_data.txt")

	res, err := WriteFileAtomic(dst, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello world")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if res.Bytes != int64(len("hello world")) || res.Path != dst {
		t.Fatalf("unexpected result %+v", res)
	}
	// sha256("hello world")
	const want = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if res.SHA256 != want {
		t.Fatalf("sha mismatch: got %s", res.SHA256)
	}
	sum, err := FileSHA256(dst)
	if err != nil || sum != want {
		t.Fatalf("FileSHA256 = %s, %v", sum, err)
	}
}

func TestWriteFileAtomicMode(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "times.txt")
	if _, err := WriteFileAtomic(dst, 0o600, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "0\n500")
		return err
	}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode mismatch: got %o, want 600", info.Mode().Perm())
	}
}

func TestWriteFileAtomicKeepsPreviousOnFailure(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(dst, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	_, err := WriteFileAtomic(dst, 0o644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Fatalf("previous content should survive, got %q", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file should be removed, found %d entries", len(entries))
	}
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "missing", "data.txt")
	if _, err := WriteFileAtomic(dst, 0o644, func(io.Writer) error { return nil }); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestFileSHA256_MissingFile(t *testing.T) {
	if _, err := FileSHA256(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
