package atomic

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestRenameNoReplace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	// dst appearing after the existence check must survive
	err := renameNoReplace(src, dst)
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("renameNoReplace() error = %v, want %v", err, ErrDestinationExists)
	}
	if got := readFile(t, dst); got != "old" {
		t.Errorf("dst = %q, want it untouched", got)
	}
	if got := readFile(t, src); got != "new" {
		t.Errorf("src = %q, want it in place", got)
	}

	free := filepath.Join(dir, "free")
	if err := renameNoReplace(src, free); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, free); got != "new" {
		t.Errorf("free = %q, want %q", got, "new")
	}
}
