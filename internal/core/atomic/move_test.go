package atomic

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestMove(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, src, dst string)
		opts    MoveOptions
		wantErr error
		wantDst string
		keepSrc bool
	}{
		{
			name: "plain file",
			setup: func(t *testing.T, src, dst string) {
				writeFile(t, src, "new")
			},
			wantDst: "new",
		},
		{
			name: "destination exists without force",
			setup: func(t *testing.T, src, dst string) {
				writeFile(t, src, "new")
				writeFile(t, dst, "old")
			},
			wantErr: ErrDestinationExists,
			wantDst: "old",
			keepSrc: true,
		},
		{
			name: "destination exists with force",
			setup: func(t *testing.T, src, dst string) {
				writeFile(t, src, "new")
				writeFile(t, dst, "old")
			},
			opts:    MoveOptions{Force: true},
			wantDst: "new",
		},
		{
			name:    "missing source",
			setup:   func(t *testing.T, src, dst string) {},
			wantErr: ErrSourceNotFound,
		},
		{
			name: "creates parent directories",
			setup: func(t *testing.T, src, dst string) {
				writeFile(t, src, "nested")
			},
			wantDst: "nested",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src", "file.txt")
			dst := filepath.Join(dir, "dst", "a", "file.txt")
			tt.setup(t, src, dst)

			err := Move(src, dst, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Move() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Move() unexpected error: %v", err)
			}

			if tt.wantDst != "" {
				if got := readFile(t, dst); got != tt.wantDst {
					t.Errorf("destination content = %q, want %q", got, tt.wantDst)
				}
			}

			_, statErr := os.Stat(src)
			if tt.keepSrc && statErr != nil {
				t.Errorf("source should still exist: %v", statErr)
			}
			if !tt.keepSrc && !os.IsNotExist(statErr) {
				t.Errorf("source should be gone, stat err = %v", statErr)
			}
		})
	}
}

func TestMoveForceLeavesNoBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "out", "dst.txt")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	if err := Move(src, dst, MoveOptions{Force: true}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the destination, got %d entries", len(entries))
	}
}

func TestCopyAndDelete(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "b")
	dst := filepath.Join(dir, "copied")

	if err := copyAndDelete(src, dst); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dst, "sub", "b.txt")); got != "b" {
		t.Errorf("got %q, want %q", got, "b")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source tree should be removed")
	}
}

func TestMoveErrorUnwrap(t *testing.T) {
	err := NewMoveError("rename", "a", "b", ErrCrossDeviceMove)
	if !IsCrossDevice(err) {
		t.Error("IsCrossDevice should see through MoveError")
	}
	var me *MoveError
	if !errors.As(err, &me) || me.Op != "rename" {
		t.Errorf("errors.As failed: %v", err)
	}
}
