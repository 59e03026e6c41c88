package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/babarot/dormant/internal/scan"
)

func newTestCLI(t *testing.T, trashDir, extraConfig string) (*CLI, *bytes.Buffer, *bytes.Buffer, string) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "core:\n  logging:\n    enabled: false\n"
	if trashDir != "" {
		content += "  trash_dir: " + trashDir + "\n"
	}
	content += "ui:\n  progress: none\n" + extraConfig
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	var stdout, stderr bytes.Buffer
	c := &CLI{
		version: Version{AppName: "dormant", Version: "v0.0.0-test"},
		runID:   "test",
		stdout:  &stdout,
		stderr:  &stderr,
	}
	return c, &stdout, &stderr, cfgPath
}

func TestVersion(t *testing.T) {
	c, stdout, _, _ := newTestCLI(t, "", "")
	require.NoError(t, c.Run(context.Background(), []string{"--version"}))
	require.Contains(t, stdout.String(), "version: v0.0.0-test")
}

func TestScanCommandJSON(t *testing.T) {
	root := t.TempDir()
	old := time.Now().Add(-400 * 24 * time.Hour)
	for name, atime := range map[string]time.Time{
		"old.log":   old,
		"fresh.txt": time.Now(),
		".DS_Store": old,
	} {
		p := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(p, []byte("data"), 0644))
		require.NoError(t, os.Chtimes(p, atime, atime))
	}

	c, stdout, _, cfg := newTestCLI(t, "", "")
	err := c.Run(context.Background(), []string{"--config", cfg, "scan", "--format", "json", root})
	require.NoError(t, err)

	var records []scan.FileRecord
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &records))
	require.Len(t, records, 1, "fresh files and excluded names are left out")
	require.Equal(t, "old.log", records[0].Name)
	require.GreaterOrEqual(t, records[0].DaysUnused, 399)
}

func TestScanCommandAllTable(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("b"), 0644))

	c, stdout, stderr, cfg := newTestCLI(t, "", "")
	err := c.Run(context.Background(), []string{"--config", cfg, "scan", "--all", "--older-than", "1 day", root})
	require.NoError(t, err)
	require.Contains(t, stdout.String(), filepath.Join(root, "a.txt"))
	require.Contains(t, stdout.String(), filepath.Join(root, "b.txt"))
	require.Contains(t, stderr.String(), "2 of 2 files listed")
}

func TestScanCommandMissingRoot(t *testing.T) {
	c, _, _, cfg := newTestCLI(t, "", "")
	err := c.Run(context.Background(), []string{"--config", cfg, "scan", filepath.Join(t.TempDir(), "missing")})
	require.ErrorIs(t, err, scan.ErrRootInaccessible)
}

func TestRecoverCommand(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("uses the freedesktop trash layout")
	}
	trashDir := filepath.Join(t.TempDir(), "Trash")
	for _, sub := range []string{"files", "info"} {
		require.NoError(t, os.MkdirAll(filepath.Join(trashDir, sub), 0700))
	}
	for _, name := range []string{"a.txt", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(trashDir, "files", name), []byte(name), 0600))
		info := "[Trash Info]\nPath=/home/user/" + name + "\nDeletionDate=2025-05-05T10:00:00\n"
		require.NoError(t, os.WriteFile(filepath.Join(trashDir, "info", name+".trashinfo"), []byte(info), 0600))
	}

	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "b.txt"), []byte("mine"), 0644))

	c, stdout, stderr, cfg := newTestCLI(t, trashDir, "recover:\n  on_conflict: fail\n  verbose: true\n")

	err := c.Run(context.Background(), []string{"--config", cfg, "recover", dest})
	require.Error(t, err, "one item collides")
	require.Contains(t, stdout.String(), "recovered a.txt")
	require.Contains(t, stdout.String(), "failed b.txt")
	require.Contains(t, stderr.String(), "1 of 2 items recovered")
	require.Contains(t, stderr.String(), "trash: "+trashDir+" [home]")

	// Rename policy recovers the rest
	stdout.Reset()
	err = c.Run(context.Background(), []string{"--config", cfg, "recover", "--on-conflict", "rename", dest})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dest, "b.txt_1"))
}

func TestRecoverCommandInvalidDestination(t *testing.T) {
	c, _, _, cfg := newTestCLI(t, t.TempDir(), "")
	err := c.Run(context.Background(), []string{"--config", cfg, "recover", filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestDrivesCommand(t *testing.T) {
	c, stdout, _, cfg := newTestCLI(t, "", "")
	require.NoError(t, c.Run(context.Background(), []string{"--config", cfg, "drives"}))
	require.NotEmpty(t, stdout.String())
}

func TestNoCommand(t *testing.T) {
	c, _, _, cfg := newTestCLI(t, "", "")
	require.Error(t, c.Run(context.Background(), []string{"--config", cfg}))
}
