package xdg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/babarot/dormant/internal/core/atomic"
	"github.com/babarot/dormant/internal/trash/core"
)

func newTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Trash")
	s, err := NewStorage(core.Config{HomeTrashDir: root, SkipExternal: true, AllowCrossDev: true})
	require.NoError(t, err)
	return s, root
}

// trashFile places content in the trash the way a desktop would
func trashFile(t *testing.T, root, trashName, original, content string, deleted time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "files", trashName), []byte(content), 0600))
	info := &TrashInfo{Path: original, DeletionDate: deleted}
	require.NoError(t, writeInfo(filepath.Join(root, "info", trashName+trashInfoExt), info))
}

func TestNewStorageCreatesHomeTrash(t *testing.T) {
	_, root := newTestStorage(t)
	for _, sub := range []string{"files", "info"} {
		fi, err := os.Stat(filepath.Join(root, sub))
		require.NoError(t, err)
		require.True(t, fi.IsDir())
	}
}

func TestListEmpty(t *testing.T) {
	s, _ := newTestStorage(t)
	files, err := s.List()
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestList(t *testing.T) {
	s, root := newTestStorage(t)
	deleted := time.Date(2025, 4, 1, 10, 30, 0, 0, time.Local)

	trashFile(t, root, "a.txt", "/home/user/docs/a.txt", "aaa", deleted)
	trashFile(t, root, "b.txt", "/home/user/my notes/b.txt", "b", deleted)
	trashFile(t, root, "a.txt_1", "/tmp/a.txt", "a2", deleted)

	// An orphan without .trashinfo is not an item
	require.NoError(t, os.WriteFile(filepath.Join(root, "files", "orphan"), nil, 0600))

	files, err := s.List()
	require.NoError(t, err)
	require.Len(t, files, 3)

	// files/ directory order
	require.Equal(t, "a.txt", files[0].Name)
	require.Equal(t, "/home/user/docs/a.txt", files[0].OriginalPath)
	require.Equal(t, filepath.Join(root, "files", "a.txt"), files[0].TrashPath)
	require.Equal(t, int64(3), files[0].Size)
	require.True(t, files[0].DeletedAt.Equal(deleted))

	require.Equal(t, "a.txt", files[1].Name)
	require.Equal(t, filepath.Join(root, "files", "a.txt_1"), files[1].TrashPath)

	require.Equal(t, "b.txt", files[2].Name)
	require.Equal(t, "/home/user/my notes/b.txt", files[2].OriginalPath)
	require.Same(t, core.Store(s), files[2].GetStorage())
}

func TestMove(t *testing.T) {
	s, root := newTestStorage(t)
	trashFile(t, root, "report.pdf", "/home/user/report.pdf", "pdf", time.Now())

	files, err := s.List()
	require.NoError(t, err)
	require.Len(t, files, 1)

	dst := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, s.Move(files[0], dst, false))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "pdf", string(got))

	_, err = os.Stat(filepath.Join(root, "info", "report.pdf"+trashInfoExt))
	require.True(t, os.IsNotExist(err), "trashinfo should be removed")

	files, err = s.List()
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestMoveCollision(t *testing.T) {
	s, root := newTestStorage(t)
	trashFile(t, root, "x.txt", "/x.txt", "trashed", time.Now())
	files, err := s.List()
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(dst, []byte("existing"), 0644))

	err = s.Move(files[0], dst, false)
	require.ErrorIs(t, err, atomic.ErrDestinationExists)
	require.FileExists(t, files[0].TrashPath, "item stays in the trash")

	require.NoError(t, s.Move(files[0], dst, true))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "trashed", string(got))
}

func TestMoveVanished(t *testing.T) {
	s, root := newTestStorage(t)
	trashFile(t, root, "gone.txt", "/gone.txt", "x", time.Now())
	files, err := s.List()
	require.NoError(t, err)

	require.NoError(t, os.Remove(files[0].TrashPath))

	err = s.Move(files[0], filepath.Join(t.TempDir(), "gone.txt"), false)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestMoveForeignFile(t *testing.T) {
	s, _ := newTestStorage(t)
	foreign := &core.File{Name: "f", TrashPath: filepath.Join(t.TempDir(), "f")}
	err := s.Move(foreign, filepath.Join(t.TempDir(), "f"), false)
	require.ErrorIs(t, err, core.ErrNotOwned)
}

func TestLocations(t *testing.T) {
	s, root := newTestStorage(t)
	mounted := filepath.Join(t.TempDir(), ".Trash-1000")
	require.NoError(t, os.MkdirAll(filepath.Join(mounted, "files"), 0700))
	unplugged := filepath.Join(t.TempDir(), "gone", ".Trash-1000")
	s.externalTrashes = []*trashLocation{
		newTrashLocation(mounted, filepath.Dir(mounted), false),
		newTrashLocation(unplugged, filepath.Dir(unplugged), false),
	}

	locs := s.Locations()
	require.Len(t, locs, 3)
	require.Equal(t, root, locs[0].Root)
	require.Equal(t, core.LocationHome, locs[0].Location)

	require.Equal(t, mounted, locs[1].Root)
	require.Equal(t, core.LocationExternal, locs[1].Location)
	require.True(t, locs[1].Available)

	require.Equal(t, core.LocationExternal, locs[2].Location)
	require.False(t, locs[2].Available)
}
