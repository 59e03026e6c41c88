package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func writeFile(t *testing.T, path string, size int, accessed time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	require.NoError(t, os.Chtimes(path, accessed, accessed))
}

// drain collects every event until the stream closes
func drain(t *testing.T, task *Task) ([]Progress, *Report) {
	t.Helper()
	var (
		progress  []Progress
		completed *Report
	)
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-task.Events():
			if !ok {
				return progress, completed
			}
			switch ev := ev.(type) {
			case ProgressEvent:
				require.Nil(t, completed, "progress after completion")
				progress = append(progress, ev.Progress)
			case CompletedEvent:
				require.Nil(t, completed, "completed twice")
				completed = ev.Report
			}
		case <-timeout:
			t.Fatal("scan did not finish")
		}
	}
}

func TestScanExample(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 2*bytesPerMB, testNow.Add(-200*24*time.Hour))
	writeFile(t, filepath.Join(root, "b.txt"), 1*bytesPerMB, testNow)

	task, err := New(WithClock(fixedClock), WithWorkers(2)).Scan(context.Background(), root)
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)

	progress, report := drain(t, task)
	require.Equal(t, []Progress{
		{Scanned: 1, Total: 2, Percent: 50},
		{Scanned: 2, Total: 2, Percent: 100},
	}, progress)

	require.NotNil(t, report)
	require.Equal(t, 2, report.Total)
	require.Len(t, report.Records, 2)
	require.Empty(t, report.Failures)

	byName := map[string]FileRecord{}
	for _, r := range report.Records {
		byName[r.Name] = r
	}
	require.Equal(t, 200, byName["a.txt"].DaysUnused)
	require.InDelta(t, 2.0, byName["a.txt"].SizeMB, 0.001)
	require.Equal(t, filepath.Join(root, "a.txt"), byName["a.txt"].Path)
	require.Equal(t, 0, byName["b.txt"].DaysUnused)
	require.InDelta(t, 3.0, report.TotalSizeMB(), 0.001)

	unused := report.Unused(DefaultUnusedAfter)
	require.Len(t, unused, 1)
	require.Equal(t, "a.txt", unused[0].Name)

	got, err := task.Wait()
	require.NoError(t, err)
	require.Same(t, report, got)
}

func TestScanEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "nested"), 0755))

	task, err := New(WithClock(fixedClock)).Scan(context.Background(), root)
	require.NoError(t, err)

	progress, report := drain(t, task)
	require.Empty(t, progress)
	require.NotNil(t, report)
	require.Equal(t, 0, report.Total)
	require.Empty(t, report.Records)
}

func TestScanProgressInvariants(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 40; i++ {
		dir := filepath.Join(root, fmt.Sprintf("dir%d", i%5))
		writeFile(t, filepath.Join(dir, fmt.Sprintf("f%02d.dat", i)), i, testNow.Add(-time.Duration(i)*24*time.Hour))
	}

	task, err := New(WithClock(fixedClock), WithWorkers(8)).Scan(context.Background(), root)
	require.NoError(t, err)

	progress, report := drain(t, task)
	require.Len(t, progress, 40)
	for i := 1; i < len(progress); i++ {
		require.GreaterOrEqual(t, progress[i].Scanned, progress[i-1].Scanned)
		require.GreaterOrEqual(t, progress[i].Percent, progress[i-1].Percent)
	}
	last := progress[len(progress)-1]
	require.Equal(t, 100, last.Percent)
	require.Equal(t, report.Total, last.Scanned)
	require.Equal(t, report.Total, len(report.Records)+len(report.Failures))
}

func TestScanRecordsFailures(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.txt"), 10, testNow)
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	task, err := New(WithClock(fixedClock)).Scan(context.Background(), root)
	require.NoError(t, err)

	_, report := drain(t, task)
	require.Equal(t, 2, report.Total)
	require.Len(t, report.Records, 1)
	require.Len(t, report.Failures, 1)
	require.Equal(t, filepath.Join(root, "dangling"), report.Failures[0].Path)
}

func TestScanSymlinkToDirectoryIsNotAFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real", "x.txt"), 1, testNow)
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))

	task, err := New(WithClock(fixedClock)).Scan(context.Background(), root)
	require.NoError(t, err)

	_, report := drain(t, task)
	require.Equal(t, 1, report.Total)
}

func TestScanRootInaccessible(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	writeFile(t, file, 1, testNow)

	for _, path := range []string{filepath.Join(root, "missing"), file} {
		task, err := New().Scan(context.Background(), path)
		require.ErrorIs(t, err, ErrRootInaccessible)
		require.Nil(t, task)
	}
}

func TestScanCancel(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 200; i++ {
		writeFile(t, filepath.Join(root, "d", fmt.Sprintf("f%03d", i)), 1, testNow)
	}

	task, err := New(WithClock(fixedClock), WithWorkers(1)).Scan(context.Background(), root)
	require.NoError(t, err)

	// Take one event, then stop reading and cancel
	select {
	case <-task.Events():
	case <-time.After(10 * time.Second):
		t.Fatal("no event")
	}
	task.Cancel()

	report, err := task.Wait()
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, report)

	for ev := range task.Events() {
		_, completed := ev.(CompletedEvent)
		require.False(t, completed, "no completion after cancel")
	}
}

func TestScanParentContextCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 1, testNow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task, err := New().Scan(ctx, root)
	require.NoError(t, err)

	progress, report := drain(t, task)
	require.Empty(t, progress)
	require.Nil(t, report)
	_, err = task.Wait()
	require.ErrorIs(t, err, context.Canceled)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		ago  time.Duration
		want int
	}{
		{name: "now", ago: 0, want: 0},
		{name: "just under a day", ago: 24*time.Hour - time.Second, want: 0},
		{name: "181 days", ago: 181 * 24 * time.Hour, want: 181},
		{name: "future access clamps", ago: -48 * time.Hour, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, daysBetween(testNow.Add(-tt.ago), testNow))
		})
	}
}
