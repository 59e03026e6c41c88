// Package scan walks a directory tree and records when each file was last
// accessed, streaming progress while it goes.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultUnusedAfter is the age past which a file counts as unused
const DefaultUnusedAfter = 180 * 24 * time.Hour

// ErrRootInaccessible is returned by Scan when the root cannot be listed
var ErrRootInaccessible = errors.New("scan root is not an accessible directory")

// Scanner starts scan tasks. It holds no per-scan state and can run any
// number of tasks at once.
type Scanner struct {
	workers    int
	clock      func() time.Time
	detectMIME bool
}

type Option func(*Scanner)

// WithWorkers sets how many goroutines stat files. Zero or less means one
// per CPU.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock replaces time.Now as the source of the scan time
func WithClock(clock func() time.Time) Option {
	return func(s *Scanner) {
		s.clock = clock
	}
}

// WithMIME enables content type detection for every record
func WithMIME(enabled bool) Option {
	return func(s *Scanner) {
		s.detectMIME = enabled
	}
}

func New(opts ...Option) *Scanner {
	s := &Scanner{
		workers: runtime.NumCPU(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan checks root and starts a task over it. The error is non-nil only
// when root is not a readable directory, in which case nothing runs.
func (s *Scanner) Scan(ctx context.Context, root string) (*Task, error) {
	abs, err := checkRoot(root)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		ID:     uuid.NewString(),
		Root:   abs,
		events: make(chan Event, 64),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	slog.Debug("scan started", "task", t.ID, "root", abs, "workers", s.workers)

	go t.run(ctx, s)
	return t, nil
}

func checkRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRootInaccessible, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRootInaccessible, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrRootInaccessible, abs)
	}

	f, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRootInaccessible, err)
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrRootInaccessible, err)
	}

	return abs, nil
}

// isFile reports whether an entry counts as a file: anything but a
// directory or a symlink to one
func isFile(path string, d fs.DirEntry) bool {
	if d.IsDir() {
		return false
	}
	if d.Type()&fs.ModeSymlink != 0 {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			return false
		}
	}
	return true
}

// collect is the pre-pass. It returns every file under root in discovery
// order, plus the subdirectories that could not be read.
func (s *Scanner) collect(ctx context.Context, root string) ([]string, []FileError, error) {
	type found struct {
		path string
		err  error
	}
	foundCh := make(chan found, 1024)

	var (
		paths   []string
		skipped []FileError
		done    = make(chan struct{})
	)
	go func() {
		defer close(done)
		for f := range foundCh {
			if f.err != nil {
				skipped = append(skipped, FileError{Path: f.path, Err: f.err})
				continue
			}
			paths = append(paths, f.path)
		}
	}()

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: s.workers,
	}
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("skipping unreadable directory", "path", path, "error", err)
			foundCh <- found{path: path, err: err}
			return nil
		}
		if path == root || !isFile(path, d) {
			return nil
		}
		foundCh <- found{path: path}
		return nil
	})

	close(foundCh)
	<-done

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if walkErr != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRootInaccessible, walkErr)
	}
	return paths, skipped, nil
}

// visit stats one file. Exactly one of the results is set.
func (s *Scanner) visit(path string, scannedAt time.Time) (*FileRecord, *FileError) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	if fi.IsDir() {
		return nil, &FileError{Path: path, Err: errors.New("became a directory during scan")}
	}

	accessed := accessTime(fi).Truncate(time.Second)
	rec := &FileRecord{
		Path:         path,
		Name:         filepath.Base(path),
		Size:         fi.Size(),
		SizeMB:       float64(fi.Size()) / bytesPerMB,
		LastAccessed: accessed,
		LastModified: fi.ModTime().Truncate(time.Second),
		DaysUnused:   daysBetween(accessed, scannedAt),
	}

	if s.detectMIME && fi.Mode().IsRegular() {
		if mt, err := mimetype.DetectFile(path); err == nil {
			rec.MIME = mt.String()
		} else {
			slog.Debug("mime detection failed", "path", path, "error", err)
		}
	}
	return rec, nil
}

func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

type result struct {
	index  int
	record *FileRecord
	err    *FileError
}

// scan runs both passes and returns the report. It emits progress through
// t and returns ctx.Err() once cancellation is seen.
func (s *Scanner) scan(ctx context.Context, t *Task) (*Report, error) {
	scannedAt := s.clock()

	paths, skipped, err := s.collect(ctx, t.Root)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Root:        t.Root,
		Total:       len(paths),
		ScannedAt:   scannedAt,
		SkippedDirs: skipped,
	}
	if report.Total == 0 {
		return report, nil
	}

	results := make(chan result)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	go func() {
		defer close(results)
		for i, path := range paths {
			i, path := i, path
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, ferr := s.visit(path, scannedAt)
				select {
				case results <- result{index: i, record: rec, err: ferr}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		_ = g.Wait()
	}()

	// Single collector: no lock is held while workers do I/O
	records := make([]*FileRecord, report.Total)
	failures := make([]*FileError, report.Total)
	scanned := 0
	for r := range results {
		scanned++
		records[r.index] = r.record
		if r.err != nil {
			failures[r.index] = r.err
			slog.Warn("failed to read file", "path", r.err.Path, "error", r.err.Err)
		}
		t.emit(ctx, ProgressEvent{newProgress(scanned, report.Total)})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range paths {
		if records[i] != nil {
			report.Records = append(report.Records, *records[i])
		}
		if failures[i] != nil {
			report.Failures = append(report.Failures, *failures[i])
		}
	}
	return report, nil
}
