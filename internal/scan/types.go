package scan

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

const bytesPerMB = 1024 * 1024

// FileRecord describes one file seen by a scan
type FileRecord struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	SizeMB       float64   `json:"size_mb"`
	LastAccessed time.Time `json:"last_accessed"`
	LastModified time.Time `json:"last_modified"`

	// DaysUnused is the number of whole days between LastAccessed and
	// the scan time, never negative
	DaysUnused int `json:"days_unused"`

	// MIME is only set when detection is enabled
	MIME string `json:"mime,omitempty"`
}

func (r FileRecord) GetName() string { return r.Name }
func (r FileRecord) GetSize() int64  { return r.Size }

// Progress is a snapshot taken after each file of the main pass
type Progress struct {
	Scanned int `json:"scanned"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

func newProgress(scanned, total int) Progress {
	p := Progress{Scanned: scanned, Total: total}
	if total > 0 {
		p.Percent = scanned * 100 / total
	}
	return p
}

// FileError records a path the scan could not read
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Report is the result of a completed scan. Records and Failures together
// account for exactly Total files.
type Report struct {
	Root      string       `json:"root"`
	Records   []FileRecord `json:"records"`
	Failures  []FileError  `json:"-"`
	Total     int          `json:"total"`
	ScannedAt time.Time    `json:"scanned_at"`

	// SkippedDirs are directories below Root that could not be listed.
	// Files inside them are not part of Total.
	SkippedDirs []FileError `json:"-"`
}

// Unused returns the records whose last access is more than threshold
// before the scan time, in report order
func (r *Report) Unused(threshold time.Duration) []FileRecord {
	return lo.Filter(r.Records, func(rec FileRecord, _ int) bool {
		return r.ScannedAt.Sub(rec.LastAccessed) > threshold
	})
}

// TotalSizeMB sums the size of every record
func (r *Report) TotalSizeMB() float64 {
	return lo.SumBy(r.Records, func(rec FileRecord) float64 { return rec.SizeMB })
}

// Event is sent on a task's event stream: a ProgressEvent per file, then
// one CompletedEvent unless the scan was cancelled
type Event interface {
	isEvent()
}

type ProgressEvent struct {
	Progress
}

type CompletedEvent struct {
	Report *Report
}

func (ProgressEvent) isEvent()  {}
func (CompletedEvent) isEvent() {}
