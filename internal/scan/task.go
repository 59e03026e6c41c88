package scan

import (
	"context"
	"log/slog"
)

// Task is one running scan
type Task struct {
	ID   string
	Root string

	events chan Event
	cancel context.CancelFunc
	done   chan struct{}

	report *Report
	err    error
}

// Events streams progress and then the completed report. The channel is
// closed when the task ends and must be drained until then.
func (t *Task) Events() <-chan Event {
	return t.events
}

// Cancel stops the scan at the next file boundary. No event is sent once
// the cancellation has been observed.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed when the task has ended
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task ends. A cancelled task returns the context
// error and no report.
func (t *Task) Wait() (*Report, error) {
	<-t.done
	return t.report, t.err
}

func (t *Task) run(ctx context.Context, s *Scanner) {
	defer close(t.done)
	defer t.cancel()
	defer close(t.events)

	report, err := s.scan(ctx, t)
	if err == nil && !t.emit(ctx, CompletedEvent{Report: report}) {
		report, err = nil, ctx.Err()
	}
	t.report, t.err = report, err

	if err != nil {
		slog.Debug("scan ended", "task", t.ID, "error", err)
		return
	}
	slog.Debug("scan completed", "task", t.ID,
		"total", report.Total, "records", len(report.Records), "failures", len(report.Failures))
}

// emit sends ev unless ctx is done, and reports whether it was sent
func (t *Task) emit(ctx context.Context, ev Event) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case t.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
