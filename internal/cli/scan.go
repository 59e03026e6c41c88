package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/k1LoW/duration"
	"github.com/samber/lo"

	"github.com/babarot/dormant/internal/filter"
	"github.com/babarot/dormant/internal/scan"
)

type ScanCommand struct {
	OlderThan string `long:"older-than" description:"Report files not accessed for this long (default: scan.unused_after)" value-name:"DURATION"`
	All       bool   `short:"a" long:"all" description:"Report every file, not only unused ones"`
	Format    string `long:"format" description:"Output format" choice:"table" choice:"json" default:"table"`

	Args struct {
		Root string `positional-arg-name:"ROOT" description:"Directory to scan"`
	} `positional-args:"yes" required:"yes"`

	run func(args []string) error
}

func (c *ScanCommand) Execute(args []string) error {
	return c.run(args)
}

func (c *CLI) threshold() (time.Duration, error) {
	if s := c.option.Scan.OlderThan; s != "" {
		d, err := duration.Parse(s)
		if err != nil {
			return 0, fmt.Errorf("--older-than: %w", err)
		}
		return d, nil
	}
	return c.config.Scan.Threshold()
}

func (c *CLI) scan(ctx context.Context, _ []string) error {
	opt := c.option.Scan

	threshold, err := c.threshold()
	if err != nil {
		return err
	}

	scanner := scan.New(
		scan.WithWorkers(c.config.Scan.Workers),
		scan.WithMIME(c.config.Scan.DetectMIME),
	)
	task, err := scanner.Scan(ctx, opt.Args.Root)
	if err != nil {
		return err
	}
	slog.Info("scan task started", "task", task.ID, "root", task.Root, "threshold", threshold)

	progress := newProgressReporter(c.config.UI.Progress, c.stderr)
	for ev := range task.Events() {
		if p, ok := ev.(scan.ProgressEvent); ok {
			progress.Update(p.Progress)
		}
	}
	progress.Finish()

	report, err := task.Wait()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("scan cancelled")
		}
		return err
	}

	slog.Info("scan finished", "task", task.ID, "total", report.Total, "total_mb", report.TotalSizeMB(), "failures", len(report.Failures))

	records := report.Records
	if !opt.All {
		records = report.Unused(threshold)
	}
	ex := c.config.Scan.Exclude
	records = filter.Filter(records, filter.Options{
		Files:    ex.Files,
		Patterns: ex.Patterns,
		Globs:    ex.Globs,
		MinSize:  ex.Size.Min,
		MaxSize:  ex.Size.Max,
	})

	if opt.Format == "json" {
		return renderRecordsJSON(c.stdout, records)
	}

	renderRecordsTable(c.stdout, records, newStyles(c.config.UI.Style))

	size := lo.SumBy(records, func(r scan.FileRecord) int64 { return r.Size })
	fmt.Fprintf(c.stderr, "\n%d of %d files listed (%s)", len(records), report.Total, humanize.Bytes(uint64(size)))
	if n := len(report.Failures); n > 0 {
		fmt.Fprintf(c.stderr, ", %d could not be read", n)
	}
	fmt.Fprintln(c.stderr)

	for _, f := range report.Failures {
		slog.Warn("unreadable file", "path", f.Path, "error", f.Err)
	}
	return nil
}
