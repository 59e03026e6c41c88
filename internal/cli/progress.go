package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"

	"github.com/babarot/dormant/internal/scan"
)

// progressReporter shows scan progress to the user
type progressReporter interface {
	Update(p scan.Progress)
	Finish()
}

const barTemplate = `{{ string . "prefix" }}{{ counters . }} {{ bar . "[" "=" ">" " " "]" }} {{ percent . }} {{ etime . }}`

// newProgressReporter picks the reporter for mode ("bar", "log" or
// "none"). A bar needs a terminal; otherwise progress is logged.
func newProgressReporter(mode string, w io.Writer) progressReporter {
	switch mode {
	case "none":
		return nopProgress{}
	case "bar":
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return &barProgress{w: w}
		}
	}
	return &logProgress{
		w: w,
		sometimes: rate.Sometimes{
			First:    1,
			Interval: 2 * time.Second,
		},
	}
}

type nopProgress struct{}

func (nopProgress) Update(scan.Progress) {}
func (nopProgress) Finish()              {}

type barProgress struct {
	w   io.Writer
	bar *pb.ProgressBar
}

func (b *barProgress) Update(p scan.Progress) {
	if b.bar == nil {
		// Total is only known once the pre-pass is over
		b.bar = pb.New(p.Total)
		b.bar.SetWriter(b.w)
		b.bar.SetTemplateString(barTemplate)
		b.bar.Set("prefix", "scanning ")
		b.bar.Start()
	}
	b.bar.SetCurrent(int64(p.Scanned))
}

func (b *barProgress) Finish() {
	if b.bar != nil {
		b.bar.Finish()
	}
}

type logProgress struct {
	w         io.Writer
	sometimes rate.Sometimes
	last      scan.Progress
}

func (l *logProgress) Update(p scan.Progress) {
	l.last = p
	l.sometimes.Do(func() {
		l.print(p)
	})
}

func (l *logProgress) Finish() {
	if l.last.Total > 0 {
		l.print(l.last)
	}
}

func (l *logProgress) print(p scan.Progress) {
	slog.Info("scan progress", "scanned", p.Scanned, "total", p.Total, "percent", p.Percent)
	fmt.Fprintf(l.w, "scanned %d/%d files (%d%%)\n", p.Scanned, p.Total, p.Percent)
}
