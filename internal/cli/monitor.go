package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/babarot/dormant/internal/drives"
	"github.com/babarot/dormant/internal/monitor"
)

type MonitorCommand struct {
	For time.Duration `long:"for" description:"Stop after this long (default: until interrupted)" value-name:"DURATION"`

	Args struct {
		Folder string `positional-arg-name:"FOLDER" description:"Directory to watch"`
	} `positional-args:"yes" required:"yes"`

	run func(args []string) error
}

func (c *MonitorCommand) Execute(args []string) error {
	return c.run(args)
}

func (c *CLI) monitor(ctx context.Context, _ []string) error {
	opt := c.option.Monitor

	watcher, err := monitor.NewWatcher(c.config.Monitor.Backend)
	if err != nil {
		return err
	}

	c.warnRemoteFS(opt.Args.Folder)

	m := monitor.New(watcher)
	stream, err := m.Start(opt.Args.Folder)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "watching %s for deletions, press Ctrl-C to stop\n", opt.Args.Folder)

	var cancel context.CancelFunc
	if opt.For > 0 {
		ctx, cancel = context.WithTimeout(ctx, opt.For)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	// The stream ends when the monitor is stopped
	g.Go(func() error {
		for ev := range stream {
			fmt.Fprintf(c.stdout, "%s\t%s\n", ev.OccurredAt.Format(time.DateTime), ev.Path)
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return m.Stop()
			case err := <-m.Errors():
				slog.Warn("monitor error", "error", err)
				fmt.Fprintf(c.stderr, "warning: %v\n", err)
			}
		}
	})

	return g.Wait()
}

// Kernel notifications don't cover changes made by other hosts
var remoteFSTypes = map[string]bool{
	"nfs":        true,
	"nfs4":       true,
	"cifs":       true,
	"smb3":       true,
	"smbfs":      true,
	"afpfs":      true,
	"9p":         true,
	"fuse.sshfs": true,
	"webdav":     true,
}

func (c *CLI) warnRemoteFS(folder string) {
	list, err := drives.List()
	if err != nil {
		slog.Debug("failed to list drives", "error", err)
		return
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return
	}
	if d, ok := drives.MountPointOf(list, abs); ok && remoteFSTypes[d.FSType] {
		fmt.Fprintf(c.stderr, "warning: %s is on a %s mount, deletions made by other hosts are not reported\n", d.Path, d.FSType)
	}
}
