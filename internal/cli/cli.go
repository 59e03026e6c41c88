package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/xid"

	"github.com/babarot/dormant/internal/config"
	"github.com/babarot/dormant/internal/env"
	"github.com/babarot/dormant/internal/utils/debug"
	"github.com/babarot/dormant/internal/utils/log"
)

type Option struct {
	Config string `long:"config" description:"Path to config file" default:""`

	Meta MetaOption `group:"Meta Options"`

	Scan    ScanCommand    `command:"scan" description:"Find files that have not been accessed for a long time"`
	Monitor MonitorCommand `command:"monitor" description:"Report file deletions under a folder until interrupted"`
	Recover RecoverCommand `command:"recover" description:"Move everything in the trash to a folder"`
	Drives  DrivesCommand  `command:"drives" description:"List the drives that can be scanned"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string

	stdout io.Writer
	stderr io.Writer
}

var runID = sync.OnceValue(func() string {
	return xid.New().String()
})

func Run(v Version) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &CLI{
		version: v,
		runID:   runID(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	return c.Run(ctx, os.Args[1:])
}

// Run parses args and executes the selected command
func (c *CLI) Run(ctx context.Context, args []string) error {
	parser := flags.NewParser(&c.option, flags.Default)
	parser.Name = c.version.AppName
	parser.SubcommandsOptional = true

	c.option.Scan.run = func(args []string) error { return c.scan(ctx, args) }
	c.option.Monitor.run = func(args []string) error { return c.monitor(ctx, args) }
	c.option.Recover.run = func(args []string) error { return c.recover(args) }
	c.option.Drives.run = func(args []string) error { return c.drives(args) }

	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if c.option.Meta.Version {
			fmt.Fprint(c.stdout, c.version.Print())
			return nil
		}

		closer, err := c.setup()
		if err != nil {
			return err
		}
		defer closer.Close()

		defer slog.Debug("command finished")
		slog.Debug("command started", "version", c.version.Version, "revision", c.version.Revision, "args", args)

		switch c.option.Meta.Debug {
		case "live":
			return debug.Logs(c.stdout, env.DORMANT_LOG_PATH, c.config.Core.Logging.Enabled, true)
		case "full":
			return debug.Logs(c.stdout, env.DORMANT_LOG_PATH, c.config.Core.Logging.Enabled, false)
		}

		if cmd == nil {
			parser.WriteHelp(c.stderr)
			return errors.New("no command given")
		}
		if err := cmd.Execute(args); err != nil {
			slog.Error("exit", "error", fmt.Errorf("command failed: %w", err))
			return err
		}
		return nil
	}

	if _, err := parser.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}
	return nil
}

// setup loads the config and installs the default logger
func (c *CLI) setup() (io.Closer, error) {
	cfg, err := config.Parse(c.option.Config)
	if err != nil {
		return nil, err
	}
	c.config = cfg

	logging := cfg.Core.Logging
	if !logging.Enabled {
		log.New(log.UseOutput(io.Discard), log.AsDefault())
		return io.NopCloser(nil), nil
	}

	w, err := log.NewRotateWriter(env.DORMANT_LOG_PATH, logging.Rotation.MaxSize, logging.Rotation.MaxFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.New(
		log.UseOutput(w),
		log.UseLevel(log.ParseLevel(logging.Level)),
		log.UseReportCaller(true),
		log.UseReportTimestamp(true),
		log.UseTimeFormat(time.DateTime),
		log.With("run_id", c.runID),
		log.AsDefault(),
	)
	return w, nil
}
