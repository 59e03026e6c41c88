package cli

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/babarot/dormant/internal/recovery"
	"github.com/babarot/dormant/internal/trash"
)

type RecoverCommand struct {
	OnConflict string `long:"on-conflict" description:"What to do when the name is taken (default: recover.on_conflict)" choice:"fail" choice:"overwrite" choice:"rename"`

	Args struct {
		Dest string `positional-arg-name:"DEST" description:"Directory to move the trash into"`
	} `positional-args:"yes" required:"yes"`

	run func(args []string) error
}

func (c *RecoverCommand) Execute(args []string) error {
	return c.run(args)
}

func (c *CLI) trashConfig() *trash.Config {
	return &trash.Config{
		Type:          trash.DefaultType,
		HomeTrashDir:  c.config.Core.TrashDir,
		AllowCrossDev: true,
	}
}

func (c *CLI) recover(_ []string) error {
	opt := c.option.Recover

	onConflict := opt.OnConflict
	if onConflict == "" {
		onConflict = c.config.Recover.OnConflict
	}
	policy, err := recovery.ParsePolicy(onConflict)
	if err != nil {
		return err
	}

	manager, err := trash.NewManager(c.trashConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize trash: %w", err)
	}

	if c.config.Recover.Verbose {
		for _, info := range manager.ListStorages() {
			state := lo.Ternary(info.Available, "", " (unavailable)")
			fmt.Fprintf(c.stderr, "trash: %s [%s]%s\n", info.Root, info.Location, state)
		}
	}

	engine := recovery.New(manager, recovery.WithPolicy(policy))
	stream, err := engine.Recover(opt.Args.Dest)
	if err != nil {
		return err
	}

	st := newStyles(c.config.UI.Style)
	var total, failed int
	for o := range stream {
		total++
		if o.Status == recovery.StatusFailure {
			failed++
		}
		if o.Status == recovery.StatusFailure || c.config.Recover.Verbose {
			renderOutcome(c.stdout, o, st)
		}
	}

	slog.Info("recovery finished", "total", total, "failed", failed, "policy", policy)
	if total == 0 {
		fmt.Fprintln(c.stderr, "trash is empty")
		return nil
	}
	fmt.Fprintf(c.stderr, "%d of %d items recovered\n", total-failed, total)
	if failed > 0 {
		return fmt.Errorf("%d items could not be recovered", failed)
	}
	return nil
}
