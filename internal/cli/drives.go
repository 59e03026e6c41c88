package cli

import (
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/babarot/dormant/internal/drives"
)

type DrivesCommand struct {
	run func(args []string) error
}

func (c *DrivesCommand) Execute(args []string) error {
	return c.run(args)
}

func (c *CLI) drives(_ []string) error {
	list, err := drives.List()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(c.stdout)
	table.SetHeader([]string{"Path", "Type", "Source", "Mode"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, d := range list {
		table.Append([]string{d.Path, d.FSType, d.Source, lo.Ternary(d.ReadOnly, "ro", "rw")})
	}
	table.Render()
	return nil
}
