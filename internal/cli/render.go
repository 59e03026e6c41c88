package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/babarot/dormant/internal/config"
	"github.com/babarot/dormant/internal/recovery"
	"github.com/babarot/dormant/internal/scan"
)

type styles struct {
	unused  lipgloss.Style
	success *color.Color
	failure *color.Color
}

func newStyles(cfg config.StyleConfig) styles {
	return styles{
		unused:  lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Unused)),
		success: hexColor(cfg.Success, color.FgHiGreen),
		failure: hexColor(cfg.Failure, color.FgHiRed),
	}
}

// hexColor builds a 24-bit color from "#RRGGBB", falling back to a basic
// attribute when the value is not a hex triplet
func hexColor(hex string, fallback color.Attribute) *color.Color {
	if len(hex) == 7 && hex[0] == '#' {
		if v, err := strconv.ParseUint(hex[1:], 16, 32); err == nil {
			return color.RGB(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff))
		}
	}
	return color.New(fallback)
}

func renderRecordsTable(w io.Writer, records []scan.FileRecord, st styles) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Days Unused", "Size", "Last Accessed", "Path"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, r := range records {
		table.Append([]string{
			st.unused.Render(strconv.Itoa(r.DaysUnused)),
			humanize.Bytes(uint64(r.Size)),
			humanize.Time(r.LastAccessed),
			r.Path,
		})
	}
	table.Render()
}

func renderRecordsJSON(w io.Writer, records []scan.FileRecord) error {
	if records == nil {
		records = []scan.FileRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func renderOutcome(w io.Writer, o recovery.Outcome, st styles) {
	if o.Status == recovery.StatusSuccess {
		fmt.Fprintf(w, "%s %s -> %s\n", st.success.Sprint("recovered"), o.ItemName, o.DestinationPath)
		return
	}
	fmt.Fprintf(w, "%s %s: %s\n", st.failure.Sprint("failed"), o.ItemName, o.ErrorDetail())
}
