package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

var (
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	alterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F080")) // yellow

	containerStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#CCCCCC"))
)

// printDeprecated renders a boxed notice about a deprecated config field to stderr
func printDeprecated(fieldName string, info *Deprecation) {
	header := warningStyle.Render("Warning: ") + fmt.Sprintf("Field '%s' is deprecated", fieldName)
	if info != nil && info.StrictMode {
		header = errorStyle.Render("Error: ") + fmt.Sprintf("Field '%s' is already retired", fieldName)
	}

	var messages []string
	if info != nil {
		if info.Alternative != "" {
			messages = append(messages,
				fmt.Sprintf("Please use '%s' instead", alterStyle.Render(info.Alternative)))
		}
		if !info.DeprecatedAt.IsZero() {
			messages = append(messages, infoStyle.Render(
				fmt.Sprintf("Deprecated since: %s", info.DeprecatedAt.Format("2006-01-02"))))
		}
		if !info.RemovalDate.IsZero() {
			messages = append(messages, infoStyle.Render(
				lo.Ternary(
					time.Now().After(info.RemovalDate),
					fmt.Sprintf("Removed at: %s", info.RemovalDate.Format("2006-01-02")),
					fmt.Sprintf("Planned removal date: %s", info.RemovalDate.Format("2006-01-02")),
				),
			))
		}
	}

	body := header
	if len(messages) > 0 {
		body = header + "\n" + lipgloss.JoinVertical(lipgloss.Left, messages...)
	}
	fmt.Fprintln(os.Stderr, containerStyle.Render(body))
}
