package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the lipgloss styles and symbols the views pull from.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Done, Selected, Help                          lipgloss.Style
	Warning, Info                                 lipgloss.Style
	BoxChecked, BoxUnchecked                      string
	SymDone, SymCross                             string
	Border                                        lipgloss.Style
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        lipgloss.NewStyle().Faint(true),
			Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Warning:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Info:         lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
			Help:         lipgloss.NewStyle().Faint(true),
			BoxChecked:   "◼",
			BoxUnchecked: "◻",
			SymDone:      "✔",
			SymCross:     "✖",
			Border:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
		}
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Warning: plain, Info: plain,
			Done:         plain,
			Selected:     plain.Reverse(true),
			Help:         plain,
			BoxChecked:   "[x]",
			BoxUnchecked: "[ ]",
			SymDone:      "x",
			SymCross:     "!",
			Border:       lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		}
	default: // classic
		current = Theme{
			Title:        lipgloss.NewStyle().Bold(true),
			Muted:        lipgloss.NewStyle().Faint(true),
			Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Warning:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Info:         lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
			Help:         lipgloss.NewStyle().Faint(true),
			BoxChecked:   "☑",
			BoxUnchecked: "☐",
			SymDone:      "✔",
			SymCross:     "✖",
			Border:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
		}
	}
}

// Current exposes what renderers need.
func Current() Theme { return current }
