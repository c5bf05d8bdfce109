package ui

import (
	"fmt"
	"os"
	"strings"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel prints a framed box using the current theme's border.
func Panel(lines []string) {
	fmt.Println(current.Border.Render(strings.Join(lines, "\n")))
}

// PanelString frames content for embedding in a larger view.
func PanelString(inner string) string {
	return current.Border.Render(inner)
}

// OK prints a success line to stdout.
func OK(msg string) {
	fmt.Println(current.Success.Render(current.SymDone + " " + msg))
}

// Fail prints an error line to stderr.
func Fail(msg string) {
	fmt.Fprintln(os.Stderr, current.Error.Render(current.SymCross+" "+msg))
}
