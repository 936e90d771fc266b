// Package util provides terminal text helpers shared by the TUI and the CLI
// table output. Widths are display columns: CJK characters count as two and
// ANSI escape sequences count as zero.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// TruncateANSI truncates a string to maxWidth visual columns, adding "..." if truncated.
// Escape sequences are preserved.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= len(Ellipsis) {
		return Ellipsis
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// FitWidth truncates s to width columns and pads it with spaces so the result
// is exactly width columns wide.
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		s = TruncateANSI(s, width)
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// Indent prefixes every non-empty line of s with n spaces.
func Indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
