// Package sanitize cleans text that is about to leave the resource.
//
// Message files are usually written by build tasks and often carry terminal
// colour codes that Slack would render as garbage. Version summaries are
// shown in the Concourse UI and must stay short.
package sanitize

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Clean strips ANSI escape sequences and trailing line breaks.
func Clean(s string) string {
	return strings.TrimRight(StripANSI(s), "\r\n")
}

// Truncate shortens s to at most maxWidth display columns, ending with an
// ellipsis when anything was cut.
func Truncate(s string, maxWidth int) string {
	s = strings.TrimSpace(s)
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth > 3 {
		return runewidth.Truncate(s, maxWidth-3, "") + "..."
	}
	return runewidth.Truncate(s, maxWidth, "")
}

// SingleLine collapses all whitespace runs, line breaks included, into
// single spaces.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
