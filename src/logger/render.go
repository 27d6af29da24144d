package logger

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	blockTitleStyle = lipgloss.NewStyle().Bold(true)
	blockStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// RenderBlock frames body in a rounded box headed by title. It is used for
// debug dumps of request envelopes and webhook payloads.
func RenderBlock(title, body string) string {
	body = strings.TrimRight(body, "\n")
	content := blockTitleStyle.Render(title) + "\n" + body
	return blockStyle.Render(content)
}
