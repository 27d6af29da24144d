package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "color codes",
			input:    "\x1b[31mERROR\x1b[0m: something failed",
			expected: "ERROR: something failed",
		},
		{
			name:     "no ANSI",
			input:    "plain text message",
			expected: "plain text message",
		},
		{
			name:     "multiple codes",
			input:    "\x1b[1m\x1b[31mbold red\x1b[0m normal",
			expected: "bold red normal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripANSI(tt.input))
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "tests passed\nall green", Clean("\x1b[32mtests passed\x1b[0m\nall green\n\n"))
	assert.Equal(t, "", Clean("\n"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{name: "fits", input: "short", width: 10, expected: "short"},
		{name: "exact", input: "exactly10!", width: 10, expected: "exactly10!"},
		{name: "cut with ellipsis", input: "this is far too long", width: 10, expected: "this is..."},
		{name: "tiny width", input: "abcdef", width: 2, expected: "ab"},
		{name: "zero width", input: "abc", width: 0, expected: ""},
		{name: "wide runes", input: "日本語テキスト", width: 7, expected: "日本..."},
		{name: "trims spaces", input: "  padded  ", width: 10, expected: "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.width))
		})
	}
}

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "a b c", SingleLine("a\n b\t\tc \n"))
}
