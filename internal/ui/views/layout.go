package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

const (
	// pageColumnsAtFullScale is the line length of a page at 100% zoom
	pageColumnsAtFullScale = 100
	minPageColumns         = 20
)

// pageColumns maps zoom to the wrap width, bounded by what the terminal offers
func pageColumns(scale float64, available int) int {
	cols := int(pageColumnsAtFullScale*scale + 0.5)
	cols = min(cols, available)
	return max(cols, minPageColumns)
}

var textCleaner = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\t", "    ")

// wrapPage breaks page text into display lines no wider than width
func wrapPage(text string, width int) []string {
	text = textCleaner.Replace(text)
	if strings.TrimSpace(text) == "" {
		return []string{""}
	}
	return strings.Split(wrap.String(wordwrap.String(text, width), width), "\n")
}

// highlightSpan renders cells [from, to) of a plain line with style
func highlightSpan(line string, from, to int, style lipgloss.Style) string {
	width := ansi.StringWidth(line)
	from = min(max(from, 0), width)
	to = min(max(to, from), width)
	if from == to {
		return line
	}
	return ansi.Cut(line, 0, from) + style.Render(ansi.Cut(line, from, to)) + ansi.Cut(line, to, width)
}

// resetStyle keeps base styling from bleeding into the overlaid box
const resetStyle = "\x1b[0m"

// overlay draws box over base with its top left corner at cell (x, y)
func overlay(base, box string, x, y int) string {
	lines := strings.Split(base, "\n")
	for i, row := range strings.Split(box, "\n") {
		n := y + i
		if n < 0 || n >= len(lines) {
			continue
		}
		line := lines[n]
		left := ansi.Truncate(line, x, "")
		if pad := x - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(line, x+ansi.StringWidth(row), "")
		lines[n] = left + resetStyle + row + resetStyle + right
	}
	return strings.Join(lines, "\n")
}
