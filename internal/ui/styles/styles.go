package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Colors and styles of the active theme, rebuilt by ApplyTheme
var (
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Border     lipgloss.Color

	// Bars
	TitleBar  lipgloss.Style
	FooterBar lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style

	// Messages
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style
	NoticeStyle  lipgloss.Style

	// List styles
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemDimmed   lipgloss.Style

	// Document view
	PageHeader         lipgloss.Style
	PageProgress       lipgloss.Style
	PageText           lipgloss.Style
	Sidebar            lipgloss.Style
	SidebarFocused     lipgloss.Style
	TabActive          lipgloss.Style
	TabInactive        lipgloss.Style
	BookmarkMarker     lipgloss.Style
	SelectionHighlight lipgloss.Style

	// Translation popover
	Popover      lipgloss.Style
	PopoverQuote lipgloss.Style
	PopoverBody  lipgloss.Style

	// Dialog/Modal styles
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
)

// TruncateText shortens s to width cells, marking the cut with an ellipsis
func TruncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// Dimensions returns styled content with proper dimensions
func Dimensions(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Height(height)
}
