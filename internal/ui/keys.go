package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all application key bindings
type KeyMap struct {
	// Global
	Quit   key.Binding
	Escape key.Binding
	Help   key.Binding
	Theme  key.Binding

	// Pages
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding

	// Zoom
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding

	// Bookmarks and sidebar
	AddBookmark    key.Binding
	RemoveBookmark key.Binding
	Bookmarks      key.Binding
	Sidebar        key.Binding
	Focus          key.Binding

	Copy key.Binding
}

// DefaultKeyMap returns the default vim-like key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit/back"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "dismiss/back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "next theme"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "l", "right"),
			key.WithHelp("n/l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "h", "left"),
			key.WithHelp("p/h/←", "previous page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last page"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		ScrollDn: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		ZoomReset: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset zoom"),
		),
		AddBookmark: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "bookmark page"),
		),
		RemoveBookmark: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "remove bookmark"),
		),
		Bookmarks: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmarks"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle sidebar"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "focus sidebar"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy selection"),
		),
	}
}

// helpSection groups bindings shown together in the help overlay
type helpSection struct {
	title    string
	bindings []key.Binding
}

func (k KeyMap) helpSections() []helpSection {
	return []helpSection{
		{"Pages", []key.Binding{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.ScrollDn, k.ScrollUp}},
		{"Zoom", []key.Binding{k.ZoomIn, k.ZoomOut, k.ZoomReset}},
		{"Bookmarks", []key.Binding{k.AddBookmark, k.RemoveBookmark, k.Bookmarks, k.Sidebar, k.Focus}},
		{"General", []key.Binding{k.Copy, k.Theme, k.Escape, k.Quit, k.Help}},
	}
}
