package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/webby-pdf/internal/config"
	"github.com/justyntemme/webby-pdf/internal/document"
	"github.com/justyntemme/webby-pdf/internal/ui/styles"
)

// OpenView lets the user pick a PDF from disk or from the recently opened list
type OpenView struct {
	cfg        *config.Config
	loader     *document.Loader
	filepicker filepicker.Model

	recentFocus bool
	cursor      int
	opening     string
	err         error

	width  int
	height int
}

type clearPickErrorMsg struct{}

// NewOpenView creates the file picker rooted at the working directory
func NewOpenView(cfg *config.Config, loader *document.Loader) *OpenView {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".PDF"}
	fp.CurrentDirectory = cwd
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.Height = 15

	return &OpenView{
		cfg:         cfg,
		loader:      loader,
		filepicker:  fp,
		recentFocus: len(cfg.RecentlyOpened) > 0,
		width:       80,
		height:      24,
	}
}

// Init implements View
func (v *OpenView) Init() tea.Cmd {
	v.opening = ""
	v.cursor = min(v.cursor, max(len(v.cfg.RecentlyOpened)-1, 0))
	return v.filepicker.Init()
}

// Update implements View
func (v *OpenView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.opening != "" {
			return v, nil
		}
		switch msg.String() {
		case "tab":
			if len(v.cfg.RecentlyOpened) > 0 {
				v.recentFocus = !v.recentFocus
			}
			return v, nil
		}
		if v.recentFocus {
			return v, v.updateRecent(msg)
		}

	case ErrorMsg:
		v.opening = ""
		return v, nil

	case clearPickErrorMsg:
		v.err = nil
		return v, nil
	}

	var cmd tea.Cmd
	v.filepicker, cmd = v.filepicker.Update(msg)

	if didSelect, path := v.filepicker.DidSelectFile(msg); didSelect {
		return v, v.open(path)
	}

	if didSelect, path := v.filepicker.DidSelectDisabledFile(msg); didSelect {
		v.err = fmt.Errorf("cannot open %s (not a PDF file)", filepath.Base(path))
		return v, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
			return clearPickErrorMsg{}
		})
	}

	return v, cmd
}

func (v *OpenView) updateRecent(msg tea.KeyMsg) tea.Cmd {
	recent := v.cfg.RecentlyOpened
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(recent)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "enter", "l", "right":
		if v.cursor < len(recent) {
			return v.open(recent[v.cursor].Path)
		}
	}
	return nil
}

func (v *OpenView) open(path string) tea.Cmd {
	v.opening = path
	v.err = nil
	return OpenFile(v.loader, path)
}

// View implements View
func (v *OpenView) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleBar.Render(" Open PDF ") + "\n\n")

	if v.opening != "" {
		b.WriteString(styles.SecondaryText.Render(fmt.Sprintf("Opening %s...", filepath.Base(v.opening))) + "\n\n")
	}
	if v.err != nil {
		b.WriteString(styles.ErrorStyle.Render(v.err.Error()) + "\n\n")
	}

	if recent := v.cfg.RecentlyOpened; len(recent) > 0 {
		b.WriteString(styles.DialogTitle.Render("Recently opened") + "\n")
		for i, entry := range recent {
			line := fmt.Sprintf("%s  %s", entry.Title, styles.MutedText.Render(entry.OpenedAt.Format("Jan 2 15:04")))
			line = styles.TruncateText(line, max(v.width-12, 10))
			switch {
			case v.recentFocus && i == v.cursor:
				b.WriteString(styles.ListItemSelected.Render("▸ "+line) + "\n")
			case v.recentFocus:
				b.WriteString(styles.ListItem.Render("  "+line) + "\n")
			default:
				b.WriteString(styles.ListItemDimmed.Render("  "+line) + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.DialogTitle.Render("Browse") + "\n")
	b.WriteString(v.filepicker.View())

	b.WriteString("\n\n")
	help := []string{
		styles.HelpKey.Render("↑/↓") + styles.Help.Render(" navigate"),
		styles.HelpKey.Render("enter") + styles.Help.Render(" open"),
	}
	if len(v.cfg.RecentlyOpened) > 0 {
		help = append(help, styles.HelpKey.Render("tab")+styles.Help.Render(" recent/browse"))
	}
	help = append(help, styles.HelpKey.Render("q")+styles.Help.Render(" quit"))
	b.WriteString(strings.Join(help, "  "))

	content := styles.Dialog.Width(v.width - 4).Render(b.String())

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// SetSize implements View
func (v *OpenView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.filepicker.Height = height - 15 - len(v.cfg.RecentlyOpened)
	if v.filepicker.Height < 5 {
		v.filepicker.Height = 5
	}
}
