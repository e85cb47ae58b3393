package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/justyntemme/webby-pdf/internal/config"
	"github.com/justyntemme/webby-pdf/internal/session"
	"github.com/justyntemme/webby-pdf/internal/state"
	"github.com/justyntemme/webby-pdf/internal/translate"
	"github.com/justyntemme/webby-pdf/internal/ui/styles"
	"github.com/justyntemme/webby-pdf/internal/ui/views"
)

// App is the main application model
type App struct {
	env  *state.LocalEnv
	log  *zap.Logger
	keys KeyMap

	// Current view state
	currentView views.ViewType
	initialPath string

	// Window dimensions
	width  int
	height int

	// View models
	openView     *views.OpenView
	documentView *views.DocumentView

	// Error message
	err      error
	showHelp bool
}

// NewApp creates a new application instance. When path is not empty the
// document is opened right away.
func NewApp(env *state.LocalEnv, path string) *App {
	cfg := env.Cfg

	app := &App{
		env:         env,
		log:         env.Log.Named("ui"),
		keys:        DefaultKeyMap(),
		currentView: views.ViewOpen,
		initialPath: path,
		width:       80,
		height:      24,
	}

	app.openView = views.NewOpenView(cfg, env.Docs)
	app.documentView = views.NewDocumentView(views.DocumentDeps{
		Loader:    env.Docs,
		Provider:  translate.NewStub(cfg.Translation.Delay),
		Bookmarks: env.Bookmarks,
		Session: session.Options{
			InitialScale: cfg.Viewer.InitialScale,
			Debounce:     cfg.Viewer.PageDebounce,
			Logger:       env.Log,
		},
		ScaleStep:   cfg.Viewer.ScaleStep,
		ShowSidebar: cfg.Viewer.ShowSidebar,
		Log:         env.Log,
	})

	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.getCurrentView().Init(),
		tea.SetWindowTitle(config.AppName),
	}
	if a.initialPath != "" {
		cmds = append(cmds, views.OpenFile(a.env.Docs, a.initialPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.openView.SetSize(msg.Width, msg.Height)
		a.documentView.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return a, a.quit()

		case key.Matches(msg, a.keys.Help):
			a.showHelp = !a.showHelp
			return a, nil

		case a.showHelp && key.Matches(msg, a.keys.Escape, a.keys.Quit):
			a.showHelp = false
			return a, nil

		case key.Matches(msg, a.keys.Theme):
			return a, a.nextTheme()

		case key.Matches(msg, a.keys.Quit) && a.currentView == views.ViewOpen:
			return a, a.quit()
		}

	case views.OpenDocumentMsg:
		if err := a.env.Cfg.AddRecentlyOpened(msg.Doc); err != nil {
			a.log.Warn("Unable to save recently opened documents", zap.Error(err))
		}
		a.documentView.SetDocument(msg.Doc)
		a.documentView.SetSize(a.width, a.height)
		return a.switchView(views.ViewDocument)

	case views.BackMsg:
		a.documentView.Close()
		return a.switchView(views.ViewOpen)

	case views.ErrorMsg:
		a.log.Warn("Operation failed", zap.Error(msg.Err))
		a.err = msg.Err

	case views.ClearErrorMsg:
		a.err = nil
		return a, nil

	case views.SwitchViewMsg:
		return a.switchView(msg.View)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.currentView {
	case views.ViewOpen:
		_, cmd = a.openView.Update(msg)
	case views.ViewDocument:
		_, cmd = a.documentView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model
func (a *App) View() string {
	if a.showHelp {
		return a.renderHelp()
	}

	content := a.getCurrentView().View()

	if a.err != nil {
		errorBar := styles.ErrorStyle.Render("Error: " + a.err.Error())
		content = lipgloss.JoinVertical(lipgloss.Left, content, errorBar)
	}
	return content
}

// Close ends the open document session, if any
func (a *App) Close() {
	a.documentView.Close()
}

func (a *App) quit() tea.Cmd {
	a.documentView.Close()
	return tea.Quit
}

// switchView changes the current view and initializes it
func (a *App) switchView(view views.ViewType) (*App, tea.Cmd) {
	a.log.Debug("Switching view", zap.Stringer("from", a.currentView), zap.Stringer("to", view))
	a.currentView = view
	a.err = nil
	return a, a.getCurrentView().Init()
}

// getCurrentView returns the current view model
func (a *App) getCurrentView() views.View {
	if a.currentView == views.ViewDocument {
		return a.documentView
	}
	return a.openView
}

func (a *App) nextTheme() tea.Cmd {
	name := styles.NextTheme()
	a.env.Cfg.Theme = name
	if err := a.env.Cfg.Save(); err != nil {
		a.log.Warn("Unable to save theme", zap.Error(err))
	}
	return nil
}

// renderHelp renders the help overlay
func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Keyboard Shortcuts") + "\n")

	for _, section := range a.keys.helpSections() {
		b.WriteString("\n" + styles.HelpKey.Render(section.title) + "\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc))
		}
	}

	b.WriteString("\n" + styles.HelpKey.Render("Mouse") + "\n")
	b.WriteString("  wheel    scroll, turns the page at an edge\n")
	b.WriteString("  ^wheel   zoom\n")
	b.WriteString("  drag     select text and translate it\n")
	b.WriteString("\n" + styles.MutedText.Render("Theme: "+styles.CurrentTheme().Name))

	help := styles.Dialog.Width(60).Render(b.String())

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		help,
	)
}
