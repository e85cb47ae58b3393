package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/webby-pdf/internal/document"
	"github.com/justyntemme/webby-pdf/pkg/models"
)

// ViewType represents different screens in the application
type ViewType int

const (
	ViewOpen ViewType = iota
	ViewDocument
)

// String returns the name of the view
func (v ViewType) String() string {
	switch v {
	case ViewOpen:
		return "Open"
	case ViewDocument:
		return "Document"
	default:
		return "Unknown"
	}
}

// View is the interface that all views must implement
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Message types for inter-view communication

// OpenDocumentMsg is sent when a document was opened and should be shown
type OpenDocumentMsg struct {
	Doc *models.Document
}

// BackMsg is sent when the document view is left
type BackMsg struct{}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the current error
type ClearErrorMsg struct{}

// SwitchViewMsg requests a view switch
type SwitchViewMsg struct {
	View ViewType
}

// Helper functions to create messages

// SendError creates an error message command
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// ClearError creates a command to clear errors
func ClearError() tea.Cmd {
	return func() tea.Msg {
		return ClearErrorMsg{}
	}
}

// SwitchTo creates a command to switch views
func SwitchTo(view ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: view}
	}
}

// Back creates a command leaving the document view
func Back() tea.Cmd {
	return func() tea.Msg {
		return BackMsg{}
	}
}

// OpenFile opens path off the update loop and reports the document or the error
func OpenFile(loader *document.Loader, path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := loader.Open(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return OpenDocumentMsg{Doc: doc}
	}
}
