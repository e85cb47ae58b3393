package session

import (
	"time"

	"github.com/justyntemme/webby-pdf/internal/selection"
	"github.com/justyntemme/webby-pdf/internal/viewer"
	"github.com/justyntemme/webby-pdf/pkg/models"
)

// Event is anything Dispatch accepts
type Event interface {
	event()
}

// DocumentLoaded reports the page count of a freshly loaded document
type DocumentLoaded struct {
	TotalPages int
}

// PageDelta moves relative to the current page
type PageDelta struct {
	Delta int
}

// GoToPage jumps to an absolute page
type GoToPage struct {
	Page int
}

// ScaleDelta changes zoom
type ScaleDelta struct {
	Delta float64
}

// ResetScale restores the initial zoom
type ResetScale struct{}

// Wheel is one wheel notch over the page container
type Wheel struct {
	viewer.WheelEvent
}

// LockReleased is delivered when a ScheduleRelease timer fires
type LockReleased struct {
	Token uint64
}

// AddBookmark bookmarks Page, or the current page when Page is 0
type AddBookmark struct {
	Page int
}

// RemoveBookmark removes the bookmark of Page, or of the current page when
// Page is 0
type RemoveBookmark struct {
	Page int
}

// SelectionChanged carries a captured, non-empty selection
type SelectionChanged struct {
	Anchor selection.Anchor
}

// SelectionCleared dismisses the popover
type SelectionCleared struct{}

// TranslationResolved is the provider response for request Seq
type TranslationResolved struct {
	Seq  uint64
	Text string
	Err  error
}

func (DocumentLoaded) event()      {}
func (PageDelta) event()           {}
func (GoToPage) event()            {}
func (ScaleDelta) event()          {}
func (ResetScale) event()          {}
func (Wheel) event()               {}
func (LockReleased) event()        {}
func (AddBookmark) event()         {}
func (RemoveBookmark) event()      {}
func (SelectionChanged) event()    {}
func (SelectionCleared) event()    {}
func (TranslationResolved) event() {}

// Effect is work Dispatch asks the caller to perform
type Effect interface {
	effect()
}

// ScheduleRelease asks for LockReleased{Token} to be dispatched After from now
type ScheduleRelease struct {
	Token uint64
	After time.Duration
}

// RequestTranslation asks for the provider to translate Text and for the
// result to come back as TranslationResolved{Seq: Seq}
type RequestTranslation struct {
	Seq  uint64
	Text string
}

// PageChanged reports the page to render
type PageChanged struct {
	Page int
}

// ScaleChanged reports the zoom to render at
type ScaleChanged struct {
	Scale float64
}

// Notice is a short message for the user
type Notice struct {
	Text  string
	Error bool
}

// BookmarkAdded reports a new bookmark
type BookmarkAdded struct {
	Bookmark models.Bookmark
}

func (ScheduleRelease) effect()    {}
func (RequestTranslation) effect() {}
func (PageChanged) effect()        {}
func (ScaleChanged) effect()       {}
func (Notice) effect()             {}
func (BookmarkAdded) effect()      {}
