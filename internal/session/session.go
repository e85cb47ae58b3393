// Package session is the single-document viewing session. All state
// transitions go through Dispatch, which returns an immutable snapshot and
// the side effects the caller has to carry out (timers, provider calls,
// notices).
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/justyntemme/webby-pdf/internal/bookmarks"
	"github.com/justyntemme/webby-pdf/internal/translate"
	"github.com/justyntemme/webby-pdf/internal/viewer"
	"github.com/justyntemme/webby-pdf/pkg/models"
)

// Options tune a session
type Options struct {
	InitialScale float64
	Debounce     time.Duration
	Logger       *zap.Logger
}

// Snapshot is a copy of session state after an event
type Snapshot struct {
	Viewport  viewer.Viewport
	Locked    bool
	Bookmarks []models.Bookmark
	Popover   translate.State
	Closed    bool
}

// Bookmarked reports whether page has a bookmark
func (s Snapshot) Bookmarked(page int) bool {
	for _, b := range s.Bookmarks {
		if b.Page == page {
			return true
		}
	}
	return false
}

// Session owns the viewport, navigation lock and popover of one open
// document. Bookmarks are delegated to a store which outlives the session.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger

	view    viewer.Viewport
	gate    *viewer.Gate
	marks   *bookmarks.Store
	popover translate.Popover
	closed  bool
}

// New creates a session bound to marks and loads the persisted bookmarks
func New(marks *bookmarks.Store, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ctx:    ctx,
		cancel: cancel,
		log:    log.Named("session"),
		view:   viewer.NewViewport(opts.InitialScale),
		gate:   viewer.NewGate(opts.Debounce),
		marks:  marks,
	}
	s.marks.Load()
	return s
}

// Context is cancelled when the session is closed. Provider calls started
// for this session should use it.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Snapshot returns the current state without dispatching anything
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Viewport:  s.view,
		Locked:    s.gate.Locked(),
		Bookmarks: s.marks.List(),
		Popover:   s.popover.State(),
		Closed:    s.closed,
	}
}

// Close tears the session down: in-flight provider calls are cancelled,
// a pending lock release is invalidated and the popover is dropped.
// Calling Close more than once is harmless.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.gate.Cancel()
	s.popover.Dismiss()
	s.log.Debug("Session closed")
}

// Dispatch applies ev and returns the resulting snapshot with the effects
// to run. A closed session ignores every event.
func (s *Session) Dispatch(ev Event) (Snapshot, []Effect) {
	if s.closed {
		return s.Snapshot(), nil
	}

	var effects []Effect
	switch ev := ev.(type) {
	case DocumentLoaded:
		effects = s.documentLoaded(ev.TotalPages)
	case PageDelta:
		effects = s.moveTo(s.view.CurrentPage + ev.Delta)
	case GoToPage:
		effects = s.moveTo(ev.Page)
	case ScaleDelta:
		effects = s.rescale(func() float64 { return s.view.SetScale(ev.Delta) })
	case ResetScale:
		effects = s.rescale(s.view.ResetScale)
	case Wheel:
		effects = s.wheel(ev.WheelEvent)
	case LockReleased:
		if s.gate.Release(ev.Token) {
			s.log.Debug("Navigation lock released", zap.Uint64("token", ev.Token))
		}
	case AddBookmark:
		effects = s.addBookmark(ev.Page)
	case RemoveBookmark:
		effects = s.removeBookmark(ev.Page)
	case SelectionChanged:
		req := s.popover.Show(ev.Anchor)
		effects = append(effects, RequestTranslation(req))
	case SelectionCleared:
		s.popover.Dismiss()
	case TranslationResolved:
		if !s.popover.Resolve(ev.Seq, ev.Text, ev.Err) {
			s.log.Debug("Dropping stale translation", zap.Uint64("seq", ev.Seq))
		} else if ev.Err != nil && !errors.Is(ev.Err, context.Canceled) {
			s.log.Warn("Translation failed", zap.Error(ev.Err))
		}
	default:
		s.log.Warn("Unknown event", zap.String("type", fmt.Sprintf("%T", ev)))
	}
	return s.Snapshot(), effects
}

func (s *Session) documentLoaded(total int) []Effect {
	s.gate.Cancel()
	s.popover.Dismiss()
	s.view.OnDocumentLoaded(total)
	if !s.view.Ready() {
		s.log.Warn("Document has no pages", zap.Int("reported", total))
		return nil
	}
	s.log.Debug("Document loaded", zap.Int("pages", total))
	return []Effect{PageChanged{Page: s.view.CurrentPage}}
}

func (s *Session) moveTo(page int) []Effect {
	before := s.view.CurrentPage
	if s.view.GoToPage(page) == before {
		return nil
	}
	return s.pageChanged()
}

// pageChanged drops the popover since its anchor points at text that is no
// longer on screen.
func (s *Session) pageChanged() []Effect {
	s.popover.Dismiss()
	return []Effect{PageChanged{Page: s.view.CurrentPage}}
}

func (s *Session) rescale(apply func() float64) []Effect {
	before := s.view.Scale
	if apply() == before {
		return nil
	}
	// content is rewrapped at the new scale, the anchor is stale
	s.popover.Dismiss()
	return []Effect{ScaleChanged{Scale: s.view.Scale}}
}

func (s *Session) wheel(ev viewer.WheelEvent) []Effect {
	turn, ok := s.gate.Handle(&s.view, ev)
	if !ok {
		return nil
	}
	s.log.Debug("Page turned by wheel", zap.Int("page", turn.Page), zap.Uint64("token", turn.Token))
	return append(s.pageChanged(), ScheduleRelease{Token: turn.Token, After: turn.After})
}

func (s *Session) addBookmark(page int) []Effect {
	if !s.view.Ready() {
		return []Effect{Notice{Text: "No document loaded"}}
	}
	if page == 0 {
		page = s.view.CurrentPage
	}
	if page < 1 || page > s.view.TotalPages {
		return []Effect{Notice{Text: fmt.Sprintf("Page %d is out of range", page), Error: true}}
	}
	b, err := s.marks.Add(page)
	if errors.Is(err, bookmarks.ErrDuplicate) {
		return []Effect{Notice{Text: fmt.Sprintf("Page %d is already bookmarked", page)}}
	}
	if err != nil {
		return []Effect{Notice{Text: err.Error(), Error: true}}
	}
	return []Effect{
		BookmarkAdded{Bookmark: b},
		Notice{Text: "Bookmarked " + b.Label},
	}
}

func (s *Session) removeBookmark(page int) []Effect {
	if page == 0 {
		page = s.view.CurrentPage
	}
	if !s.marks.Has(page) {
		return nil
	}
	s.marks.Remove(page)
	return []Effect{Notice{Text: fmt.Sprintf("Removed bookmark for page %d", page)}}
}
