package session

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/justyntemme/webby-pdf/internal/bookmarks"
	"github.com/justyntemme/webby-pdf/internal/selection"
	"github.com/justyntemme/webby-pdf/internal/storage"
	"github.com/justyntemme/webby-pdf/internal/translate"
	"github.com/justyntemme/webby-pdf/internal/viewer"
)

var (
	bottom = viewer.Geometry{ScrollTop: 0, ScrollHeight: 10, ClientHeight: 10}
	middle = viewer.Geometry{ScrollTop: 20, ScrollHeight: 100, ClientHeight: 10}
)

func newSession(t *testing.T, kv storage.KV) *Session {
	t.Helper()
	if kv == nil {
		kv = storage.NewMemory()
	}
	store := bookmarks.NewStore(kv, bookmarks.Key(bookmarks.ScopeDocument, "doc"), nil)
	s := New(store, Options{InitialScale: viewer.DefaultScale})
	t.Cleanup(s.Close)
	return s
}

func loaded(t *testing.T, pages int) *Session {
	t.Helper()
	s := newSession(t, nil)
	s.Dispatch(DocumentLoaded{TotalPages: pages})
	return s
}

func down(g viewer.Geometry) Wheel {
	return Wheel{viewer.WheelEvent{DeltaY: 1, Geometry: g}}
}

func effectsOf[T Effect](effects []Effect) []T {
	var out []T
	for _, e := range effects {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestDocumentLoaded(t *testing.T) {
	s := newSession(t, nil)

	snap, eff := s.Dispatch(DocumentLoaded{TotalPages: 12})
	if snap.Viewport.CurrentPage != 1 || snap.Viewport.TotalPages != 12 {
		t.Errorf("viewport = %+v", snap.Viewport)
	}
	if pc := effectsOf[PageChanged](eff); len(pc) != 1 || pc[0].Page != 1 {
		t.Errorf("effects = %#v", eff)
	}

	snap, eff = s.Dispatch(DocumentLoaded{TotalPages: 0})
	if snap.Viewport.Ready() || len(eff) != 0 {
		t.Errorf("empty document: viewport = %+v, effects = %#v", snap.Viewport, eff)
	}
	if snap, _ = s.Dispatch(PageDelta{Delta: 1}); snap.Viewport.CurrentPage != 0 {
		t.Errorf("navigation not inert: page %d", snap.Viewport.CurrentPage)
	}
}

func TestNavigation(t *testing.T) {
	s := loaded(t, 5)

	tests := []struct {
		ev      Event
		page    int
		changed bool
	}{
		{PageDelta{Delta: 1}, 2, true},
		{PageDelta{Delta: 10}, 5, true},
		{PageDelta{Delta: 1}, 5, false},
		{GoToPage{Page: 3}, 3, true},
		{GoToPage{Page: -4}, 1, true},
		{PageDelta{Delta: -1}, 1, false},
	}
	for i, tt := range tests {
		snap, eff := s.Dispatch(tt.ev)
		if snap.Viewport.CurrentPage != tt.page {
			t.Errorf("step %d: page = %d, want %d", i, snap.Viewport.CurrentPage, tt.page)
		}
		if got := len(effectsOf[PageChanged](eff)) == 1; got != tt.changed {
			t.Errorf("step %d: changed = %v, want %v", i, got, tt.changed)
		}
	}
}

func TestScale(t *testing.T) {
	s := loaded(t, 3)

	snap, eff := s.Dispatch(ScaleDelta{Delta: viewer.ScaleStep})
	if math.Abs(snap.Viewport.Scale-0.7) > 1e-9 {
		t.Errorf("Scale = %v, want 0.7", snap.Viewport.Scale)
	}
	if sc := effectsOf[ScaleChanged](eff); len(sc) != 1 {
		t.Errorf("effects = %#v", eff)
	}

	snap, _ = s.Dispatch(ScaleDelta{Delta: 10})
	if math.Abs(snap.Viewport.Scale-viewer.MaxScale) > 1e-9 {
		t.Errorf("Scale = %v, want %v", snap.Viewport.Scale, viewer.MaxScale)
	}
	if _, eff = s.Dispatch(ScaleDelta{Delta: 1}); len(eff) != 0 {
		t.Errorf("clamped scale produced effects: %#v", eff)
	}

	snap, _ = s.Dispatch(ResetScale{})
	if math.Abs(snap.Viewport.Scale-viewer.DefaultScale) > 1e-9 {
		t.Errorf("Scale after reset = %v", snap.Viewport.Scale)
	}
}

func TestWheelBurstTurnsOnePage(t *testing.T) {
	s := loaded(t, 5)

	var (
		turns    []PageChanged
		releases []ScheduleRelease
	)
	for range 5 {
		_, eff := s.Dispatch(down(bottom))
		turns = append(turns, effectsOf[PageChanged](eff)...)
		releases = append(releases, effectsOf[ScheduleRelease](eff)...)
	}

	if len(turns) != 1 || turns[0].Page != 2 {
		t.Fatalf("turns = %+v, want one turn to page 2", turns)
	}
	if len(releases) != 1 || releases[0].After != viewer.DefaultDebounce {
		t.Fatalf("releases = %+v", releases)
	}
	if !s.Snapshot().Locked {
		t.Fatal("lock not engaged after turn")
	}

	snap, _ := s.Dispatch(LockReleased{Token: releases[0].Token})
	if snap.Locked {
		t.Fatal("lock still engaged after release")
	}
	snap, _ = s.Dispatch(down(bottom))
	if snap.Viewport.CurrentPage != 3 {
		t.Errorf("page = %d after window, want 3", snap.Viewport.CurrentPage)
	}
}

func TestWheelLastPageDoesNotLock(t *testing.T) {
	s := loaded(t, 2)
	s.Dispatch(GoToPage{Page: 2})

	snap, eff := s.Dispatch(down(bottom))
	if snap.Viewport.CurrentPage != 2 || snap.Locked || len(eff) != 0 {
		t.Errorf("snapshot = %+v, effects = %#v", snap, eff)
	}
}

func TestWheelAwayFromEdge(t *testing.T) {
	s := loaded(t, 4)

	snap, eff := s.Dispatch(down(middle))
	if snap.Viewport.CurrentPage != 1 || len(eff) != 0 {
		t.Errorf("snapshot = %+v, effects = %#v", snap, eff)
	}

	zoom := down(bottom)
	zoom.Zoom = true
	if snap, _ = s.Dispatch(zoom); snap.Viewport.CurrentPage != 1 || snap.Locked {
		t.Errorf("zoom gesture turned page: %+v", snap)
	}
}

func TestCloseInvalidatesRelease(t *testing.T) {
	s := loaded(t, 5)
	_, eff := s.Dispatch(down(bottom))
	rel := effectsOf[ScheduleRelease](eff)
	if len(rel) != 1 {
		t.Fatalf("effects = %#v", eff)
	}

	s.Close()
	if s.Context().Err() == nil {
		t.Error("context not cancelled")
	}

	snap, eff := s.Dispatch(LockReleased{Token: rel[0].Token})
	if !snap.Closed || snap.Locked || len(eff) != 0 {
		t.Errorf("snapshot = %+v, effects = %#v", snap, eff)
	}
	if snap, _ = s.Dispatch(PageDelta{Delta: 1}); snap.Viewport.CurrentPage != 2 {
		t.Errorf("closed session moved to page %d", snap.Viewport.CurrentPage)
	}
	s.Close()
}

func TestBookmarks(t *testing.T) {
	kv := storage.NewMemory()
	s := newSession(t, kv)

	_, eff := s.Dispatch(AddBookmark{})
	if n := effectsOf[Notice](eff); len(n) != 1 || n[0].Text != "No document loaded" {
		t.Errorf("add before load: %#v", eff)
	}

	s.Dispatch(DocumentLoaded{TotalPages: 10})
	for _, p := range []int{9, 2, 5} {
		s.Dispatch(GoToPage{Page: p})
		_, eff = s.Dispatch(AddBookmark{})
		if added := effectsOf[BookmarkAdded](eff); len(added) != 1 || added[0].Bookmark.Page != p {
			t.Errorf("add %d: %#v", p, eff)
		}
	}

	snap, eff := s.Dispatch(AddBookmark{Page: 5})
	if n := effectsOf[Notice](eff); len(n) != 1 || n[0].Text != "Page 5 is already bookmarked" {
		t.Errorf("duplicate add: %#v", eff)
	}
	var pages []int
	for _, b := range snap.Bookmarks {
		pages = append(pages, b.Page)
	}
	if len(pages) != 3 || pages[0] != 2 || pages[1] != 5 || pages[2] != 9 {
		t.Errorf("pages = %v, want [2 5 9]", pages)
	}
	if !snap.Bookmarked(9) || snap.Bookmarked(3) {
		t.Error("Bookmarked() mismatch")
	}

	if _, eff = s.Dispatch(AddBookmark{Page: 11}); len(effectsOf[Notice](eff)) != 1 {
		t.Errorf("out of range add: %#v", eff)
	}

	snap, _ = s.Dispatch(RemoveBookmark{Page: 5})
	if _, eff = s.Dispatch(RemoveBookmark{Page: 5}); len(eff) != 0 {
		t.Errorf("second remove: %#v", eff)
	}
	if len(snap.Bookmarks) != 2 {
		t.Errorf("bookmarks = %+v", snap.Bookmarks)
	}

	// a new session over the same storage sees the persisted collection
	again := newSession(t, kv)
	if got := again.Snapshot().Bookmarks; len(got) != 2 || got[0].Page != 2 || got[1].Page != 9 {
		t.Errorf("reloaded = %+v", got)
	}
}

func TestStaleTranslationDiscarded(t *testing.T) {
	s := loaded(t, 3)

	_, eff := s.Dispatch(SelectionChanged{Anchor: selection.Anchor{Text: "abc", X: 5, Y: 2}})
	first := effectsOf[RequestTranslation](eff)
	_, eff = s.Dispatch(SelectionChanged{Anchor: selection.Anchor{Text: "xyz", X: 8, Y: 4}})
	second := effectsOf[RequestTranslation](eff)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("requests = %+v, %+v", first, second)
	}

	snap, _ := s.Dispatch(TranslationResolved{Seq: first[0].Seq, Text: "ABC"})
	if snap.Popover.Status != translate.StatusPending || snap.Popover.Anchor.Text != "xyz" {
		t.Errorf("stale response applied: %+v", snap.Popover)
	}

	snap, _ = s.Dispatch(TranslationResolved{Seq: second[0].Seq, Text: "XYZ"})
	if snap.Popover.Body() != "XYZ" {
		t.Errorf("popover = %+v", snap.Popover)
	}

	snap, _ = s.Dispatch(SelectionCleared{})
	if snap.Popover.Visible() {
		t.Error("popover visible after SelectionCleared")
	}
}

func TestPageTurnDismissesPopover(t *testing.T) {
	s := loaded(t, 3)
	_, eff := s.Dispatch(SelectionChanged{Anchor: selection.Anchor{Text: "abc"}})
	req := effectsOf[RequestTranslation](eff)[0]

	s.Dispatch(PageDelta{Delta: 1})
	snap, _ := s.Dispatch(TranslationResolved{Seq: req.Seq, Text: "ABC"})
	if snap.Popover.Visible() {
		t.Errorf("popover = %+v", snap.Popover)
	}
}

func TestTranslationFailureLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store := bookmarks.NewStore(storage.NewMemory(), "k", nil)
	s := New(store, Options{Logger: zap.New(core), Debounce: time.Second})
	defer s.Close()

	_, eff := s.Dispatch(SelectionChanged{Anchor: selection.Anchor{Text: "abc"}})
	req := effectsOf[RequestTranslation](eff)[0]

	snap, _ := s.Dispatch(TranslationResolved{Seq: req.Seq, Err: errors.New("offline")})
	if snap.Popover.Status != translate.StatusFailed {
		t.Errorf("status = %v", snap.Popover.Status)
	}
	if logs.FilterMessage("Translation failed").Len() != 1 {
		t.Errorf("failure not logged: %v", logs.All())
	}

	_, eff = s.Dispatch(SelectionChanged{Anchor: selection.Anchor{Text: "def"}})
	req = effectsOf[RequestTranslation](eff)[0]
	s.Dispatch(TranslationResolved{Seq: req.Seq, Err: context.Canceled})
	if logs.FilterMessage("Translation failed").Len() != 1 {
		t.Error("cancellation logged as failure")
	}
}
