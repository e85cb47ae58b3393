package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/justyntemme/webby-pdf/internal/bookmarks"
	"github.com/justyntemme/webby-pdf/internal/document"
	"github.com/justyntemme/webby-pdf/internal/selection"
	"github.com/justyntemme/webby-pdf/internal/session"
	"github.com/justyntemme/webby-pdf/internal/translate"
	"github.com/justyntemme/webby-pdf/internal/ui/styles"
	"github.com/justyntemme/webby-pdf/internal/viewer"
	"github.com/justyntemme/webby-pdf/pkg/models"
)

type sidebarTab int

const (
	tabPages sidebarTab = iota
	tabBookmarks
)

const (
	sidebarWidth    = 24 // including the border
	pageMargin      = 2
	wheelLines      = 3
	noticeTimeout   = 3 * time.Second
	popoverMaxWidth = 44

	noPagesText = "Document has no pages"
)

// Message types
type pageLoadedMsg struct {
	gen  uint64
	page int
	text string
	err  error
}

type lockReleasedMsg struct {
	gen   uint64
	token uint64
}

type translationMsg struct {
	gen  uint64
	seq  uint64
	text string
	err  error
}

type clearNoticeMsg struct {
	seq int
}

var clipboardWrite = clipboard.WriteAll

// DocumentDeps wires the document view to the rest of the program
type DocumentDeps struct {
	Loader      *document.Loader
	Provider    translate.Provider
	Bookmarks   func(doc *models.Document) *bookmarks.Store
	Session     session.Options
	ScaleStep   float64
	ShowSidebar bool
	Log         *zap.Logger
}

// DocumentView shows one page of the open document with its sidebar and
// the translation popover
type DocumentView struct {
	deps DocumentDeps
	log  *zap.Logger

	doc  *models.Document
	sess *session.Session
	snap session.Snapshot
	gen  uint64 // bumped per opened document, tags async results

	vp           viewport.Model
	spinner      spinner.Model
	text         string
	lines        []string
	loading      bool
	landAtBottom bool
	err          error

	// Sidebar
	showSidebar  bool
	sidebarFocus bool
	tab          sidebarTab
	cursor       int

	// Selection
	tracker      selection.Tracker
	hlFrom       selection.Position
	hlTo         selection.Position
	hlActive     bool
	selected     string
	anchorOffset int // viewport offset when the popover was anchored

	notice    string
	noticeErr bool
	noticeSeq int

	width  int
	height int
}

// NewDocumentView creates a document view with no document
func NewDocumentView(deps DocumentDeps) *DocumentView {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Provider == nil {
		deps.Provider = translate.NewStub(translate.DefaultDelay)
	}
	if deps.ScaleStep <= 0 {
		deps.ScaleStep = viewer.ScaleStep
	}

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false

	return &DocumentView{
		deps:        deps,
		log:         deps.Log.Named("ui"),
		vp:          vp,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.SecondaryText)),
		showSidebar: deps.ShowSidebar,
		width:       80,
		height:      24,
	}
}

// SetDocument replaces the session with a fresh one for doc
func (v *DocumentView) SetDocument(doc *models.Document) {
	v.Close()

	v.gen++
	v.doc = doc
	v.sess = session.New(v.deps.Bookmarks(doc), v.deps.Session)
	v.snap = v.sess.Snapshot()

	v.text, v.lines, v.err = "", nil, nil
	v.loading = true
	v.landAtBottom = false
	v.sidebarFocus = false
	v.tab = tabPages
	v.cursor = 0
	v.tracker.Reset()
	v.clearHighlight()
	v.selected = ""
	v.notice = ""
	v.vp.SetContent("")
	v.vp.GotoTop()
	v.layout()
}

// Close ends the current session. Bookmarks stay persisted.
func (v *DocumentView) Close() {
	if v.sess == nil {
		return
	}
	v.sess.Close()
	v.snap = v.sess.Snapshot()
	v.sess = nil
}

// Init implements View
func (v *DocumentView) Init() tea.Cmd {
	if v.sess == nil {
		return nil
	}
	cmd := v.dispatch(session.DocumentLoaded{TotalPages: v.doc.PageCount})
	if !v.snap.Viewport.Ready() {
		// no page will ever be requested
		v.loading = false
		v.refreshContent()
		return cmd
	}
	return tea.Batch(cmd, v.spinner.Tick)
}

// Update implements View
func (v *DocumentView) Update(msg tea.Msg) (View, tea.Cmd) {
	if v.sess == nil {
		return v, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.sidebarFocus {
			return v, v.updateSidebar(msg)
		}
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		return v, v.handleMouse(msg)

	case pageLoadedMsg:
		v.handlePageLoaded(msg)
		return v, nil

	case lockReleasedMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		return v, v.dispatch(session.LockReleased{Token: msg.token})

	case translationMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		return v, v.dispatch(session.TranslationResolved{Seq: msg.seq, Text: msg.text, Err: msg.err})

	case clearNoticeMsg:
		if msg.seq == v.noticeSeq {
			v.notice = ""
		}
		return v, nil

	case spinner.TickMsg:
		if !v.loading && v.snap.Popover.Status != translate.StatusPending {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKeyMsg handles key presses over the page
func (v *DocumentView) handleKeyMsg(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "n", "l", "right":
		return v, v.navigate(session.PageDelta{Delta: 1})
	case "p", "h", "left":
		return v, v.navigate(session.PageDelta{Delta: -1})
	case "g", "home":
		return v, v.navigate(session.GoToPage{Page: 1})
	case "G", "end":
		return v, v.navigate(session.GoToPage{Page: v.snap.Viewport.TotalPages})
	case "+", "=":
		return v, v.dispatch(session.ScaleDelta{Delta: v.deps.ScaleStep})
	case "-", "_":
		return v, v.dispatch(session.ScaleDelta{Delta: -v.deps.ScaleStep})
	case "0":
		return v, v.dispatch(session.ResetScale{})
	case "B":
		return v, v.dispatch(session.AddBookmark{})
	case "D":
		return v, v.dispatch(session.RemoveBookmark{})
	case "b":
		v.openSidebar(tabBookmarks)
		v.sidebarFocus = true
	case "s":
		v.showSidebar = !v.showSidebar
		v.sidebarFocus = false
		v.layout()
	case "tab":
		if v.showSidebar {
			v.sidebarFocus = true
		}
	case "y":
		return v, v.copySelection()
	case "esc":
		if v.snap.Popover.Visible() || v.hlActive {
			v.clearHighlight()
			v.selected = ""
			return v, v.dispatch(session.SelectionCleared{})
		}
		return v, Back()
	case "q":
		return v, Back()
	default:
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}
	return v, nil
}

// updateSidebar handles keys while the sidebar has focus
func (v *DocumentView) updateSidebar(msg tea.KeyMsg) tea.Cmd {
	count := v.sidebarCount()

	switch msg.String() {
	case "esc", "tab":
		v.sidebarFocus = false
	case "q":
		return Back()
	case "j", "down":
		if v.cursor < count-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		v.cursor = max(count-1, 0)
	case "[", "left", "h":
		v.switchTab(tabPages)
	case "]", "right", "l":
		v.switchTab(tabBookmarks)
	case "enter":
		return v.openSidebarItem(v.cursor)
	case "d", "x":
		if v.tab == tabBookmarks && v.cursor < count {
			cmd := v.dispatch(session.RemoveBookmark{Page: v.snap.Bookmarks[v.cursor].Page})
			v.cursor = min(v.cursor, max(len(v.snap.Bookmarks)-1, 0))
			return cmd
		}
	case "B":
		return v.dispatch(session.AddBookmark{})
	}
	return nil
}

func (v *DocumentView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		dir := 1.0
		if msg.Button == tea.MouseButtonWheelUp {
			dir = -1
		}
		if msg.Ctrl {
			return v.dispatch(session.ScaleDelta{Delta: dir * v.deps.ScaleStep})
		}
		return v.wheel(dir)
	}

	if v.showSidebar && msg.X < sidebarWidth && !v.tracker.Active() {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return v.clickSidebar(msg.X, msg.Y-1)
		}
		return nil
	}

	pos, inside := v.positionAt(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return nil
		}
		v.sidebarFocus = false
		v.clearHighlight()
		v.tracker.Press(pos)

	case tea.MouseActionMotion:
		if !v.tracker.Active() {
			return nil
		}
		v.tracker.Drag(pos)
		if from, to, ok := v.tracker.Span(); ok {
			v.setHighlight(from, to)
		}

	case tea.MouseActionRelease:
		if !v.tracker.Active() {
			return nil
		}
		v.tracker.Drag(pos)
		from, to, moved := v.tracker.Span()
		sel := v.tracker.Release(pos, v.lines, selection.Origin{FirstLine: v.vp.YOffset})
		a, ok := selection.Capture(sel)
		if !ok {
			v.clearHighlight()
			v.selected = ""
			return v.dispatch(session.SelectionCleared{})
		}
		if moved {
			v.setHighlight(from, to)
		}
		v.selected = a.Text
		v.anchorOffset = v.vp.YOffset
		return v.dispatch(session.SelectionChanged{Anchor: a})
	}
	return nil
}

// positionAt maps a screen cell to a content position, clamped to the page area
func (v *DocumentView) positionAt(x, y int) (selection.Position, bool) {
	row := y - 1 // header
	col := x - v.contentCol()
	inside := row >= 0 && row < v.vp.Height && col >= 0
	row = min(max(row, 0), max(v.vp.Height-1, 0))
	return selection.Position{Line: v.vp.YOffset + row, Col: max(col, 0)}, inside
}

// wheel reports the notch to the session with the scroll state it found the
// page in, and scrolls the page when it did not turn
func (v *DocumentView) wheel(dir float64) tea.Cmd {
	geom := viewer.Geometry{
		ScrollTop:    float64(v.vp.YOffset),
		ScrollHeight: float64(max(v.vp.TotalLineCount(), v.vp.Height)),
		ClientHeight: float64(v.vp.Height),
	}
	before := v.snap.Viewport.CurrentPage
	cmd := v.dispatch(session.Wheel{WheelEvent: viewer.WheelEvent{DeltaY: dir, Geometry: geom}})
	if v.snap.Viewport.CurrentPage != before {
		v.landAtBottom = dir < 0
		return cmd
	}
	v.vp.SetYOffset(v.vp.YOffset + int(dir)*wheelLines)
	return cmd
}

func (v *DocumentView) navigate(ev session.Event) tea.Cmd {
	v.landAtBottom = false
	return v.dispatch(ev)
}

// dispatch runs ev through the session and carries out the effects
func (v *DocumentView) dispatch(ev session.Event) tea.Cmd {
	snap, effects := v.sess.Dispatch(ev)
	v.snap = snap

	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case session.ScheduleRelease:
			gen, token := v.gen, e.Token
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg {
				return lockReleasedMsg{gen: gen, token: token}
			}))
		case session.RequestTranslation:
			cmds = append(cmds, v.translate(e), v.spinner.Tick)
		case session.PageChanged:
			v.clearHighlight()
			cmds = append(cmds, v.loadPage(e.Page))
		case session.ScaleChanged:
			v.clearHighlight()
			v.rewrap()
		case session.Notice:
			cmds = append(cmds, v.setNotice(e.Text, e.Error))
		case session.BookmarkAdded:
			v.openSidebar(tabBookmarks)
			for i, b := range v.snap.Bookmarks {
				if b.Page == e.Bookmark.Page {
					v.cursor = i
				}
			}
		}
	}
	if v.tab == tabBookmarks {
		v.cursor = min(v.cursor, max(len(v.snap.Bookmarks)-1, 0))
	}
	return tea.Batch(cmds...)
}

// loadPage extracts page text off the update loop
func (v *DocumentView) loadPage(page int) tea.Cmd {
	v.loading = true
	gen, doc, loader := v.gen, v.doc, v.deps.Loader
	return tea.Batch(
		func() tea.Msg {
			text, err := loader.PageText(doc, page)
			return pageLoadedMsg{gen: gen, page: page, text: text, err: err}
		},
		v.spinner.Tick,
	)
}

func (v *DocumentView) handlePageLoaded(msg pageLoadedMsg) {
	// drop results for pages we already moved away from
	if msg.gen != v.gen || msg.page != v.snap.Viewport.CurrentPage {
		return
	}
	v.loading = false
	v.err = msg.err
	v.text = msg.text
	if msg.err != nil {
		v.log.Warn("Unable to render page", zap.Int("page", msg.page), zap.Error(msg.err))
		v.text = ""
	}
	v.rewrap()
	if v.landAtBottom {
		v.vp.GotoBottom()
	} else {
		v.vp.GotoTop()
	}
	v.landAtBottom = false
}

func (v *DocumentView) translate(req session.RequestTranslation) tea.Cmd {
	ctx, provider, gen := v.sess.Context(), v.deps.Provider, v.gen
	return func() tea.Msg {
		text, err := provider.Translate(ctx, req.Text)
		return translationMsg{gen: gen, seq: req.Seq, text: text, err: err}
	}
}

func (v *DocumentView) copySelection() tea.Cmd {
	if v.selected == "" {
		return v.setNotice("Nothing selected", false)
	}
	if err := clipboardWrite(v.selected); err != nil {
		v.log.Warn("Unable to copy selection", zap.Error(err))
		return v.setNotice("Clipboard unavailable: "+err.Error(), true)
	}
	return v.setNotice(fmt.Sprintf("Copied %d characters", len([]rune(v.selected))), false)
}

func (v *DocumentView) setNotice(text string, isErr bool) tea.Cmd {
	v.notice = text
	v.noticeErr = isErr
	v.noticeSeq++
	seq := v.noticeSeq
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// Sidebar

func (v *DocumentView) openSidebar(tab sidebarTab) {
	if !v.showSidebar {
		v.showSidebar = true
		v.layout()
	}
	v.switchTab(tab)
}

func (v *DocumentView) switchTab(tab sidebarTab) {
	if v.tab == tab {
		return
	}
	v.tab = tab
	v.cursor = 0
	if tab == tabPages {
		v.cursor = max(v.snap.Viewport.CurrentPage-1, 0)
	}
}

func (v *DocumentView) sidebarCount() int {
	if v.tab == tabBookmarks {
		return len(v.snap.Bookmarks)
	}
	return v.snap.Viewport.TotalPages
}

func (v *DocumentView) sidebarRows() int {
	return max(v.bodyHeight()-2, 1) // tabs and a separator
}

func (v *DocumentView) sidebarOffset() int {
	rows := v.sidebarRows()
	if v.cursor >= rows {
		return v.cursor - rows + 1
	}
	return 0
}

func (v *DocumentView) openSidebarItem(i int) tea.Cmd {
	if i < 0 || i >= v.sidebarCount() {
		return nil
	}
	page := i + 1
	if v.tab == tabBookmarks {
		page = v.snap.Bookmarks[i].Page
	}
	return v.navigate(session.GoToPage{Page: page})
}

// clickSidebar handles a press at sidebar column x, body row
func (v *DocumentView) clickSidebar(x, row int) tea.Cmd {
	switch {
	case row == 0:
		if x < sidebarWidth/2 {
			v.switchTab(tabPages)
		} else {
			v.switchTab(tabBookmarks)
		}
		return nil
	case row >= 2:
		i := row - 2 + v.sidebarOffset()
		if i >= v.sidebarCount() {
			return nil
		}
		v.cursor = i
		return v.openSidebarItem(i)
	}
	return nil
}

// Layout and content

func (v *DocumentView) bodyHeight() int {
	return max(v.height-2, 1) // header and footer
}

func (v *DocumentView) contentCol() int {
	if v.showSidebar {
		return sidebarWidth + pageMargin
	}
	return pageMargin
}

func (v *DocumentView) layout() {
	v.vp.Width = max(v.width-v.contentCol(), 1)
	v.vp.Height = v.bodyHeight()
	v.rewrap()
}

func (v *DocumentView) rewrap() {
	if v.text == "" {
		v.lines = nil
		v.refreshContent()
		return
	}
	v.lines = wrapPage(v.text, pageColumns(v.snap.Viewport.Scale, v.vp.Width))
	v.refreshContent()
}

func (v *DocumentView) refreshContent() {
	if len(v.lines) == 0 {
		switch {
		case !v.snap.Viewport.Ready() && !v.loading:
			v.vp.SetContent(styles.MutedText.Render(noPagesText))
		case !v.loading && v.err == nil:
			v.vp.SetContent(styles.MutedText.Render("This page has no extractable text"))
		default:
			v.vp.SetContent("")
		}
		return
	}

	rendered := make([]string, len(v.lines))
	for i, line := range v.lines {
		if v.hlActive && i >= v.hlFrom.Line && i <= v.hlTo.Line {
			from, to := 0, len(line)+1
			if i == v.hlFrom.Line {
				from = v.hlFrom.Col
			}
			if i == v.hlTo.Line {
				to = v.hlTo.Col + 1
			}
			rendered[i] = highlightSpan(line, from, to, styles.SelectionHighlight)
			continue
		}
		rendered[i] = line
	}
	v.vp.SetContent(styles.PageText.Render(strings.Join(rendered, "\n")))
}

func (v *DocumentView) setHighlight(from, to selection.Position) {
	v.hlFrom, v.hlTo, v.hlActive = from, to, true
	v.refreshContent()
}

func (v *DocumentView) clearHighlight() {
	if !v.hlActive {
		return
	}
	v.hlActive = false
	v.refreshContent()
}

// View implements View
func (v *DocumentView) View() string {
	if v.doc == nil {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No document open"))
	}

	screen := v.renderHeader() + "\n" + v.renderBody() + "\n" + v.renderFooter()
	if v.snap.Popover.Visible() {
		if box, x, y, ok := v.renderPopover(); ok {
			screen = overlay(screen, box, x, y)
		}
	}
	return screen
}

// SetSize implements View
func (v *DocumentView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.layout()
}

func (v *DocumentView) renderHeader() string {
	vp := v.snap.Viewport

	maxTitleWidth := max(v.width/2, 10)
	left := styles.PageHeader.Render(" " + styles.TruncateText(v.doc.Title, maxTitleWidth) + " ")
	if v.snap.Bookmarked(vp.CurrentPage) {
		left += " " + styles.BookmarkMarker.Render("★")
	}

	right := styles.PageProgress.Render(fmt.Sprintf("Page %d/%d  %d%% ", vp.CurrentPage, vp.TotalPages, vp.ScalePercent()))

	gap := max(v.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

func (v *DocumentView) renderBody() string {
	height := v.bodyHeight()
	pageWidth := max(v.width-v.contentCol()+pageMargin, 1)

	var page string
	switch {
	case v.err != nil:
		page = lipgloss.Place(pageWidth, height, lipgloss.Center, lipgloss.Center,
			styles.ErrorStyle.Render("Error: "+v.err.Error()))
	case v.loading && len(v.lines) == 0:
		page = lipgloss.Place(pageWidth, height, lipgloss.Center, lipgloss.Center,
			v.spinner.View()+styles.MutedText.Render(" Rendering page..."))
	default:
		page = lipgloss.NewStyle().
			PaddingLeft(pageMargin).
			Width(pageWidth).
			Height(height).
			MaxHeight(height).
			Render(v.vp.View())
	}

	if !v.showSidebar {
		return page
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, v.renderSidebar(height), page)
}

func (v *DocumentView) renderSidebar(height int) string {
	var b strings.Builder

	pages, marks := styles.TabInactive.Render("Pages"), styles.TabInactive.Render("Bookmarks")
	if v.tab == tabPages {
		pages = styles.TabActive.Render("Pages")
	} else {
		marks = styles.TabActive.Render("Bookmarks")
	}
	b.WriteString(pages + "  " + marks + "\n\n")

	inner := sidebarWidth - 2
	rows := v.sidebarRows()
	offset := v.sidebarOffset()
	count := v.sidebarCount()

	if v.tab == tabBookmarks && count == 0 {
		b.WriteString(styles.MutedText.Render(wordwrap.String("No bookmarks. Press B to bookmark the current page.", inner)))
	}

	for i := offset; i < min(offset+rows, count); i++ {
		var line string
		if v.tab == tabPages {
			line = models.PageLabel(i + 1)
			if v.snap.Bookmarked(i + 1) {
				line += " ★"
			}
		} else {
			bm := v.snap.Bookmarks[i]
			line = bm.Label + " " + styles.MutedText.Render(bm.CreatedAt.Format("Jan 2 15:04"))
		}
		line = styles.TruncateText(line, inner-2)

		current := v.tab == tabPages && i+1 == v.snap.Viewport.CurrentPage
		switch {
		case v.sidebarFocus && i == v.cursor:
			b.WriteString(styles.ListItemSelected.Render("▸ "+line) + "\n")
		case current:
			b.WriteString(styles.SecondaryText.Render("• "+line) + "\n")
		default:
			b.WriteString(styles.ListItem.Render("  "+line) + "\n")
		}
	}

	style := styles.Sidebar
	if v.sidebarFocus {
		style = styles.SidebarFocused
	}
	return style.Width(sidebarWidth - 1).Height(height).MaxHeight(height).Render(b.String())
}

func (v *DocumentView) renderFooter() string {
	if v.notice != "" {
		if v.noticeErr {
			return styles.FooterBar.Width(v.width).Render(styles.ErrorStyle.Render(v.notice))
		}
		return styles.FooterBar.Width(v.width).Render(styles.NoticeStyle.Render(v.notice))
	}

	var help []string
	if v.sidebarFocus {
		help = []string{
			styles.HelpKey.Render("j/k") + styles.Help.Render(" move"),
			styles.HelpKey.Render("enter") + styles.Help.Render(" go"),
			styles.HelpKey.Render("[/]") + styles.Help.Render(" tabs"),
			styles.HelpKey.Render("d") + styles.Help.Render(" delete"),
			styles.HelpKey.Render("esc") + styles.Help.Render(" page"),
		}
	} else {
		help = []string{
			styles.HelpKey.Render("n/p") + styles.Help.Render(" page"),
			styles.HelpKey.Render("+/-") + styles.Help.Render(fmt.Sprintf(" %d%%", v.snap.Viewport.ScalePercent())),
			styles.HelpKey.Render("B/D") + styles.Help.Render(" mark"),
			styles.HelpKey.Render("b") + styles.Help.Render(" marks"),
			styles.HelpKey.Render("s") + styles.Help.Render(" sidebar"),
			styles.HelpKey.Render("y") + styles.Help.Render(" copy"),
			styles.HelpKey.Render("q") + styles.Help.Render(" back"),
		}
	}
	return styles.FooterBar.Width(v.width).Render(styles.TruncateText(strings.Join(help, "  "), max(v.width-2, 1)))
}

// renderPopover lays out the translation box below its anchor
func (v *DocumentView) renderPopover() (string, int, int, bool) {
	st := v.snap.Popover

	// anchors are in viewport cells, follow the page if it scrolled since
	ay := 1 + int(st.Anchor.Y) - (v.vp.YOffset - v.anchorOffset)
	if ay < 1 || ay > v.vp.Height+1 {
		return "", 0, 0, false
	}

	width := min(popoverMaxWidth, max(v.width-2, 12))
	inner := width - 4 // border and padding

	quote := strings.Join(strings.Fields(st.Anchor.Text), " ")
	quote = styles.PopoverQuote.Render(styles.TruncateText("“"+quote+"”", inner))

	var body string
	switch st.Status {
	case translate.StatusPending:
		body = v.spinner.View() + " " + styles.PopoverBody.Render(st.Body())
	case translate.StatusFailed:
		body = styles.PopoverBody.Foreground(styles.Error).Render(st.Body())
	default:
		body = styles.PopoverBody.Render(wordwrap.String(st.Body(), inner))
	}

	box := styles.Popover.Width(width - 2).Render(quote + "\n" + body)
	boxW, boxH := lipgloss.Width(box), lipgloss.Height(box)

	x := v.contentCol() + int(st.Anchor.X) - boxW/2
	x = min(max(x, 0), max(v.width-boxW, 0))
	y := ay
	if y+boxH > v.height-1 {
		y = max(v.height-1-boxH, 1)
	}
	return box, x, y, true
}
