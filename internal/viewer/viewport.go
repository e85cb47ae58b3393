// Package viewer holds the page/zoom state of an open document and the
// wheel gesture gate that turns pages at scroll edges.
package viewer

const (
	MinScale     = 0.3
	MaxScale     = 2.5
	DefaultScale = 0.6
	ScaleStep    = 0.1
)

// Viewport is the current page and zoom of a document session. The zero
// TotalPages value means the document is not ready and navigation is inert.
type Viewport struct {
	CurrentPage int
	TotalPages  int
	Scale       float64

	initialScale float64
}

// NewViewport creates a viewport with no document loaded
func NewViewport(initialScale float64) Viewport {
	s := clampScale(initialScale)
	return Viewport{Scale: s, initialScale: s}
}

// OnDocumentLoaded resets the viewport for a freshly loaded document
func (v *Viewport) OnDocumentLoaded(totalPages int) {
	if totalPages <= 0 {
		v.TotalPages = 0
		v.CurrentPage = 0
		return
	}
	v.TotalPages = totalPages
	v.CurrentPage = 1
}

// Ready reports whether navigation has any effect
func (v *Viewport) Ready() bool {
	return v.TotalPages > 0
}

// NextPage moves by delta pages, clamped to the document
func (v *Viewport) NextPage(delta int) int {
	return v.GoToPage(v.CurrentPage + delta)
}

// GoToPage jumps to page, clamped to the document
func (v *Viewport) GoToPage(page int) int {
	if !v.Ready() {
		return v.CurrentPage
	}
	v.CurrentPage = min(max(page, 1), v.TotalPages)
	return v.CurrentPage
}

// SetScale changes zoom by delta, clamped to [MinScale, MaxScale]
func (v *Viewport) SetScale(delta float64) float64 {
	v.Scale = clampScale(v.Scale + delta)
	return v.Scale
}

// ResetScale restores the scale the viewport was created with
func (v *Viewport) ResetScale() float64 {
	v.Scale = clampScale(v.initialScale)
	return v.Scale
}

// AtFirstPage reports whether there is no previous page
func (v *Viewport) AtFirstPage() bool {
	return v.CurrentPage <= 1
}

// AtLastPage reports whether there is no next page
func (v *Viewport) AtLastPage() bool {
	return v.CurrentPage >= v.TotalPages
}

// ScalePercent returns scale as a rounded percentage for display. Repeated
// steps accumulate float error, only the displayed value is rounded.
func (v *Viewport) ScalePercent() int {
	return int(v.Scale*100 + 0.5)
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
