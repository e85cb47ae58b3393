package translate

import (
	"github.com/justyntemme/webby-pdf/internal/selection"
)

// Status of the popover content
type Status int

const (
	StatusHidden Status = iota
	StatusPending
	StatusReady
	StatusFailed
)

// String returns the name of the status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "hidden"
	}
}

const (
	PendingText = "Translating..."
	FailedText  = "Translation unavailable"
)

// Request is a translation the presenter wants resolved. Seq identifies it
// among all requests issued by the same popover.
type Request struct {
	Seq  uint64
	Text string
}

// State is a read-only copy of the popover
type State struct {
	Anchor      selection.Anchor
	Status      Status
	Translation string
	Err         error
	Seq         uint64
}

// Visible reports whether the popover is shown
func (s State) Visible() bool {
	return s.Status != StatusHidden
}

// Body returns the text to show under the quoted source
func (s State) Body() string {
	switch s.Status {
	case StatusPending:
		return PendingText
	case StatusReady:
		return s.Translation
	case StatusFailed:
		return FailedText
	default:
		return ""
	}
}

// Popover presents one selection at a time. Responses that do not belong
// to the latest request are dropped.
type Popover struct {
	seq   uint64
	state State
}

// Show opens the popover for a new anchor and returns the request to run
func (p *Popover) Show(a selection.Anchor) Request {
	p.seq++
	p.state = State{
		Anchor: a,
		Status: StatusPending,
		Seq:    p.seq,
	}
	return Request{Seq: p.seq, Text: a.Text}
}

// Resolve applies a response. It returns false when the response is stale:
// a newer request was issued or the popover was dismissed meanwhile.
func (p *Popover) Resolve(seq uint64, translation string, err error) bool {
	if seq != p.seq || p.state.Status != StatusPending {
		return false
	}
	if err != nil {
		p.state.Status = StatusFailed
		p.state.Err = err
		return true
	}
	p.state.Status = StatusReady
	p.state.Translation = translation
	return true
}

// Dismiss hides the popover. Outstanding requests become stale.
func (p *Popover) Dismiss() {
	p.state = State{Seq: p.seq}
}

// State returns a copy of the current popover state
func (p *Popover) State() State {
	return p.state
}

// LatestSeq returns the sequence number of the last issued request
func (p *Popover) LatestSeq() uint64 {
	return p.seq
}
