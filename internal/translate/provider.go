// Package translate resolves selected text into annotations through a
// pluggable provider and tracks which response belongs on screen.
package translate

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultDelay is how long the stub provider pretends to work
const DefaultDelay = 800 * time.Millisecond

// previewRunes limits how much of the source the stub echoes back
const previewRunes = 20

// ErrEmptyText is returned for requests without text
var ErrEmptyText = errors.New("nothing to translate")

// Provider translates text. Implementations must honor ctx cancellation.
type Provider interface {
	Translate(ctx context.Context, text string) (string, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context, text string) (string, error)

// Translate implements Provider
func (f ProviderFunc) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Stub is a placeholder provider: it waits a fixed delay and returns a
// marked preview of the source text
type Stub struct {
	Delay time.Duration
}

// NewStub creates a stub with the given delay
func NewStub(delay time.Duration) *Stub {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Stub{Delay: delay}
}

// Translate implements Provider
func (s *Stub) Translate(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	preview := []rune(text)
	if len(preview) > previewRunes {
		return "[translated] " + string(preview[:previewRunes]) + "...", nil
	}
	return "[translated] " + text, nil
}
