// Package document is the rendering collaborator: it identifies PDF files,
// reports their page count and extracts page text through tabula.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/tsawler/tabula"
	"go.uber.org/zap"

	"github.com/justyntemme/webby-pdf/pkg/models"
)

// ErrNotPDF is returned for files whose content is not a PDF document
var ErrNotPDF = errors.New("not a PDF document")

// namespace for content based document identifiers
var namespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("webby-pdf"))

// ID returns the stable identifier of a document with the given content
func ID(content []byte) string {
	return uuid.NewSHA1(namespace, content).String()
}

// Loader opens documents and extracts page text
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a loader
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log.Named("document")}
}

// Open validates path and returns the document description
func (l *Loader) Open(path string) (*models.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve path '%s': %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("unable to read document: %w", err)
	}
	if !filetype.Is(data, models.FileFormatPDF) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(abs), ErrNotPDF)
	}

	ext := tabula.Open(abs)
	defer ext.Close()

	pages, err := ext.PageCount()
	if err != nil {
		return nil, fmt.Errorf("unable to count pages of '%s': %w", filepath.Base(abs), err)
	}

	doc := &models.Document{
		ID:        ID(data),
		Path:      abs,
		Title:     strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
		FileSize:  int64(len(data)),
		PageCount: pages,
		OpenedAt:  time.Now(),
	}
	l.log.Debug("Document opened",
		zap.String("path", doc.Path),
		zap.String("id", doc.ID),
		zap.Int("pages", doc.PageCount),
		zap.Int64("size", doc.FileSize))
	return doc, nil
}

// PageText extracts the text of a single page, 1-based
func (l *Loader) PageText(doc *models.Document, page int) (string, error) {
	if page < 1 || page > doc.PageCount {
		return "", fmt.Errorf("page %d is out of range 1-%d", page, doc.PageCount)
	}

	start := time.Now()
	text, warnings, err := tabula.Open(doc.Path).Pages(page).JoinParagraphs().Text()
	if err != nil {
		return "", fmt.Errorf("unable to extract page %d: %w", page, err)
	}
	if len(warnings) > 0 {
		l.log.Debug("Page extracted with warnings", zap.Int("page", page), zap.Int("warnings", len(warnings)))
	}
	l.log.Debug("Page extracted", zap.Int("page", page), zap.Duration("elapsed", time.Since(start)))
	return strings.TrimSpace(text), nil
}
