package models

import (
	"fmt"
	"time"
)

// FileFormatPDF is the only format the viewer opens
const FileFormatPDF = "pdf"

// Document represents an opened document as reported by the rendering collaborator
type Document struct {
	ID        string
	Path      string
	Title     string
	FileSize  int64
	PageCount int
	OpenedAt  time.Time
}

// Bookmark represents a saved page reference
type Bookmark struct {
	Page      int
	Label     string
	CreatedAt time.Time
}

// PageLabel returns the user facing label for a page
func PageLabel(page int) string {
	return fmt.Sprintf("Page %d", page)
}
