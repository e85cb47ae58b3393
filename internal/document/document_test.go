package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/justyntemme/webby-pdf/pkg/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpenRejectsNonPDF(t *testing.T) {
	path := writeFile(t, "notes.pdf", "just some text pretending to be a pdf")

	_, err := NewLoader(nil).Open(path)
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("Open() error = %v, want ErrNotPDF", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := NewLoader(nil).Open(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil || errors.Is(err, ErrNotPDF) {
		t.Fatalf("Open() error = %v", err)
	}
}

func TestOpenBrokenPDF(t *testing.T) {
	// passes content sniffing, fails in the parser
	path := writeFile(t, "broken.pdf", "%PDF-1.4\nthis is not a real document\n")

	_, err := NewLoader(nil).Open(path)
	if err == nil {
		t.Fatal("Open() succeeded on a broken document")
	}
	if errors.Is(err, ErrNotPDF) {
		t.Errorf("Open() error = %v, sniffing should have accepted the header", err)
	}
}

func TestPageTextRange(t *testing.T) {
	doc := &models.Document{Path: "unused.pdf", PageCount: 3}
	l := NewLoader(nil)

	for _, page := range []int{0, 4, -1} {
		if _, err := l.PageText(doc, page); err == nil {
			t.Errorf("PageText(%d) succeeded", page)
		}
	}
}

func TestID(t *testing.T) {
	a := ID([]byte("%PDF-1.4 a"))
	if a != ID([]byte("%PDF-1.4 a")) {
		t.Error("ID is not stable")
	}
	if a == ID([]byte("%PDF-1.4 b")) {
		t.Error("different content produced the same ID")
	}
	if len(a) != 36 {
		t.Errorf("ID = %q, want a UUID", a)
	}
}
