// Package plaintext provides a page source for plain text files.
// Pages are delimited by form feed characters; a file without form feeds is
// a single page.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/policypulse/policypulse/internal/core/domain"
	"github.com/policypulse/policypulse/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.PageSource = (*Source)(nil)

// Source reads .txt and .md documents.
type Source struct{}

// NewSource creates a plain text page source.
func NewSource() *Source {
	return &Source{}
}

// Supports reports whether the file is a plain text document.
func (s *Source) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	default:
		return false
	}
}

// Pages reads the document and splits it into pages on form feeds.
// Page numbering is 1-based and counts empty pages, so numbers stay stable
// when mid-document pages are blank.
func (s *Source) Pages(ctx context.Context, path string) ([]domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	parts := strings.Split(string(data), "\f")
	pages := make([]domain.Page, len(parts))
	for i, part := range parts {
		pages[i] = domain.Page{Num: i + 1, Text: part}
	}
	return pages, nil
}
