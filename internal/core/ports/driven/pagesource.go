package driven

import (
	"context"

	"github.com/policypulse/policypulse/internal/core/domain"
)

// PageSource turns one source document into ordered (page, text) pairs.
// Text extraction itself (PDF parsing and the like) lives behind this
// boundary; the core only chunks what it is given.
type PageSource interface {
	// Pages reads the document at path and returns its pages in order.
	Pages(ctx context.Context, path string) ([]domain.Page, error)

	// Supports reports whether this source can handle the file.
	Supports(path string) bool
}
