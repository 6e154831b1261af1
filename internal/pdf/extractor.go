package pdf

import "context"

// PageExtractor extracts plain text from a PDF file page by page.
// Implementations return one string per page in document order, so the
// index of each entry is the zero-based page number.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}
