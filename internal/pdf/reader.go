package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// Reader extracts page text from PDF files using the ledongthuc parser
type Reader struct {
	maxFileSize int64
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
	}
}

// ExtractPages reads a PDF file and returns its plain text one page at a
// time, in document order. A page whose text cannot be decoded keeps its
// slot as an empty string so page numbering stays aligned with the source
// document.
func (r *Reader) ExtractPages(ctx context.Context, path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Check if file exists and get basic info
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if fileInfo.Size() > r.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	// Open and parse PDF
	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, pdfReader.NumPage())
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content, err := extractPageText(page)
		if err != nil {
			// Keep the slot even when a single page fails to decode
			pages = append(pages, "")
			continue
		}

		pages = append(pages, content)
	}

	return pages, nil
}

// extractPageText decodes the plain text of a single page
func extractPageText(page pdf.Page) (text string, err error) {
	defer func() {
		// Recover from any panics in the underlying parser
		if r := recover(); r != nil {
			err = fmt.Errorf("page text extraction failed: %v", r)
		}
	}()

	return page.GetPlainText(nil)
}
