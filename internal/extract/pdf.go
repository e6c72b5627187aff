package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads text directly from PDF content streams.
type PDFExtractor struct{}

// NewPDFExtractor returns the pure-Go extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Extract returns the concatenated page text with whitespace collapsed.
// Malformed documents that make the reader panic are reported as an
// ExtractionError.
func (x *PDFExtractor) Extract(ctx context.Context, doc []byte) (text string, err error) {
	if len(doc) == 0 {
		return "", &ExtractionError{Backend: "pdf", Err: ErrEmptyDocument}
	}
	if err := ctx.Err(); err != nil {
		return "", &ExtractionError{Backend: "pdf", Err: err}
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Backend: "pdf", Err: fmt.Errorf("malformed document: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", &ExtractionError{Backend: "pdf", Err: fmt.Errorf("opening document: %w", err)}
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Backend: "pdf", Err: fmt.Errorf("reading text: %w", err)}
	}

	var b strings.Builder
	if _, err := io.Copy(&b, content); err != nil {
		return "", &ExtractionError{Backend: "pdf", Err: fmt.Errorf("reading text: %w", err)}
	}
	return normalize(b.String()), nil
}
