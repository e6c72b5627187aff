// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns PDF bytes into plain text. Two backends exist: a
// pure-Go reader and the markitdown container.
package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/internal/container"
	"github.com/pdiddy/papergenie/pkg/types"
)

// ErrEmptyDocument is wrapped by ExtractionError when no bytes were given.
var ErrEmptyDocument = errors.New("empty document")

// Extractor converts a document to text.
type Extractor interface {
	Extract(ctx context.Context, doc []byte) (string, error)
}

// ExtractionError reports a document that could not be turned into text.
type ExtractionError struct {
	Backend string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction: %v", e.Backend, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

var whitespace = regexp.MustCompile(`\s+`)

// normalize collapses whitespace runs into single spaces.
func normalize(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// New builds the extractor named by cfg.Backend. The markitdown backend
// needs a working container runtime with the image present.
func New(ctx context.Context, cfg types.ExtractConfig, logger zerolog.Logger) (Extractor, error) {
	switch cfg.Backend {
	case "", types.ExtractPDF:
		return NewPDFExtractor(), nil
	case types.ExtractMarkitdown:
		rt, err := container.Detect(ctx)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownExtractor(ctx, rt, logger)
	default:
		return nil, fmt.Errorf("unknown extract backend %q (want %s or %s)", cfg.Backend, types.ExtractPDF, types.ExtractMarkitdown)
	}
}
