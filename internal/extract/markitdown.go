// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/internal/container"
)

// ImageMarkitdown is the converter image run by MarkitdownExtractor.
const ImageMarkitdown = "markitdown:latest"

// MarkitdownExtractor pipes the PDF through the markitdown container and
// returns its Markdown output as text.
type MarkitdownExtractor struct {
	runtime container.Runtime
	logger  zerolog.Logger
}

// NewMarkitdownExtractor verifies the image exists in rt before returning.
func NewMarkitdownExtractor(ctx context.Context, rt container.Runtime, logger zerolog.Logger) (*MarkitdownExtractor, error) {
	if err := rt.ImageExists(ctx, ImageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownExtractor{
		runtime: rt,
		logger:  logger.With().Str("component", "extract").Str("runtime", rt.Name()).Logger(),
	}, nil
}

// Extract runs one container per document.
func (m *MarkitdownExtractor) Extract(ctx context.Context, doc []byte) (string, error) {
	if len(doc) == 0 {
		return "", &ExtractionError{Backend: "markitdown", Err: ErrEmptyDocument}
	}

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, ImageMarkitdown, bytes.NewReader(doc), &out); err != nil {
		return "", &ExtractionError{Backend: "markitdown", Err: err}
	}
	m.logger.Debug().Int("bytes_in", len(doc)).Int("bytes_out", out.Len()).Msg("markitdown finished")

	if out.Len() == 0 {
		return "", &ExtractionError{Backend: "markitdown", Err: errors.New("empty output")}
	}
	return normalize(out.String()), nil
}
