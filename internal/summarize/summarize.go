// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize produces short abstractive or extractive summaries of
// paper text. Backends are selected by configuration; the pipeline only sees
// the Summarizer interface.
package summarize

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/papergenie/pkg/types"
)

// Summarizer condenses text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts Options) (string, error)
}

// Options bounds a single summary. Lengths are in model tokens for hosted
// backends and in words for Lead.
type Options struct {
	MaxLength     int
	MinLength     int
	Deterministic bool
}

// DefaultOptions returns the bounds used for every paper.
func DefaultOptions() Options {
	return Options{MaxLength: 200, MinLength: 50, Deterministic: true}
}

// SummarizationError reports a backend that could not produce a summary.
type SummarizationError struct {
	Backend string
	Err     error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("%s summarization: %v", e.Backend, e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// APIError is a non-200 answer from a hosted model.
type APIError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API returned %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s API returned %d: %s", e.Service, e.StatusCode, e.Body)
}

// Doer executes HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New builds the summarizer named by cfg.Backend. Hosted backends use hc
// for every request.
func New(cfg types.SummarizeConfig, hc Doer) (Summarizer, error) {
	switch cfg.Backend {
	case "", types.SummarizeHuggingFace:
		return NewHuggingFace(cfg, hc), nil
	case types.SummarizeClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude summarizer needs an API key (summarize.api_key or .secrets/anthropic-api-key)")
		}
		return NewClaude(cfg, hc), nil
	case types.SummarizeLead:
		return NewLead(), nil
	default:
		return nil, fmt.Errorf("unknown summarize backend %q (want %s, %s or %s)",
			cfg.Backend, types.SummarizeHuggingFace, types.SummarizeClaude, types.SummarizeLead)
	}
}
