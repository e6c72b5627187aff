// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one query end to end: search the feed, then for each
// paper in order fetch, extract, bound and summarize, then format citations
// and write the report. Per-paper failures become sentinel summaries; only a
// feed failure or a report-write failure aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/internal/citation"
	"github.com/pdiddy/papergenie/internal/extract"
	"github.com/pdiddy/papergenie/internal/observability"
	"github.com/pdiddy/papergenie/internal/report"
	"github.com/pdiddy/papergenie/internal/summarize"
	"github.com/pdiddy/papergenie/pkg/types"
)

// Sentinel summaries.
const (
	SummaryNotFound = "PDF not found"
	SummaryTooShort = "Not enough content to summarize"
	ErrorPrefix     = "Error: "
)

// Searcher returns feed entries for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]*types.Paper, error)
}

// Fetcher retrieves a paper's document; ok is false when it is unavailable.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (doc []byte, ok bool)
}

// ReportWriter persists the final report.
type ReportWriter interface {
	Write(papers []*types.Paper) (*report.Report, error)
}

// Limits bounds the text handed to the summarizer.
type Limits struct {
	MaxInputChars int
	MinInputChars int
	Summary       summarize.Options
}

// DefaultLimits returns a 4000-character prefix, a 100-character floor and
// the default summary options.
func DefaultLimits() Limits {
	return Limits{MaxInputChars: 4000, MinInputChars: 100, Summary: summarize.DefaultOptions()}
}

// LimitsFromConfig overlays non-zero values from cfg on DefaultLimits.
func LimitsFromConfig(cfg types.SummarizeConfig) Limits {
	l := DefaultLimits()
	if cfg.MaxInputChars > 0 {
		l.MaxInputChars = cfg.MaxInputChars
	}
	if cfg.MinInputChars > 0 {
		l.MinInputChars = cfg.MinInputChars
	}
	if cfg.MaxLength > 0 {
		l.Summary.MaxLength = cfg.MaxLength
	}
	if cfg.MinLength > 0 {
		l.Summary.MinLength = cfg.MinLength
	}
	return l
}

// Stats counts papers per outcome.
type Stats struct {
	Summarized int `json:"summarized"`
	NotFound   int `json:"not_found"`
	TooShort   int `json:"too_short"`
	Failed     int `json:"failed"`
}

// Total returns the number of papers counted.
func (s Stats) Total() int {
	return s.Summarized + s.NotFound + s.TooShort + s.Failed
}

func (s *Stats) add(o types.Outcome) {
	switch o {
	case types.OutcomeSummarized:
		s.Summarized++
	case types.OutcomeNotFound:
		s.NotFound++
	case types.OutcomeTooShort:
		s.TooShort++
	case types.OutcomeFailed:
		s.Failed++
	}
}

// Result is what a run hands back to the caller.
type Result struct {
	Query      string         `json:"query"`
	Digest     string         `json:"digest"`
	ReportPath string         `json:"report_path"`
	Papers     []*types.Paper `json:"papers"`
	Stats      Stats          `json:"stats"`
}

// Pipeline wires the stages together. It holds no per-query state, but a
// single Pipeline must not run two queries at once because they share the
// report path.
type Pipeline struct {
	search     Searcher
	fetch      Fetcher
	extractor  extract.Extractor
	summarizer summarize.Summarizer
	writer     ReportWriter
	limits     Limits
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLimits overrides DefaultLimits.
func WithLimits(l Limits) Option { return func(p *Pipeline) { p.limits = l } }

// WithMetrics records runs, stages and outcomes in m.
func WithMetrics(m *observability.Metrics) Option { return func(p *Pipeline) { p.metrics = m } }

// WithLogger sets the logger (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = l.With().Str("component", "pipeline").Logger() }
}

// New creates a Pipeline from its collaborators.
func New(s Searcher, f Fetcher, x extract.Extractor, sum summarize.Summarizer, w ReportWriter, opts ...Option) *Pipeline {
	p := &Pipeline{
		search:     s,
		fetch:      f,
		extractor:  x,
		summarizer: sum,
		writer:     w,
		limits:     DefaultLimits(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes query and returns the digest, report path and per-paper
// results. Papers keep the feed's order.
func (p *Pipeline) Run(ctx context.Context, query string, maxResults int) (res *Result, err error) {
	start := time.Now()
	defer func() { p.metrics.RecordRun(time.Since(start), err) }()

	logger := observability.WithQueryContext(p.logger, query, maxResults)

	t := time.Now()
	papers, err := p.search.Search(ctx, query, maxResults)
	p.metrics.ObserveStage(observability.StageSearch, time.Since(t))
	if err != nil {
		return nil, fmt.Errorf("searching feed: %w", err)
	}
	logger.Info().Int("papers", len(papers)).Msg("search complete")

	var stats Stats
	for _, paper := range papers {
		outcome, summary := p.summarizePaper(ctx, paper)
		paper.Outcome = outcome
		paper.Summary = summary
		stats.add(outcome)
		p.metrics.RecordPaper(outcome)

		pl := observability.WithPaperContext(logger, paper.ID, paper.Title)
		pl.Info().
			Str("outcome", outcome.String()).
			Msg("paper processed")
	}

	citation.FormatAll(papers)

	t = time.Now()
	rep, err := p.writer.Write(papers)
	p.metrics.ObserveStage(observability.StageReport, time.Since(t))
	if err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}

	logger.Info().
		Int("summarized", stats.Summarized).
		Int("not_found", stats.NotFound).
		Int("too_short", stats.TooShort).
		Int("failed", stats.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("run complete")

	return &Result{
		Query:      query,
		Digest:     rep.Digest,
		ReportPath: rep.Path,
		Papers:     papers,
		Stats:      stats,
	}, nil
}

// summarizePaper runs fetch, extract, bound and summarize for one paper and
// returns the outcome variant with its summary text. It never fails.
func (p *Pipeline) summarizePaper(ctx context.Context, paper *types.Paper) (types.Outcome, string) {
	t := time.Now()
	doc, ok := p.fetch.Fetch(ctx, paper.ID)
	p.metrics.ObserveStage(observability.StageFetch, time.Since(t))
	if !ok {
		return types.OutcomeNotFound, SummaryNotFound
	}

	t = time.Now()
	text, err := p.extractor.Extract(ctx, doc)
	p.metrics.ObserveStage(observability.StageExtract, time.Since(t))
	if err != nil {
		p.logger.Warn().Err(err).Str("paper_id", paper.ID).Msg("extraction failed")
		return types.OutcomeFailed, ErrorPrefix + err.Error()
	}

	bounded := Truncate(text, p.limits.MaxInputChars)
	if utf8.RuneCountInString(strings.TrimSpace(bounded)) < p.limits.MinInputChars {
		return types.OutcomeTooShort, SummaryTooShort
	}

	t = time.Now()
	summary, err := p.summarizer.Summarize(ctx, bounded, p.limits.Summary)
	p.metrics.ObserveStage(observability.StageSummarize, time.Since(t))
	if err != nil {
		p.logger.Warn().Err(err).Str("paper_id", paper.ID).Msg("summarization failed")
		return types.OutcomeFailed, ErrorPrefix + err.Error()
	}
	if strings.TrimSpace(summary) == "" {
		return types.OutcomeFailed, ErrorPrefix + "summarizer returned no text"
	}
	return types.OutcomeSummarized, summary
}

// Truncate returns the first n characters of s, counting runes so multi-byte
// characters are never split. n <= 0 leaves s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
