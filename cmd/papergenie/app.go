package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/internal/extract"
	"github.com/pdiddy/papergenie/internal/feed"
	"github.com/pdiddy/papergenie/internal/fetch"
	"github.com/pdiddy/papergenie/internal/httputil"
	"github.com/pdiddy/papergenie/internal/observability"
	"github.com/pdiddy/papergenie/internal/pipeline"
	"github.com/pdiddy/papergenie/internal/report"
	"github.com/pdiddy/papergenie/internal/summarize"
	"github.com/pdiddy/papergenie/pkg/types"
)

// app holds the wired components for one process.
type app struct {
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	feed     *feed.Client
	pipeline *pipeline.Pipeline
	report   *report.Writer
}

// newApp builds every stage from c. The feed and summarizers share one
// rate-limited HTTP client with the configured timeout; PDF downloads use a
// client without one.
func newApp(ctx context.Context, c *types.Config, logger zerolog.Logger) (*app, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	hc := httputil.New(c.HTTP)

	fc := feed.NewClient(c.Feed, hc, logger)
	fetcher := fetch.New(c.Fetch, httputil.NewDownloader(c.HTTP), logger)

	extractor, err := extract.New(ctx, c.Extract, logger)
	if err != nil {
		return nil, fmt.Errorf("creating extractor: %w", err)
	}
	summarizer, err := summarize.New(c.Summarize, hc)
	if err != nil {
		return nil, fmt.Errorf("creating summarizer: %w", err)
	}
	writer, err := report.NewWriter(c.Report, logger)
	if err != nil {
		return nil, fmt.Errorf("creating report writer: %w", err)
	}

	p := pipeline.New(fc, fetcher, extractor, summarizer, writer,
		pipeline.WithLimits(pipeline.LimitsFromConfig(c.Summarize)),
		pipeline.WithMetrics(metrics),
		pipeline.WithLogger(logger),
	)

	return &app{
		logger:   logger,
		registry: reg,
		metrics:  metrics,
		feed:     fc,
		pipeline: p,
		report:   writer,
	}, nil
}
