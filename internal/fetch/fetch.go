// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads paper PDFs. A missing document is an ordinary
// outcome, not an error: Fetch reports it with ok == false.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/pkg/types"
)

// DefaultPDFBaseURL is the arXiv PDF endpoint prefix.
const DefaultPDFBaseURL = "https://arxiv.org/pdf/"

// maxPDFSize bounds a single download.
const maxPDFSize = 100 << 20

// Doer executes HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher retrieves PDFs by paper id and optionally mirrors them to a cache
// directory.
type Fetcher struct {
	baseURL  string
	cacheDir string
	http     Doer
	logger   zerolog.Logger
}

// New creates a Fetcher. An empty PDFBaseURL selects DefaultPDFBaseURL; an
// empty CacheDir disables the on-disk copy.
func New(cfg types.FetchConfig, hc Doer, logger zerolog.Logger) *Fetcher {
	base := cfg.PDFBaseURL
	if base == "" {
		base = DefaultPDFBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Fetcher{
		baseURL:  base,
		cacheDir: cfg.CacheDir,
		http:     hc,
		logger:   logger.With().Str("component", "fetch").Logger(),
	}
}

// URL returns the download location for id.
func (f *Fetcher) URL(id string) string {
	return f.baseURL + id + ".pdf"
}

// Fetch downloads the PDF for id with a single GET. It returns the bytes and
// true only on HTTP 200; any other status or transport failure yields
// (nil, false).
func (f *Fetcher) Fetch(ctx context.Context, id string) ([]byte, bool) {
	if id == "" {
		return nil, false
	}
	url := f.URL(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Warn().Err(err).Str("id", id).Msg("building request")
		return nil, false
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Warn().Err(err).Str("id", id).Msg("pdf request failed")
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Info().Int("status", resp.StatusCode).Str("id", id).Msg("pdf not found")
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFSize))
	if err != nil {
		f.logger.Warn().Err(err).Str("id", id).Msg("reading pdf body")
		return nil, false
	}

	f.logger.Debug().Str("id", id).Int("bytes", len(data)).Msg("pdf downloaded")

	if f.cacheDir != "" {
		if err := f.store(id, data); err != nil {
			f.logger.Warn().Err(err).Str("id", id).Msg("caching pdf")
		}
	}
	return data, true
}

// CachePath returns where the PDF for id is written, or "" when caching is
// disabled.
func (f *Fetcher) CachePath(id string) string {
	if f.cacheDir == "" {
		return ""
	}
	return filepath.Join(f.cacheDir, cacheName(id))
}

// store writes data to the cache through a temporary file so a partial write
// never replaces an existing copy.
func (f *Fetcher) store(id string, data []byte) error {
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", f.cacheDir, err)
	}

	tmpFile, err := os.CreateTemp(f.cacheDir, ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing pdf: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, f.CachePath(id)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// cacheName flattens old-style ids (e.g. "hep-th/9901001v1") into a single
// file name.
func cacheName(id string) string {
	return strings.ReplaceAll(id, "/", "_") + ".pdf"
}
