// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/pkg/types"
)

// DefaultPath is where the report goes when none is configured.
const DefaultPath = "Summarized_Papers.docx"

// Renderer serializes a Document.
type Renderer interface {
	Render(w io.Writer, doc *Document) error
	Extension() string
}

// Report is the outcome of a write: where the file is, the digest, and the
// document that was rendered.
type Report struct {
	Path     string
	Digest   string
	Document *Document
}

// Writer assembles, renders and persists reports.
type Writer struct {
	path     string
	title    string
	renderer Renderer
	logger   zerolog.Logger
}

// NewWriter resolves the renderer from cfg.Format, or from the path
// extension when Format is empty.
func NewWriter(cfg types.ReportConfig, logger zerolog.Logger) (*Writer, error) {
	r, err := rendererFor(cfg.Format, cfg.Path)
	if err != nil {
		return nil, err
	}
	path := cfg.Path
	if path == "" {
		path = strings.TrimSuffix(DefaultPath, filepath.Ext(DefaultPath)) + r.Extension()
	}
	return &Writer{
		path:     path,
		title:    cfg.Title,
		renderer: r,
		logger:   logger.With().Str("component", "report").Logger(),
	}, nil
}

// Path returns the file the writer persists to.
func (w *Writer) Path() string { return w.path }

func rendererFor(format types.ReportFormat, path string) (Renderer, error) {
	switch format {
	case types.ReportDOCX:
		return DOCXRenderer{}, nil
	case types.ReportMarkdown:
		return MarkdownRenderer{}, nil
	case "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown":
			return MarkdownRenderer{}, nil
		default:
			return DOCXRenderer{}, nil
		}
	default:
		return nil, fmt.Errorf("unknown report format %q (want %s or %s)", format, types.ReportDOCX, types.ReportMarkdown)
	}
}

// Write builds the document and digest for papers and saves the document,
// replacing any previous file at the same path.
func (w *Writer) Write(papers []*types.Paper) (*Report, error) {
	doc := Assemble(w.title, papers)

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating report directory %s: %w", dir, err)
		}
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(w.path), ".report-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("setting report permissions: %w", err)
	}

	renderErr := w.renderer.Render(tmpFile, doc)
	closeErr := tmpFile.Close()
	if renderErr != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("rendering report: %w", renderErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("saving report %s: %w", w.path, err)
	}

	w.logger.Info().Str("path", w.path).Int("sections", doc.Sections()).Msg("report written")
	return &Report{Path: w.path, Digest: Digest(papers), Document: doc}, nil
}
