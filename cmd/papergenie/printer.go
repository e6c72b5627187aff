package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/pdiddy/papergenie/internal/pipeline"
)

// Printer writes user-facing CLI output. Diagnostics go through zerolog.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// ResolveColors reports whether output should be colored: never when
// disabled by flag, NO_COLOR, a dumb terminal, or a non-tty stdout.
func ResolveColors(disabled bool) bool {
	if disabled {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return !color.NoColor
}

// NewPrinter creates a printer writing to out and err.
func NewPrinter(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// Out returns the writer for command output.
func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) fprint(w io.Writer, c *color.Color, prefix, plainPrefix, format string, args ...any) {
	if p.useColors {
		c.EnableColor()
		_, _ = c.Fprintf(w, prefix+format+"\n", args...)
		return
	}
	fmt.Fprintf(w, plainPrefix+format+"\n", args...)
}

// Info prints an informational message.
func (p *Printer) Info(format string, args ...any) {
	p.fprint(p.out, color.New(color.FgCyan), "", "", format, args...)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	p.fprint(p.out, color.New(color.FgGreen), "✓ ", "[OK] ", format, args...)
}

// Warning prints a warning to stderr.
func (p *Printer) Warning(format string, args ...any) {
	p.fprint(p.err, color.New(color.FgYellow), "⚠ ", "[WARN] ", format, args...)
}

// Error prints an error to stderr.
func (p *Printer) Error(format string, args ...any) {
	p.fprint(p.err, color.New(color.FgRed), "✗ ", "[ERROR] ", format, args...)
}

// Header prints a section header.
func (p *Printer) Header(title string) {
	if p.useColors {
		c := color.New(color.Bold)
		c.EnableColor()
		_, _ = c.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("─", len([]rune(title))))
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
}

// Stats prints the per-outcome counts of a run.
func (p *Printer) Stats(s pipeline.Stats) {
	line := fmt.Sprintf("%d papers: %d summarized, %d not found, %d too short, %d failed",
		s.Total(), s.Summarized, s.NotFound, s.TooShort, s.Failed)
	if s.Failed > 0 || s.NotFound > 0 {
		p.Warning("%s", line)
		return
	}
	p.Success("%s", line)
}
