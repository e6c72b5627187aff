// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report builds the per-query deliverables: a structured document
// with one section per paper, rendered to DOCX or Markdown, and a plain-text
// digest for display.
package report

import (
	"strings"

	"github.com/pdiddy/papergenie/pkg/types"
)

// DefaultTitle heads every report unless configured otherwise.
const DefaultTitle = "AI Research Summaries"

// Labels used inside each paper section.
const (
	LinkPrefix    = "Link: "
	SummaryLabel  = "Summary:"
	CitationLabel = "Citation (BibTeX):"
)

// Digest line markers.
const (
	markTitle   = "📌 "
	markSummary = "🧠 Summary: "
	markLink    = "🔗 "
)

// BlockKind is the role of a block in the document.
type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockHeading
	BlockQuote
	BlockLabel
	BlockParagraph
	BlockPreformatted
	BlockBlank
)

var blockKindNames = [...]string{"title", "heading", "quote", "label", "paragraph", "preformatted", "blank"}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// Block is one paragraph-level element.
type Block struct {
	Kind BlockKind
	Text string
}

// Document is an ordered list of blocks, independent of output format.
type Document struct {
	Blocks []Block
}

func (d *Document) add(kind BlockKind, text string) {
	d.Blocks = append(d.Blocks, Block{Kind: kind, Text: text})
}

// Sections returns the number of paper sections (one heading per paper).
func (d *Document) Sections() int {
	n := 0
	for _, b := range d.Blocks {
		if b.Kind == BlockHeading {
			n++
		}
	}
	return n
}

// Assemble lays out the report: the title, then for each paper its heading,
// link line, summary, citation and a blank separator. Summaries are stripped
// of control characters; citations are kept verbatim.
func Assemble(title string, papers []*types.Paper) *Document {
	if title == "" {
		title = DefaultTitle
	}
	doc := &Document{Blocks: make([]Block, 0, 1+7*len(papers))}
	doc.add(BlockTitle, title)
	for _, p := range papers {
		doc.add(BlockHeading, p.Title)
		doc.add(BlockQuote, LinkPrefix+p.Link)
		doc.add(BlockLabel, SummaryLabel)
		doc.add(BlockParagraph, StripControl(p.Summary))
		doc.add(BlockLabel, CitationLabel)
		doc.add(BlockPreformatted, p.Citation)
		doc.add(BlockBlank, "")
	}
	return doc
}

// Digest renders the plain-text overview: per paper a title, summary and
// link line, blocks separated by a blank line.
func Digest(papers []*types.Paper) string {
	blocks := make([]string, len(papers))
	for i, p := range papers {
		blocks[i] = markTitle + p.Title + "\n" + markSummary + p.Summary + "\n" + markLink + p.Link
	}
	return strings.Join(blocks, "\n\n")
}

// StripControl removes bytes 0x00-0x1F and 0x7F.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
