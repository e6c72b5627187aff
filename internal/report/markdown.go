package report

import (
	"bufio"
	"io"
	"strings"
)

// MarkdownRenderer writes a Document as CommonMark.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Extension() string { return ".md" }

func (MarkdownRenderer) Render(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	for _, b := range doc.Blocks {
		switch b.Kind {
		case BlockTitle:
			bw.WriteString("# " + b.Text + "\n\n")
		case BlockHeading:
			bw.WriteString("## " + b.Text + "\n\n")
		case BlockQuote:
			bw.WriteString("> " + b.Text + "\n\n")
		case BlockLabel:
			bw.WriteString("### " + b.Text + "\n\n")
		case BlockParagraph:
			bw.WriteString(b.Text + "\n\n")
		case BlockPreformatted:
			bw.WriteString("```bibtex\n" + strings.TrimRight(b.Text, "\n") + "\n```\n\n")
		case BlockBlank:
			bw.WriteString("---\n\n")
		}
	}
	return bw.Flush()
}
