package report

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papergenie/pkg/types"
)

func testPapers() []*types.Paper {
	return []*types.Paper{
		{
			ID:       "2301.07041v1",
			Title:    "Deep Learning for Diagnosis",
			Link:     "http://arxiv.org/abs/2301.07041v1",
			Summary:  "A CNN that reads scans.",
			Citation: "@article{smith2023,\n  title={\"Deep Learning for Diagnosis\"}\n}",
		},
		{
			ID:       "2302.00001v2",
			Title:    "Graphs & Molecules",
			Link:     "http://arxiv.org/abs/2302.00001v2",
			Summary:  "PDF not found",
			Citation: "@article{white2023,\n  title={\"Graphs & Molecules\"}\n}",
		},
	}
}

func TestStripControl(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"newline and tab", "a\nb\tc\r", "abc"},
		{"nul and bell", "x\x00y\x07z", "xyz"},
		{"delete", "ab\x7fc", "abc"},
		{"unicode kept", "naïve 🧠", "naïve 🧠"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripControl(tt.in))
		})
	}
}

func TestAssemble(t *testing.T) {
	papers := testPapers()
	papers[0].Summary = "line one\x00\nline two\x7f"

	doc := Assemble("", papers)

	require.Len(t, doc.Blocks, 1+7*2)
	assert.Equal(t, Block{BlockTitle, DefaultTitle}, doc.Blocks[0])
	assert.Equal(t, []Block{
		{BlockHeading, "Deep Learning for Diagnosis"},
		{BlockQuote, "Link: http://arxiv.org/abs/2301.07041v1"},
		{BlockLabel, "Summary:"},
		{BlockParagraph, "line oneline two"},
		{BlockLabel, "Citation (BibTeX):"},
		{BlockPreformatted, papers[0].Citation},
		{BlockBlank, ""},
	}, doc.Blocks[1:8])
	assert.Equal(t, 2, doc.Sections())
	assert.Equal(t, "line one\x00\nline two\x7f", papers[0].Summary, "input record must not change")
}

func TestAssemble_CustomTitleAndEmpty(t *testing.T) {
	doc := Assemble("Weekly Reading", nil)
	assert.Equal(t, []Block{{BlockTitle, "Weekly Reading"}}, doc.Blocks)
	assert.Zero(t, doc.Sections())
}

func TestDigest(t *testing.T) {
	want := "📌 Deep Learning for Diagnosis\n🧠 Summary: A CNN that reads scans.\n🔗 http://arxiv.org/abs/2301.07041v1" +
		"\n\n" +
		"📌 Graphs & Molecules\n🧠 Summary: PDF not found\n🔗 http://arxiv.org/abs/2302.00001v2"
	assert.Equal(t, want, Digest(testPapers()))
	assert.Equal(t, "", Digest(nil))
}

func TestMarkdownRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownRenderer{}.Render(&buf, Assemble("", testPapers())))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# AI Research Summaries\n\n## Deep Learning for Diagnosis\n\n> Link: http://arxiv.org/abs/2301.07041v1\n\n### Summary:\n\nA CNN that reads scans.\n\n"))
	assert.Contains(t, out, "```bibtex\n@article{white2023,\n")
	assert.Equal(t, 2, strings.Count(out, "\n---\n"))
}

// readDocx returns the parts of a docx archive keyed by name.
func readDocx(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	parts := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		parts[f.Name] = string(b)
	}
	return parts
}

func TestDOCXRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DOCXRenderer{}.Render(&buf, Assemble("", testPapers())))

	parts := readDocx(t, buf.Bytes())
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/_rels/document.xml.rels", "word/styles.xml", "word/document.xml"} {
		assert.Contains(t, parts, name)
	}

	body := parts["word/document.xml"]
	assert.Contains(t, body, `<w:pStyle w:val="Title"/></w:pPr><w:r><w:t xml:space="preserve">AI Research Summaries</w:t>`)
	assert.Contains(t, body, `<w:pStyle w:val="IntenseQuote"/>`)
	assert.Contains(t, body, "Graphs &amp; Molecules")
	assert.Contains(t, body, `<w:t xml:space="preserve">@article{smith2023,</w:t><w:br/>`)
	assert.Equal(t, 2, strings.Count(body, `<w:pStyle w:val="Heading1"/>`))
	assert.Equal(t, 4, strings.Count(body, `<w:pStyle w:val="Heading2"/>`))
}

func TestDOCXRenderer_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, DOCXRenderer{}.Render(&a, Assemble("", testPapers())))
	require.NoError(t, DOCXRenderer{}.Render(&b, Assemble("", testPapers())))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt; &amp; &#34;c&#34;", escape(`a <b> & "c"`))
	assert.Equal(t, "x�y", escape("x\x01y"))
}

func TestRendererFor(t *testing.T) {
	tests := []struct {
		format  types.ReportFormat
		path    string
		want    Renderer
		wantErr bool
	}{
		{"", "out.docx", DOCXRenderer{}, false},
		{"", "", DOCXRenderer{}, false},
		{"", "notes.MD", MarkdownRenderer{}, false},
		{"", "notes.markdown", MarkdownRenderer{}, false},
		{types.ReportMarkdown, "out.docx", MarkdownRenderer{}, false},
		{types.ReportDOCX, "out.md", DOCXRenderer{}, false},
		{"pdf", "out.pdf", nil, true},
	}
	for _, tt := range tests {
		got, err := rendererFor(tt.format, tt.path)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewWriter_DefaultPath(t *testing.T) {
	w, err := NewWriter(types.ReportConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, w.Path())

	w, err = NewWriter(types.ReportConfig{Format: types.ReportMarkdown}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "Summarized_Papers.md", w.Path())
}

func TestWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.docx")
	w, err := NewWriter(types.ReportConfig{Path: path}, zerolog.Nop())
	require.NoError(t, err)

	rep, err := w.Write(testPapers())
	require.NoError(t, err)

	assert.Equal(t, path, rep.Path)
	assert.Equal(t, Digest(testPapers()), rep.Digest)
	assert.Equal(t, 2, rep.Document.Sections())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	parts := readDocx(t, data)
	assert.Contains(t, parts["word/document.xml"], "PDF not found")

	// A second write replaces the file and leaves no temp files behind.
	_, err = w.Write(testPapers()[:1])
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriter_WriteFailsOnBadDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	w, err := NewWriter(types.ReportConfig{Path: filepath.Join(blocker, "report.md")}, zerolog.Nop())
	require.NoError(t, err)
	_, err = w.Write(testPapers())
	assert.Error(t, err)
}
