// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pdiddy/papergenie/internal/citation"
	"github.com/pdiddy/papergenie/pkg/types"
)

const (
	titleWidth  = 60
	authorWidth = 22
)

// FormatTable writes a human-readable listing of search results to w.
func FormatTable(papers []*types.Paper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	keys := citation.Keys(papers)
	rows := make([][]string, 0, len(papers))
	for i, p := range papers {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.ID,
			keys[i],
			runewidth.Truncate(strings.Join(strings.Fields(p.Title), " "), titleWidth, "..."),
			formatAuthors(p.Authors),
			p.PublishedDate(),
		})
	}

	table.Header([]string{"Rank", "ID", "Key", "Title", "Authors", "Published"})
	table.Bulk(rows)
	table.Render()

	fmt.Fprintf(w, "\n%d results\n", len(papers))
}

// FormatJSON writes papers as an indented JSON array.
func FormatJSON(papers []*types.Paper, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return runewidth.Truncate(authors[0], authorWidth, "...")
	default:
		return runewidth.Truncate(authors[0], authorWidth-7, "...") + " et al."
	}
}
