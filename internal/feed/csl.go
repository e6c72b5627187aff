package feed

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/papergenie/internal/citation"
	"github.com/pdiddy/papergenie/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes papers as a CSL-YAML list to w. Item ids are the same
// disambiguated keys used in the BibTeX entries.
func FormatCSL(papers []*types.Paper, w io.Writer) error {
	keys := citation.Keys(papers)
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = toCSLItem(p, keys[i])
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(p *types.Paper, key string) CSLItem {
	item := CSLItem{
		ID:             key,
		Type:           "article",
		Title:          p.Title,
		Abstract:       p.Abstract,
		URL:            p.Link,
		ContainerTitle: "arXiv preprint arXiv:" + p.ID,
	}

	for _, a := range p.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if !p.Published.IsZero() {
		item.Issued = &CSLDate{
			DateParts: [][]int{{p.Published.Year(), int(p.Published.Month()), p.Published.Day()}},
		}
	}
	return item
}

// parseAuthorName splits a display name into CSL family/given parts. The
// family name is the last token, matching the surname used for citation keys.
// Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	family := citation.Surname(name)
	if family == "" {
		return CSLName{}
	}
	given := citation.GivenNames(name)
	if given == "" {
		return CSLName{Literal: family}
	}
	return CSLName{Given: given, Family: family}
}
