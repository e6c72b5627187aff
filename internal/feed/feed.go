// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed queries the arXiv Atom API and turns its listing into paper
// records. Malformed entries are dropped; an unreachable or unparsable feed
// fails the whole search with a MetadataError.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/pkg/types"
)

// DefaultBaseURL is the arXiv query endpoint.
const DefaultBaseURL = "http://export.arxiv.org/api/query"

var (
	// ErrEmptyQuery is returned when the query has no searchable terms.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrInvalidMaxResults is returned when maxResults is not positive.
	ErrInvalidMaxResults = errors.New("max results must be positive")
)

// MetadataError reports a feed that could not be reached or parsed. It is
// fatal to the query that triggered it.
type MetadataError struct {
	Op  string
	Err error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata feed: %s: %v", e.Op, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// Doer executes HTTP requests. *httputil.Client and *http.Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client searches the metadata feed.
type Client struct {
	baseURL string
	http    Doer
	logger  zerolog.Logger
}

// NewClient creates a feed client. An empty BaseURL selects DefaultBaseURL.
func NewClient(cfg types.FeedConfig, hc Doer, logger zerolog.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		http:    hc,
		logger:  logger.With().Str("component", "feed").Logger(),
	}
}

// Search fetches up to maxResults entries matching query, in the feed's
// relevance order.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]*types.Paper, error) {
	q := BuildQuery(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		return nil, ErrInvalidMaxResults
	}

	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d", c.baseURL, q, maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &MetadataError{Op: "creating request", Err: err}
	}
	req.Header.Set("Accept", "application/atom+xml")

	c.logger.Debug().Str("url", reqURL).Msg("querying feed")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &MetadataError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &MetadataError{Op: "request", Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	papers, dropped, err := Parse(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	for _, d := range dropped {
		c.logger.Debug().Str("entry", d.Entry).Str("reason", d.Reason).Msg("dropped malformed entry")
	}
	c.logger.Info().Str("query", query).Int("papers", len(papers)).Int("dropped", len(dropped)).Msg("feed parsed")
	return papers, nil
}

// BuildQuery turns free text into the search_query value: whitespace
// separated terms, each URL-escaped, joined by "+" under the all: field.
func BuildQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = url.QueryEscape(t)
	}
	return "all:" + strings.Join(terms, "+")
}

// Dropped describes a feed entry that was skipped.
type Dropped struct {
	Entry  string
	Reason string
}

// Parse decodes an Atom listing into papers. The entry id is the paper's
// abstract-page link. Entries missing a title, link,
// author, or publication date, or repeating an earlier id, are returned in
// dropped instead. An unparsable document yields a MetadataError.
func Parse(r io.Reader) (papers []*types.Paper, dropped []Dropped, err error) {
	f, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, nil, &MetadataError{Op: "parsing response", Err: err}
	}

	seen := make(map[string]bool)
	papers = make([]*types.Paper, 0, len(f.Items))
	for i, e := range f.Items {
		p, reason := entryToPaper(e)
		if reason == "" && seen[p.ID] {
			reason = "duplicate id " + p.ID
		}
		if reason != "" {
			dropped = append(dropped, Dropped{Entry: entryLabel(i, e), Reason: reason})
			continue
		}
		seen[p.ID] = true
		papers = append(papers, p)
	}
	return papers, dropped, nil
}

// entryToPaper converts one entry, returning a non-empty reason when the
// entry lacks a required field.
func entryToPaper(e *gofeed.Item) (*types.Paper, string) {
	if e == nil {
		return nil, "empty entry"
	}

	title := strings.TrimSpace(e.Title)
	if title == "" {
		return nil, "missing title"
	}

	link := strings.TrimSpace(e.GUID)
	id := idFromLink(link)
	if id == "" {
		return nil, "missing link"
	}

	var authors []string
	for _, a := range e.Authors {
		if a == nil {
			continue
		}
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) == 0 {
		return nil, "missing author"
	}

	published, err := parseDate(e.Published)
	if err != nil {
		return nil, "bad published date: " + err.Error()
	}

	return &types.Paper{
		ID:        id,
		Title:     title,
		Abstract:  strings.TrimSpace(e.Description),
		Link:      link,
		Authors:   authors,
		Published: published,
	}, ""
}

// idFromLink returns the final path segment of the entry link
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041v1").
func idFromLink(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return ""
	}
	seg := path.Base(strings.TrimRight(u.Path, "/"))
	if seg == "." || seg == "/" {
		return ""
	}
	return seg
}

// parseDate keeps the date component of an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty")
	}
	day, _, _ := strings.Cut(s, "T")
	return time.Parse(time.DateOnly, day)
}

func entryLabel(i int, e *gofeed.Item) string {
	if e != nil && strings.TrimSpace(e.GUID) != "" {
		return strings.TrimSpace(e.GUID)
	}
	return fmt.Sprintf("#%d", i+1)
}
