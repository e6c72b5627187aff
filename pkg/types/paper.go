// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the papergenie pipeline:
// the per-query paper record and the configuration tree for every stage.
package types

import "time"

// Outcome records which summary variant the pipeline produced for a paper.
type Outcome string

const (
	OutcomePending    Outcome = ""
	OutcomeSummarized Outcome = "summarized"
	OutcomeNotFound   Outcome = "not_found"
	OutcomeTooShort   Outcome = "too_short"
	OutcomeFailed     Outcome = "failed"
)

func (o Outcome) String() string {
	if o == OutcomePending {
		return "pending"
	}
	return string(o)
}

// Paper holds metadata for one feed entry plus the fields the pipeline fills
// in while processing it. A Paper lives only for the duration of one query.
type Paper struct {
	// ID is the final path segment of the entry link (e.g. "2301.07041v1").
	ID string `json:"id" yaml:"id"`

	// Title is the whitespace-trimmed paper title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the feed-provided abstract, not the generated summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Link is the canonical URL of the entry.
	Link string `json:"link" yaml:"link"`

	// Authors lists display names in feed order. Never empty for records
	// produced by the feed client.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the publication date with the time of day discarded.
	Published time.Time `json:"published" yaml:"published"`

	// Citation is the BibTeX entry, empty until citations are formatted.
	Citation string `json:"citation,omitempty" yaml:"citation,omitempty"`

	// Summary is the generated digest or a sentinel string.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Outcome tells whether Summary is a real summary or a sentinel.
	Outcome Outcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// PublishedDate renders the publication date as YYYY-MM-DD.
func (p *Paper) PublishedDate() string {
	return p.Published.Format(time.DateOnly)
}

// Year returns the publication year.
func (p *Paper) Year() int {
	return p.Published.Year()
}
