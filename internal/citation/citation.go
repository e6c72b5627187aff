// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation builds BibTeX-style entries for paper records. Every
// function is pure: the same record always yields the same bytes.
package citation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/papergenie/pkg/types"
)

// Surname returns the last whitespace-separated token of a display name.
func Surname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// GivenNames returns every token of a display name except the surname.
func GivenNames(name string) string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[:len(fields)-1], " ")
}

// Key returns the base citation key: the lowercased surname of the first
// author followed by the publication year (e.g. "vaswani2017").
func Key(p *types.Paper) string {
	var surname string
	if len(p.Authors) > 0 {
		surname = strings.ToLower(Surname(p.Authors[0]))
	}
	return surname + strconv.Itoa(p.Year())
}

// Format renders the entry for p under its base key.
func Format(p *types.Paper) string {
	return FormatWithKey(p, Key(p))
}

// FormatWithKey renders the entry for p under the given key.
func FormatWithKey(p *types.Paper, key string) string {
	year := strconv.Itoa(p.Year())

	var b strings.Builder
	fmt.Fprintf(&b, "@article{%s,\n", key)
	fmt.Fprintf(&b, "  title={\"%s\"},\n", p.Title)
	fmt.Fprintf(&b, "  author={\"%s\"},\n", strings.Join(p.Authors, " and "))
	fmt.Fprintf(&b, "  journal={arXiv preprint arXiv:%s},\n", p.ID)
	fmt.Fprintf(&b, "  year={\"%s\"}\n", year)
	b.WriteString("}")
	return b.String()
}

// Keys assigns a key to every paper in order. The first paper with a given
// base key keeps it; later ones get "b", "c", ... appended, so two papers by
// the same first-author surname in the same year stay distinguishable.
func Keys(papers []*types.Paper) []string {
	keys := make([]string, len(papers))
	taken := make(map[string]bool, len(papers))
	counts := make(map[string]int, len(papers))
	for i, p := range papers {
		base := Key(p)
		key := base
		for n := counts[base]; taken[key]; n++ {
			key = base + suffix(n)
		}
		counts[base]++
		taken[key] = true
		keys[i] = key
	}
	return keys
}

// FormatAll sets the Citation field of every paper using disambiguated keys.
func FormatAll(papers []*types.Paper) {
	for i, key := range Keys(papers) {
		papers[i].Citation = FormatWithKey(papers[i], key)
	}
}

// suffix maps 1 → "b", 2 → "c", ..., 25 → "z", 26 → "ba", ...
func suffix(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if n < len(letters) {
		return string(letters[n])
	}
	return suffix(n/len(letters)) + string(letters[n%len(letters)])
}
