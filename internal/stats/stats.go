// Package stats aggregates counts of tagged callout lines across the vault.
package stats

import (
	"bufio"
	"bytes"
	"regexp"
)

// Category is one recognized kind of tagged line. Matchers run in the order
// they appear in Categories; the first match wins and later categories never
// see the line.
type Category struct {
	Name string // callout tag, e.g. "definition"
	Row  string // report row label, e.g. "Definitions"
}

// Categories in fixed priority order. The order is part of the observable
// behavior: a line matching two patterns counts only for the earlier one.
var Categories = []Category{
	{Name: "definition", Row: "Definitions"},
	{Name: "theorem", Row: "Theorems"},
	{Name: "lemma", Row: "Lemmas"},
	{Name: "proposition", Row: "Propositions"},
	{Name: "corollary", Row: "Corollaries"},
	{Name: "example", Row: "Examples"},
	{Name: "caution", Row: "Cautions"},
	{Name: "question", Row: "Questions"},
	{Name: "axiom", Row: "Axioms"},
}

var matchers = func() []*regexp.Regexp {
	ms := make([]*regexp.Regexp, len(Categories))
	for i, c := range Categories {
		// Obsidian callout opener: "> [!definition]" with optional
		// leading whitespace and anything after the tag.
		ms[i] = regexp.MustCompile(`(?i)^\s*>\s*\[!` + c.Name + `\]`)
	}
	return ms
}()

// Aggregator accumulates category counts over note contents.
type Aggregator struct {
	counts []int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{counts: make([]int, len(Categories))}
}

// AddContent scans one note's content line by line. Each line increments at
// most one counter; lines matching no category contribute to nothing.
func (a *Aggregator) AddContent(content []byte) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		for i, m := range matchers {
			if m.Match(line) {
				a.counts[i]++
				break
			}
		}
	}
}

// Count returns the tally for one category row label.
func (a *Aggregator) Count(row string) int {
	for i, c := range Categories {
		if c.Row == row {
			return a.counts[i]
		}
	}
	return 0
}

// Total returns the sum over all categories.
func (a *Aggregator) Total() int {
	total := 0
	for _, n := range a.counts {
		total += n
	}
	return total
}
