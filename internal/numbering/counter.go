// Package numbering implements hierarchical section labels for book-style
// homepage numbering.
package numbering

import (
	"strconv"
	"strings"
)

// Counter holds one mutable counter per heading depth. A Counter belongs to
// exactly one note-processing call; create a fresh one per note and never
// share it across notes.
type Counter struct {
	counters []int
}

// New returns an empty counter sequence.
func New() *Counter {
	return &Counter{}
}

// Increment advances the counter at the given depth and returns the rendered
// section label. Counters deeper than level reset to zero; the label joins
// every nonzero counter from depth 0 through level with ".".
//
// Zero counters at intermediate depths are omitted from the label, so a note
// that jumps from depth 0 straight to depth 2 renders "1.1", not "1.0.1".
// This matches the numbering the vault has always shown; changing it would
// renumber every printed homepage.
func (c *Counter) Increment(level int) string {
	if level < 0 {
		level = 0
	}
	for len(c.counters) <= level {
		c.counters = append(c.counters, 0)
	}
	c.counters[level]++
	for i := level + 1; i < len(c.counters); i++ {
		c.counters[i] = 0
	}

	parts := make([]string, 0, level+1)
	for i := 0; i <= level; i++ {
		if c.counters[i] != 0 {
			parts = append(parts, strconv.Itoa(c.counters[i]))
		}
	}
	return strings.Join(parts, ".")
}
