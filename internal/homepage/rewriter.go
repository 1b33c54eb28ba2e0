package homepage

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/vaultindex/internal/markdown"
	"git.home.luguber.info/inful/vaultindex/internal/numbering"
)

// RewriteHeadings turns one note's headings into homepage back-link lines,
// in document order.
//
// Each emitted line nests two marker levels under the per-note section
// heading already present in the homepage, displays the (optionally
// §-numbered) title, and links back with an anchor built from the untouched
// original title so it resolves against the real heading in the note:
//
//	### §3.1.2 Cosets [[Group Theory#Cosets|→]]
//
// noteIndex is the note's 1-based position among its siblings; it becomes
// the leading component of the § label. The section counter is created here
// and dies here: numbering never leaks across notes.
func RewriteHeadings(body []byte, noteTitle string, noteIndex int, bookNumbering bool) []string {
	headings := markdown.ExtractHeadings(body)
	if len(headings) == 0 {
		return nil
	}

	counter := numbering.New()
	lines := make([]string, 0, len(headings))
	for _, h := range headings {
		depth := h.Level - 1
		prefix := ""
		if bookNumbering {
			prefix = fmt.Sprintf("§%d.%s ", noteIndex, counter.Increment(depth))
		}
		markers := strings.Repeat("#", h.Level+2)
		lines = append(lines, fmt.Sprintf("%s %s%s [[%s#%s|→]]",
			markers, prefix, h.Title, noteTitle, h.Title))
	}
	return lines
}
