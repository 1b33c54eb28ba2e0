// Package markdown provides read-only analysis of note bodies.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one titled subsection marker within a note.
//
// Level is the marker count (1 for "#"). Title is the raw source text of the
// heading line after the markers, untouched: link anchors generated from it
// must resolve against the real heading inside the note, so no inline markup
// is stripped or rewritten.
type Heading struct {
	Level int
	Title string
}

// ExtractHeadings parses a note body and returns its headings in document
// order. Free of I/O; the caller owns reading the note.
func ExtractHeadings(source []byte) []Heading {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	headings := make([]Heading, 0, 8)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Title: rawText(h, source),
		})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

// rawText concatenates the node's source line segments. Unlike walking the
// inline children, this preserves emphasis and wiki-link syntax verbatim.
func rawText(n gmast.Node, source []byte) string {
	lines := n.Lines()
	if lines.Len() == 0 {
		return ""
	}
	var out []byte
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, seg.Value(source)...)
	}
	// Multi-line (setext) headings keep a trailing newline per segment.
	for len(out) > 0 && (out[len(out)-1] == '\n' || out[len(out)-1] == '\r') {
		out = out[:len(out)-1]
	}
	return string(out)
}
