// Package homepage generates per-topic aggregate index files and the portal
// aggregates that embed them. Output files are fully regenerated each run;
// nothing is merged.
package homepage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	idxerrors "git.home.luguber.info/inful/vaultindex/internal/errors"
	"git.home.luguber.info/inful/vaultindex/internal/logfields"
	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

// GeneratedMarker is the comment identifying files this engine owns.
const GeneratedMarker = "%% automatically generated by vaultindex %%"

// Stamp is the timestamp layout used in generated callouts.
const Stamp = "2006-01-02 15:04"

// Builder generates topic homepages.
type Builder struct {
	// BookNumbering enables § section labels on back-links.
	BookNumbering bool
	// Suffix is the homepage filename suffix ("Homepage").
	Suffix string
	// Now is injectable for deterministic tests.
	Now func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Generate renders the homepage content for one topic: one section per
// non-homepage note in creation order, each followed by that note's
// rewritten heading links, closed by a timestamped info callout.
//
// A note that cannot be read is logged and skipped; the homepage still
// covers every readable sibling.
func (b *Builder) Generate(topic *vault.Topic) string {
	var sb strings.Builder
	sb.WriteString(GeneratedMarker)
	sb.WriteString("\n")

	for i, note := range topic.NonHomepageNotes() {
		body, err := os.ReadFile(note.Path)
		if err != nil {
			slog.Warn("Skipping unreadable note",
				logfields.Note(note.Title),
				logfields.Error(idxerrors.NoteReadError(note.Path, err)))
			continue
		}

		sb.WriteString("\n# ")
		sb.WriteString(note.Title)
		sb.WriteString("\n")
		for _, line := range RewriteHeadings(body, note.Title, i+1, b.BookNumbering) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	fmt.Fprintf(&sb, "\n> [!info] Generated %s\n", b.now().Format(Stamp))
	return sb.String()
}

// Write regenerates the topic's homepage file in place and returns its path.
// An existing homepage (lecture topics sometimes carry legacy names that
// only suffix-match) is overwritten under its own name; otherwise the
// canonical "<topic> <suffix>.md" is created.
func (b *Builder) Write(topic *vault.Topic) (string, error) {
	path := filepath.Join(topic.Path, topic.Name+" "+b.Suffix+".md")
	if existing, ok := topic.Homepage(); ok {
		path = existing.Path
	}
	if err := os.WriteFile(path, []byte(b.Generate(topic)), 0o644); err != nil {
		return "", idxerrors.NoteWriteError(path, err)
	}
	return path, nil
}
