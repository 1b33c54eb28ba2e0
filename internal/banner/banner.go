// Package banner maintains the idempotent metadata block at the top of each
// note. The block is delimited by a single sentinel line; detector and
// generator share the one constant so they can never disagree.
package banner

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	idxerrors "git.home.luguber.info/inful/vaultindex/internal/errors"
	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

// Sentinel terminates a banner. Exactly this line, byte for byte. An
// Obsidian comment so the rendered note shows nothing.
const Sentinel = "%% vaultindex:banner:end %%"

// wordJoiner (U+2060) replaces whitespace in canonical names, keeping the
// name inseparable when export tooling wraps lines.
const wordJoiner = "⁠"

// Stamp is the timestamp layout used in banner fields.
const Stamp = "2006-01-02 15:04"

// provenance is the fixed note recorded in every banner.
const provenance = "Maintained by vaultindex; everything above this line is rewritten on each run."

// Manager rewrites banners. Now is injectable for deterministic tests.
type Manager struct {
	Now func() time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// CanonicalName builds the prefixed, whitespace-joined identifier recorded
// in a banner: flavor prefix plus the filename stem with every whitespace
// run replaced by a word joiner.
func CanonicalName(flavor vault.Flavor, title string) string {
	return flavor.BannerPrefix() + strings.Join(strings.Fields(title), wordJoiner)
}

// Apply returns content with exactly one fresh banner. If a prior banner is
// present (located by its sentinel line), every line from the start of the
// file through the sentinel is discarded first; the tail after it is kept
// untouched. Applying twice in a row changes only the Indexed field.
func (m *Manager) Apply(content []byte, note vault.Note) []byte {
	tail := stripBanner(string(content))

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n", CanonicalName(note.Flavor, note.Title))
	fmt.Fprintf(&sb, "Created: %s\n", note.Created.Format(Stamp))
	fmt.Fprintf(&sb, "Modified: %s\n", note.Modified.Format(Stamp))
	fmt.Fprintf(&sb, "Indexed: %s\n", m.now().Format(Stamp))
	sb.WriteString(provenance)
	sb.WriteString("\n")
	sb.WriteString(Sentinel)
	sb.WriteString("\n")
	sb.WriteString(tail)
	return []byte(sb.String())
}

// Rewrite applies a fresh banner to the note file in place. The write is
// skipped when the banner comes out identical, so an unchanged note keeps
// its mtime and file watchers stay quiet between edits.
func (m *Manager) Rewrite(note vault.Note) error {
	content, err := os.ReadFile(note.Path)
	if err != nil {
		return idxerrors.NoteReadError(note.Path, err)
	}
	updated := m.Apply(content, note)
	if bytes.Equal(content, updated) {
		return nil
	}
	if err := os.WriteFile(note.Path, updated, 0o644); err != nil {
		return idxerrors.NoteWriteError(note.Path, err)
	}
	return nil
}

// stripBanner removes at most one banner: everything up to and including
// the first line that exactly equals the sentinel. Without a sentinel the
// whole content is the tail.
func stripBanner(content string) string {
	rest := content
	consumed := 0
	for {
		line, remainder, found := strings.Cut(rest, "\n")
		if strings.TrimRight(line, "\r") == Sentinel {
			if !found {
				return ""
			}
			return content[consumed+len(line)+1:]
		}
		if !found {
			return content
		}
		consumed += len(line) + 1
		rest = remainder
	}
}
