// Package vault models the note tree under management: required layout,
// topic/note discovery, and note classification.
package vault

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	idxerrors "git.home.luguber.info/inful/vaultindex/internal/errors"
)

// Required and optional subtrees under the notes root.
const (
	NotesRootDir    = "Notes Root"
	KnowledgeDir    = "Knowledge"
	LectureNotesDir = "LectureNotes"
	PortalsDir      = "Portals"
	SupportFilesDir = "SupportFiles"
)

// Zone identifies which subtree a topic lives in.
type Zone string

const (
	ZoneKnowledge Zone = "knowledge"
	ZoneLecture   Zone = "lecture"
)

// Vault is an opened, layout-validated note tree.
type Vault struct {
	// Root is the directory containing "Notes Root".
	Root string
}

// Open validates the vault layout and returns a handle. Knowledge and
// Portals must exist; the run aborts here, before any mutation, if not.
// LectureNotes and SupportFiles are read when present.
func Open(root string) (*Vault, error) {
	v := &Vault{Root: root}
	for _, required := range []string{
		filepath.Join(NotesRootDir, KnowledgeDir),
		filepath.Join(NotesRootDir, PortalsDir),
	} {
		info, err := os.Stat(filepath.Join(root, required))
		if err != nil || !info.IsDir() {
			return nil, idxerrors.LayoutInvalid(required).WithContext("vault", root)
		}
	}
	return v, nil
}

// NotesRoot returns the absolute path of the "Notes Root" directory.
func (v *Vault) NotesRoot() string { return filepath.Join(v.Root, NotesRootDir) }

// ZonePath returns the absolute path of a zone's subtree.
func (v *Vault) ZonePath(zone Zone) string {
	switch zone {
	case ZoneLecture:
		return filepath.Join(v.NotesRoot(), LectureNotesDir)
	default:
		return filepath.Join(v.NotesRoot(), KnowledgeDir)
	}
}

// PortalsPath returns the absolute path of the Portals directory.
func (v *Vault) PortalsPath() string { return filepath.Join(v.NotesRoot(), PortalsDir) }

// SupportPath resolves a vault-relative path (as used in config, e.g.
// "SupportFiles/Statistics.md") under the notes root.
func (v *Vault) SupportPath(rel string) string {
	return filepath.Join(v.NotesRoot(), filepath.FromSlash(rel))
}

// Topic is one directory unit under Knowledge or LectureNotes. Notes are
// ordered by creation time (ties broken by filename).
type Topic struct {
	Name    string
	Path    string
	Zone    Zone
	Created Time
	Notes   []Note
}

// NonHomepageNotes returns the topic's notes excluding generated homepages,
// preserving creation order.
func (t *Topic) NonHomepageNotes() []Note {
	out := make([]Note, 0, len(t.Notes))
	for _, n := range t.Notes {
		if !n.IsHomepage {
			out = append(out, n)
		}
	}
	return out
}

// Homepage returns the topic's homepage note, if one exists.
func (t *Topic) Homepage() (Note, bool) {
	for _, n := range t.Notes {
		if n.IsHomepage {
			return n, true
		}
	}
	return Note{}, false
}

// ScanZone enumerates a zone's topics with their notes. A missing zone
// directory (LectureNotes is optional) yields an empty slice. Topics are
// sorted by creation time, tie-broken by name.
func (v *Vault) ScanZone(zone Zone, homepageSuffix string) ([]Topic, error) {
	zoneDir := v.ZonePath(zone)
	entries, err := os.ReadDir(zoneDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, idxerrors.ScanError(zoneDir, err)
	}

	topics := make([]Topic, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		topicPath := filepath.Join(zoneDir, entry.Name())
		topic := Topic{
			Name:    entry.Name(),
			Path:    topicPath,
			Zone:    zone,
			Created: statTimes(topicPath).Created,
		}
		notes, err := scanNotes(&topic, homepageSuffix)
		if err != nil {
			return nil, err
		}
		topic.Notes = notes
		topics = append(topics, topic)
	}

	sort.Slice(topics, func(i, j int) bool {
		if !topics[i].Created.Equal(topics[j].Created) {
			return topics[i].Created.Before(topics[j].Created)
		}
		return topics[i].Name < topics[j].Name
	})
	return topics, nil
}

func scanNotes(topic *Topic, homepageSuffix string) ([]Note, error) {
	entries, err := os.ReadDir(topic.Path)
	if err != nil {
		return nil, idxerrors.ScanError(topic.Path, err)
	}

	notes := make([]Note, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		path := filepath.Join(topic.Path, entry.Name())
		times := statTimes(path)
		title := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		notes = append(notes, Note{
			Title:      title,
			Filename:   entry.Name(),
			Path:       path,
			Created:    times.Created,
			Modified:   times.Modified,
			Flavor:     classify(topic),
			IsHomepage: isHomepage(topic, title, homepageSuffix),
		})
	}

	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].Created.Equal(notes[j].Created) {
			return notes[i].Created.Before(notes[j].Created)
		}
		return notes[i].Filename < notes[j].Filename
	})
	return notes, nil
}

// isHomepage recognizes generated homepages. Knowledge topics name theirs
// exactly "<topic> <suffix>"; lecture topics historically drifted, so they
// match on suffix alone.
func isHomepage(topic *Topic, title, suffix string) bool {
	switch topic.Zone {
	case ZoneLecture:
		return strings.HasSuffix(nfc(title), nfc(suffix))
	default:
		return nfc(title) == nfc(topic.Name+" "+suffix)
	}
}

// nfc normalizes a title for comparison. Vaults synced from macOS carry NFD
// filenames that must still match NFC-composed config markers.
func nfc(s string) string { return norm.NFC.String(s) }

// ContainsMarker reports whether name contains marker, under NFC
// normalization and case folding.
func ContainsMarker(name, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(nfc(name)), strings.ToLower(nfc(marker)))
}
