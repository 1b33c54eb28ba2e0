// Package playlist produces the ordered export list consumed by the
// external export collaborator, together with the per-Part placeholder
// files it references. Both artifacts fully replace their predecessors on
// every run; the playlist file is the entire coupling surface to the
// collaborator.
package playlist

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

// Fixed reference identifiers appended verbatim after the appendix Part.
var FixedReferences = []string{
	"Portals/Knowledge Portal",
	"Portals/Lecture Portal",
	"Portals/Vault Map",
	"SupportFiles/Statistics",
}

// Part is one numbered grouping placeholder.
type Part struct {
	Name    string // e.g. "Part 3"
	Content string
}

// Generator builds the export playlist. All marker fields are plain
// substrings compared NFC-normalized and case-folded.
type Generator struct {
	RevisionMarker string // excludes matching lecture notes
	CarveOutMarker string // limits matching lecture topics to their Part
	PartsDir       string // vault-relative, receives Part placeholder files
	Output         string // vault-relative playlist path
}

// Build walks the three zones in fixed order (Knowledge topics, LectureNotes
// topics, Appendix) and returns the flat identifier list plus the Part
// placeholders it references. Identifiers are vault-relative, one namespace:
// Part entries and note entries are distinguishable only by their string
// form.
func (g *Generator) Build(knowledge, lecture []vault.Topic) ([]string, []Part) {
	entries := make([]string, 0, 64)
	parts := make([]Part, 0, len(knowledge)+len(lecture)+1)

	addPart := func(content string) {
		name := fmt.Sprintf("Part %d", len(parts)+1)
		parts = append(parts, Part{Name: name, Content: content})
		entries = append(entries, g.PartsDir+"/"+name)
	}

	partBody := func(topic *vault.Topic) string {
		if hp, ok := topic.Homepage(); ok {
			return fmt.Sprintf("![[%s]]\n", hp.Title)
		}
		return fmt.Sprintf("# %s\n", topic.Name)
	}

	for i := range knowledge {
		topic := &knowledge[i]
		addPart(partBody(topic))
		for _, note := range topic.NonHomepageNotes() {
			entries = append(entries, noteIdentifier(vault.KnowledgeDir, topic.Name, note.Title))
		}
	}

	for i := range lecture {
		topic := &lecture[i]
		addPart(partBody(topic))
		if vault.ContainsMarker(topic.Name, g.CarveOutMarker) {
			// Intentional carve-out: the Part stands in for the whole topic.
			continue
		}
		for _, note := range topic.NonHomepageNotes() {
			if vault.ContainsMarker(note.Title, g.RevisionMarker) {
				continue
			}
			entries = append(entries, noteIdentifier(vault.LectureNotesDir, topic.Name, note.Title))
		}
	}

	addPart("# Appendix\n")
	entries = append(entries, FixedReferences...)

	return entries, parts
}

// Write regenerates the playlist file and the Parts directory, replacing
// whatever a previous run left behind.
func (g *Generator) Write(v *vault.Vault, knowledge, lecture []vault.Topic) ([]string, error) {
	entries, parts := g.Build(knowledge, lecture)

	// RemoveAll below; a parts dir resolving to the notes root or a zone
	// directory would take user notes with it.
	partsRel := path.Clean(filepath.ToSlash(g.PartsDir))
	if !strings.HasPrefix(partsRel, vault.SupportFilesDir+"/") {
		return nil, fmt.Errorf("parts dir %q must lie under %s", g.PartsDir, vault.SupportFilesDir)
	}

	partsDir := v.SupportPath(partsRel)
	if err := os.RemoveAll(partsDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(partsDir, 0o755); err != nil {
		return nil, err
	}
	for _, part := range parts {
		if err := os.WriteFile(filepath.Join(partsDir, part.Name+".md"), []byte(part.Content), 0o644); err != nil {
			return nil, err
		}
	}

	output := v.SupportPath(g.Output)
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(output, []byte(strings.Join(entries, "\n")+"\n"), 0o644); err != nil {
		return nil, err
	}
	return entries, nil
}

func noteIdentifier(zoneDir, topicName, title string) string {
	return zoneDir + "/" + topicName + "/" + CompactRomanNumeral(title)
}
