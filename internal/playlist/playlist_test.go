package playlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

func newGenerator() *Generator {
	return &Generator{
		RevisionMarker: "Revision",
		CarveOutMarker: "Exercises",
		PartsDir:       "SupportFiles/Parts",
		Output:         "SupportFiles/Export Playlist.txt",
	}
}

func knowledgeTopic(name string, notes ...string) vault.Topic {
	t := vault.Topic{Name: name, Zone: vault.ZoneKnowledge}
	for _, n := range notes {
		t.Notes = append(t.Notes, vault.Note{Title: n})
	}
	return t
}

func TestCompactRomanNumeral(t *testing.T) {
	cases := map[string]string{
		"Chapter IV":      "ChapterIV",
		"Chapter  IV":     "Chapter IV", // exactly one space removed
		"Analysis II":     "AnalysisII",
		"No numeral here": "No numeral here",
		"IV":              "IV",
		"Chapter 4":       "Chapter 4",
	}
	for in, want := range cases {
		require.Equal(t, want, CompactRomanNumeral(in), in)
	}
}

func TestBuild_KnowledgeOnlyOrdering(t *testing.T) {
	// Spec scenario: topics A then B by creation order, no lectures.
	a := knowledgeTopic("A", "One", "Two")
	b := knowledgeTopic("B", "Three")

	entries, parts := newGenerator().Build([]vault.Topic{a, b}, nil)

	require.Equal(t, []string{
		"SupportFiles/Parts/Part 1",
		"Knowledge/A/One",
		"Knowledge/A/Two",
		"SupportFiles/Parts/Part 2",
		"Knowledge/B/Three",
		"SupportFiles/Parts/Part 3",
		"Portals/Knowledge Portal",
		"Portals/Lecture Portal",
		"Portals/Vault Map",
		"SupportFiles/Statistics",
	}, entries)

	require.Len(t, parts, 3)
	require.Equal(t, "# Appendix\n", parts[2].Content)
}

func TestBuild_PartBodyEmbedsHomepageWhenPresent(t *testing.T) {
	topic := knowledgeTopic("Algebra", "Groups")
	topic.Notes = append(topic.Notes, vault.Note{Title: "Algebra Homepage", IsHomepage: true})

	entries, parts := newGenerator().Build([]vault.Topic{topic}, nil)

	require.Equal(t, "![[Algebra Homepage]]\n", parts[0].Content)
	// the homepage itself is never a playlist entry
	require.NotContains(t, entries, "Knowledge/Algebra/Algebra Homepage")
}

func TestBuild_PartBodyBareHeadingWithoutHomepage(t *testing.T) {
	_, parts := newGenerator().Build([]vault.Topic{knowledgeTopic("Algebra", "Groups")}, nil)
	require.Equal(t, "# Algebra\n", parts[0].Content)
}

func TestBuild_LectureRevisionNotesExcluded(t *testing.T) {
	lecture := vault.Topic{Name: "Calculus", Zone: vault.ZoneLecture, Notes: []vault.Note{
		{Title: "Lecture 1"},
		{Title: "Revision Week 3"},
		{Title: "Lecture 2"},
	}}

	entries, _ := newGenerator().Build(nil, []vault.Topic{lecture})

	require.Contains(t, entries, "LectureNotes/Calculus/Lecture 1")
	require.Contains(t, entries, "LectureNotes/Calculus/Lecture 2")
	require.NotContains(t, entries, "LectureNotes/Calculus/Revision Week 3")
}

func TestBuild_CarveOutTopicEmitsOnlyPart(t *testing.T) {
	lecture := vault.Topic{Name: "Calculus Exercises", Zone: vault.ZoneLecture, Notes: []vault.Note{
		{Title: "Sheet 1"},
		{Title: "Sheet 2"},
	}}

	entries, parts := newGenerator().Build(nil, []vault.Topic{lecture})

	require.Len(t, parts, 2) // carve-out part + appendix
	require.Contains(t, entries, "SupportFiles/Parts/Part 1")
	for _, e := range entries {
		require.NotContains(t, e, "Sheet")
	}
}

func TestBuild_RomanNumeralCompactionAppliedToEntries(t *testing.T) {
	entries, _ := newGenerator().Build([]vault.Topic{knowledgeTopic("Books", "Chapter IV")}, nil)
	require.Contains(t, entries, "Knowledge/Books/ChapterIV")
}

func TestWrite_ReplacesPlaylistAndPartsDir(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{vault.KnowledgeDir, vault.PortalsDir} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, vault.NotesRootDir, dir), 0o755))
	}
	v, err := vault.Open(root)
	require.NoError(t, err)

	g := newGenerator()
	staleDir := v.SupportPath(g.PartsDir)
	require.NoError(t, os.MkdirAll(staleDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staleDir, "Part 9.md"), []byte("stale\n"), 0o644))

	entries, err := g.Write(v, []vault.Topic{knowledgeTopic("A", "One")}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	_, err = os.Stat(filepath.Join(staleDir, "Part 9.md"))
	require.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(v.SupportPath(g.Output))
	require.NoError(t, err)
	require.Equal(t, strings.Join(entries, "\n")+"\n", string(data))

	body, err := os.ReadFile(filepath.Join(staleDir, "Part 1.md"))
	require.NoError(t, err)
	require.Equal(t, "# A\n", string(body))
}

func TestWrite_RefusesPartsDirOutsideSupportFiles(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{vault.KnowledgeDir, vault.PortalsDir} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, vault.NotesRootDir, dir), 0o755))
	}
	userNote := filepath.Join(root, vault.NotesRootDir, vault.KnowledgeDir, "A", "One.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(userNote), 0o755))
	require.NoError(t, os.WriteFile(userNote, []byte("# One\n"), 0o644))
	v, err := vault.Open(root)
	require.NoError(t, err)

	for _, partsDir := range []string{".", "..", "Knowledge", "SupportFiles", "SupportFiles/../Knowledge"} {
		g := newGenerator()
		g.PartsDir = partsDir
		_, err := g.Write(v, []vault.Topic{knowledgeTopic("A", "One")}, nil)
		require.Error(t, err, "parts dir %q", partsDir)
	}

	// nothing was deleted
	_, err = os.Stat(userNote)
	require.NoError(t, err)
}
