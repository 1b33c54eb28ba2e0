package daemon

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

func watcherVault(t *testing.T) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{vault.KnowledgeDir, vault.PortalsDir, vault.SupportFilesDir} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, vault.NotesRootDir, dir), 0o755))
	}
	v, err := vault.Open(root)
	require.NoError(t, err)
	return v
}

func TestVaultWatcher_TriggersOnNoteWrite(t *testing.T) {
	v := watcherVault(t)
	var fired atomic.Int32

	w, err := NewVaultWatcher(v, "Homepage", 50*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	topic := filepath.Join(v.ZonePath(vault.ZoneKnowledge))
	require.NoError(t, os.WriteFile(filepath.Join(topic, "Groups.md"), []byte("# Groups\n"), 0o644))

	require.Eventually(t, func() bool { return fired.Load() >= 1 },
		2*time.Second, 20*time.Millisecond)
}

func TestVaultWatcher_IgnoresOwnArtifacts(t *testing.T) {
	v := watcherVault(t)
	w, err := NewVaultWatcher(v, "Homepage", 10*time.Millisecond, func() {})
	require.NoError(t, err)

	require.True(t, w.ignored(filepath.Join(v.ZonePath(vault.ZoneKnowledge), "Algebra", "Algebra Homepage.md")))
	require.True(t, w.ignored(filepath.Join(v.NotesRoot(), vault.SupportFilesDir, "Statistics.md")))
	require.True(t, w.ignored(filepath.Join(v.NotesRoot(), vault.SupportFilesDir, "Export Playlist.txt")))
	require.True(t, w.ignored(filepath.Join(v.NotesRoot(), vault.PortalsDir, "Knowledge Portal.md")))
	require.False(t, w.ignored(filepath.Join(v.ZonePath(vault.ZoneKnowledge), "Algebra", "Groups.md")))

	require.NoError(t, w.Stop())
}

func TestVaultWatcher_PausedDropsIndexerWrites(t *testing.T) {
	v := watcherVault(t)
	var fired atomic.Int32

	w, err := NewVaultWatcher(v, "Homepage", 50*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	// Writes landing while paused, like the banner pass touching every
	// note mid-run, must not schedule a reindex.
	w.Pause()
	topic := v.ZonePath(vault.ZoneKnowledge)
	require.NoError(t, os.WriteFile(filepath.Join(topic, "Groups.md"), []byte("# Groups\n"), 0o644))
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(0), fired.Load())

	w.Resume()
	require.NoError(t, os.WriteFile(filepath.Join(topic, "Rings.md"), []byte("# Rings\n"), 0o644))
	require.Eventually(t, func() bool { return fired.Load() >= 1 },
		2*time.Second, 20*time.Millisecond)
}

func TestVaultWatcher_PauseCancelsPendingDebounce(t *testing.T) {
	v := watcherVault(t)
	var fired atomic.Int32

	w, err := NewVaultWatcher(v, "Homepage", 150*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	topic := v.ZonePath(vault.ZoneKnowledge)
	require.NoError(t, os.WriteFile(filepath.Join(topic, "Groups.md"), []byte("# Groups\n"), 0o644))
	// Give the event time to arm the timer, then pause before it fires.
	time.Sleep(50 * time.Millisecond)
	w.Pause()
	time.Sleep(400 * time.Millisecond)
	require.Equal(t, int32(0), fired.Load())
}

func TestVaultWatcher_DebouncesBursts(t *testing.T) {
	v := watcherVault(t)
	var fired atomic.Int32

	w, err := NewVaultWatcher(v, "Homepage", 150*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	topic := v.ZonePath(vault.ZoneKnowledge)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(topic, "Groups.md"), []byte("# Groups\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return fired.Load() >= 1 },
		2*time.Second, 20*time.Millisecond)
	// the burst collapsed into a single trigger
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(1), fired.Load())
}
