package backup

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMirror_CopiesFullTree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "Notes Root", "Knowledge", "Algebra"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Notes Root", "Knowledge", "Algebra", "Groups.md"), []byte("# Groups\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.md"), []byte("top\n"), 0o644))
	pool := t.TempDir()

	snapDir, err := Mirror(context.Background(), src, pool, 4, time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Equal(t, pool, filepath.Dir(snapDir))

	data, err := os.ReadFile(filepath.Join(snapDir, "Notes Root", "Knowledge", "Algebra", "Groups.md"))
	require.NoError(t, err)
	require.Equal(t, "# Groups\n", string(data))

	data, err = os.ReadFile(filepath.Join(snapDir, "top.md"))
	require.NoError(t, err)
	require.Equal(t, "top\n", string(data))
}

func TestMirror_SnapshotNameIsStampedAndUnique(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.Local)
	pattern := regexp.MustCompile(`^vault-20260828-100000-[0-9a-f]{8}$`)

	a := SnapshotName(now)
	b := SnapshotName(now)
	require.Regexp(t, pattern, a)
	require.Regexp(t, pattern, b)
	require.NotEqual(t, a, b)
}

func TestMirror_MissingSourceFails(t *testing.T) {
	_, err := Mirror(context.Background(), filepath.Join(t.TempDir(), "absent"), t.TempDir(), 1, time.Now())
	require.Error(t, err)
}
