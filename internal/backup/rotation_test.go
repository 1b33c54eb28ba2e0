package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/vaultindex/internal/util/sets"
)

// newPool creates n stamped snapshot directories, oldest first, each holding
// sizeBytes of payload.
func newPool(t *testing.T, n int, sizeBytes int) string {
	t.Helper()
	pool := t.TempDir()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("vault-%s-%08d", base.AddDate(0, 0, i).Format("20060102-150405"), i)
		dir := filepath.Join(pool, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "payload.bin"), make([]byte, sizeBytes), 0o644))
	}
	return pool
}

func TestRotate_UnderThresholdIsNoOp(t *testing.T) {
	pool := newPool(t, 3, 100)

	report, err := Rotate(context.Background(), pool, Policy{ThresholdBytes: 2048, TargetBytes: 512, MinSnapshots: 1})
	require.NoError(t, err)
	require.Empty(t, report.Evicted)
	require.Equal(t, 3, report.FinalCount)
	require.Equal(t, int64(300), report.FinalSize)
}

func TestRotate_EmptyPoolIsNoOp(t *testing.T) {
	report, err := Rotate(context.Background(), t.TempDir(), Policy{ThresholdBytes: 1, TargetBytes: 1, MinSnapshots: 0})
	require.NoError(t, err)
	require.Empty(t, report.Evicted)
	require.Equal(t, 0, report.FinalCount)
}

func TestRotate_MissingPoolDirIsNoOp(t *testing.T) {
	report, err := Rotate(context.Background(), filepath.Join(t.TempDir(), "absent"), Policy{ThresholdBytes: 1, TargetBytes: 1})
	require.NoError(t, err)
	require.Equal(t, 0, report.FinalCount)
}

func TestRotate_MinimumCountFloorStopsBeforeSizeTarget(t *testing.T) {
	// Scaled-down version of the reference scenario: six snapshots of 366
	// bytes (total 2196), threshold 2048, target 512, minimum 4. The count
	// floor is reached first: two evictions, final size 1464.
	pool := newPool(t, 6, 366)

	report, err := Rotate(context.Background(), pool, Policy{ThresholdBytes: 2048, TargetBytes: 512, MinSnapshots: 4})
	require.NoError(t, err)
	require.Len(t, report.Evicted, 2)
	require.Equal(t, 4, report.FinalCount)
	require.Equal(t, int64(1464), report.FinalSize)

	entries, err := os.ReadDir(pool)
	require.NoError(t, err)
	require.Len(t, entries, 4)
}

func TestRotate_EvictsOldestFirstUntilSizeTarget(t *testing.T) {
	pool := newPool(t, 4, 100) // total 400

	report, err := Rotate(context.Background(), pool, Policy{ThresholdBytes: 300, TargetBytes: 150, MinSnapshots: 0})
	require.NoError(t, err)
	// 400 -> 300 -> 200 -> 100: three evictions, oldest first.
	require.Len(t, report.Evicted, 3)
	require.Equal(t, int64(100), report.FinalSize)

	snaps, err := listSnapshots(pool)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	// newest survives
	require.Contains(t, snaps[0].Name, "00000003")
	for i, name := range report.Evicted {
		require.Contains(t, name, fmt.Sprintf("%08d", i))
	}
}

func TestRotate_AllDeletionsFailingReturnsStalled(t *testing.T) {
	pool := newPool(t, 4, 100) // total 400, over threshold

	orig := removeSnapshot
	removeSnapshot = func(string) error { return fmt.Errorf("device busy") }
	defer func() { removeSnapshot = orig }()

	report, err := Rotate(context.Background(), pool, Policy{ThresholdBytes: 300, TargetBytes: 150, MinSnapshots: 0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "rotation made no progress")
	require.Empty(t, report.Evicted)
	require.Equal(t, 4, report.FinalCount)

	// nothing actually removed
	entries, readErr := os.ReadDir(pool)
	require.NoError(t, readErr)
	require.Len(t, entries, 4)
}

func TestRotate_SkipsFailingSnapshotAndEvictsNext(t *testing.T) {
	pool := newPool(t, 4, 100)

	orig := removeSnapshot
	removeSnapshot = func(path string) error {
		// the oldest snapshot is stuck, the rest delete fine
		if filepath.Base(path) == "vault-20260801-120000-00000000" {
			return fmt.Errorf("device busy")
		}
		return os.RemoveAll(path)
	}
	defer func() { removeSnapshot = orig }()

	report, err := Rotate(context.Background(), pool, Policy{ThresholdBytes: 300, TargetBytes: 150, MinSnapshots: 0})
	require.NoError(t, err)
	// the stuck oldest is skipped; the next three go, oldest first
	require.Equal(t, []string{
		"vault-20260802-120000-00000001",
		"vault-20260803-120000-00000002",
		"vault-20260804-120000-00000003",
	}, report.Evicted)
	require.Equal(t, int64(100), report.FinalSize)

	snaps, err := listSnapshots(pool)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Equal(t, "vault-20260801-120000-00000000", snaps[0].Name)
}

func TestRotate_CancelledContextStops(t *testing.T) {
	pool := newPool(t, 4, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Rotate(ctx, pool, Policy{ThresholdBytes: 300, TargetBytes: 150, MinSnapshots: 0})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOldest_TieBrokenByName(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.Local)
	snaps := []Snapshot{
		{Name: "vault-b", Created: created},
		{Name: "vault-a", Created: created},
		{Name: "vault-c", Created: created.Add(-time.Hour)},
	}

	victim, ok := oldest(snaps, sets.New[string]())
	require.True(t, ok)
	require.Equal(t, "vault-c", victim.Name)

	victim, ok = oldest(snaps, sets.New("vault-c"))
	require.True(t, ok)
	require.Equal(t, "vault-a", victim.Name)
}

func TestOldest_AllFailedMeansNoCandidate(t *testing.T) {
	snaps := []Snapshot{{Name: "a"}, {Name: "b"}}

	_, ok := oldest(snaps, sets.New("a", "b"))
	require.False(t, ok)
}

func TestSnapshotCreated_ParsesStampFromName(t *testing.T) {
	pool := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pool, "vault-20260815-093000-deadbeef"), 0o755))

	snaps, err := listSnapshots(pool)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Equal(t, time.Date(2026, 8, 15, 9, 30, 0, 0, time.Local), snaps[0].Created)
}
