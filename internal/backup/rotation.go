package backup

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	idxerrors "git.home.luguber.info/inful/vaultindex/internal/errors"
	"git.home.luguber.info/inful/vaultindex/internal/logfields"
	"git.home.luguber.info/inful/vaultindex/internal/util/sets"
)

// Policy bounds the snapshot pool. Rotation triggers when the pool exceeds
// ThresholdBytes and evicts oldest-first until the pool is at or below
// TargetBytes or only MinSnapshots remain, whichever comes first.
type Policy struct {
	ThresholdBytes int64
	TargetBytes    int64
	MinSnapshots   int
}

// Snapshot is one member of the pool.
type Snapshot struct {
	Name    string
	Path    string
	Created time.Time
	Size    int64
}

// Report summarizes one rotation pass.
type Report struct {
	Evicted    []string
	BytesFreed int64
	FinalSize  int64
	FinalCount int
}

var nameStamp = regexp.MustCompile(`\d{8}-\d{6}`)

// removeSnapshot is swapped out in tests to exercise deletion failure.
var removeSnapshot = os.RemoveAll

// Rotate enforces the policy over the pool. A failed deletion is logged,
// remembered, and skipped for the rest of the pass; every iteration either
// evicts a snapshot or shrinks the candidate set, so the loop always
// terminates. When the pool is still over target and nothing is left to
// evict, Rotate returns a RotationStalled error.
func Rotate(ctx context.Context, poolRoot string, policy Policy) (*Report, error) {
	snapshots, err := listSnapshots(poolRoot)
	if err != nil {
		return nil, err
	}

	total := int64(0)
	for _, s := range snapshots {
		total += s.Size
	}
	report := &Report{FinalSize: total, FinalCount: len(snapshots)}

	if total <= policy.ThresholdBytes || len(snapshots) == 0 {
		return report, nil
	}

	slog.Info("Rotating backup pool",
		logfields.Path(poolRoot),
		logfields.PoolBytes(total),
		logfields.Count(len(snapshots)))

	failed := sets.New[string]()
	remaining := snapshots

	for report.FinalSize > policy.TargetBytes && report.FinalCount > policy.MinSnapshots {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		victim, ok := oldest(remaining, failed)
		if !ok {
			return report, idxerrors.RotationStalled(failed.Len())
		}

		if err := removeSnapshot(victim.Path); err != nil {
			slog.Warn("Snapshot deletion failed, skipping for this pass",
				logfields.Error(idxerrors.SnapshotDeleteError(victim.Name, err)))
			failed.Add(victim.Name)
			continue
		}

		report.Evicted = append(report.Evicted, victim.Name)
		report.BytesFreed += victim.Size
		report.FinalSize -= victim.Size
		report.FinalCount--
		remaining = without(remaining, victim.Name)
		slog.Info("Evicted snapshot",
			logfields.Snapshot(victim.Name),
			logfields.PoolBytes(report.FinalSize),
			logfields.Count(report.FinalCount))
	}

	return report, nil
}

// listSnapshots enumerates pool member directories with their sizes.
// Creation time comes from the stamp embedded in the name; directories that
// predate stamped names fall back to mtime.
func listSnapshots(poolRoot string) ([]Snapshot, error) {
	entries, err := os.ReadDir(poolRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, idxerrors.ScanError(poolRoot, err)
	}

	snapshots := make([]Snapshot, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(poolRoot, entry.Name())
		size, err := dirSize(path)
		if err != nil {
			return nil, idxerrors.ScanError(path, err)
		}
		snapshots = append(snapshots, Snapshot{
			Name:    entry.Name(),
			Path:    path,
			Created: snapshotCreated(entry),
			Size:    size,
		})
	}
	return snapshots, nil
}

func snapshotCreated(entry os.DirEntry) time.Time {
	if m := nameStamp.FindString(entry.Name()); m != "" {
		if t, err := time.ParseInLocation(snapshotStamp, m, time.Local); err == nil {
			return t
		}
	}
	if info, err := entry.Info(); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}

// oldest picks the eviction candidate: earliest creation time, ties broken
// by name so eviction order is deterministic and reproducible.
func oldest(snapshots []Snapshot, failed sets.Set[string]) (Snapshot, bool) {
	candidates := make([]Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if !failed.Has(s.Name) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return Snapshot{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].Created.Equal(candidates[j].Created) {
			return candidates[i].Created.Before(candidates[j].Created)
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates[0], true
}

func without(snapshots []Snapshot, name string) []Snapshot {
	out := snapshots[:0]
	for _, s := range snapshots {
		if s.Name != name {
			out = append(out, s)
		}
	}
	return out
}

// dirSize sums the sizes of all regular files under root.
func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

// PoolSize reports the current total pool size in bytes.
func PoolSize(poolRoot string) (int64, error) {
	snapshots, err := listSnapshots(poolRoot)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, s := range snapshots {
		total += s.Size
	}
	return total, nil
}
