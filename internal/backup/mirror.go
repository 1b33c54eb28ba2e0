// Package backup owns the snapshot pool: one full-vault mirror is added per
// run and the rotation policy evicts old snapshots to bound pool size.
package backup

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	idxerrors "git.home.luguber.info/inful/vaultindex/internal/errors"
)

// snapshotStamp is the creation stamp embedded in snapshot names; rotation
// orders by it without trusting directory mtimes.
const snapshotStamp = "20060102-150405"

// SnapshotName builds a unique pool directory name for a snapshot taken at t.
func SnapshotName(t time.Time) string {
	return fmt.Sprintf("vault-%s-%s", t.Format(snapshotStamp), uuid.NewString()[:8])
}

// Mirror copies the full vault tree into a new snapshot directory under
// poolRoot and returns the snapshot path. The copy runs file-parallel
// internally but the call is synchronous and opaque: it either returns a
// complete snapshot or an error.
func Mirror(ctx context.Context, vaultRoot, poolRoot string, concurrency int, now time.Time) (string, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	snapDir := filepath.Join(poolRoot, SnapshotName(now))
	if err := os.MkdirAll(snapDir, 0o755); err != nil {
		return "", idxerrors.MirrorError(vaultRoot, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	err := filepath.WalkDir(vaultRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(vaultRoot, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(snapDir, rel)
		if d.IsDir() {
			// Directories are created in walk order, before any file
			// copy inside them is scheduled.
			return os.MkdirAll(dst, 0o755)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return copyFile(path, dst)
		})
		return nil
	})
	if werr := g.Wait(); err == nil {
		err = werr
	}
	if err != nil {
		return "", idxerrors.MirrorError(vaultRoot, err)
	}
	return snapDir, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
