package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/vaultindex/internal/backup"
	"git.home.luguber.info/inful/vaultindex/internal/logfields"
)

// RotateCmd implements the 'rotate' command.
type RotateCmd struct {
	SkipSnapshot bool `help:"Only enforce the rotation policy, do not take a new snapshot first"`
}

func (r *RotateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !r.SkipSnapshot {
		name, err := backup.Mirror(ctx, cfg.Vault.Root, cfg.Backup.PoolDir, cfg.Backup.CopyConcurrency, time.Now())
		if err != nil {
			return err
		}
		slog.Info("Snapshot taken", logfields.Snapshot(name))
	}

	report, err := backup.Rotate(ctx, cfg.Backup.PoolDir, backup.Policy{
		ThresholdBytes: cfg.Backup.ThresholdBytes(),
		TargetBytes:    cfg.Backup.TargetBytes(),
		MinSnapshots:   cfg.Backup.MinSnapshots,
	})
	if err != nil {
		return err
	}
	slog.Info("Rotation finished",
		logfields.Count(len(report.Evicted)),
		logfields.PoolBytes(report.FinalSize),
		slog.Int("snapshots", report.FinalCount))
	return nil
}
