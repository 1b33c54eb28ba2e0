package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/vaultindex/internal/engine"
	"git.home.luguber.info/inful/vaultindex/internal/logfields"
	"git.home.luguber.info/inful/vaultindex/internal/runledger"
)

// IndexCmd implements the 'index' command: one full pass over the vault.
type IndexCmd struct {
	NoLedger bool `help:"Skip recording this run in the SQLite ledger"`
}

func (i *IndexCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var ledger runledger.Store
	if !i.NoLedger {
		ledger, err = runledger.NewSQLiteStore(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer func() { _ = ledger.Close() }()
	}

	started := time.Now()
	if err := engine.New(cfg, nil, ledger).Run(ctx); err != nil {
		return err
	}
	slog.Info("Indexing finished",
		logfields.Vault(cfg.Vault.Root),
		logfields.DurationMS(float64(time.Since(started).Milliseconds())))
	return nil
}
