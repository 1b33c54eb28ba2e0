// Package commands holds the kong command tree for the vaultindex CLI.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/vaultindex/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Verbose bool
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Index    IndexCmd    `cmd:"" help:"Run the full indexing sequence (backup, homepages, portals, statistics, banners, playlist)"`
	Rotate   RotateCmd   `cmd:"" help:"Take a snapshot and enforce the backup rotation policy"`
	Stats    StatsCmd    `cmd:"" help:"Regenerate the vault statistics report"`
	Playlist PlaylistCmd `cmd:"" help:"Regenerate the export playlist and its Part placeholders"`
	Banners  BannersCmd  `cmd:"" help:"Refresh metadata banners on all notes"`
	History  HistoryCmd  `cmd:"" help:"List recent indexing runs from the ledger"`
	Daemon   DaemonCmd   `cmd:"" help:"Run continuously, re-indexing on vault changes and on a schedule"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}
