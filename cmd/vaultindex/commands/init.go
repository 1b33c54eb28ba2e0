package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/vaultindex/internal/config"
	"git.home.luguber.info/inful/vaultindex/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	slog.Info("Configuration written", logfields.Path(root.Config))
	return nil
}
