package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/vaultindex/cmd/vaultindex/commands"
	"git.home.luguber.info/inful/vaultindex/internal/errors"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()

	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("vaultindex"),
		kong.Description("Keeps a note vault indexed: homepages, portals, banners, statistics, playlist, and rotated backups."),
		kong.Vars{"version": version},
	)

	err := ctx.Run(&commands.Global{Verbose: cli.Verbose})
	if err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, nil)
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(adapter.ExitCodeFor(err))
	}
}
