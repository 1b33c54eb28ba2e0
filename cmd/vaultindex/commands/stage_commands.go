package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/vaultindex/internal/engine"
)

// StatsCmd implements the 'stats' command.
type StatsCmd struct{}

func (s *StatsCmd) Run(_ *Global, root *CLI) error {
	return runSingleStage(root, engine.StageStats)
}

// PlaylistCmd implements the 'playlist' command.
type PlaylistCmd struct{}

func (p *PlaylistCmd) Run(_ *Global, root *CLI) error {
	return runSingleStage(root, engine.StagePlaylist)
}

// BannersCmd implements the 'banners' command.
type BannersCmd struct{}

func (b *BannersCmd) Run(_ *Global, root *CLI) error {
	return runSingleStage(root, engine.StageBanners)
}

func runSingleStage(root *CLI, stage string) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return engine.New(cfg, nil, nil).RunStage(ctx, stage)
}
