package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/vaultindex/internal/runledger"
)

// HistoryCmd implements the 'history' command: inspect the run ledger.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Number of runs to show" default:"10"`
	RunID string `name:"run" help:"Show the stage events of one run ID instead of the run list"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ledger, err := runledger.NewSQLiteStore(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	ctx := context.Background()
	if h.RunID != "" {
		return printEvents(ctx, ledger, h.RunID)
	}
	return printRuns(ctx, ledger, h.Limit)
}

func printRuns(ctx context.Context, ledger runledger.Store, limit int) error {
	runs, err := ledger.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, run := range runs {
		finished := "-"
		if !run.Finished.IsZero() {
			finished = run.Finished.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%s  %-9s  started %s  finished %s\n",
			run.ID, run.Status, run.Started.Format("2006-01-02 15:04:05"), finished)
	}
	return nil
}

func printEvents(ctx context.Context, ledger runledger.Store, runID string) error {
	events, err := ledger.EventsForRun(ctx, runID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Printf("no events for run %s\n", runID)
		return nil
	}

	for _, ev := range events {
		fmt.Printf("%s  %-15s  %s\n",
			ev.At.Format("2006-01-02 15:04:05"), ev.Type, formatDetails(ev.Details))
	}
	return nil
}

func formatDetails(details map[string]string) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+details[k])
	}
	return strings.Join(parts, " ")
}
