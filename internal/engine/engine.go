// Package engine sequences the indexing passes over a vault: backup
// rotation, homepage generation, portal aggregation, statistics, metadata
// banners, and the export playlist.
//
// No pass is transactional. Every generation step is an idempotent full
// overwrite, so an interrupted run is repaired by the next complete one.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/vaultindex/internal/backup"
	"git.home.luguber.info/inful/vaultindex/internal/banner"
	"git.home.luguber.info/inful/vaultindex/internal/config"
	idxerrors "git.home.luguber.info/inful/vaultindex/internal/errors"
	"git.home.luguber.info/inful/vaultindex/internal/homepage"
	"git.home.luguber.info/inful/vaultindex/internal/logfields"
	"git.home.luguber.info/inful/vaultindex/internal/metrics"
	"git.home.luguber.info/inful/vaultindex/internal/playlist"
	"git.home.luguber.info/inful/vaultindex/internal/runledger"
	"git.home.luguber.info/inful/vaultindex/internal/stats"
	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

// Stage names, in execution order.
const (
	StageBackup   = "backup"
	StageHomepage = "homepages"
	StagePortals  = "portals"
	StageStats    = "statistics"
	StageBanners  = "banners"
	StagePlaylist = "playlist"
)

// Engine runs the full indexing sequence.
type Engine struct {
	cfg      *config.Config
	recorder metrics.Recorder
	ledger   runledger.Store // nil disables the ledger
	now      func() time.Time
}

// New creates an engine. recorder may be nil (noop); ledger may be nil.
func New(cfg *config.Config, recorder metrics.Recorder, ledger runledger.Store) *Engine {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Engine{cfg: cfg, recorder: recorder, ledger: ledger, now: time.Now}
}

type stage struct {
	name string
	run  func(ctx context.Context, v *vault.Vault) error
}

// Run executes one full indexing run. Layout validation happens first and
// aborts before any mutation; after that, a failing stage is logged and the
// remaining stages still run, with the collected errors returned at the end.
func (e *Engine) Run(ctx context.Context) error {
	runID := uuid.NewString()
	started := e.now()

	v, err := vault.Open(e.cfg.Vault.Root)
	if err != nil {
		e.recorder.IncRunOutcome("failed")
		return err
	}

	slog.Info("Starting indexing run", logfields.RunID(runID), logfields.Vault(v.Root))
	e.ledgerStart(ctx, runID, started)

	stages := []stage{
		{StageBackup, e.stageBackup},
		{StageHomepage, e.stageHomepages},
		{StagePortals, e.stagePortals},
		{StageStats, e.stageStats},
		{StageBanners, e.stageBanners},
		{StagePlaylist, e.stagePlaylist},
	}

	var failures []error
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}

		stageStart := e.now()
		err := s.run(ctx, v)
		elapsed := e.now().Sub(stageStart)

		e.recorder.ObserveStageDuration(s.name, elapsed)
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
			failures = append(failures, idxerrors.StageFailed(s.name, err))
			slog.Error("Stage failed", logfields.Stage(s.name), logfields.Error(err))
		}
		e.recorder.IncStageResult(s.name, result)
		e.ledgerAppend(ctx, runID, runledger.EventStageFinished, map[string]string{
			"stage":       s.name,
			"result":      string(result),
			"duration_ms": strconv.FormatInt(elapsed.Milliseconds(), 10),
		})
		slog.Info("Stage finished",
			logfields.Stage(s.name),
			logfields.DurationMS(float64(elapsed.Milliseconds())))
	}

	e.recorder.ObserveRunDuration(e.now().Sub(started))
	status := runledger.StatusSucceeded
	outcome := "success"
	if len(failures) > 0 {
		status = runledger.StatusFailed
		outcome = "failed"
	}
	e.recorder.IncRunOutcome(outcome)
	e.ledgerFinish(ctx, runID, status)
	slog.Info("Indexing run finished", logfields.RunID(runID), slog.String("status", status))

	return errors.Join(failures...)
}

// RunStage validates the vault layout and executes one named stage. Used by
// the single-pass CLI commands; the full sequence lives in Run.
func (e *Engine) RunStage(ctx context.Context, name string) error {
	v, err := vault.Open(e.cfg.Vault.Root)
	if err != nil {
		return err
	}

	switch name {
	case StageBackup:
		return e.stageBackup(ctx, v)
	case StageHomepage:
		return e.stageHomepages(ctx, v)
	case StagePortals:
		return e.stagePortals(ctx, v)
	case StageStats:
		return e.stageStats(ctx, v)
	case StageBanners:
		return e.stageBanners(ctx, v)
	case StagePlaylist:
		return e.stagePlaylist(ctx, v)
	default:
		return fmt.Errorf("unknown stage %q", name)
	}
}

// stageBackup mirrors the vault into a new snapshot, then enforces the
// rotation policy over the pool.
func (e *Engine) stageBackup(ctx context.Context, v *vault.Vault) error {
	cfg := e.cfg.Backup
	snapDir, err := backup.Mirror(ctx, v.Root, cfg.PoolDir, cfg.CopyConcurrency, e.now())
	if err != nil {
		return err
	}
	slog.Info("Snapshot created", logfields.Snapshot(snapDir))

	report, err := backup.Rotate(ctx, cfg.PoolDir, backup.Policy{
		ThresholdBytes: cfg.ThresholdBytes(),
		TargetBytes:    cfg.TargetBytes(),
		MinSnapshots:   cfg.MinSnapshots,
	})
	if report != nil {
		e.recorder.AddSnapshotsEvicted(len(report.Evicted))
		e.recorder.SetBackupPoolBytes(report.FinalSize)
	}
	return err
}

func (e *Engine) stageHomepages(_ context.Context, v *vault.Vault) error {
	builder := &homepage.Builder{
		BookNumbering: e.cfg.Index.BookNumbering,
		Suffix:        e.cfg.Index.HomepageSuffix,
		Now:           e.now,
	}

	for _, zone := range []vault.Zone{vault.ZoneKnowledge, vault.ZoneLecture} {
		topics, err := v.ScanZone(zone, e.cfg.Index.HomepageSuffix)
		if err != nil {
			return err
		}
		for i := range topics {
			topic := &topics[i]
			if _, err := builder.Write(topic); err != nil {
				slog.Warn("Skipping homepage write", logfields.Topic(topic.Name), logfields.Error(err))
				continue
			}
			e.recorder.AddNotesIndexed(len(topic.NonHomepageNotes()))
		}
	}
	return nil
}

func (e *Engine) stagePortals(_ context.Context, v *vault.Vault) error {
	portal := &homepage.Portal{Now: e.now}

	knowledge, err := v.ScanZone(vault.ZoneKnowledge, e.cfg.Index.HomepageSuffix)
	if err != nil {
		return err
	}
	if _, err := portal.Write(v, "Knowledge Portal", knowledge); err != nil {
		return err
	}

	lecture, err := v.ScanZone(vault.ZoneLecture, e.cfg.Index.HomepageSuffix)
	if err != nil {
		return err
	}
	if _, err := portal.Write(v, "Lecture Portal", lecture); err != nil {
		return err
	}
	return nil
}

func (e *Engine) stageStats(_ context.Context, v *vault.Vault) error {
	agg := stats.NewAggregator()
	for _, zone := range []vault.Zone{vault.ZoneKnowledge, vault.ZoneLecture} {
		topics, err := v.ScanZone(zone, e.cfg.Index.HomepageSuffix)
		if err != nil {
			return err
		}
		for i := range topics {
			for _, note := range topics[i].Notes {
				content, err := os.ReadFile(note.Path)
				if err != nil {
					slog.Warn("Skipping unreadable note",
						logfields.Note(note.Title),
						logfields.Error(idxerrors.NoteReadError(note.Path, err)))
					continue
				}
				agg.AddContent(content)
			}
		}
	}
	return stats.WriteReport(v.SupportPath(e.cfg.Index.StatsOutput), agg, e.now())
}

func (e *Engine) stageBanners(_ context.Context, v *vault.Vault) error {
	mgr := &banner.Manager{Now: e.now}
	for _, zone := range []vault.Zone{vault.ZoneKnowledge, vault.ZoneLecture} {
		topics, err := v.ScanZone(zone, e.cfg.Index.HomepageSuffix)
		if err != nil {
			return err
		}
		for i := range topics {
			// Homepages are regenerated wholesale each run; a banner on
			// them would not survive and is never written.
			for _, note := range topics[i].NonHomepageNotes() {
				if err := mgr.Rewrite(note); err != nil {
					slog.Warn("Skipping banner rewrite", logfields.Note(note.Title), logfields.Error(err))
				}
			}
		}
	}
	return nil
}

func (e *Engine) stagePlaylist(_ context.Context, v *vault.Vault) error {
	knowledge, err := v.ScanZone(vault.ZoneKnowledge, e.cfg.Index.HomepageSuffix)
	if err != nil {
		return err
	}
	lecture, err := v.ScanZone(vault.ZoneLecture, e.cfg.Index.HomepageSuffix)
	if err != nil {
		return err
	}

	gen := &playlist.Generator{
		RevisionMarker: e.cfg.Playlist.RevisionMarker,
		CarveOutMarker: e.cfg.Playlist.CarveOutMarker,
		PartsDir:       e.cfg.Playlist.PartsDir,
		Output:         e.cfg.Playlist.Output,
	}
	entries, err := gen.Write(v, knowledge, lecture)
	if err != nil {
		return err
	}
	slog.Info("Playlist written", logfields.Count(len(entries)), logfields.Path(e.cfg.Playlist.Output))
	return nil
}

func (e *Engine) ledgerStart(ctx context.Context, runID string, started time.Time) {
	if e.ledger == nil {
		return
	}
	if err := e.ledger.StartRun(ctx, runID, started); err != nil {
		slog.Warn("Run ledger unavailable", logfields.Error(idxerrors.LedgerError("start_run", err)))
		return
	}
	e.ledgerAppend(ctx, runID, runledger.EventRunStarted, map[string]string{
		"vault": e.cfg.Vault.Root,
	})
}

func (e *Engine) ledgerAppend(ctx context.Context, runID, eventType string, details map[string]string) {
	if e.ledger == nil {
		return
	}
	if err := e.ledger.Append(ctx, runID, eventType, details); err != nil {
		slog.Warn("Run ledger append failed", logfields.Error(idxerrors.LedgerError("append", err)))
	}
}

func (e *Engine) ledgerFinish(ctx context.Context, runID, status string) {
	if e.ledger == nil {
		return
	}
	e.ledgerAppend(ctx, runID, runledger.EventRunFinished, map[string]string{"status": status})
	if err := e.ledger.FinishRun(ctx, runID, status, e.now()); err != nil {
		slog.Warn("Run ledger finish failed", logfields.Error(idxerrors.LedgerError("finish_run", err)))
	}
}
