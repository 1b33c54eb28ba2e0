package config

import "time"

// Default marker strings and output locations. These are the values the
// original vault used; all are overridable in YAML.
const (
	DefaultHomepageSuffix = "Homepage"
	DefaultStatsOutput    = "SupportFiles/Statistics.md"
	DefaultPlaylistOutput = "SupportFiles/Export Playlist.txt"
	DefaultPartsDir       = "SupportFiles/Parts"
	DefaultRevisionMarker = "Revision"
	DefaultCarveOutMarker = "Exercises"
	DefaultLedgerPath     = "vaultindex.db"
)

// ApplyDefaults fills zero-valued optional fields in place.
func ApplyDefaults(cfg *Config) {
	if cfg.Backup.CopyConcurrency == 0 {
		cfg.Backup.CopyConcurrency = 4
	}
	if cfg.Index.HomepageSuffix == "" {
		cfg.Index.HomepageSuffix = DefaultHomepageSuffix
	}
	if cfg.Index.StatsOutput == "" {
		cfg.Index.StatsOutput = DefaultStatsOutput
	}
	if cfg.Playlist.Output == "" {
		cfg.Playlist.Output = DefaultPlaylistOutput
	}
	if cfg.Playlist.PartsDir == "" {
		cfg.Playlist.PartsDir = DefaultPartsDir
	}
	if cfg.Playlist.RevisionMarker == "" {
		cfg.Playlist.RevisionMarker = DefaultRevisionMarker
	}
	if cfg.Playlist.CarveOutMarker == "" {
		cfg.Playlist.CarveOutMarker = DefaultCarveOutMarker
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = DefaultLedgerPath
	}
	if cfg.Daemon.Interval == 0 {
		cfg.Daemon.Interval = Duration(6 * time.Hour)
	}
	if cfg.Daemon.Listen == "" {
		cfg.Daemon.Listen = "127.0.0.1:9377"
	}
	if cfg.Daemon.Debounce == 0 {
		cfg.Daemon.Debounce = Duration(2 * time.Second)
	}
}
