// Package config loads and validates the vaultindex YAML configuration.
package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	idxerrors "git.home.luguber.info/inful/vaultindex/internal/errors"
	"git.home.luguber.info/inful/vaultindex/internal/vault"
)

// Config represents the application configuration.
type Config struct {
	Vault    VaultConfig    `yaml:"vault"`
	Backup   BackupConfig   `yaml:"backup"`
	Index    IndexConfig    `yaml:"index"`
	Playlist PlaylistConfig `yaml:"playlist"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Daemon   DaemonConfig   `yaml:"daemon"`
}

// VaultConfig holds the path to the vault root (the directory containing
// "Notes Root").
type VaultConfig struct {
	Root string `yaml:"root"`
}

// BackupConfig holds the snapshot pool location and rotation policy.
// Sizes are megabytes in YAML for operator convenience.
type BackupConfig struct {
	PoolDir      string `yaml:"pool_dir"`
	ThresholdMB  int64  `yaml:"threshold_mb"`
	TargetMB     int64  `yaml:"target_mb"`
	MinSnapshots int    `yaml:"min_snapshots"`
	// CopyConcurrency caps parallel file copies during the snapshot mirror.
	CopyConcurrency int `yaml:"copy_concurrency,omitempty"`
}

// ThresholdBytes returns the rotation trigger threshold in bytes.
func (b BackupConfig) ThresholdBytes() int64 { return b.ThresholdMB * 1024 * 1024 }

// TargetBytes returns the rotation shrink target in bytes.
func (b BackupConfig) TargetBytes() int64 { return b.TargetMB * 1024 * 1024 }

// IndexConfig tunes homepage generation.
type IndexConfig struct {
	// BookNumbering enables §-prefixed hierarchical section labels on
	// homepage back-links.
	BookNumbering bool `yaml:"book_numbering"`
	// HomepageSuffix identifies lecture homepages by filename suffix.
	HomepageSuffix string `yaml:"homepage_suffix,omitempty"`
	// StatsOutput is the vault-relative path of the statistics report.
	StatsOutput string `yaml:"stats_output,omitempty"`
}

// PlaylistConfig tunes export playlist generation.
type PlaylistConfig struct {
	// Output is the vault-relative path of the playlist file.
	Output string `yaml:"output,omitempty"`
	// PartsDir is the vault-relative directory receiving Part placeholders.
	PartsDir string `yaml:"parts_dir,omitempty"`
	// RevisionMarker excludes lecture notes containing the substring.
	RevisionMarker string `yaml:"revision_marker,omitempty"`
	// CarveOutMarker limits matching lecture topics to their Part placeholder.
	CarveOutMarker string `yaml:"carve_out_marker,omitempty"`
}

// LedgerConfig locates the SQLite run ledger.
type LedgerConfig struct {
	Path string `yaml:"path,omitempty"`
}

// DaemonConfig tunes daemon mode.
type DaemonConfig struct {
	Interval Duration `yaml:"interval,omitempty"`
	Listen   string   `yaml:"listen,omitempty"`
	// Debounce coalesces bursts of vault filesystem events.
	Debounce Duration `yaml:"debounce,omitempty"`
}

// Duration wraps time.Duration so YAML accepts "6h" style values.
type Duration time.Duration

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML accepts either a Go duration string or integer nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var ns int64
	if err := value.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(ns)
	return nil
}

// MarshalYAML renders the duration in Go string form.
func (d Duration) MarshalYAML() (any, error) { return time.Duration(d).String(), nil }

// Load reads, defaults, and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, idxerrors.ConfigNotFound(configPath)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, idxerrors.Wrap(err, idxerrors.CategoryConfig, idxerrors.SeverityFatal, "invalid configuration YAML").
			WithContext("path", configPath)
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, idxerrors.Wrap(err, idxerrors.CategoryValidation, idxerrors.SeverityFatal, "invalid configuration").
			WithContext("path", configPath)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Vault,
		validation.Field(&c.Vault.Root, validation.Required),
	); err != nil {
		return fmt.Errorf("vault: %w", err)
	}

	if err := validation.ValidateStruct(&c.Backup,
		validation.Field(&c.Backup.PoolDir, validation.Required),
		validation.Field(&c.Backup.ThresholdMB, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Backup.TargetMB, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Backup.MinSnapshots, validation.Min(0)),
		validation.Field(&c.Backup.CopyConcurrency, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("backup: %w", err)
	}

	// Target must sit below the trigger threshold or rotation can never stop.
	if c.Backup.TargetMB >= c.Backup.ThresholdMB {
		return idxerrors.ValidationFailed("backup.target_mb", "must be less than backup.threshold_mb")
	}

	// A pool inside the vault would be mirrored into itself on every run.
	if insideVault(c.Backup.PoolDir, c.Vault.Root) {
		return idxerrors.ValidationFailed("backup.pool_dir", "must not be inside vault.root")
	}

	// The parts dir is wiped and rebuilt each run; anything outside
	// SupportFiles would wipe user notes.
	if !underSupportFiles(c.Playlist.PartsDir) {
		return idxerrors.ValidationFailed("playlist.parts_dir", "must be a relative path under SupportFiles")
	}

	return nil
}

func underSupportFiles(rel string) bool {
	clean := path.Clean(filepath.ToSlash(rel))
	return strings.HasPrefix(clean, vault.SupportFilesDir+"/")
}

func insideVault(poolDir, vaultRoot string) bool {
	pool, err := filepath.Abs(poolDir)
	if err != nil {
		return false
	}
	root, err := filepath.Abs(vaultRoot)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, pool)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}
