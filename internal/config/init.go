package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init writes a starter configuration file to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Vault: VaultConfig{
			Root: "/home/user/Vault",
		},
		Backup: BackupConfig{
			PoolDir:      "/home/user/vault-backups",
			ThresholdMB:  2048,
			TargetMB:     512,
			MinSnapshots: 4,
		},
		Index: IndexConfig{
			BookNumbering:  true,
			HomepageSuffix: DefaultHomepageSuffix,
			StatsOutput:    DefaultStatsOutput,
		},
		Playlist: PlaylistConfig{
			Output:         DefaultPlaylistOutput,
			PartsDir:       DefaultPartsDir,
			RevisionMarker: DefaultRevisionMarker,
			CarveOutMarker: DefaultCarveOutMarker,
		},
		Ledger: LedgerConfig{
			Path: DefaultLedgerPath,
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}

	return os.WriteFile(configPath, data, 0o644)
}
