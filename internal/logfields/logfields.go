package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyVault      = "vault"
	KeyTopic      = "topic"
	KeyNote       = "note"
	KeySnapshot   = "snapshot"
	KeyPoolBytes  = "pool_bytes"
	KeyCount      = "count"
	KeyPath       = "path"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Vault(root string) slog.Attr     { return slog.String(KeyVault, root) }
func Topic(name string) slog.Attr     { return slog.String(KeyTopic, name) }
func Note(name string) slog.Attr      { return slog.String(KeyNote, name) }
func Snapshot(name string) slog.Attr  { return slog.String(KeySnapshot, name) }
func PoolBytes(n int64) slog.Attr     { return slog.Int64(KeyPoolBytes, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
