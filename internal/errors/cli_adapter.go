package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// CLIErrorAdapter handles error presentation for the command line surface.
// Exit status is deliberately binary: any error exits 1. The indexer's
// callers are shell scripts that only branch on success/failure.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ie *IndexError
	if errors.As(err, &ie) {
		return a.formatIndexError(ie)
	}

	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) formatIndexError(err *IndexError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return fmt.Sprintf("Configuration error: %s", err.Message)
	case CategoryFileSystem:
		return fmt.Sprintf("Filesystem error: %s", err.Message)
	case CategoryRotation:
		return fmt.Sprintf("Backup rotation error: %s", err.Message)
	default:
		return fmt.Sprintf("Error: %s", err.Message)
	}
}

// LogError writes the error to the adapter's logger with structured context.
func (a *CLIErrorAdapter) LogError(err error) {
	if err == nil {
		return
	}

	var ie *IndexError
	if errors.As(err, &ie) {
		attrs := []any{"category", string(ie.Category), "severity", string(ie.Severity)}
		for k, v := range ie.Context {
			attrs = append(attrs, k, v)
		}
		a.logger.Error(ie.Message, attrs...)
		return
	}

	a.logger.Error(err.Error())
}
