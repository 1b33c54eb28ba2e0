package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *IndexError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *IndexError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// LayoutInvalid signals a vault missing one of its required subtrees.
// Raised before any mutation; aborts the whole run.
func LayoutInvalid(missing string) *IndexError {
	return New(CategoryConfig, SeverityFatal, "vault layout invalid: required subtree missing").
		WithContext("subtree", missing)
}

// Vault and filesystem errors

func NoteReadError(path string, cause error) *IndexError {
	return Wrap(cause, CategoryFileSystem, SeverityWarning, "note read failed").
		WithContext("path", path)
}

func NoteWriteError(path string, cause error) *IndexError {
	return Wrap(cause, CategoryFileSystem, SeverityWarning, "note write failed").
		WithContext("path", path)
}

func ScanError(root string, cause error) *IndexError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "vault scan failed").
		WithContext("root", root)
}

// Backup rotation errors

func SnapshotDeleteError(name string, cause error) *IndexError {
	return Wrap(cause, CategoryRotation, SeverityWarning, "snapshot deletion failed").
		WithContext("snapshot", name)
}

// RotationStalled means a full eviction pass removed nothing while the pool
// is still over target; the loop aborts rather than spinning.
func RotationStalled(failed int) *IndexError {
	return New(CategoryRotation, SeverityError, "rotation made no progress").
		WithContext("failed_snapshots", failed)
}

func MirrorError(src string, cause error) *IndexError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "snapshot mirror failed").
		WithContext("source", src)
}

// Runtime errors

func StageFailed(stage string, cause error) *IndexError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, "stage failed").
		WithContext("stage", stage)
}

func LedgerError(op string, cause error) *IndexError {
	return Wrap(cause, CategoryInternal, SeverityWarning, "run ledger operation failed").
		WithContext("operation", op)
}
