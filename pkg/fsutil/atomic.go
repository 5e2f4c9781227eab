package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly created files.
const DefaultFileMode os.FileMode = 0o644

// WriteAtomic writes content to path through a temp file in the same
// directory followed by a rename, so readers never see a partial file. A
// zero mode means DefaultFileMode. On error the target is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode.Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	committed = true
	return nil
}

// ReplaceResult describes what Replace did.
type ReplaceResult struct {
	// BackupPath is the backup that was created, or "".
	BackupPath string
}

// Replace rewrites the file described by snap with content. It fails with
// ErrModified when the file changed since the snapshot was taken, creates a
// backup according to backups, and writes atomically keeping the file mode.
func Replace(ctx context.Context, snap *Snapshot, content []byte, backups BackupConfig) (ReplaceResult, error) {
	var result ReplaceResult

	changed, err := snap.Changed(ctx)
	if err != nil {
		return result, err
	}
	if changed {
		return result, fmt.Errorf("%w: %s", ErrModified, snap.Path)
	}

	created, err := CreateBackup(ctx, snap.Path, backups)
	if err != nil {
		return result, err
	}
	if created {
		result.BackupPath = BackupPath(snap.Path, backups.Mode)
	}

	if err := WriteAtomic(ctx, snap.Path, content, snap.Mode); err != nil {
		return result, err
	}
	return result, nil
}
