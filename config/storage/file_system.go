package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// AtomicWrite replaces filePath with data so that readers observe either the
// old or the new content, never a partial write. When backups > 0 and the
// file already exists, a timestamped copy is kept first and only the newest
// backups are retained.
func AtomicWrite(filePath string, data []byte, backups int) error {
	if backups > 0 && FileExists(filePath) {
		bm := NewBackupManager(backups)
		if _, err := bm.CreateBackup(filePath); err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
	}

	dir := filepath.Dir(filePath)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	// rename is atomic on POSIX filesystems
	if err := os.Rename(tmpName, filePath); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	if backups > 0 {
		// Pruning is best effort, the write already succeeded
		_ = NewBackupManager(backups).CleanupOldBackups(filePath)
	}

	return nil
}

// MigrateConfig moves a legacy store document from oldPath to newPath.
// The legacy file must hold a JSON object; it is kept as oldPath.backup.
func MigrateConfig(oldPath, newPath string) error {
	data, err := os.ReadFile(oldPath)
	if err != nil {
		return fmt.Errorf("failed to read old store file: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("old store file is empty")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("old store file format is invalid: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := AtomicWrite(newPath, data, 0); err != nil {
		return fmt.Errorf("failed to write new store file: %w", err)
	}

	if err := os.Rename(oldPath, oldPath+".backup"); err != nil {
		return fmt.Errorf("migrated, but failed to back up old store file: %w", err)
	}

	return nil
}

// ShouldMigrateConfig checks if store migration should be performed
func ShouldMigrateConfig(oldPath, newPath string) bool {
	return FileExists(oldPath) && !FileExists(newPath)
}
