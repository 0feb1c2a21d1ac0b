//go:build windows

package store

import (
	"os"

	"golang.org/x/sys/windows"
)

// lock the first byte of the sidecar file; that is enough for mutual exclusion
const lockRange = 1

// lockFileExclusive takes a write lock, blocking until it is granted
func lockFileExclusive(f *os.File) error {
	var ol windows.Overlapped
	return windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, lockRange, 0, &ol)
}

// lockFileShared takes a read lock, blocking until it is granted
func lockFileShared(f *os.File) error {
	var ol windows.Overlapped
	return windows.LockFileEx(windows.Handle(f.Fd()), 0, 0, lockRange, 0, &ol)
}

func unlockFile(f *os.File) error {
	var ol windows.Overlapped
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockRange, 0, &ol)
}
