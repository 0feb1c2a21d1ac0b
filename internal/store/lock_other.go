//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package store

import "os"

// No advisory locking on this platform; the in-process mutex still applies.

func lockFileExclusive(*os.File) error { return nil }

func lockFileShared(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
