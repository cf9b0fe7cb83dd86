//go:build !unix

package pager

import "os"

// flockExclusive is a no-op outside unix; platform-specific locking
// there mirrors Giulio2002-gdbx's split between lock.go and
// lock_windows.go rather than being implemented here.
func flockExclusive(f *os.File) error {
	return nil
}

func flockRelease(f *os.File) error {
	return nil
}
