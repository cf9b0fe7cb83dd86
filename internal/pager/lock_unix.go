//go:build unix

package pager

import (
	"os"

	"golang.org/x/sys/unix"
)

// flockExclusive takes a non-blocking exclusive advisory lock on f,
// enforcing the single-user model spec.md §5 describes: a second
// process opening the same database file fails fast instead of
// silently corrupting pages underneath the first.
//
// Grounded in Giulio2002-gdbx/lock.go, which takes the equivalent
// syscall.Flock(LOCK_EX|LOCK_NB) on its environment lock file for the
// same single-writer reason.
func flockExclusive(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

func flockRelease(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
