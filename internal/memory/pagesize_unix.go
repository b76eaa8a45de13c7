//go:build unix

package memory

import "golang.org/x/sys/unix"

// osPageSize reports the native virtual-memory page size, used to round
// the persistent arena's reservation up to a page boundary the way the
// original engine's OS-backed arena reservation does.
func osPageSize() uintptr {
	return uintptr(unix.Getpagesize())
}
