//go:build windows

package memory

import "golang.org/x/sys/windows"

// osPageSize reports the native virtual-memory page size, used to round
// the persistent arena's reservation up to a page boundary the way the
// original engine's OS-backed arena reservation does.
func osPageSize() uintptr {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	if info.PageSize == 0 {
		return 4096
	}
	return uintptr(info.PageSize)
}
