//go:build !linux

package hook

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapTrampolinePage maps an unconstrained RWX page. Non-Linux POSIX
// targets have no /proc/self/maps to anchor a gap search against, so this
// is a best-effort fallback: it skips straight to the unconstrained mmap
// that Linux only falls back to after a gap search fails.
func mapTrampolinePage() (*trampolinePage, error) {
	data, err := unix.Mmap(-1, 0, pageSize, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap failed: %w", err)
	}
	return &trampolinePage{base: uintptr(unsafe.Pointer(&data[0])), capacity: len(data)}, nil
}
