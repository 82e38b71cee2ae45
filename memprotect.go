package hook

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

var pageSize = unix.Getpagesize()

func pageAlign(addr uintptr, length int) (base uintptr, size int) {
	ps := uintptr(pageSize)
	base = addr &^ (ps - 1)
	end := addr + uintptr(length)
	size = int(((end + ps - 1) &^ (ps - 1)) - base)
	return base, size
}

// withWritableCode temporarily marks the page(s) covering [addr, addr+length)
// read+write+exec, runs fn, then restores read+exec. It panics if restoring
// protection ever fails, since there is no sane recovery from a page stuck
// unprotectable.
func withWritableCode(addr uintptr, length int, fn func() error) error {
	base, size := pageAlign(addr, length)
	region := unsafe.Slice((*byte)(unsafe.Pointer(base)), size)

	if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC); err != nil {
		return newError(KindMappingFailure, "mprotect rwx failed: %v", err)
	}
	defer func() {
		if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_EXEC); err != nil {
			panic(err)
		}
	}()
	return fn()
}
