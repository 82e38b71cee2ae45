//go:build linux

package hook

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// mapTrampolinePage maps one new RWX page, preferring a virtual-address gap
// near the host executable's own mappings so that AArch64's 26-bit and
// x86-64's 32-bit PC-relative reaches stay in range.
func mapTrampolinePage() (*trampolinePage, error) {
	if base, ok := findGapNearHostText(); ok {
		ps := uintptr(pageSize)
		for _, candidate := range []uintptr{base, base + ps, base + 2*ps} {
			if p := tryMapFixed(candidate); p != nil {
				return p, nil
			}
		}
		warnf("fixed-address trampoline mapping failed near host text at %#x, falling back to unconstrained mmap", base)
	}
	return mapUnconstrained()
}

// findGapNearHostText scans /proc/self/maps for the host executable's own
// mapping, then returns the start address (the previous mapping's end) of
// the first gap exceeding two page sizes that follows it.
func findGapNearHostText() (uintptr, bool) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		warnf("reading /proc/self/maps failed: %v", err)
		return 0, false
	}
	defer f.Close()

	exe, err := os.Executable()
	if err != nil {
		exe = ""
	}

	anchored := false
	var prevEnd uintptr
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		bounds := strings.SplitN(fields[0], "-", 2)
		if len(bounds) != 2 {
			continue
		}
		start, err1 := strconv.ParseUint(bounds[0], 16, 64)
		end, err2 := strconv.ParseUint(bounds[1], 16, 64)
		if err1 != nil || err2 != nil {
			continue
		}

		if anchored && prevEnd != 0 {
			if gap := uintptr(start) - prevEnd; gap > 2*uintptr(pageSize) {
				return prevEnd, true
			}
		}

		if !anchored && exe != "" && len(fields) >= 6 && fields[len(fields)-1] == exe {
			anchored = true
		}

		prevEnd = uintptr(end)
	}
	return 0, false
}

func tryMapFixed(addr uintptr) *trampolinePage {
	ret, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		addr,
		uintptr(pageSize),
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_FIXED,
		^uintptr(0),
		0,
	)
	if errno != 0 {
		return nil
	}
	return &trampolinePage{base: ret, capacity: pageSize}
}

func mapUnconstrained() (*trampolinePage, error) {
	ret, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		0,
		uintptr(pageSize),
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
		^uintptr(0),
		0,
	)
	if errno != 0 {
		return nil, fmt.Errorf("mmap failed: %v", errno)
	}
	return &trampolinePage{base: ret, capacity: pageSize}, nil
}
