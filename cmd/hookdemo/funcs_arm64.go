//go:build arm64

package main

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

type demoFuncs struct {
	double uintptr
	triple uintptr
}

func word(buf []byte, w uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, w)
	return append(buf, b...)
}

// buildDemoFunctions hand-assembles two AAPCS64 functions into a fresh RWX
// mapping: double(x)=x*2, padded with enough leading NOPs that its probed
// prefix has room for the 16-byte absolute jump plus the 4-byte
// scratch-restore; and triple(x)=x*3, never probed so it needs no padding.
func buildDemoFunctions() (*demoFuncs, error) {
	var doubleCode []byte
	// 6 NOPs = 24 bytes, matching ABSJMP_LEN(16)+SCRATCH_SAVE_LEN(4)+SCRATCH_RESTORE_LEN(4).
	for i := 0; i < 6; i++ {
		doubleCode = word(doubleCode, 0xD503201F) // nop
	}
	doubleCode = word(doubleCode, 0x8B000000) // add x0, x0, x0
	doubleCode = word(doubleCode, 0xD65F03C0) // ret

	var tripleCode []byte
	tripleCode = word(tripleCode, 0xAA0003E1) // mov x1, x0
	tripleCode = word(tripleCode, 0x8B000000) // add x0, x0, x0
	tripleCode = word(tripleCode, 0x8B010000) // add x0, x0, x1
	tripleCode = word(tripleCode, 0xD65F03C0) // ret

	page, err := mapRWX(len(doubleCode) + len(tripleCode))
	if err != nil {
		return nil, fmt.Errorf("mapping demo functions: %w", err)
	}

	copy(page, doubleCode)
	copy(page[len(doubleCode):], tripleCode)

	base := pageAddr(page)
	return &demoFuncs{
		double: base,
		triple: base + uintptr(len(doubleCode)),
	}, nil
}

func mapRWX(n int) ([]byte, error) {
	return unix.Mmap(-1, 0, pageLen(n), unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANON)
}
