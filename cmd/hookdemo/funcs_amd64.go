//go:build amd64

package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type demoFuncs struct {
	double uintptr
	triple uintptr
}

// buildDemoFunctions hand-assembles two SysV AMD64 functions into a fresh
// RWX mapping: double(x)=x*2, padded with enough leading NOPs that its
// probed prefix has room for the absolute jump, scratch-restore, and
// NOP-fill the installer writes; and triple(x)=x*3, which is never probed
// so it needs no padding.
func buildDemoFunctions() (*demoFuncs, error) {
	// double: 14 NOPs (pads the hookable prefix to 14 bytes, matching
	// ABSJMP_LEN(12)+SCRATCH_RESTORE_LEN(1)+1 byte of NOP fill), then
	// mov eax, edi; add eax, eax; ret.
	var doubleCode []byte
	for i := 0; i < 14; i++ {
		doubleCode = append(doubleCode, 0x90)
	}
	doubleCode = append(doubleCode,
		0x89, 0xF8, // mov eax, edi
		0x01, 0xC0, // add eax, eax
		0xC3, // ret
	)

	// triple: mov eax, edi; add eax, edi; add eax, edi; ret.
	tripleCode := []byte{
		0x89, 0xF8, // mov eax, edi
		0x01, 0xF8, // add eax, edi
		0x01, 0xF8, // add eax, edi
		0xC3, // ret
	}

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
