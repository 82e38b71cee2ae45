//go:build arm64

package hook

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/xyproto/splicehook/internal/callstub"
	"golang.org/x/sys/unix"
)

func arm64Words(words ...uint32) []byte {
	var buf []byte
	for _, w := range words {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, w)
		buf = append(buf, b...)
	}
	return buf
}

// buildHookableFuncARM64 assembles double(x)=x*2, padded with 6 leading
// NOPs (24 bytes) so the probed prefix always has room for the 16-byte
// absolute jump plus the 4-byte scratch-restore.
func buildHookableFuncARM64(t *testing.T) uintptr {
	t.Helper()
	code := arm64Words(
		wordNOP, wordNOP, wordNOP, wordNOP, wordNOP, wordNOP,
		0x8B000000, // add x0, x0, x0
		wordRET,
	)
	return mapARM64Code(t, code)
}

// buildReplacementFuncARM64 assembles triple(x)=x*3.
func buildReplacementFuncARM64(t *testing.T) uintptr {
	t.Helper()
	code := arm64Words(
		0xAA0003E1, // mov x1, x0
		0x8B000000, // add x0, x0, x0
		0x8B010000, // add x0, x0, x1
		wordRET,
	)
	return mapARM64Code(t, code)
}

func mapARM64Code(t *testing.T, code []byte) uintptr {
	t.Helper()
	page, err := unix.Mmap(-1, 0, 4096, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		t.Fatalf("mmap failed: %v", err)
	}
	copy(page, code)
	return uintptr(unsafe.Pointer(&page[0]))
}

func TestEndToEndDoubleThenTripleARM64(t *testing.T) {
	source := buildHookableFuncARM64(t)
	dest := buildReplacementFuncARM64(t)

	if got := callstub.Call(source, 5); got != 10 {
		t.Fatalf("before hook: f(5) = %d, want 10", got)
	}

	reg := NewRegistry()
	h := reg.Init("test-owner", source, dest)
	rec := reg.Get(h)

	if !rec.Hook() {
		t.Fatal("Hook() returned false")
	}

	if got := callstub.Call(source, 5); got != 15 {
		t.Fatalf("after hook: f(5) = %d, want 15 (redirected to triple)", got)
	}

	if got := callstub.Call(rec.Trampoline, 5); got != 10 {
		t.Fatalf("via trampoline: original f(5) = %d, want 10", got)
	}

	if !rec.Unhook() {
		t.Fatal("Unhook() returned false")
	}

	if got := callstub.Call(source, 5); got != 10 {
		t.Fatalf("after unhook: f(5) = %d, want 10 (original restored)", got)
	}
}
