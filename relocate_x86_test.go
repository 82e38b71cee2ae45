package hook

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestX86RelocateRIPRelative(t *testing.T) {
	// mov 0x10(%rip), %eax
	code := []byte{0x8B, 0x05, 0x10, 0x00, 0x00, 0x00}

	cap := x86Capability{}
	probe, err := cap.probeMinimumJumpSize(code, len(code))
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}

	const srcAddr = uintptr(0x1000)
	const destAddr = uintptr(0x5000)

	out := cap.relocate(probe, code, srcAddr, destAddr)
	if out == nil {
		t.Fatal("relocate returned nil, want rewritten bytes")
	}

	wantTarget := int64(srcAddr) + int64(len(code)) + 0x10
	wantDisp := wantTarget - (int64(destAddr) + int64(len(code)))

	gotDisp := int32(binary.LittleEndian.Uint32(out[2:6]))
	if int64(gotDisp) != wantDisp {
		t.Fatalf("patched displacement = %#x, want %#x", gotDisp, wantDisp)
	}
	// The opcode bytes themselves must be untouched.
	if out[0] != 0x8B || out[1] != 0x05 {
		t.Fatalf("opcode bytes corrupted: %x", out[:2])
	}
}

func TestX86RelocateNonRIPUnchanged(t *testing.T) {
	code := []byte{0x89, 0xF8, 0x01, 0xC0, 0xC3} // mov eax,edi; add eax,eax; ret
	cap := x86Capability{}
	probe, err := cap.probeMinimumJumpSize(code, len(code))
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	out := cap.relocate(probe, code, 0x1000, 0x5000)
	if out == nil {
		t.Fatal("relocate returned nil for non-PC-relative code")
	}
	for i := range code {
		if out[i] != code[i] {
			t.Fatalf("byte %d changed: got %#x want %#x", i, out[i], code[i])
		}
	}
}

func TestX86RelocateOverflowFails(t *testing.T) {
	code := []byte{0x8B, 0x05, 0x10, 0x00, 0x00, 0x00} // mov 0x10(%rip), %eax
	cap := x86Capability{}
	probe, err := cap.probeMinimumJumpSize(code, len(code))
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}

	// Push the destination far enough away that the new displacement
	// cannot fit in a signed 32-bit field.
	const srcAddr = uintptr(0x1000)
	destAddr := srcAddr + uintptr(math.MaxInt32) + 0x1000

	out := cap.relocate(probe, code, srcAddr, destAddr)
	if out != nil {
		t.Fatal("expected relocate to fail on displacement overflow")
	}
}

func TestX86RelocateZeroDisplacementFails(t *testing.T) {
	code := []byte{0x8B, 0x05, 0x00, 0x00, 0x00, 0x00} // mov 0x0(%rip), %eax
	cap := x86Capability{}
	probe, err := cap.probeMinimumJumpSize(code, len(code))
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	out := cap.relocate(probe, code, 0x1000, 0x5000)
	if out != nil {
		t.Fatal("expected relocate to fail on ambiguous zero displacement")
	}
}

func TestParseRIPDisplacement(t *testing.T) {
	cases := []struct {
		line string
		want int64
		ok   bool
	}{
		{"mov 0x10(%rip), %eax", 0x10, true},
		{"lea -0x30(%rip), %rcx", -0x30, true},
		{"nop", 0, false},
	}
	for _, c := range cases {
		got, ok := parseRIPDisplacement(c.line)
		if ok != c.ok {
			t.Fatalf("parseRIPDisplacement(%q) ok = %v, want %v", c.line, ok, c.ok)
		}
		if ok && got != c.want {
			t.Fatalf("parseRIPDisplacement(%q) = %#x, want %#x", c.line, got, c.want)
		}
	}
}
