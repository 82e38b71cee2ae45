package hook

import (
	"encoding/binary"
	"testing"
)

func arm64Word(w uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, w)
	return b
}

func TestARM64ProbeMinimumJumpSize(t *testing.T) {
	var code []byte
	for i := 0; i < 6; i++ {
		code = append(code, arm64Word(wordNOP)...)
	}
	code = append(code, arm64Word(0x8B000000)...) // add x0, x0, x0
	code = append(code, arm64Word(wordRET)...)

	probe, err := (arm64Capability{}).probeMinimumJumpSize(code, 24)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if probe.Len != 24 {
		t.Fatalf("Len = %d, want 24", probe.Len)
	}
	if len(probe.InstrLens) != 6 {
		t.Fatalf("len(InstrLens) = %d, want 6", len(probe.InstrLens))
	}
}

func TestARM64ProbeTruncatedFails(t *testing.T) {
	_, err := (arm64Capability{}).probeMinimumJumpSize([]byte{0x1F, 0x20, 0x03}, 4)
	if err == nil {
		t.Fatal("expected decode failure on a truncated instruction word")
	}
}

func TestARM64Mnemonic(t *testing.T) {
	cases := []struct {
		word uint32
		want string
	}{
		{0x14000010, "b #0"},
		{0x94000010, "bl #0"},
		{0x90000000, "adrp x0, #0"},
		{0x10000000, "adr x0, #0"},
		{0x58000020, "ldr x0, [pc, #0]"},
		{0xA9BF07E0, "stp (pre-index)"},
		{0xA8C107E0, "ldp (post-index)"},
		{wordNOP, "nop"},
		{wordRET, "ret"},
		{0xD61F0000, "br"},
		{0xD63F0000, "blr"},
	}
	for _, c := range cases {
		got := arm64Mnemonic(c.word)
		if got != c.want {
			t.Fatalf("arm64Mnemonic(%#x) = %q, want %q", c.word, got, c.want)
		}
	}
}
