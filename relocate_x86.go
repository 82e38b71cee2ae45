package hook

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// relocate rewrites the probed prefix for execution at destAddr. An
// instruction needs rewriting only if its disassembled line contains
// "(%rip)"; the signed displacement is recovered from that same line
// (GNUSyntax spells it "disp(%rip)", disp in hex with an optional leading
// "-"), the new absolute target is computed from the original
// base+displacement, and the new displacement is re-encoded relative to
// destAddr. If the new displacement overflows a signed 32-bit field, the
// whole relocation fails.
func (x86Capability) relocate(probe Probe, code []byte, srcAddr, destAddr uintptr) []byte {
	lines := strings.Split(strings.TrimRight(probe.Text, "\n"), "\n")
	out := make([]byte, probe.Len)
	copy(out, code[:probe.Len])

	off := 0
	for i, length := range probe.InstrLens {
		if i >= len(lines) || !strings.Contains(lines[i], "(%rip)") {
			off += length
			continue
		}

		disp, ok := parseRIPDisplacement(lines[i])
		if !ok {
			warnf("could not parse rip-relative displacement in %q", lines[i])
			return nil
		}
		if disp == 0 {
			warnf("rip-relative displacement is zero (ambiguous) in %q", lines[i])
			return nil
		}

		target := int64(srcAddr) + int64(off) + int64(length) + disp
		newDisp := target - (int64(destAddr) + int64(off) + int64(length))
		if newDisp > math.MaxInt32 || newDisp < math.MinInt32 {
			warnf("rip-relative displacement overflows 32 bits relocating instruction at offset %d", off)
			return nil
		}

		if !patchLE32(out[off:off+length], int32(disp), int32(newDisp)) {
			warnf("could not locate rip displacement bytes in instruction at offset %d", off)
			return nil
		}

		off += length
	}
	return out
}

// parseRIPDisplacement extracts the signed hex displacement immediately
// preceding "(%rip)" in an AT&T-syntax disassembly line, e.g. the "0x10" in
// "mov 0x10(%rip), %eax" or the "-0x30" in "lea -0x30(%rip), %rcx".
func parseRIPDisplacement(line string) (int64, bool) {
	idx := strings.Index(line, "(%rip)")
	if idx < 0 {
		return 0, false
	}
	start := idx
	for start > 0 {
		c := line[start-1]
		if c == ' ' || c == ',' || c == '+' {
			break
		}
		start--
	}
	tok := line[start:idx]
	neg := false
	if strings.HasPrefix(tok, "-") {
		neg = true
		tok = tok[1:]
	} else if strings.HasPrefix(tok, "+") {
		tok = tok[1:]
	}
	tok = strings.TrimPrefix(tok, "0x")
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(tok, 16, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// patchLE32 scans the trailing bytes of buf for the little-endian encoding
// of oldDisp and overwrites it with newDisp. The search window is limited
// to the last 8 bytes of the instruction, since a RIP-relative disp32
// field is always immediately followed by at most a 1-byte immediate.
func patchLE32(buf []byte, oldDisp, newDisp int32) bool {
	want := make([]byte, 4)
	binary.LittleEndian.PutUint32(want, uint32(oldDisp))

	lo := len(buf) - 8
	if lo < 0 {
		lo = 0
	}
	for start := len(buf) - 4; start >= lo; start-- {
		if bytes.Equal(buf[start:start+4], want) {
			binary.LittleEndian.PutUint32(buf[start:start+4], uint32(newDisp))
			return true
		}
	}
	return false
}
