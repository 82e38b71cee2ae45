package hook

import (
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// probeMinimumJumpSize decodes x86-64 instructions with x86asm until the
// cumulative length reaches minBytes. The per-instruction text is rendered
// with x86asm.GNUSyntax, whose AT&T-style output spells RIP-relative
// operands as "disp(%rip)", exactly the substring the relocator scans for.
func (x86Capability) probeMinimumJumpSize(code []byte, minBytes int) (Probe, error) {
	var lens []int
	var text strings.Builder
	total := 0
	for total < minBytes {
		if total >= len(code) {
			return Probe{}, newError(KindDecodeFailure, "ran out of bytes before reaching %d", minBytes)
		}
		inst, err := x86asm.Decode(code[total:], 64)
		if err != nil {
			return Probe{}, newError(KindDecodeFailure, "x86asm decode failed at offset %d: %v", total, err)
		}
		line := x86asm.GNUSyntax(inst, uint64(total), nil)
		lens = append(lens, inst.Len)
		text.WriteString(line)
		text.WriteByte('\n')
		total += inst.Len
	}
	return Probe{Len: total, InstrLens: lens, Text: text.String()}, nil
}
