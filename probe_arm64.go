package hook

import (
	"encoding/binary"
	"strings"
)

// arm64Capability implements capability for AArch64, where every
// instruction is a fixed 4 bytes, so the probe is a table match against
// known mask/match encodings rather than a general decode.
type arm64Capability struct{}

const (
	maskB       = 0xFC000000
	matchB      = 0x14000000
	maskBL      = 0xFC000000
	matchBL     = 0x94000000
	maskADR     = 0x9F000000
	matchADR    = 0x10000000
	maskADRP    = 0x9F000000
	matchADRP   = 0x90000000
	maskLDRLit  = 0xFF000000
	matchLDRLit = 0x58000000
	maskSTP     = 0xFFC00000
	matchSTP    = 0xA9000000
	maskLDP     = 0xFFC00000
	matchLDP    = 0xA9400000
	wordNOP     = 0xD503201F
	wordRET     = 0xD65F03C0
	maskBR      = 0xFFFFFC1F
	matchBR     = 0xD61F0000
	maskBLR     = 0xFFFFFC1F
	matchBLR    = 0xD63F0000
)

// probeMinimumJumpSize decodes fixed 4-byte AArch64 instructions until the
// cumulative length reaches minBytes, producing one stable-prefix mnemonic
// line per instruction for the relocator to pattern-match against.
func (arm64Capability) probeMinimumJumpSize(code []byte, minBytes int) (Probe, error) {
	var lens []int
	var text strings.Builder
	total := 0
	for total < minBytes {
		if total+4 > len(code) {
			return Probe{}, newError(KindDecodeFailure, "fewer than 4 bytes remain at offset %d", total)
		}
		word := binary.LittleEndian.Uint32(code[total : total+4])
		text.WriteString(arm64Mnemonic(word))
		text.WriteByte('\n')
		lens = append(lens, 4)
		total += 4
	}
	return Probe{Len: total, InstrLens: lens, Text: text.String()}, nil
}

// arm64Mnemonic classifies a single instruction word. The placeholder "#0"
// in branch/load mnemonics is never parsed back out of the text; relocate
// re-derives the real immediate from the instruction word itself, the text
// is only used to decide whether relocation applies.
func arm64Mnemonic(word uint32) string {
	switch {
	case word&maskB == matchB:
		return "b #0"
	case word&maskBL == matchBL:
		return "bl #0"
	case word&maskADRP == matchADRP:
		return "adrp x0, #0"
	case word&maskADR == matchADR:
		return "adr x0, #0"
	case word&maskLDRLit == matchLDRLit:
		return "ldr x0, [pc, #0]"
	case word&maskSTP == matchSTP:
		return "stp (pre-index)"
	case word&maskLDP == matchLDP:
		return "ldp (post-index)"
	case word == wordNOP:
		return "nop"
	case word == wordRET:
		return "ret"
	case word&maskBR == matchBR:
		return "br"
	case word&maskBLR == matchBLR:
		return "blr"
	default:
		return "unknown"
	}
}
