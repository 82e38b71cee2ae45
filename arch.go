package hook

import "github.com/xyproto/splicehook/internal/engine"

// Probe is the decoded prefix of a function: the cumulative byte length of
// the decoded instructions, the per-instruction lengths in order, and a
// newline-joined textual disassembly, one line per instruction, used only
// to pattern-match PC-relative operands.
type Probe struct {
	Len       int
	InstrLens []int
	Text      string
}

// capability is the uniform surface every architecture backend implements:
// probe, relocate, and the fixed byte sequences the installer splices in.
// capabilityFor selects between x86Capability and arm64Capability based on
// the running binary's GOARCH.
type capability interface {
	// probeMinimumJumpSize decodes instructions in code until the
	// cumulative length is >= minBytes.
	probeMinimumJumpSize(code []byte, minBytes int) (Probe, error)

	// relocate rewrites probe's instructions (read from code) for
	// execution starting at destAddr instead of srcAddr. Returns nil if
	// any instruction's relocation cannot be represented at the new
	// address.
	relocate(probe Probe, code []byte, srcAddr, destAddr uintptr) []byte

	// absoluteJump returns the fixed-length byte sequence that transfers
	// control to target unconditionally.
	absoluteJump(target uintptr) []byte

	addressOffset() int
	absJumpLen() int
	scratchSaveLen() int
	scratchRestoreLen() int
	scratchSave() []byte
	scratchRestore() []byte
	nopFiller(n int) []byte
}

func capabilityFor(a engine.Arch) capability {
	switch a {
	case engine.ArchX86_64:
		return x86Capability{}
	case engine.ArchARM64:
		return arm64Capability{}
	default:
		return nil
	}
}
