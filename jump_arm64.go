package hook

import "encoding/binary"

const (
	arm64AbsJumpLen        = 16
	arm64AddressOffset     = 4
	arm64ScratchSaveLen    = 4
	arm64ScratchRestoreLen = 4
)

// absoluteJump builds a self-consistent 16-byte sequence: LDR X0,[PC,#4]
// (loads the 8-byte address that immediately follows it), the 8-byte
// target address, then BR X0. Every word here is generated from its ISA
// encoding rather than copied as a magic byte string.
func (arm64Capability) absoluteJump(target uintptr) []byte {
	buf := make([]byte, arm64AbsJumpLen)

	const ldrX0PC4 = 0x58000000 | (1 << 5) // LDR X0, [PC, #4]  (imm19=1, *4 = 4 bytes)
	binary.LittleEndian.PutUint32(buf[0:4], ldrX0PC4)

	binary.LittleEndian.PutUint64(buf[arm64AddressOffset:arm64AddressOffset+8], uint64(target))

	const brX0 = 0xD61F0000 // BR X0
	binary.LittleEndian.PutUint32(buf[12:16], brX0)

	return buf
}

func (arm64Capability) addressOffset() int     { return arm64AddressOffset }
func (arm64Capability) absJumpLen() int        { return arm64AbsJumpLen }
func (arm64Capability) scratchSaveLen() int    { return arm64ScratchSaveLen }
func (arm64Capability) scratchRestoreLen() int { return arm64ScratchRestoreLen }

// scratchSave/scratchRestore are STP/LDP X0,X1,[SP,#-16]!/[SP],#16, a
// register-pair stack spill used to protect X0, which the jump sequence
// clobbers; X1 is spilled alongside it as the other half of the pair.
func (arm64Capability) scratchSave() []byte    { return []byte{0xE0, 0x07, 0xBF, 0xA9} }
func (arm64Capability) scratchRestore() []byte { return []byte{0xE0, 0x07, 0xC1, 0xA8} }

func (arm64Capability) nopFiller(n int) []byte {
	buf := make([]byte, n)
	word := []byte{0x1F, 0x20, 0x03, 0xD5}
	for i := 0; i+4 <= n; i += 4 {
		copy(buf[i:i+4], word)
	}
	return buf
}
