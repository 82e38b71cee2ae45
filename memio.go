package hook

import "unsafe"

// readMemory reads n bytes starting at addr. It deliberately over-reads
// past the probed instructions (the caller asks for a few dozen spare
// bytes) rather than first discovering the function's real length.
func readMemory(addr uintptr, n int) []byte {
	out := make([]byte, n)
	src := unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
	copy(out, src)
	return out
}

// writeMemory copies data into the executable page(s) starting at addr.
// The caller is responsible for having made that range writable first
// (see withWritableCode); a plain slice copy cannot itself fail at the Go
// level, so this never returns a non-nil error, but keeps the signature
// for callers that chain it through error-returning setup steps.
func writeMemory(addr uintptr, data []byte) error {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(data))
	copy(dst, data)
	return nil
}
