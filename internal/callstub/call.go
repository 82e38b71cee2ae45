// Package callstub provides a tiny assembly trampoline for invoking a raw
// machine-code address as if it were a C function taking one integer
// argument and returning one, following the platform's native integer
// calling convention (SysV AMD64 on x86-64, AAPCS64 on AArch64). It exists
// only so tests and the hookdemo command can exercise real, hooked machine
// code in-process without cgo. The engine itself never calls into hooked code on the host's
// behalf.
package callstub

// Call invokes the function at fn with arg and returns its result, via
// the platform C integer calling convention (arg and result both travel
// in the first integer argument/return register).
func Call(fn, arg uintptr) uintptr
