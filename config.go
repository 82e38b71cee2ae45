package hook

import "github.com/xyproto/env/v2"

// Verbose gates the engine's diagnostic logging.
var Verbose = env.Bool("HOOKSPAN_VERBOSE")

// TrampolineMaxSize is the fixed per-slot trampoline size, read once from
// HOOKSPAN_TRAMPOLINE_SIZE when the package is initialized. It is a
// package variable rather than a constant so a host process can also
// assign it before the first Hook call; every slot still gets exactly
// this many bytes, and a relocated prefix that doesn't fit still makes
// Hook fail.
var TrampolineMaxSize = env.Int("HOOKSPAN_TRAMPOLINE_SIZE", 64)
