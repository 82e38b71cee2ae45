package hook

import "github.com/xyproto/splicehook/internal/engine"

// HookRecord is one redirection, installed or not. Records are exclusively
// owned by a Registry; callers outside this package hold a Handle, never
// a *HookRecord.
type HookRecord struct {
	registry *Registry

	Owner       Owner
	Source      uintptr
	Destination uintptr

	// Trampoline is the address callers invoke to run the original
	// function's behavior while the hook is active.
	Trampoline uintptr
	Active     bool

	originalBytes []byte
	hookLen       int
	trampoLen     int
}

// Hook installs the splice: allocate a trampoline slot, probe Source for
// its minimum relocatable prefix, relocate that prefix into the slot
// followed by a scratch-save and a tail jump back to Source+absJumpLen
// (where the patched source holds the matching scratch-restore), then
// overwrite Source with an absolute jump to Destination.
// It returns false (and logs via warnf) on any failure, leaving Source
// untouched, since nothing is written to Source until the final step.
func (rec *HookRecord) Hook() bool {
	if rec.Active {
		return true
	}

	arch := engine.Current()
	impl := capabilityFor(arch)
	if impl == nil {
		warnf("unsupported architecture, cannot hook %#x", rec.Source)
		return false
	}

	// 1. Allocate a trampoline slot.
	slot, err := rec.registry.alloc.allocate()
	if err != nil {
		warnf("trampoline allocation failed: %v", err)
		return false
	}

	// 2. Probe the source for its minimum relocatable prefix.
	minBytes := impl.absJumpLen() + impl.scratchSaveLen() + impl.scratchRestoreLen()
	srcBytes := readMemory(rec.Source, minBytes+64)
	probe, err := impl.probeMinimumJumpSize(srcBytes, minBytes)
	if err != nil {
		warnf("probe failed for %#x: %v", rec.Source, err)
		return false
	}

	// 3. Relocate the probed prefix for execution at the trampoline slot.
	relocated := impl.relocate(probe, srcBytes[:probe.Len], rec.Source, slot)
	if relocated == nil {
		warnf("relocation failed for %#x", rec.Source)
		return false
	}

	// 4. Verify the trampoline slot has room for prefix + scratch-save +
	// tail jump.
	trampoLen := probe.Len + impl.scratchSaveLen() + impl.absJumpLen()
	if trampoLen > TrampolineMaxSize {
		warnf("relocated prefix too large for trampoline slot (%d > %d bytes)", trampoLen, TrampolineMaxSize)
		return false
	}

	// 5. Snapshot the source bytes being overwritten, for Unhook.
	original := make([]byte, probe.Len)
	copy(original, srcBytes[:probe.Len])

	// 6. Write the trampoline: relocated prefix, scratch-save, then an
	// absolute jump back to Source+absJumpLen, where the patched source
	// holds the scratch-restore, the NOP fill, and then the untouched
	// remainder of the function.
	tramp := make([]byte, 0, trampoLen)
	tramp = append(tramp, relocated...)
	tramp = append(tramp, impl.scratchSave()...)
	tramp = append(tramp, impl.absoluteJump(rec.Source+uintptr(impl.absJumpLen()))...)
	if err := writeMemory(slot, tramp); err != nil {
		warnf("writing trampoline failed: %v", err)
		return false
	}

	// 7-9. Under relaxed protection, overwrite the source with an
	// absolute jump to Destination, a scratch-restore, then NOP-fill the
	// rest of the probed prefix.
	patch := make([]byte, 0, probe.Len)
	patch = append(patch, impl.absoluteJump(rec.Destination)...)
	patch = append(patch, impl.scratchRestore()...)
	patch = append(patch, impl.nopFiller(probe.Len-len(patch))...)
	if err := withWritableCode(rec.Source, probe.Len, func() error {
		return writeMemory(rec.Source, patch)
	}); err != nil {
		warnf("patching source failed: %v", err)
		return false
	}

	// 10. Publish.
	rec.Trampoline = slot
	rec.originalBytes = original
	rec.hookLen = probe.Len
	rec.trampoLen = trampoLen
	rec.Active = true
	logf("hooked %#x -> %#x (trampoline %#x, %d bytes)", rec.Source, rec.Destination, slot, probe.Len)
	return true
}

// Unhook reverses Hook: it restores the original bytes over Source and
// marks the record inactive. The trampoline slot itself is never freed or
// reused; a stale Trampoline address after Unhook is simply dead code
// nobody points at anymore.
func (rec *HookRecord) Unhook() bool {
	if !rec.Active {
		return false
	}
	if err := withWritableCode(rec.Source, rec.hookLen, func() error {
		return writeMemory(rec.Source, rec.originalBytes)
	}); err != nil {
		warnf("unhook failed for %#x: %v", rec.Source, err)
		return false
	}
	rec.Active = false
	rec.hookLen = 0
	rec.trampoLen = 0
	logf("unhooked %#x", rec.Source)
	return true
}
