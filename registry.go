// Package hook is a runtime function-hooking engine for in-process code
// redirection on POSIX systems (Linux primary target, best-effort Darwin),
// supporting x86-64 and AArch64. It rewrites a target function's first
// instructions to jump to a replacement, while keeping a trampoline that
// still runs the original behavior.
//
// The engine does no internal locking beyond protecting the Registry's own
// bookkeeping: it does not serialize Hook/Unhook calls against concurrent
// execution of the code being patched. Callers that hook a function their
// own other threads might be running concurrently are responsible for
// quiescing those threads first.
package hook

import (
	"sync"

	"github.com/xyproto/splicehook/internal/engine"
)

// SymbolResolver is the shape of the collaborator a host integration (the
// out-of-scope plugin layer) would use to turn a mangled or demangled
// function name into an address before calling Init. The engine core
// never calls this itself; it only needs plugins to already have an
// address in hand by the time they ask for a hook.
type SymbolResolver interface {
	FindFunctionsByName(name string) ([]uintptr, error)
}

// Owner is an opaque identity grouping hooks for bulk removal via
// RemoveAllFrom. The engine never interprets it beyond equality.
type Owner string

// Handle is a non-owning reference to a HookRecord held by a Registry.
// Client code holds Handles; the Registry exclusively owns the records
// themselves.
type Handle uint64

// Registry owns every installed hook for a process.
type Registry struct {
	mu      sync.Mutex
	records map[Handle]*HookRecord
	next    Handle
	alloc   *trampolineAllocator

	// Logger, if set, receives the Registry's own diagnostic lines (from
	// Init, Remove and RemoveAllFrom) instead of the package-level
	// Verbose-gated stderr logging. Lines logged by HookRecord.Hook and
	// Unhook, the trampoline allocator and the relocators do not go
	// through Logger; they always use the Verbose-gated stderr logging.
	Logger func(format string, args ...any)
}

// NewRegistry creates an empty Hook Registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[Handle]*HookRecord),
		alloc:   newTrampolineAllocator(),
	}
}

func (r *Registry) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger(format, args...)
		return
	}
	logf(format, args...)
}

// Init creates an inactive HookRecord for source -> destination, owned by
// owner, and returns a Handle to it. It does not touch any memory; call
// Hook on the record (via Get) to install the splice.
func (r *Registry) Init(owner Owner, source, destination uintptr) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	h := r.next
	r.records[h] = &HookRecord{
		registry:    r,
		Owner:       owner,
		Source:      source,
		Destination: destination,
	}
	r.logf("init hook %#x -> %#x for owner %q (token %#x)", source, destination, owner, engine.OwnerToken(string(owner)))
	return h
}

// Get returns the record for a handle, or nil if the handle is stale
// (never issued, or already removed).
func (r *Registry) Get(h Handle) *HookRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[h]
}

// Remove destroys the record for h, unhooking it first if it is active.
// A stale handle is a safe no-op and returns false.
func (r *Registry) Remove(h Handle) bool {
	r.mu.Lock()
	rec, ok := r.records[h]
	if ok {
		delete(r.records, h)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	if rec.Active {
		rec.Unhook()
	}
	r.logf("removed hook %#x", rec.Source)
	return true
}

// RemoveAllFrom destroys every record owned by owner, unhooking each one
// first, and returns how many were removed.
func (r *Registry) RemoveAllFrom(owner Owner) int {
	r.mu.Lock()
	var victims []*HookRecord
	for h, rec := range r.records {
		if rec.Owner == owner {
			victims = append(victims, rec)
			delete(r.records, h)
		}
	}
	r.mu.Unlock()

	for _, rec := range victims {
		if rec.Active {
			rec.Unhook()
		}
	}
	r.logf("removed %d hooks owned by %q", len(victims), owner)
	return len(victims)
}

// Len reports how many records the registry currently holds, active or
// not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
