package hook

import (
	"fmt"
	"sync"
)

// trampolinePage is one bump-allocated mapping of RWX memory. Pages are
// never unmapped, and a slot is never reused once a record is removed: a
// slot handed out once stays valid for the life of the process.
type trampolinePage struct {
	base     uintptr
	capacity int
	used     int
}

// trampolineAllocator hands out fixed TrampolineMaxSize-byte slots, bump-
// allocating from the current page and mapping a fresh one when it fills.
type trampolineAllocator struct {
	mu    sync.Mutex
	pages []*trampolinePage
}

func newTrampolineAllocator() *trampolineAllocator {
	return &trampolineAllocator{}
}

// allocate returns the address of a fresh TrampolineMaxSize-byte RWX slot,
// distinct from every previously returned slot.
func (a *trampolineAllocator) allocate() (uintptr, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.pages); n > 0 {
		p := a.pages[n-1]
		if p.used+TrampolineMaxSize <= p.capacity {
			slot := p.base + uintptr(p.used)
			p.used += TrampolineMaxSize
			return slot, nil
		}
	}

	page, err := mapTrampolinePage()
	if err != nil {
		return 0, newError(KindMappingFailure, "mapping trampoline page failed: %v", err)
	}
	page.used = TrampolineMaxSize
	a.pages = append(a.pages, page)
	logf("mapped trampoline page at %#x (capacity %d)", page.base, page.capacity)
	return page.base, nil
}

func (a *trampolineAllocator) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fmt.Sprintf("trampolineAllocator{%d pages}", len(a.pages))
}
