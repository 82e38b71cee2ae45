package hook

import "testing"

func TestTrampolineAllocatorDistinctSlots(t *testing.T) {
	a := newTrampolineAllocator()

	s1, err := a.allocate()
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	s2, err := a.allocate()
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if s1 == s2 {
		t.Fatalf("allocate returned the same slot twice: %#x", s1)
	}
	if s2-s1 != uintptr(TrampolineMaxSize) {
		t.Fatalf("consecutive slots are %d bytes apart, want %d", s2-s1, TrampolineMaxSize)
	}
}

func TestTrampolineAllocatorSpansPages(t *testing.T) {
	a := newTrampolineAllocator()
	perPage := pageSize / TrampolineMaxSize
	if perPage < 1 {
		perPage = 1
	}

	var slots []uintptr
	for i := 0; i < perPage+1; i++ {
		s, err := a.allocate()
		if err != nil {
			t.Fatalf("allocate %d failed: %v", i, err)
		}
		slots = append(slots, s)
	}

	seen := make(map[uintptr]bool)
	for _, s := range slots {
		if seen[s] {
			t.Fatalf("slot %#x handed out twice", s)
		}
		seen[s] = true
	}
	if len(a.pages) < 2 {
		t.Fatalf("expected at least 2 mapped pages, got %d", len(a.pages))
	}
}
