package allocator

import "unsafe"

// shadowTracker independently records every pointer Allocate/Resize hands
// out and the size it was made with, so tests can cross-check the heap's
// own usedBytes bookkeeping against a source of truth that never touches
// a block header. It is the test-only descendant of the teacher
// allocator package's SystemAllocatorImpl.activeAllocations map and
// CheckLeaks/LeakInfo pair: the original tracked live Go-heap allocations
// for leak reporting in a production allocator; here the same
// pointer->size bookkeeping instead audits a Heap under test, since this
// package's actual allocator keeps its own accounting inside block
// headers and needs an outside observer to catch it lying to itself.
type shadowTracker struct {
	live map[unsafe.Pointer]uintptr
}

func newShadowTracker() *shadowTracker {
	return &shadowTracker{live: make(map[unsafe.Pointer]uintptr)}
}

func (s *shadowTracker) record(p unsafe.Pointer, size uintptr) {
	if p == nil {
		return
	}

	s.live[p] = size
}

func (s *shadowTracker) forget(p unsafe.Pointer) {
	delete(s.live, p)
}

// replace updates bookkeeping for a resize that moved or resized a
// pointer: oldPtr is retired (if non-nil and different from newPtr) and
// newPtr is recorded at the new size.
func (s *shadowTracker) replace(oldPtr, newPtr unsafe.Pointer, size uintptr) {
	if oldPtr != nil && oldPtr != newPtr {
		s.forget(oldPtr)
	}

	s.record(newPtr, size)
}

// totalRequested sums every currently-live allocation's requested size
// (not the rounded block size), i.e. what a caller asked for.
func (s *shadowTracker) totalRequested() uintptr {
	var total uintptr
	for _, size := range s.live {
		total += size
	}

	return total
}

func (s *shadowTracker) count() int { return len(s.live) }
