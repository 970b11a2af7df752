package allocator

import (
	"fmt"
	"unsafe"
)

// Segment is the host-supplied (segment_base, segment_length) pair spec.md
// §6 describes as external to the core: "host memory segmentation ... any
// interaction with the core [is] supplying the initial segment base and
// length." The allocator core never constructs one itself; NewHeap just
// takes a base pointer and a length. Segment is a convenience for the two
// concrete hosts this package ships: a Go-heap-backed buffer (portable,
// used by tests) and an OS-mapped buffer (segment.go's linux/darwin
// build-tagged sibling, used by the CLI demo).
type Segment struct {
	Base   unsafe.Pointer
	Length uintptr

	anchor []byte // keeps a Go-heap-backed segment reachable for the GC; nil otherwise.
	close  func() error
}

// Close releases host resources backing the segment, if any. Go-heap
// segments have nothing to release; it is safe to drop them and let the GC
// reclaim the backing array once the Heap built on top of them is also
// dropped.
func (s *Segment) Close() error {
	if s.close != nil {
		return s.close()
	}

	return nil
}

// NewGoSegment allocates the segment from the Go heap. This is the
// adaptation of the teacher's ArenaAllocatorImpl buffer construction
// (`make([]byte, size)`, `unsafe.Pointer(&buffer[0])`) repurposed as a
// segment *provider* rather than a bump allocator in its own right: the
// bump-pointer allocation arena.go implemented is exactly the behavior
// spec.md calls the out-of-scope "implicit" precursor, so here it only
// supplies raw memory, and the explicit free-list Heap in heap.go owns all
// allocation policy on top of it.
func NewGoSegment(length uintptr) (*Segment, error) {
	if length == 0 {
		return nil, fmt.Errorf("allocator: segment length must be > 0")
	}

	buf := make([]byte, length)

	return &Segment{
		Base:   unsafe.Pointer(&buf[0]),
		Length: length,
		anchor: buf,
	}, nil
}
