//go:build linux || darwin

package allocator

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// NewMappedSegment backs a segment with a real anonymous mmap rather than
// a Go-heap slice, so a host can exercise the allocator against memory the
// Go runtime's own GC has no knowledge of or interest in scanning — the
// nearest this package gets to the raw heap_start/heap_size pointer pair
// the original allocator drafts received from their own host. The demo CLI
// uses this when -segment=mmap is passed.
func NewMappedSegment(length uintptr) (*Segment, error) {
	if length == 0 {
		return nil, fmt.Errorf("allocator: segment length must be > 0")
	}

	data, err := unix.Mmap(-1, 0, int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("allocator: mmap segment: %w", err)
	}

	return &Segment{
		Base:   unsafe.Pointer(&data[0]),
		Length: length,
		close: func() error {
			return unix.Munmap(data)
		},
	}, nil
}
