//go:build !linux && !darwin

package allocator

import "fmt"

// NewMappedSegment falls back to a Go-heap-backed segment on platforms
// without the unix mmap/munmap syscalls this package wires up for
// linux/darwin.
func NewMappedSegment(length uintptr) (*Segment, error) {
	seg, err := NewGoSegment(length)
	if err != nil {
		return nil, fmt.Errorf("allocator: mapped segment fallback: %w", err)
	}

	return seg, nil
}
