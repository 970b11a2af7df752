// Package allocator implements a single-threaded, fixed-region heap
// allocator with an explicit free list: given a contiguous byte segment
// supplied by a host, it services variable-size allocation, release, and
// in-place resize requests, recycling freed space via right-only
// coalescing and first-fit search.
//
// It is deliberately not a general-purpose replacement for the Go runtime
// allocator. It exists for callers that own a raw memory segment directly
// (an mmap'd region, a slab handed out by another subsystem, a simulated
// heap under test) and want deterministic, GC-free reuse of that segment.
package allocator

import "github.com/Masterminds/semver/v3"

// Version is the semantic version of this allocator package. The CLI demo
// uses it to satisfy a workload script's "min_allocator_version" constraint
// before replaying the script against a live heap.
var Version = semver.MustParse("1.0.0")
