// Package workload reads and replays JSON-described allocator workloads
// against a live heap, the way the original allocator's own
// my_optional_program.c drove a fixed sequence of calls against a heap it
// had just initialized. Here that fixed sequence is externalized into a
// file so the CLI demo can replay, watch, and report on arbitrary ones.
package workload

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind identifies which Heap operation an Op performs.
type Kind string

const (
	KindAllocate Kind = "allocate"
	KindRelease  Kind = "release"
	KindResize   Kind = "resize"
)

// Op is one call to make against the heap. Slot names the live allocation
// an op acts on (for allocate, the slot the new allocation is stored
// under); Size is the byte count for allocate/resize and is ignored for
// release.
type Op struct {
	Kind Kind   `json:"op"`
	Slot string `json:"slot"`
	Size uint64 `json:"size,omitempty"`
}

// Step is a batch of ops replayed concurrently against the heap, bounded
// by the replayer's admission semaphore (spec.md's host is single-threaded
// by contract, so concurrency here is about how many requests are allowed
// to queue up waiting for the heap, not about the heap itself running
// calls in parallel).
type Step []Op

// Script is a workload file's top-level shape: a minimum allocator
// version the script was authored against, the segment size to run it
// over, and the steps to replay in order.
type Script struct {
	MinAllocatorVersion string `json:"min_allocator_version"`
	HeapSizeBytes       uint64 `json:"heap_size_bytes"`
	Steps               []Step `json:"steps"`
}

// Load reads and decodes a workload script from path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("workload: reading %s: %w", path, err)
	}

	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("workload: parsing %s: %w", path, err)
	}

	if s.HeapSizeBytes == 0 {
		return nil, fmt.Errorf("workload: %s: heap_size_bytes must be > 0", path)
	}

	return &s, nil
}
