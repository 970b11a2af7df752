package allocator

import (
	"testing"
	"unsafe"
)

func unsafeBytes(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}

func unsafePointerOf(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}

// TestSmokeWorkload exercises a heap the way the original allocator's own
// smoke program did: stand up a segment, drive a mixed sequence of
// allocate/resize/release calls that are large enough to roll over the
// free list more than once, and validate after every step rather than
// only at the end, so a regression is pinned to the operation that caused
// it instead of surfacing as a single failure at teardown.
func TestSmokeWorkload(t *testing.T) {
	const heapSize = 1 << 16 // 64 KiB, enough headroom for this workload.

	h := newTestHeap(t, heapSize)
	shadow := newShadowTracker()

	requireValid := func(step string) {
		t.Helper()

		if !h.Validate() {
			t.Fatalf("heap invariants broken after %s", step)
		}

		usedBlocks := 0
		for _, b := range h.DumpBlocks() {
			if b.Used {
				usedBlocks++
			}
		}

		if shadow.count() != usedBlocks {
			t.Fatalf("shadow tracker counts %d live allocations after %s, heap has %d used blocks",
				shadow.count(), step, usedBlocks)
		}

		if shadow.totalRequested() > h.UsedBytes() {
			t.Fatalf("shadow tracker's requested total %d exceeds heap's usedBytes %d after %s",
				shadow.totalRequested(), h.UsedBytes(), step)
		}
	}

	requireValid("init")

	var live []struct {
		ptr  []byte
		mark byte
	}

	sizes := []uintptr{16, 128, 1, 4096, 64, 32, 2048, 8, 256}

	for i, n := range sizes {
		p, err := h.Allocate(n)
		if err != nil {
			t.Fatalf("Allocate(%d) on iteration %d: %v", n, i, err)
		}

		shadow.record(p, n)

		buf := unsafeBytes(p, n)
		mark := byte(i + 1)
		for j := range buf {
			buf[j] = mark
		}

		live = append(live, struct {
			ptr  []byte
			mark byte
		}{buf, mark})

		requireValid("allocate")
	}

	// Release every other allocation to fragment the heap, then confirm
	// survivors still hold their original content.
	var survivors []struct {
		ptr  []byte
		mark byte
	}

	for i, entry := range live {
		if i%2 == 0 {
			p := unsafePointerOf(entry.ptr)
			h.Release(p)
			shadow.forget(p)
			requireValid("release")

			continue
		}

		survivors = append(survivors, entry)
	}

	for _, s := range survivors {
		for _, b := range s.ptr {
			if b != s.mark {
				t.Fatalf("survivor corrupted: got %d want %d", b, s.mark)
			}
		}
	}

	// Grow one survivor well past its original size, forcing either
	// absorption or a move, and check its content rides along.
	grownEntry := survivors[0]
	oldPtr := unsafePointerOf(grownEntry.ptr)
	newPtr, err := h.Resize(oldPtr, 3000)
	if err != nil {
		t.Fatalf("Resize during smoke workload: %v", err)
	}

	shadow.replace(oldPtr, newPtr, 3000)

	grown := unsafeBytes(newPtr, 3000)
	for i := 0; i < len(grownEntry.ptr); i++ {
		if grown[i] != grownEntry.mark {
			t.Fatalf("grown block lost its original content at byte %d", i)
		}
	}

	requireValid("resize-grow")

	// Release everything remaining and confirm the heap fully coalesces
	// back down to a single free block covering the whole segment.
	for i, s := range survivors {
		if i == 0 {
			h.Release(newPtr)
			shadow.forget(newPtr)
		} else {
			p := unsafePointerOf(s.ptr)
			h.Release(p)
			shadow.forget(p)
		}

		requireValid("release-all")
	}

	if shadow.count() != 0 {
		t.Fatalf("shadow tracker still has %d live allocations after releasing everything", shadow.count())
	}

	if h.usedBytes != 0 {
		t.Fatalf("usedBytes = %d after releasing every allocation, want 0", h.usedBytes)
	}

	if got := len(h.freeListBlocks()); got != 1 {
		t.Fatalf("free list length = %d after releasing everything, want 1", got)
	}

	if got := readSize(h.base); got != heapSize {
		t.Fatalf("final free block size = %d, want the whole segment %d", got, heapSize)
	}
}
