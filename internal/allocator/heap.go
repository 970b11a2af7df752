// Package allocator: core allocator operations (spec §4.6).
package allocator

import "unsafe"

// Heap is the allocator's entire mutable state (spec §3 "Global state"):
// segmentStart/segmentSize are fixed after Init, usedBytes/base/end change
// on every mutating call. A zero Heap is not usable; construct one with
// NewHeap.
//
// Heap is not safe for concurrent use. Every operation runs to completion
// without blocking or yielding (spec §5); a host that wants to share one
// heap across goroutines must serialize calls itself.
type Heap struct {
	segmentStart uintptr
	segmentSize  uintptr
	usedBytes    uintptr
	base         uintptr // header of the free list's head, or 0 if none free.
	end          uintptr // header of the block at the high end of the segment.

	cfg *Config

	// anchor, when non-nil, is the Go slice backing a NewHeapFromSegment
	// Go-heap segment. It exists purely to keep the GC from reclaiming the
	// backing array out from under segmentStart's raw address for the
	// lifetime of the Heap.
	anchor []byte
}

// NewHeap constructs a Heap over the segment [base, base+length) (spec
// §4.6 init). base must point to memory the caller owns for at least the
// Heap's lifetime and must not be accessed by anything other than this
// Heap's operations and the pointers they return.
func NewHeap(base unsafe.Pointer, length uintptr, opts ...Option) (*Heap, *HeapError) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Alignment != headerWordSize {
		cfg.Alignment = headerWordSize
	}

	if length < minBlockSize() {
		return nil, errInitTooSmall(length, minBlockSize())
	}

	addr := uintptr(base)

	h := &Heap{
		segmentStart: addr,
		segmentSize:  length,
		cfg:          cfg,
	}

	writeHeader(addr, length, false)
	setPrev(addr, 0)
	setNext(addr, 0)

	h.base = addr
	h.end = addr

	return h, nil
}

// NewHeapFromSegment is a convenience wrapper over NewHeap for a Segment
// obtained from NewGoSegment/NewMappedSegment; it also roots the segment's
// Go-heap anchor (if any) on the Heap so the caller doesn't have to keep
// the Segment alive separately.
func NewHeapFromSegment(seg *Segment, opts ...Option) (*Heap, *HeapError) {
	h, err := NewHeap(seg.Base, seg.Length, opts...)
	if err != nil {
		return nil, err
	}

	h.anchor = seg.anchor

	return h, nil
}

// Allocate services a request for n bytes, returning a payload pointer
// aligned to cfg.Alignment, or nil with the reason it failed (spec §4.6).
func (h *Heap) Allocate(n uintptr) (unsafe.Pointer, *HeapError) {
	if n == 0 {
		return nil, errRequestZero()
	}

	if n > h.cfg.MaxRequestSize {
		return nil, errRequestTooLarge(n, h.cfg.MaxRequestSize)
	}

	total := requiredTotal(n, h.cfg.Alignment)
	if h.usedBytes+total > h.segmentSize {
		return nil, errOutOfSpace(total, h.segmentSize)
	}

	chosen := h.findFirstFit(total)
	if chosen == 0 {
		return nil, errOutOfSpace(total, h.segmentSize)
	}

	h.commitAllocation(chosen, total)

	return payloadOf(chosen), nil
}

// commitAllocation marks chosen (still on the free list, size >= total) as
// used, splitting off a free remainder when one large enough to host a
// free-list node remains (spec §4.6's "Hit" cases). usedBytes always
// tracks the block's actual post-operation size minus the header, which
// is how this package resolves spec.md's open question on what usedBytes
// counts (see DESIGN.md): when the leftover slice is too small to become
// its own block it is silently absorbed into chosen rather than tracked
// as a separate free remainder, and chosen's real size - not the
// requested T - is what usedBytes accounts for.
func (h *Heap) commitAllocation(chosen, total uintptr) {
	size := readSize(chosen)

	if size >= total+minBlockSize() {
		h.splitFreeBlock(chosen, total)
		writeHeader(chosen, total, true)
		h.usedBytes += total - headerWordSize

		return
	}

	h.listUnlink(chosen)
	writeHeader(chosen, size, true)
	h.usedBytes += size - headerWordSize
}

// Release returns the block backing p to the free list, coalescing with
// its physical right neighbour when that neighbour is free (spec §4.6
// release). A nil p is a no-op.
func (h *Heap) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	addr := headerOf(p)
	h.usedBytes -= readSize(addr) - headerWordSize
	h.freeBlock(addr)
}

// Resize grows or shrinks the block backing p in place where possible,
// falling back to allocate+copy+release when growth cannot be satisfied
// by absorbing free right neighbours (spec §4.6 resize).
//
//   - p == nil behaves as Allocate(n).
//   - n == 0 behaves as Release(p) and returns nil.
func (h *Heap) Resize(p unsafe.Pointer, n uintptr) (unsafe.Pointer, *HeapError) {
	if p == nil {
		return h.Allocate(n)
	}

	if n == 0 {
		h.Release(p)
		return nil, nil
	}

	if n > h.cfg.MaxRequestSize {
		return nil, errRequestTooLarge(n, h.cfg.MaxRequestSize)
	}

	addr := headerOf(p)
	oldSize := readSize(addr)
	newTotal := requiredTotal(n, h.cfg.Alignment)

	if newTotal <= oldSize {
		h.resizeShrink(addr, oldSize, newTotal)
		return p, nil
	}

	return h.resizeGrow(addr, oldSize, newTotal, n, p)
}

// resizeShrink implements spec §4.6's shrink branch: split off a tail >=
// minBlockSize() and free it; otherwise keep old_size intact. The payload
// address p is preserved either way.
func (h *Heap) resizeShrink(addr, oldSize, newTotal uintptr) {
	remainder := oldSize - newTotal
	if remainder < minBlockSize() {
		return
	}

	h.usedBytes -= remainder
	h.splitAllocated(addr, newTotal)
}

// resizeGrow implements spec §4.6's grow branch: repeatedly absorb free
// right neighbours while they exist and the accumulated size is still
// short of newTotal. If that reaches newTotal, trim any surplus >=
// minBlockSize() and keep p; otherwise split whatever was absorbed back off
// as a free block, restoring the original size, and fall back to allocate
// + copy + release, leaving the original block untouched if the fallback
// allocation itself fails.
func (h *Heap) resizeGrow(addr, oldSize, newTotal, n uintptr, p unsafe.Pointer) (unsafe.Pointer, *HeapError) {
	size := h.absorbFreeRight(addr, oldSize, newTotal)

	if size >= newTotal {
		h.resizeShrink(addr, size, newTotal)
		return p, nil
	}

	h.resizeShrink(addr, size, oldSize)

	newPtr, allocErr := h.Allocate(n)
	if allocErr != nil {
		return nil, errResizeFallbackFailed(n, allocErr)
	}

	copyPayload(newPtr, p, minUintptr(oldSize-headerWordSize, n))
	h.Release(p)

	return newPtr, nil
}

// absorbFreeRight merges addr with as many free right neighbours as it
// takes to reach newTotal or run out of free neighbours, whichever comes
// first. It returns the block's resulting size and leaves addr's header
// reflecting that size with the used bit set throughout, and adds the
// absorbed bytes to usedBytes itself.
func (h *Heap) absorbFreeRight(addr, oldSize, newTotal uintptr) uintptr {
	size := oldSize

	for size < newTotal && addr != h.end {
		next := nextPhysical(addr)
		if isUsed(next) {
			break
		}

		nextSize := readSize(next)
		if next == h.end {
			h.end = addr
		}

		h.listUnlink(next)
		size += nextSize
		writeHeader(addr, size, true)
		storeWord(next, 0)
	}

	if size != oldSize {
		h.usedBytes += size - oldSize
	}

	return size
}

func headerOf(p unsafe.Pointer) uintptr {
	return uintptr(p) - headerWordSize
}

func payloadOf(addr uintptr) unsafe.Pointer {
	return unsafe.Pointer(addr + headerWordSize) //nolint:govet
}

func copyPayload(dst, src unsafe.Pointer, size uintptr) {
	dstSlice := unsafe.Slice((*byte)(dst), size)
	srcSlice := unsafe.Slice((*byte)(src), size)
	copy(dstSlice, srcSlice)
}

func minUintptr(a, b uintptr) uintptr {
	if a < b {
		return a
	}

	return b
}
