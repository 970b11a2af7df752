package allocator

// splitFreeBlock carves a chosen free block of total size found down to
// headSize, reinserting the remainder in the chosen block's former
// free-list slot (spec §4.6, "Hit, size >= T + M"). The caller is
// responsible for having already verified readSize(chosen)-headSize is at
// least minBlockSize(); splitFreeBlock does not re-check it.
//
// chosen is still linked into the free list and still carries the
// "unused" bit when this is called; the caller marks it used afterwards.
func (h *Heap) splitFreeBlock(chosen, headSize uintptr) {
	total := readSize(chosen)
	remainder := total - headSize
	remainderAddr := chosen + headSize

	writeHeader(remainderAddr, remainder, false)

	if chosen == h.end {
		h.end = remainderAddr
	}

	h.listReplace(chosen, remainderAddr)
}

// splitAllocated carves surplus off the tail of an allocated block whose
// size exceeds newTotal by at least minBlockSize(), shrinking it in place
// to newTotal and freeing the tail (spec §4.6 resize-shrink, and the
// surplus trim after a successful grow-by-absorb). addr must already carry
// the "used" bit; it keeps it after the split.
func (h *Heap) splitAllocated(addr, newTotal uintptr) {
	oldTotal := readSize(addr)
	tail := addr + newTotal
	tailSize := oldTotal - newTotal

	writeHeader(addr, newTotal, true)
	writeHeader(tail, tailSize, false)

	if addr == h.end {
		h.end = tail
	}

	h.freeBlock(tail)
}
