package allocator

// BlockInfo is a snapshot of one block's header, used by Validate's
// failure context and by the diagnostic dumps the CLI demo's -stats mode
// renders. It restores the introspection the original allocator drafts'
// print_heap()/print_linked_list() helpers offered, in structured form
// rather than as pre-formatted text (spec.md doesn't specify an
// introspection API; see SPEC_FULL.md §5 and DESIGN.md).
type BlockInfo struct {
	Addr uintptr
	Size uintptr
	Used bool
}

// DumpBlocks returns every block in physical order.
func (h *Heap) DumpBlocks() []BlockInfo {
	var blocks []BlockInfo

	h.walkPhysical(func(addr uintptr) bool {
		blocks = append(blocks, BlockInfo{Addr: addr, Size: readSize(addr), Used: isUsed(addr)})
		return true
	})

	return blocks
}

// DumpFreeList returns every block currently on the free list, in
// head-to-tail order.
func (h *Heap) DumpFreeList() []BlockInfo {
	addrs := h.freeListBlocks()
	blocks := make([]BlockInfo, len(addrs))

	for i, addr := range addrs {
		blocks[i] = BlockInfo{Addr: addr, Size: readSize(addr), Used: false}
	}

	return blocks
}

// UsedBytes returns the allocator's current accounting of bytes committed
// to outstanding allocations (spec §3 used_bytes).
func (h *Heap) UsedBytes() uintptr { return h.usedBytes }

// SegmentSize returns the fixed total size of the managed segment.
func (h *Heap) SegmentSize() uintptr { return h.segmentSize }

// Validate walks the physical chain from segmentStart and checks every
// invariant spec.md §3/§4.7 requires to hold before and after any public
// operation. It returns true iff the heap is internally consistent; on
// failure it also invokes the configured HostTrap exactly once, with a
// short description of the first violation found.
func (h *Heap) Validate() bool {
	if ok, reason := h.checkInvariants(); !ok {
		h.cfg.Trap.Break(reason)
		return false
	}

	return true
}

func (h *Heap) checkInvariants() (bool, string) {
	var (
		totalSize   uintptr
		usedAccount uintptr
		freeCount   int
		sawBase     bool
		prevWasFree bool
		lastAddr    uintptr
		ok          = true
		reason      string
	)

	h.walkPhysical(func(addr uintptr) bool {
		size := readSize(addr)

		if size < minBlockSize() || size%h.cfg.Alignment != 0 {
			ok, reason = false, "block size misaligned or below minimum"
			return false
		}

		totalSize += size
		used := isUsed(addr)

		if used {
			usedAccount += size - headerWordSize
		} else {
			freeCount++

			if addr == h.base {
				sawBase = true
			}

			if prevWasFree {
				ok, reason = false, "two physically adjacent free blocks"
				return false
			}
		}

		prevWasFree = !used
		lastAddr = addr

		return true
	})

	if !ok {
		return false, reason
	}

	if totalSize != h.segmentSize {
		return false, "block sizes do not sum to segment size"
	}

	if h.base == 0 {
		sawBase = freeCount == 0
	}

	if !sawBase {
		return false, "base is not reachable by physical walk"
	}

	if lastAddr != h.end {
		return false, "end does not point at the last physical block"
	}

	if len(h.freeListBlocks()) != freeCount {
		return false, "free-list length does not match count of free blocks"
	}

	if usedAccount != h.usedBytes {
		return false, "usedBytes does not match sum of allocated block sizes"
	}

	return true, ""
}
