package workload

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/orizon-lang/heapalloc/internal/allocator"
)

// PrintStats renders a -stats table of a heap's current block layout to w,
// using a language-tagged printer so byte counts get grouped thousands
// separators instead of bare digit runs once segments get into the tens
// of thousands of bytes.
func PrintStats(w io.Writer, h *allocator.Heap, r *Replayer) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "segment size   : %d bytes\n", h.SegmentSize())
	p.Fprintf(w, "used bytes     : %d bytes\n", h.UsedBytes())
	p.Fprintf(w, "ops replayed   : %d allocate, %d release, %d resize\n",
		r.AllocateCount, r.ReleaseCount, r.ResizeCount)
	fmt.Fprintln(w)

	blocks := h.DumpBlocks()
	p.Fprintf(w, "%-12s %-10s %-6s\n", "address", "size", "state")

	for _, b := range blocks {
		state := "free"
		if b.Used {
			state = "used"
		}

		p.Fprintf(w, "%#012x %10d %-6s\n", b.Addr, b.Size, state)
	}

	fmt.Fprintln(w)
	p.Fprintf(w, "free list (%d blocks, head to tail):\n", len(h.DumpFreeList()))

	for _, b := range h.DumpFreeList() {
		p.Fprintf(w, "  %#012x (%d bytes)\n", b.Addr, b.Size)
	}
}
