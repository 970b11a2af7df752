package workload

import (
	"context"
	"testing"

	"github.com/orizon-lang/heapalloc/internal/allocator"
)

func newTestHeap(t *testing.T, size uintptr) *allocator.Heap {
	t.Helper()

	seg, err := allocator.NewGoSegment(size)
	if err != nil {
		t.Fatalf("NewGoSegment: %v", err)
	}

	h, herr := allocator.NewHeapFromSegment(seg)
	if herr != nil {
		t.Fatalf("NewHeapFromSegment: %v", herr)
	}

	return h
}

func TestReplayerSequentialSteps(t *testing.T) {
	h := newTestHeap(t, 4096)
	r := NewReplayer(h, 2)

	script := &Script{
		Steps: []Step{
			{{Kind: KindAllocate, Slot: "a", Size: 16}},
			{{Kind: KindAllocate, Slot: "b", Size: 32}},
			{{Kind: KindResize, Slot: "a", Size: 200}},
			{{Kind: KindRelease, Slot: "b"}},
			{{Kind: KindRelease, Slot: "a"}},
		},
	}

	if err := r.Run(context.Background(), script); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if r.AllocateCount != 2 || r.ResizeCount != 1 || r.ReleaseCount != 2 {
		t.Fatalf("counts = alloc:%d resize:%d release:%d, want 2/1/2",
			r.AllocateCount, r.ResizeCount, r.ReleaseCount)
	}

	if !h.Validate() {
		t.Fatal("heap should validate after a clean replay")
	}

	if h.UsedBytes() != 0 {
		t.Fatalf("UsedBytes() = %d, want 0 after releasing everything", h.UsedBytes())
	}
}

func TestReplayerConcurrentStepOnIndependentSlots(t *testing.T) {
	h := newTestHeap(t, 4096)
	r := NewReplayer(h, 4)

	script := &Script{
		Steps: []Step{
			{
				{Kind: KindAllocate, Slot: "a", Size: 16},
				{Kind: KindAllocate, Slot: "b", Size: 16},
				{Kind: KindAllocate, Slot: "c", Size: 16},
				{Kind: KindAllocate, Slot: "d", Size: 16},
			},
		},
	}

	if err := r.Run(context.Background(), script); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if r.AllocateCount != 4 {
		t.Fatalf("AllocateCount = %d, want 4", r.AllocateCount)
	}

	if len(r.live) != 4 {
		t.Fatalf("len(live) = %d, want 4", len(r.live))
	}

	if !h.Validate() {
		t.Fatal("heap should validate after a concurrent allocate step")
	}
}

func TestReplayerReleaseUnknownSlotFails(t *testing.T) {
	h := newTestHeap(t, 4096)
	r := NewReplayer(h, 1)

	script := &Script{
		Steps: []Step{
			{{Kind: KindRelease, Slot: "ghost"}},
		},
	}

	if err := r.Run(context.Background(), script); err == nil {
		t.Fatal("Run should fail when releasing a slot with no live allocation")
	}
}
