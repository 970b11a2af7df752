package workload

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sync/semaphore"

	"github.com/orizon-lang/heapalloc/internal/allocator"
)

// Replayer drives a Script against a single Heap. The heap itself is not
// safe for concurrent use (spec §5), so every call into it is taken under
// mu; admission is bounded by sem, which limits how many of a Step's ops
// may be waiting to take that lock at once. That bound is the thing worth
// exercising here: a workload with a wide concurrent step and a narrow
// semaphore weight demonstrates admission control queuing up requests
// rather than the heap doing anything concurrently itself.
type Replayer struct {
	heap *allocator.Heap
	sem  *semaphore.Weighted

	mu   sync.Mutex
	live map[string]unsafe.Pointer

	AllocateCount int
	ReleaseCount  int
	ResizeCount   int
}

// NewReplayer builds a Replayer over heap, admitting at most maxPending
// concurrent op attempts per step.
func NewReplayer(heap *allocator.Heap, maxPending int64) *Replayer {
	if maxPending < 1 {
		maxPending = 1
	}

	return &Replayer{
		heap: heap,
		sem:  semaphore.NewWeighted(maxPending),
		live: make(map[string]unsafe.Pointer),
	}
}

// Run replays every step of s in order; within a step, ops run
// concurrently subject to the replayer's admission semaphore. It stops at
// the first op error.
func (r *Replayer) Run(ctx context.Context, s *Script) error {
	for i, step := range s.Steps {
		if err := r.runStep(ctx, step); err != nil {
			return fmt.Errorf("workload: step %d: %w", i, err)
		}
	}

	return nil
}

func (r *Replayer) runStep(ctx context.Context, step Step) error {
	var (
		wg       sync.WaitGroup
		firstErr error
		errOnce  sync.Once
	)

	for _, op := range step {
		op := op

		if err := r.sem.Acquire(ctx, 1); err != nil {
			return err
		}

		wg.Add(1)

		go func() {
			defer wg.Done()
			defer r.sem.Release(1)

			if err := r.runOp(op); err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}()
	}

	wg.Wait()

	return firstErr
}

func (r *Replayer) runOp(op Op) error {
	switch op.Kind {
	case KindAllocate:
		return r.doAllocate(op)
	case KindRelease:
		return r.doRelease(op)
	case KindResize:
		return r.doResize(op)
	default:
		return fmt.Errorf("unknown op kind %q", op.Kind)
	}
}

func (r *Replayer) doAllocate(op Op) error {
	r.mu.Lock()
	p, err := r.heap.Allocate(uintptr(op.Size))
	if err == nil {
		r.live[op.Slot] = p
		r.AllocateCount++
	}
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("allocate(slot=%s, size=%d): %w", op.Slot, op.Size, err)
	}

	return nil
}

func (r *Replayer) doRelease(op Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.live[op.Slot]
	if !ok {
		return fmt.Errorf("release(slot=%s): no live allocation in that slot", op.Slot)
	}

	r.heap.Release(p)
	delete(r.live, op.Slot)
	r.ReleaseCount++

	return nil
}

func (r *Replayer) doResize(op Op) error {
	r.mu.Lock()
	p, ok := r.live[op.Slot]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("resize(slot=%s): no live allocation in that slot", op.Slot)
	}

	newPtr, err := r.heap.Resize(p, uintptr(op.Size))
	if err == nil {
		r.live[op.Slot] = newPtr
		r.ResizeCount++
	}
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("resize(slot=%s, size=%d): %w", op.Slot, op.Size, err)
	}

	return nil
}
