// Command orizon-heap-demo drives the explicit free-list allocator
// against a JSON-described workload, the CLI descendant of the original
// allocator's own my_optional_program.c: instead of a single baked-in
// call sequence compiled against the allocator, the sequence lives in a
// workload file and can be replayed, watched, and reported on.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/fsnotify/fsnotify"

	"github.com/orizon-lang/heapalloc/internal/allocator"
	"github.com/orizon-lang/heapalloc/internal/workload"
)

func main() {
	var (
		showVersion = false
		workloadPth = ""
		maxPending  = int64(4)
		stats       = false
		trace       = false
		segmentKind = "go"
	)

	flag.BoolVar(&showVersion, "version", false, "print the allocator package version and exit")
	flag.StringVar(&workloadPth, "workload", "", "path to a workload script (JSON)")
	flag.Int64Var(&maxPending, "max-pending", 4, "max concurrent op attempts admitted per workload step")
	flag.BoolVar(&stats, "stats", false, "print a block/free-list table after replay")
	flag.BoolVar(&trace, "trace", false, "watch the workload file and re-replay on every save")
	flag.StringVar(&segmentKind, "segment", "go", `segment backing: "go" (Go-heap slice) or "mmap" (anonymous mmap, linux/darwin only)`)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "orizon-heap-demo replays a JSON workload against the explicit free-list allocator.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n  orizon-heap-demo -workload FILE [-stats] [-trace] [-max-pending N]\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Println(allocator.Version.String())
		return
	}

	if workloadPth == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := runOnce(workloadPth, maxPending, stats, segmentKind); err != nil {
		log.Fatalf("orizon-heap-demo: %v", err)
	}

	if trace {
		if err := watchAndReplay(workloadPth, maxPending, stats, segmentKind); err != nil {
			log.Fatalf("orizon-heap-demo: %v", err)
		}
	}
}

// newSegment builds the host segment a workload runs over, per -segment.
func newSegment(kind string, length uintptr) (*allocator.Segment, error) {
	switch kind {
	case "go":
		return allocator.NewGoSegment(length)
	case "mmap":
		return allocator.NewMappedSegment(length)
	default:
		return nil, fmt.Errorf("unknown -segment kind %q (want \"go\" or \"mmap\")", kind)
	}
}

// runOnce loads, version-checks, and replays workloadPth exactly once.
func runOnce(path string, maxPending int64, stats bool, segmentKind string) error {
	script, err := workload.Load(path)
	if err != nil {
		return err
	}

	if err := checkMinVersion(script.MinAllocatorVersion); err != nil {
		return err
	}

	seg, err := newSegment(segmentKind, uintptr(script.HeapSizeBytes))
	if err != nil {
		return fmt.Errorf("allocating segment: %w", err)
	}
	defer seg.Close()

	heap, herr := allocator.NewHeapFromSegment(seg, allocator.WithTrap(allocator.StderrTrap()))
	if herr != nil {
		return fmt.Errorf("initializing heap: %w", herr)
	}

	replayer := workload.NewReplayer(heap, maxPending)
	if err := replayer.Run(context.Background(), script); err != nil {
		return err
	}

	if !heap.Validate() {
		return fmt.Errorf("heap failed validation after replay")
	}

	fmt.Printf("replayed %s: %d allocate, %d release, %d resize; %d/%d bytes used\n",
		path, replayer.AllocateCount, replayer.ReleaseCount, replayer.ResizeCount,
		heap.UsedBytes(), heap.SegmentSize())

	if stats {
		workload.PrintStats(os.Stdout, heap, replayer)
	}

	return nil
}

// checkMinVersion rejects a workload authored against a newer allocator
// than this binary implements. An empty constraint is treated as
// "any version" rather than an error, since older workload scripts may
// predate the field entirely.
func checkMinVersion(constraint string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(">=" + constraint)
	if err != nil {
		return fmt.Errorf("workload min_allocator_version %q is not a valid version: %w", constraint, err)
	}

	if !c.Check(allocator.Version) {
		return fmt.Errorf("workload requires allocator >= %s, this binary is %s", constraint, allocator.Version)
	}

	return nil
}

// watchAndReplay re-runs runOnce every time path is written, until the
// process is interrupted. It exists for iterating on a workload script
// without restarting the binary between edits.
func watchAndReplay(path string, maxPending int64, stats bool, segmentKind string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting workload watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	fmt.Printf("watching %s for changes (ctrl-c to stop)\n", path)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if err := runOnce(path, maxPending, stats, segmentKind); err != nil {
				fmt.Fprintf(os.Stderr, "orizon-heap-demo: replay failed: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			fmt.Fprintf(os.Stderr, "orizon-heap-demo: watch error: %v\n", err)
		}
	}
}
