package allocator

import (
	"fmt"
	"os"
	"runtime"
)

// HostTrap is the host-supplied debug-break primitive spec.md §6 calls out:
// "The host also provides a trap/break primitive used only by the
// validator." Validate invokes it when an invariant check fails and the
// heap was configured to trap on corruption; it never runs on the
// allocate/release/resize hot paths.
type HostTrap interface {
	Break(reason string)
}

// noopTrap discards validator failures silently; this is the default so
// that Validate is safe to call from a hot loop or a benchmark without
// paying for stack capture.
type noopTrap struct{}

func (noopTrap) Break(string) {}

// stderrTrap prints a one-line diagnostic and calls runtime.Breakpoint,
// the same debug facility internal/errors.StandardError's caller-capture
// and the teacher allocator package's captureStackTrace helper both reach
// for via the runtime package.
type stderrTrap struct{}

func (stderrTrap) Break(reason string) {
	fmt.Fprintf(os.Stderr, "allocator: validation trap: %s\n", reason)
	runtime.Breakpoint()
}

// StderrTrap returns a HostTrap that logs to stderr and breaks into the
// debugger, for use with WithTrap when a host wants Validate failures to
// stop the process instead of only returning false.
func StderrTrap() HostTrap { return stderrTrap{} }
