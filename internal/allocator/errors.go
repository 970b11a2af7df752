package allocator

import (
	orizonerrors "github.com/orizon-lang/heapalloc/internal/errors"
)

// Code identifies one of the error kinds this package distinguishes (spec
// §7). All of them are recovered locally: Allocate/Resize/Init surface
// them as a nil/false return to the caller, never a panic.
type Code string

const (
	CodeInitTooSmall         Code = "INIT_TOO_SMALL"
	CodeRequestZero          Code = "REQUEST_ZERO"
	CodeRequestTooLarge      Code = "REQUEST_TOO_LARGE"
	CodeOutOfSpace           Code = "OUT_OF_SPACE"
	CodeResizeFallbackFailed Code = "RESIZE_FALLBACK_FAILED"
)

// HeapError wraps the package's generic StandardError with the allocator's
// own error vocabulary. It carries the same caller-capture and context-map
// shape as internal/errors.StandardError, but under the five codes spec.md
// §7 calls out, since none of internal/errors' stock categories (bounds,
// overflow, security, ...) names "segment too small to host a block" or
// "resize fallback allocation failed" precisely enough to act on.
type HeapError struct {
	*orizonerrors.StandardError

	Code Code
}

func newHeapError(code Code, message string, context map[string]interface{}) *HeapError {
	return &HeapError{
		StandardError: orizonerrors.NewStandardError(orizonerrors.CategoryMemory, string(code), message, context),
		Code:          code,
	}
}

func errInitTooSmall(segmentSize, minSize uintptr) *HeapError {
	return newHeapError(CodeInitTooSmall, "segment is smaller than the minimum block size",
		map[string]interface{}{"segmentSize": segmentSize, "minBlockSize": minSize})
}

func errRequestZero() *HeapError {
	return newHeapError(CodeRequestZero, "allocation request of 0 bytes is not serviceable", nil)
}

func errRequestTooLarge(requested, max uintptr) *HeapError {
	return newHeapError(CodeRequestTooLarge, "allocation request exceeds MaxRequestSize",
		map[string]interface{}{"requested": requested, "max": max})
}

func errOutOfSpace(requested, total uintptr) *HeapError {
	return newHeapError(CodeOutOfSpace, "no free block (even after coalescing) can satisfy the request",
		map[string]interface{}{"requestedTotal": requested, "segmentSize": total})
}

func errResizeFallbackFailed(requested uintptr, cause *HeapError) *HeapError {
	return newHeapError(CodeResizeFallbackFailed, "grow-by-move fallback could not allocate; original block is untouched",
		map[string]interface{}{"requested": requested, "cause": cause.Error()})
}
