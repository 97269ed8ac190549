// Package resource implements byte budgets for allocators.
//
// The Controller provides two limits, both non-blocking and fail-fast so that
// an allocator can translate a refusal into a nil block:
//
//   - Memory: a hard cap on bytes outstanding (weighted semaphore)
//   - Rate: a token bucket on bytes newly acquired per second
//
// # Memory Management
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(1024*1024); err != nil {
//	    // ErrMemoryLimitExceeded or ErrRateLimited
//	}
//	defer rc.ReleaseMemory(1024*1024)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
package resource
