// Package resource implements the ResourceController for global limits.
//
// Three resource types are governed:
//
//   - Memory: the snapshot history charges cached groupings against a hard
//     budget (non-blocking, fail-fast)
//   - Concurrency: parallel data imports run under a worker semaphore
//   - IO: imports may be rate-limited to a byte-per-second budget
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
