// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides power-of-two aligned byte buffers on the Go heap (64 bytes by
// default, cache-line and AVX-512 friendly).
package mem
