// Package conv provides checked integer arithmetic and conversions for
// byte-size computations.
//
// Element counts are multiplied by element sizes before every allocator call.
// These helpers report overflow instead of silently wrapping, so an oversized
// request surfaces as an allocation failure rather than a short block.
//
// For arithmetic that is provably safe by construction (loop indices, values
// already bounded by a live capacity), use direct operations instead.
package conv
