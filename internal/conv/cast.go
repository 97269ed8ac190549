package conv

import (
	"fmt"
	"math"
	"math/bits"
)

// MulSize returns n*size, or an error if either operand is negative or the
// product does not fit in an int.
func MulSize(n, size int) (int, error) {
	if n < 0 || size < 0 {
		return 0, fmt.Errorf("size overflow: %d*%d (negative operand)", n, size)
	}
	hi, lo := bits.Mul64(uint64(n), uint64(size))
	if hi != 0 || lo > uint64(math.MaxInt) {
		return 0, fmt.Errorf("size overflow: %d*%d exceeds max int", n, size)
	}
	return int(lo), nil
}

// AddSize returns a+b, or an error if either operand is negative or the sum
// does not fit in an int.
func AddSize(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("size overflow: %d+%d (negative operand)", a, b)
	}
	if a > math.MaxInt-b {
		return 0, fmt.Errorf("size overflow: %d+%d exceeds max int", a, b)
	}
	return a + b, nil
}

// IntToInt64 widens a byte count for the int64 accounting APIs.
func IntToInt64(v int) int64 {
	return int64(v)
}

// NextPowerOfTwo returns the smallest power of two >= n. It returns 0 for
// n == 0 and an error if the result does not fit in an int.
func NextPowerOfTwo(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("integer overflow: %d has no power of two (negative)", n)
	}
	if n <= 1 {
		return n, nil
	}
	shift := bits.Len(uint(n - 1))
	if shift >= bits.UintSize-1 {
		return 0, fmt.Errorf("integer overflow: next power of two of %d exceeds max int", n)
	}
	return 1 << shift, nil
}
