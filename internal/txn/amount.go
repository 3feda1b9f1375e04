package txn

import (
	"github.com/pkg/errors"
	"math/bits"
)

var ErrAmountOverflow = errors.New("amount overflows uint64")

// Sum adds amounts, failing instead of wrapping around.
func Sum(amounts ...uint64) (uint64, error) {
	var total uint64
	for _, a := range amounts {
		var carry uint64
		total, carry = bits.Add64(total, a, 0)
		if carry != 0 {
			return 0, ErrAmountOverflow
		}
	}
	return total, nil
}

// Times multiplies an amount by a count, failing instead of wrapping around.
func Times(amount uint64, n int) (uint64, error) {
	if n < 0 {
		return 0, errors.Errorf("negative multiplier %d", n)
	}
	hi, lo := bits.Mul64(amount, uint64(n))
	if hi != 0 {
		return 0, ErrAmountOverflow
	}
	return lo, nil
}
