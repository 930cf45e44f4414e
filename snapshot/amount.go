package snapshot

import (
	"math"

	"github.com/bsv-blockchain/utxodump/errors"
)

// DecompressAmount reverses the amount compression of the coins database.
//
// The compressed form x is 0 for a zero amount, otherwise 1 + 10*(9*n + d - 1) + e
// for amounts n*10^e with a last non-zero digit d (e < 9), or 1 + 10*(n - 1) + 9
// when e == 9.
func DecompressAmount(x uint64) (uint64, error) {
	if x == 0 {
		return 0, nil
	}

	x--

	// x = 10*(9*n + d - 1) + e
	e := x % 10
	x /= 10

	var n uint64

	if e < 9 {
		// x = 9*n + d - 1
		d := (x % 9) + 1
		x /= 9

		// x = n
		if x > (math.MaxUint64-d)/10 {
			return 0, errors.NewValueOverflowError("compressed amount out of range")
		}

		n = x*10 + d
	} else {
		n = x + 1
	}

	for ; e > 0; e-- {
		if n > math.MaxUint64/10 {
			return 0, errors.NewValueOverflowError("compressed amount out of range")
		}

		n *= 10
	}

	return n, nil
}
