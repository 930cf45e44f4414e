package snapshot

import (
	"io"
	"math"
	"math/big"

	"github.com/bsv-blockchain/utxodump/errors"
)

// ReadVarIntUint64 reads the base-128 VarInt used by the coins database and
// snapshot records. Unlike LEB128 each continuation byte adds one to the
// accumulator, so every value has exactly one encoding:
//
//	n = (n << 7) | (b & 0x7f); if b&0x80 != 0 { n++; continue }
//
// A value that does not fit in 64 bits is rejected with VALUE_OVERFLOW.
func ReadVarIntUint64(r io.ByteReader) (uint64, error) {
	var n uint64

	for {
		b, err := readByte(r)
		if err != nil {
			return 0, err
		}

		if n > math.MaxUint64>>7 {
			return 0, errors.NewValueOverflowError("varint does not fit in 64 bits")
		}

		n = (n << 7) | uint64(b&0x7f)

		if b&0x80 == 0 {
			return n, nil
		}

		if n == math.MaxUint64 {
			return 0, errors.NewValueOverflowError("varint does not fit in 64 bits")
		}

		n++
	}
}

// ReadVarInt reads a VarInt of any length into an arbitrary precision integer.
func ReadVarInt(r io.ByteReader) (*big.Int, error) {
	n := new(big.Int)

	for {
		b, err := readByte(r)
		if err != nil {
			return nil, err
		}

		n.Lsh(n, 7)
		n.Or(n, big.NewInt(int64(b&0x7f)))

		if b&0x80 == 0 {
			return n, nil
		}

		n.Add(n, bigOne)
	}
}

var bigOne = big.NewInt(1)

func readByte(r io.ByteReader) (byte, error) {
	b, err := r.ReadByte()
	if err == nil {
		return b, nil
	}

	if _, ok := err.(*errors.Error); ok {
		return 0, err
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return 0, errors.NewTruncatedInputError("stream ended inside a varint", err)
	}

	return 0, errors.NewProcessingError("failed to read varint", err)
}
