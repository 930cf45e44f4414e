// Package keys recovers full secp256k1 public keys from their compressed form.
package keys

import (
	"math/big"

	"github.com/bsv-blockchain/utxodump/errors"
)

const (
	CompressedPubKeyLength   = 33
	UncompressedPubKeyLength = 65

	pubKeyEven         = 0x02
	pubKeyOdd          = 0x03
	pubKeyUncompressed = 0x04
)

var (
	// fieldPrime is the secp256k1 field prime 2^256 - 2^32 - 977
	fieldPrime, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)

	// sqrtExponent is (p+1)/4; p = 3 mod 4 so rhs^sqrtExponent is a square root of rhs when one exists
	sqrtExponent = new(big.Int).Rsh(new(big.Int).Add(fieldPrime, big.NewInt(1)), 2)

	curveB = big.NewInt(7)
)

// DecompressPublicKey takes a 33 byte compressed key (0x02 or 0x03 followed by
// the x coordinate) and returns the 65 byte uncompressed key 0x04 || x || y.
func DecompressPublicKey(compressed []byte) ([]byte, error) {
	if len(compressed) != CompressedPubKeyLength {
		return nil, errors.NewInvalidArgumentError("compressed public key must be %d bytes, got %d", CompressedPubKeyLength, len(compressed))
	}

	tag := compressed[0]
	if tag != pubKeyEven && tag != pubKeyOdd {
		return nil, errors.NewInvalidArgumentError("invalid compressed public key prefix 0x%02x", tag)
	}

	x := new(big.Int).SetBytes(compressed[1:])
	if x.Cmp(fieldPrime) >= 0 {
		return nil, errors.NewPointNotOnCurveError("x coordinate %x is not a field element", compressed[1:])
	}

	// y^2 = x^3 + 7 (mod p)
	rhs := new(big.Int).Exp(x, big.NewInt(3), fieldPrime)
	rhs.Add(rhs, curveB)
	rhs.Mod(rhs, fieldPrime)

	y := new(big.Int).Exp(rhs, sqrtExponent, fieldPrime)

	check := new(big.Int).Mul(y, y)
	check.Mod(check, fieldPrime)

	if check.Cmp(rhs) != 0 {
		return nil, errors.NewPointNotOnCurveError("no point on secp256k1 with x coordinate %x", compressed[1:])
	}

	if y.Bit(0) != uint(tag&1) {
		y.Sub(fieldPrime, y)
	}

	uncompressed := make([]byte, UncompressedPubKeyLength)
	uncompressed[0] = pubKeyUncompressed
	x.FillBytes(uncompressed[1:33])
	y.FillBytes(uncompressed[33:])

	return uncompressed, nil
}
