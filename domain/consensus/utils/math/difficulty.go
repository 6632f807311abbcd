// Package math provides the compact-target arithmetic shared by the
// difficulty manager and the proof-of-work verifier.
package math

import "math/big"

// compactTargetMantissaMask masks out the mantissa (the low 3 bytes) of a
// compact-encoded target.
const compactTargetMantissaMask = 0x007fffff

// CompactToBig converts a compact-encoded target (the header's Bits field)
// into its full big.Int form. The encoding packs an exponent into the high
// byte and a 3-byte mantissa into the low bytes, the same scheme Bitcoin
// uses for nBits: mantissa * 256**(exponent-3).
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & compactTargetMantissaMask
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	if isNegative {
		bn = bn.Neg(bn)
	}

	return bn
}

// BigToCompact converts a big.Int target into its compact encoding, the
// inverse of CompactToBig. Used by the difficulty manager to encode a
// retargeted difficulty back into a header's Bits field.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	isNegative := n.Sign() < 0
	work := new(big.Int).Abs(n)

	exponent := uint((len(work.Bytes())))
	var mantissa uint32
	if exponent <= 3 {
		mantissa = uint32(work.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		shifted := new(big.Int).Rsh(work, 8*(exponent-3))
		mantissa = uint32(shifted.Uint64())
	}

	// The mantissa's sign bit (0x00800000) must stay clear; if rounding set
	// it, shift one byte right and bump the exponent to absorb it.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent)<<24 | mantissa
	if isNegative {
		compact |= 0x00800000
	}

	return compact
}
