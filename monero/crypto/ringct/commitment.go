package ringct

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

type Commitment struct {
	Mask   curve25519.Scalar
	Amount uint64
}

// ZeroCommitment A commitment to zero, defined with a mask of 1 (as to not be the identity).
var ZeroCommitment = Commitment{
	Mask:   *curve25519.ScalarOne(),
	Amount: 0,
}

func AmountToScalar(dst *curve25519.Scalar, amount uint64) *curve25519.Scalar {
	// no reduction is necessary: amount is always lesser than l
	return curve25519.ScalarFromUint64(dst, amount)
}

// CalculateCommitment C = mask * G + amount * H
func CalculateCommitment(c Commitment) curve25519.PublicKeyBytes {
	return Commit(c.Amount, &c.Mask)
}

// coinbaseAmountBlindingFactor precompute coinbase blinding factor scalar multiplication
var coinbaseAmountBlindingFactor = crypto.GeneratorG.Point

// CalculateCommitmentCoinbase Specialized implementation with baked in blinding factor of 1
// also known as zeroCommit, as used by coinbase and fee amounts
func CalculateCommitmentCoinbase(amount uint64) curve25519.PublicKeyBytes {
	var amountK curve25519.Scalar
	var out curve25519.Point
	crypto.ScalarMultPrecomputed(&out, AmountToScalar(&amountK, amount), crypto.GeneratorH)
	return curve25519.PointBytes(out.Add(&out, coinbaseAmountBlindingFactor))
}

// Commit generates C = aG + bH from b, a is mask
func Commit(amount uint64, mask *curve25519.Scalar) curve25519.PublicKeyBytes {
	var amountK curve25519.Scalar
	var aH, out curve25519.Point
	crypto.ScalarMultPrecomputed(&aH, AmountToScalar(&amountK, amount), crypto.GeneratorH)
	out.ScalarBaseMult(mask)
	return curve25519.PointBytes(out.Add(&out, &aH))
}
