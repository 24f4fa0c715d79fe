package curve25519

import (
	"crypto/subtle"
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/edwards25519"
	"git.gammaspectra.live/P2Pool/edwards25519/field"
)

type Point = edwards25519.Point

// DecodeMontgomeryPoint maps a Montgomery u coordinate and sign to Ed25519
// Constant time
//
// The birational map is y = (u-1)/(u+1), after which the point is decompressed with the given sign.
func DecodeMontgomeryPoint(r *Point, u *field.Element, sign int) *Point {
	if u == nil || u.Equal(_NEGATIVE_ONE) == 1 {
		return nil
	}

	var tmp1, tmp2, y field.Element

	y.Multiply(
		tmp1.Subtract(u, _ONE),
		tmp2.Invert(tmp2.Add(u, _ONE)),
	)

	var yBytes [PublicKeySize]byte
	copy(yBytes[:], y.Bytes())
	yBytes[31] ^= byte(sign << 7)

	return DecodeCompressedPoint(r, yBytes)
}

// DecodeCompressedPoint Decompress a canonically-encoded Ed25519 point.
//
// Ed25519 is of order `8 * basepointOrder`. This function ensures each of those `8 * basepointOrder` points have a
// singular encoding by checking points aren't encoded with an unreduced field element,
// and aren't negative when the negative is equivalent (0 == -0).
//
// Since this decodes an Ed25519 point, it does not check the point is in the prime-order
// subgroup. To verify torsion use IsTorsionFree
func DecodeCompressedPoint[S ~[PublicKeySize]byte](r *Point, buf S) *Point {
	if r == nil {
		return nil
	}

	if _, err := r.SetBytes(buf[:]); err != nil {
		return nil
	}

	// Ban points which are either unreduced or -0
	if subtle.ConstantTimeCompare(r.Bytes(), buf[:]) == 0 {
		return nil
	}
	return r
}

func elementFromUint64(x uint64) *field.Element {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:], x)

	e, err := new(field.Element).SetBytes(b[:])
	if err != nil {
		panic(err)
	}
	return e
}

var (
	_ONE          = new(field.Element).One()
	_NEGATIVE_ONE = new(field.Element).Negate(_ONE)
	_A            = elementFromUint64(486662)
	_NEGATIVE_A   = new(field.Element).Negate(_A)
	// _A24 (A + 2) / 4, ladder constant
	_A24 = elementFromUint64(121666)
	// _NINETEEN 2^255 mod p
	_NINETEEN = elementFromUint64(19)
)
