package curve25519

import (
	"git.gammaspectra.live/P2Pool/edwards25519/field"
)

// elementFromBytesPropagate interprets all 256 bits of buf, reducing the top bit as 2^255 = 19 mod p
func elementFromBytesPropagate(r *field.Element, buf [32]byte) *field.Element {
	top := int(buf[31] >> 7)
	buf[31] &= 0x7f
	_, _ = r.SetBytes(buf[:])

	var plus19 field.Element
	plus19.Add(r, _NINETEEN)
	return r.Select(&plus19, r, top)
}

// Elligator2WithUniformBytes
// Equivalent to ge_fromfe_frombytes_vartime
// constant time
func Elligator2WithUniformBytes(dst *Point, buf [PublicKeySize]byte) *Point {
	/*
	   Curve25519 is a Montgomery curve with equation `v^2 = u^3 + 486662 u^2 + u`.

	   A Curve25519 point `(u, v)` may be mapped to an Ed25519 point `(x, y)` with the map
	   `(sqrt(-(A + 2)) u / v, (u - 1) / (u + 1))`.
	*/

	// Not a wide reduction, every field element but the first 19 has a 2/2^256 chance of selection
	var r, o, tmp1, tmp2, tmp3 field.Element
	elementFromBytesPropagate(&r, buf)

	// Per Section 5.5, take `u = 2`. This is the smallest quadratic non-residue in the field
	urSquare := r.Square(&r)
	urSquareDouble := urSquare.Add(urSquare, urSquare)

	// non-zero, (p - 1) / 2 is not a square
	onePlusUrSquare := urSquareDouble.Add(_ONE, urSquareDouble)
	onePlusUrSquareInverted := onePlusUrSquare.Invert(onePlusUrSquare)

	upsilon := onePlusUrSquareInverted.Multiply(_NEGATIVE_A, onePlusUrSquareInverted)

	// epsilon = -1 gives x = upsilon u r^2 = -upsilon - A
	otherCandidate := o.Subtract(tmp1.Negate(upsilon), _A)

	// upsilon is a valid u coordinate when upsilon^3 + A upsilon^2 + upsilon is square
	_, epsilon := tmp3.SqrtRatio(
		tmp3.Add(
			tmp3.Multiply(
				tmp1.Add(upsilon, _A),
				tmp2.Square(upsilon),
			),
			upsilon,
		),
		_ONE,
	)

	// select upsilon when epsilon is 1 (isSquare)
	u := r.Select(upsilon, otherCandidate, epsilon)

	// the odd y coordinate is chosen when upsilon was selected
	return DecodeMontgomeryPoint(dst, u, epsilon)
}
