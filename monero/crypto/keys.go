package crypto

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

// ScalarMultPrecomputed x * g
func ScalarMultPrecomputed(dst *curve25519.Point, x *curve25519.Scalar, g *Generator) *curve25519.Point {
	return dst.ScalarMultPrecomputed(x, g.Table)
}

// ScalarMultGT x * G + y * T
func ScalarMultGT(dst *curve25519.Point, x, y *curve25519.Scalar) *curve25519.Point {
	var yT curve25519.Point
	ScalarMultPrecomputed(&yT, y, GeneratorT)
	dst.ScalarBaseMult(x)
	return dst.Add(dst, &yT)
}

// ScalarBaseMultBytes x * G, compressed
func ScalarBaseMultBytes(x *curve25519.Scalar) curve25519.PublicKeyBytes {
	return curve25519.PointBytes(new(curve25519.Point).ScalarBaseMult(x))
}

// AddKeys a + b, fails when either encoding is not a valid point
func AddKeys(a, b curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, bool) {
	pa, pb := a.Point(), b.Point()
	if pa == nil || pb == nil {
		return curve25519.ZeroPublicKeyBytes, false
	}
	return curve25519.PointBytes(pa.Add(pa, pb)), true
}

// SubKeys a - b, fails when either encoding is not a valid point
func SubKeys(a, b curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, bool) {
	pa, pb := a.Point(), b.Point()
	if pa == nil || pb == nil {
		return curve25519.ZeroPublicKeyBytes, false
	}
	return curve25519.PointBytes(pa.Subtract(pa, pb)), true
}

// ScalarMultKey x * k, fails when k is not a valid point
func ScalarMultKey(k curve25519.PublicKeyBytes, x *curve25519.Scalar) (curve25519.PublicKeyBytes, bool) {
	p := k.Point()
	if p == nil {
		return curve25519.ZeroPublicKeyBytes, false
	}
	return curve25519.PointBytes(p.ScalarMult(x, p)), true
}
