package curve25519

import (
	"io"
)

// RandomScalar Equivalent to Monero's random32_unbiased / random_scalar
// Returns nil when r fails
func RandomScalar(k *Scalar, r io.Reader) *Scalar {
	var buf [PrivateKeySize]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil
		}

		if !ScalarIsLimit32(buf) {
			continue
		}
		BytesToScalar32(k, buf)

		if !ScalarIsZero(k) {
			return k
		}
	}
}

// RandomPoint Equivalent to Monero's rctOps::pkGen
// Use for testing
func RandomPoint(k *Point, r io.Reader) *Point {
	s := RandomScalar(new(Scalar), r)
	if s == nil {
		return nil
	}
	return k.ScalarBaseMult(s)
}
