package curve25519

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/edwards25519" //nolint:depguard
)

type Scalar = edwards25519.Scalar

// basepointOrder is the order of the Ed25519 basepoint, i.e., l = 2^252 + 27742317777372353535851937790883648493.
var basepointOrder = [32]byte{0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58, 0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10}

// limit = basepointOrder * 15, basepointOrder fits 15 times in 32 bytes (iow, 15 basepointOrder is the highest multiple of basepointOrder that fits in 32 bytes)
var limit = [32]byte{0xe3, 0x6a, 0x67, 0x72, 0x8b, 0xce, 0x13, 0x29, 0x8f, 0x30, 0x82, 0x8c, 0x0b, 0xa4, 0x10, 0x39, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0}

func ScalarIsLimit32[T ~[PrivateKeySize]byte](a T) bool {
	for n := 31; n >= 0; n-- {
		if a[n] < limit[n] {
			return true
		} else if a[n] > limit[n] {
			return false
		}
	}

	return false
}

func ScalarIsReduced32[T ~[PrivateKeySize]byte](a T) bool {
	for n := 31; n >= 0; n-- {
		if a[n] < basepointOrder[n] {
			return true
		} else if a[n] > basepointOrder[n] {
			return false
		}
	}

	return false
}

// BytesToScalar64 wide reduction of a 512-bit little endian integer mod l
func BytesToScalar64(c *Scalar, buf [64]byte) *Scalar {
	_, _ = c.SetUniformBytes(buf[:])
	return c
}

// BytesToScalar32 reduction of a 256-bit little endian integer mod l, also called sc_reduce32
func BytesToScalar32(c *Scalar, buf [32]byte) *Scalar {
	var wide [64]byte
	copy(wide[:], buf[:])
	return BytesToScalar64(c, wide)
}

// ScalarFromUint64 encodes x as a scalar, used for amounts
func ScalarFromUint64(c *Scalar, x uint64) *Scalar {
	var buf [PrivateKeySize]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	_, _ = c.SetCanonicalBytes(buf[:])
	return c
}

func ScalarIsZero(s *Scalar) bool {
	return s.Equal(zeroScalar) == 1
}

var zeroScalar = edwards25519.NewScalar()

// ScalarOne returns a new scalar set to 1
func ScalarOne() *Scalar {
	return ScalarFromUint64(new(Scalar), 1)
}
