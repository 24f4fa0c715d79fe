package curve25519

import (
	"git.gammaspectra.live/P2Pool/carrot/types"
	fasthex "github.com/tmthrgd/go-hex"
)

const PublicKeySize = 32

var ZeroPublicKeyBytes = PublicKeyBytes{}

// PublicKeyBytes compressed Ed25519 point
//
//nolint:recvcheck
type PublicKeyBytes [PublicKeySize]byte

func (k *PublicKeyBytes) Slice() []byte {
	return (*k)[:]
}

// Point decodes k canonically, returns nil on failure
func (k PublicKeyBytes) Point() *Point {
	return DecodeCompressedPoint(new(Point), k)
}

func (k PublicKeyBytes) String() string {
	return fasthex.EncodeToString(k[:])
}

func (k *PublicKeyBytes) UnmarshalJSON(b []byte) error {
	return types.UnmarshalHexJSON(k[:], b)
}

func (k PublicKeyBytes) MarshalJSON() ([]byte, error) {
	return types.MarshalHexJSON(k[:]), nil
}

func PointBytes(p *Point) (out PublicKeyBytes) {
	copy(out[:], p.Bytes())
	return out
}

var inverseEight = new(Scalar).Invert(ScalarFromUint64(new(Scalar), 8))

// IsTorsionFree checks p lies within the prime-order subgroup
// p = Q + t with t of small order, 8p = 8Q, and (8^-1 mod l)(8Q) = Q, which equals p only when t is the identity
func IsTorsionFree(p *Point) bool {
	var cleared, q Point
	cleared.MultByCofactor(p)
	q.ScalarMult(inverseEight, &cleared)
	return q.Equal(p) == 1
}

// IsInvalidOrHasTorsion true if k fails to decode or decodes outside the prime-order subgroup
func IsInvalidOrHasTorsion(k PublicKeyBytes) bool {
	p := k.Point()
	if p == nil {
		return true
	}
	return !IsTorsionFree(p)
}
