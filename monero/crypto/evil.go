package crypto

import (
	"slices"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/edwards25519" //nolint:depguard
)

type EvilKind uint64

const (
	EvilKindBase = EvilKind(1 << iota)
	EvilKindDerivation
	EvilKindKeyImage
	EvilKindLowOrder
	EvilKindTorsion
	EvilKindGenerator
)

// EvilPoint A point crafted to trip up key validation
type EvilPoint struct {
	Key  curve25519.PublicKeyBytes
	Kind EvilKind
}

// EvilPointGenerator builds points derived from sourceScalar, keeping those matching any of kindsMask
func EvilPointGenerator(sourceScalar *curve25519.Scalar, kindsMask ...EvilKind) (pubs []EvilPoint) {
	public := new(curve25519.Point).ScalarBaseMult(sourceScalar)
	publicBytes := curve25519.PointBytes(public)

	image := new(curve25519.Point).ScalarMult(sourceScalar, BiasedHashToPoint(publicBytes[:]))

	pubs = append(pubs,
		EvilPoint{publicBytes, EvilKindBase},
		EvilPoint{curve25519.PointBytes(image), EvilKindDerivation | EvilKindKeyImage},
		EvilPoint{curve25519.PointBytes(new(curve25519.Point).MultByCofactor(public)), EvilKindDerivation},
		EvilPoint{curve25519.PointBytes(ScalarMultPrecomputed(new(curve25519.Point), sourceScalar, GeneratorH)), EvilKindDerivation | EvilKindGenerator},
		EvilPoint{curve25519.PointBytes(ScalarMultPrecomputed(new(curve25519.Point), sourceScalar, GeneratorT)), EvilKindDerivation | EvilKindGenerator},
	)

	// add low order and torsioned points
	for _, torsion := range edwards25519.EightTorsion[1:] {
		pubs = append(pubs,
			EvilPoint{curve25519.PointBytes(new(curve25519.Point).Add(public, torsion)), EvilKindBase | EvilKindDerivation | EvilKindTorsion},
			EvilPoint{curve25519.PointBytes(new(curve25519.Point).Add(image, torsion)), EvilKindDerivation | EvilKindTorsion | EvilKindKeyImage},
			EvilPoint{curve25519.PointBytes(torsion), EvilKindLowOrder | EvilKindTorsion},
		)
	}

	// special points
	pubs = append(pubs,
		EvilPoint{GeneratorG.Bytes(), EvilKindGenerator},
		EvilPoint{GeneratorH.Bytes(), EvilKindGenerator},
		EvilPoint{GeneratorT.Bytes(), EvilKindGenerator},
		EvilPoint{curve25519.PointBytes(edwards25519.NewIdentityPoint()), EvilKindLowOrder},
	)

	if len(kindsMask) == 0 {
		return pubs
	}

	return slices.DeleteFunc(pubs, func(p EvilPoint) bool {
		for _, mask := range kindsMask {
			if p.Kind&mask == mask {
				return false
			}
		}
		return true
	})
}
