package crypto

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/edwards25519"
)

type Generator struct {
	// Point The point used as Generator
	Point *curve25519.Point
	// Table Precomputed table of Point to be used in precomputed scalar point multiplication
	Table *edwards25519.PrecomputedTable
}

func newGenerator(point *curve25519.Point) *Generator {
	return &Generator{
		Point: point,
		Table: edwards25519.PointTablePrecompute(point),
	}
}

// Bytes compressed encoding of the generator point
func (g *Generator) Bytes() curve25519.PublicKeyBytes {
	return curve25519.PointBytes(g.Point)
}

func inlineKeccak[T ~[]byte | ~string](data T) []byte {
	h := Keccak256(data)
	return h[:]
}

var (
	// GeneratorG generator of 𝔾E
	// G = {x, 4/5 mod q}
	GeneratorG = newGenerator(edwards25519.NewGeneratorPoint())

	// GeneratorH H_p^1(G)
	// H = 8*to_point(keccak(G))
	// note: to_point(keccak(G)) is known to succeed for the canonical value of G (it will fail 7/8ths of the time
	//       normally)
	//
	// Contrary to convention (`G` for values, `H` for randomness), `H` is used by Monero for amounts within Pedersen commitments
	GeneratorH = newGenerator(HopefulHashToPoint(GeneratorG.Point.Bytes()))

	// GeneratorT H_p^2(Keccak256("Monero Generator T"))
	// Used to blind the key-image commitment present within output keys
	GeneratorT = newGenerator(UnbiasedHashToPoint(inlineKeccak("Monero Generator T")))
)
