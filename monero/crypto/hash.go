package crypto

import (
	"hash"
	"io"
	"sync"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/carrot/types"
	"git.gammaspectra.live/P2Pool/sha3"
	"golang.org/x/crypto/blake2b"
)

type HashReader interface {
	hash.Hash
	io.Reader
}

//go:nosplit
func newKeccak256() HashReader {
	return sha3.NewLegacyKeccak256()
}

var keccakPool = sync.Pool{
	New: func() any {
		return newKeccak256()
	},
}

func GetKeccak256Hasher() HashReader {
	return keccakPool.Get().(HashReader)
}

// PutKeccak256Hasher resets h and returns it to the pool
func PutKeccak256Hasher(h HashReader) {
	h.Reset()
	keccakPool.Put(h)
}

func Keccak256Var[T ~string | ~[]byte](data ...T) (result types.Hash) {
	h := GetKeccak256Hasher()
	defer PutKeccak256Hasher(h)
	for _, b := range data {
		_, _ = h.Write([]byte(b))
	}
	_, _ = h.Read(result[:types.HashSize])

	return
}

func Keccak256[T ~string | ~[]byte](data T) (result types.Hash) {
	h := GetKeccak256Hasher()
	defer PutKeccak256Hasher(h)
	_, _ = h.Write([]byte(data))
	_, _ = h.Read(result[:types.HashSize])

	return
}

// HopefulHashToPoint
// Defined as H_p^1 in Carrot
// Interprets keccak(data) directly as a compressed point, returns nil when that fails
func HopefulHashToPoint(data []byte) *curve25519.Point {
	result := curve25519.DecodeCompressedPoint(new(curve25519.Point), Keccak256(data))
	if result == nil {
		return nil
	}

	// Ensure this point lies within the prime-order subgroup
	result.MultByCofactor(result)

	return result
}

// BiasedHashToPoint Monero's `hash_to_ec` / `biased_hash_to_ec` function.
//
// This achieves parity with https://github.com/monero-project/monero/blob/389e3ba1df4a6df4c8f9d116aa239d4c00f5bc78/src/crypto/crypto.cpp#L611, inlining the
// `ge_fromfe_frombytes_vartime` function.
//
// As this only applies Elligator 2 once, it's limited to a subset of points where a certain
// derivative of their `u` coordinates (in Montgomery form) are quadratic residues. It's biased
// accordingly.
func BiasedHashToPoint(data []byte) *curve25519.Point {
	result := curve25519.Elligator2WithUniformBytes(new(curve25519.Point), Keccak256(data))

	// Ensure points lie within the prime-order subgroup
	result.MultByCofactor(result)

	return result
}

// UnbiasedHashToPoint Monero's `unbiased_hash_to_ec` function.
// Defined as H_p^2 in Carrot
func UnbiasedHashToPoint(preimage []byte) *curve25519.Point {
	h := blake2b.Sum512(preimage)

	first := curve25519.Elligator2WithUniformBytes(new(curve25519.Point), [32]byte(h[:32]))
	second := curve25519.Elligator2WithUniformBytes(new(curve25519.Point), [32]byte(h[32:]))

	// Ensure points lie within the prime-order subgroup
	first.MultByCofactor(first)
	second.MultByCofactor(second)

	return first.Add(first, second)
}

// ScalarDeriveLegacy Hs(data...) = keccak(data...) mod l
func ScalarDeriveLegacy(out *curve25519.Scalar, data ...[]byte) *curve25519.Scalar {
	return curve25519.BytesToScalar32(out, Keccak256Var(data...))
}
