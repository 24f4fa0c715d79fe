package carrot

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/carrot/utils"
	"golang.org/x/crypto/blake2b"
)

// HashedTranscript Equivalent to H_b[key](FixedTranscript(...)) where b = len(dst)
// A nil or empty key selects unkeyed BLAKE2b
func HashedTranscript(dst []byte, key []byte, domainSeparator string, args ...[]byte) {
	if len(domainSeparator) > 255 {
		utils.Panicf("domain separator too long: %d bytes", len(domainSeparator))
	}

	hasher, err := blake2b.New(len(dst), key)
	if err != nil {
		utils.Panicf("transcript hasher: %s", err)
	}

	_, _ = hasher.Write([]byte{uint8(len(domainSeparator))})
	_, _ = hasher.Write([]byte(domainSeparator))
	for _, b := range args {
		_, _ = hasher.Write(b)
	}

	hasher.Sum(dst[:0])
}

// ScalarTranscript Equivalent to H_n[key](FixedTranscript(...)) = H_64(...) mod l
func ScalarTranscript(dst *curve25519.Scalar, key []byte, domainSeparator string, args ...[]byte) *curve25519.Scalar {
	var h [blake2b.Size]byte
	HashedTranscript(h[:], key, domainSeparator, args...)
	curve25519.BytesToScalar64(dst, h)
	clear(h[:])
	return dst
}

func transcriptUint8(x uint8) []byte {
	return []byte{x}
}

func transcriptUint32(x uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, x)
}

func transcriptUint64(x uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, x)
}
