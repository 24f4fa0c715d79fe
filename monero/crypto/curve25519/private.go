package curve25519

import (
	"git.gammaspectra.live/P2Pool/carrot/types"
	fasthex "github.com/tmthrgd/go-hex"
)

const PrivateKeySize = 32

var ZeroPrivateKeyBytes = PrivateKeyBytes{}

// PrivateKeyBytes canonical little endian encoding of a scalar
//
//nolint:recvcheck
type PrivateKeyBytes [PrivateKeySize]byte

func (k *PrivateKeyBytes) Slice() []byte {
	return (*k)[:]
}

// Scalar decodes k, returns nil if k is not reduced
func (k *PrivateKeyBytes) Scalar() *Scalar {
	secret, err := new(Scalar).SetCanonicalBytes((*k)[:])
	if err != nil {
		return nil
	}
	return secret
}

func (k PrivateKeyBytes) String() string {
	return fasthex.EncodeToString(k[:])
}

func (k *PrivateKeyBytes) UnmarshalJSON(b []byte) error {
	return types.UnmarshalHexJSON(k[:], b)
}

func (k PrivateKeyBytes) MarshalJSON() ([]byte, error) {
	return types.MarshalHexJSON(k[:]), nil
}
