package address

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

type Interface interface {
	Compare(b Interface) int

	SpendPublicKey() *curve25519.PublicKeyBytes
	ViewPublicKey() *curve25519.PublicKeyBytes

	ToAddress(network uint8, err ...error) *Address
}

type InterfaceSubaddress interface {
	Interface
	IsSubaddress() bool
}
