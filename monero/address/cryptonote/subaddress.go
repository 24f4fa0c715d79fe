package cryptonote

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/carrot/monero/address"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

var hashKeySubaddress = []byte("SubAddr\x00") // HASH_KEY_SUBADDRESS

// SubaddressExtension Hs(a || index_major || index_minor) make_legacy_subaddress_extension
func SubaddressExtension(out *curve25519.Scalar, index address.SubaddressIndex, viewKey curve25519.PrivateKeyBytes) *curve25519.Scalar {
	if index == address.ZeroSubaddressIndex {
		// set to zero
		return out.Set(&curve25519.Scalar{})
	}
	var major, minor [4]byte
	binary.LittleEndian.PutUint32(major[:], index.Account)
	binary.LittleEndian.PutUint32(minor[:], index.Offset)
	return crypto.ScalarDeriveLegacy(
		out,
		hashKeySubaddress,
		viewKey[:],
		major[:],
		minor[:],
	)
}

// GetSubaddressSpendPub K^j_s = K_s + m * G
func GetSubaddressSpendPub(spendPub *curve25519.Point, viewKeyBytes curve25519.PrivateKeyBytes, index address.SubaddressIndex) curve25519.PublicKeyBytes {
	var m curve25519.Scalar
	SubaddressExtension(&m, index, viewKeyBytes)

	var M, D curve25519.Point

	// M = m*G
	M.ScalarBaseMult(&m)

	// D = B + M
	D.Add(spendPub, &M)

	return curve25519.PointBytes(&D)
}

// GetSubaddressKeys spend and view public keys of a legacy subaddress, index must not be zero
func GetSubaddressKeys(spendPub *curve25519.Point, viewKeyScalar *curve25519.Scalar, index address.SubaddressIndex) (spend, view curve25519.PublicKeyBytes) {
	spend = GetSubaddressSpendPub(spendPub, curve25519.PrivateKeyBytes(viewKeyScalar.Bytes()), index)

	// C = a * D
	var C curve25519.Point
	C.ScalarMult(viewKeyScalar, spend.Point())

	return spend, curve25519.PointBytes(&C)
}

func GetSubaddress(a *address.Address, viewKey *curve25519.Scalar, index address.SubaddressIndex) *address.Address {
	if index == address.ZeroSubaddressIndex {
		return a
	}
	if a == nil || a.IsSubaddress() {
		// cannot derive
		return nil
	}

	spendPub := a.SpendPub.Point()
	if spendPub == nil {
		return nil
	}

	network := address.SubaddressNetwork(a.BaseNetwork())
	if network == 0 {
		return nil
	}

	spend, view := GetSubaddressKeys(spendPub, viewKey, index)
	return address.FromRawAddress(network, spend, view)
}
