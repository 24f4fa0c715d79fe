package carrot

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/address"
	"git.gammaspectra.live/P2Pool/carrot/monero/address/cryptonote"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

// LegacySubaddressDevice derives CryptoNote subaddresses of a mixed account from k_v
type LegacySubaddressDevice interface {
	// MakeLegacySubaddressSpendPub K^j_s = K_s + Hs("SubAddr\0" || k_v || j_major || j_minor) G
	MakeLegacySubaddressSpendPub(spendPub curve25519.PublicKeyBytes, index address.SubaddressIndex) (curve25519.PublicKeyBytes, error)
}

// LegacyViewIncomingKeyDevice a view incoming device able to derive legacy subaddresses
type LegacyViewIncomingKeyDevice interface {
	ViewIncomingKeyDevice
	LegacySubaddressDevice
}

var (
	_ LegacyViewIncomingKeyDevice = (*ViewIncomingKey)(nil)
	_ LegacyViewIncomingKeyDevice = LockedDevice{}
)

func (k *ViewIncomingKey) MakeLegacySubaddressSpendPub(spendPub curve25519.PublicKeyBytes, index address.SubaddressIndex) (curve25519.PublicKeyBytes, error) {
	p := spendPub.Point()
	if p == nil {
		return curve25519.ZeroPublicKeyBytes, ErrBadAddressPoints
	}
	return cryptonote.GetSubaddressSpendPub(p, k.Bytes(), index), nil
}

func (d LockedDevice) MakeLegacySubaddressSpendPub(curve25519.PublicKeyBytes, address.SubaddressIndex) (curve25519.PublicKeyBytes, error) {
	return curve25519.ZeroPublicKeyBytes, &DeviceError{Kind: d.Kind}
}

// MakeLegacySubaddress CryptoNote subaddress of K_s, returns nil for the zero index
//
//	K^j_s = K_s + m G
//	K^j_v = k_v K^j_s
func MakeLegacySubaddress(spendPub curve25519.PublicKeyBytes, device LegacyViewIncomingKeyDevice, index address.SubaddressIndex) *DestinationV1 {
	if index.IsZero() {
		return nil
	}

	addressSpendPub, err := device.MakeLegacySubaddressSpendPub(spendPub, index)
	if err != nil {
		return nil
	}

	addressViewPub, err := device.ViewKeyScalarMultEd25519(addressSpendPub)
	if err != nil {
		return nil
	}

	return &DestinationV1{
		AddressSpendPub: addressSpendPub,
		AddressViewPub:  addressViewPub,
		IsSubaddress:    true,
	}
}

// LegacySubaddressDestination returns the main address for the zero index
func (a *Account) LegacySubaddressDestination(index address.SubaddressIndex) *DestinationV1 {
	if index.IsZero() {
		d := a.MainDestination()
		return &d
	}
	return MakeLegacySubaddress(a.SpendPub, &a.ViewIncoming, index)
}

// legacyExtension m, zero for the main address
func (a *Account) legacyExtension(index address.SubaddressIndex) (m curve25519.Scalar) {
	cryptonote.SubaddressExtension(&m, index, a.ViewIncoming.Bytes())
	return m
}

// LegacyOnetimeAddressOpening opens K_o = x G + y T for an enote received on a legacy subaddress
//
//	x = k_gi + m + k^o_g
//	y = k_ps + k^o_t
func (a *Account) LegacyOnetimeAddressOpening(index address.SubaddressIndex, extensionG *OnetimeExtensionG, extensionT *OnetimeExtensionT) (x, y curve25519.Scalar) {
	m := a.legacyExtension(index)
	defer m.Set(&curve25519.Scalar{})

	x.Add(a.GenerateImage.Scalar(), &m)
	x.Add(&x, extensionG.Scalar())
	y.Add(a.ProveSpend.Scalar(), extensionT.Scalar())
	return x, y
}

// LegacyKeyImage L = x Hp(K_o) of an enote received on a legacy subaddress
func (a *Account) LegacyKeyImage(index address.SubaddressIndex, extensionG *OnetimeExtensionG, onetimeAddress curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error) {
	m := a.legacyExtension(index)
	defer m.Set(&curve25519.Scalar{})

	return MakeLegacyKeyImage(a.GenerateImageKeyDevice(), &m, extensionG, onetimeAddress)
}

// MakeLegacyKeyImage L = k_gi Hp(K_o) + (m + k^o_g) Hp(K_o), with k_gi held by the device
func MakeLegacyKeyImage(generateImageDevice GenerateImageKeyDevice, legacyExtension *curve25519.Scalar, extensionG *OnetimeExtensionG, onetimeAddress curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error) {
	partial, err := generateImageDevice.GenerateImageScalarMultHashToPoint(onetimeAddress)
	if err != nil {
		return curve25519.ZeroPublicKeyBytes, err
	}

	partialPoint := partial.Point()
	if partialPoint == nil {
		return curve25519.ZeroPublicKeyBytes, ErrBadAddressPoints
	}

	var extension curve25519.Scalar
	defer extension.Set(&curve25519.Scalar{})
	extension.Add(legacyExtension, extensionG.Scalar())

	var keyImage curve25519.Point
	keyImage.ScalarMult(&extension, crypto.BiasedHashToPoint(onetimeAddress[:]))
	return curve25519.PointBytes(keyImage.Add(&keyImage, partialPoint)), nil
}
