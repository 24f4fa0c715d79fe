package carrot

import (
	"io"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

// DestinationV1 everything a sender needs to pay an address
type DestinationV1 struct {
	// AddressSpendPub K^j_s
	AddressSpendPub curve25519.PublicKeyBytes `json:"address_spend_pub"`
	// AddressViewPub K^j_v
	AddressViewPub curve25519.PublicKeyBytes `json:"address_view_pub"`
	IsSubaddress   bool                      `json:"is_subaddress"`
	PaymentId      PaymentId                 `json:"payment_id"`
}

// MakeMainAddress make_carrot_main_address_v1
func MakeMainAddress(spendPub, primaryViewPub curve25519.PublicKeyBytes) DestinationV1 {
	return DestinationV1{
		AddressSpendPub: spendPub,
		AddressViewPub:  primaryViewPub,
	}
}

// MakeSubaddress make_carrot_subaddress_v1
// Returns nil for index (0, 0), which is the main address, on device failure or when keys do not decode
func MakeSubaddress(spendPub, accountViewPub curve25519.PublicKeyBytes, generateAddressDevice GenerateAddressSecretDevice, major, minor uint32) *DestinationV1 {
	if major == 0 && minor == 0 {
		return nil
	}

	// s^j_gen = H_32[s_ga](j_major, j_minor)
	generator, err := generateAddressDevice.MakeIndexExtensionGenerator(major, minor)
	if err != nil {
		return nil
	}
	defer generator.Wipe()

	// k^j_subscal = H_n[s^j_gen](K_s, K_v, j_major, j_minor)
	subaddressScalar := MakeSubaddressScalar(spendPub, accountViewPub, &generator, major, minor)
	defer subaddressScalar.Wipe()

	// K^j_s = k^j_subscal * K_s
	addressSpendPub, ok := MakeSubaddressSpendPub(&subaddressScalar, spendPub)
	if !ok {
		return nil
	}

	// K^j_v = k^j_subscal * K_v
	addressViewPub, ok := MakeSubaddressViewPub(&subaddressScalar, accountViewPub)
	if !ok {
		return nil
	}

	return &DestinationV1{
		AddressSpendPub: addressSpendPub,
		AddressViewPub:  addressViewPub,
		IsSubaddress:    true,
	}
}

// MakeIntegratedAddress make_carrot_integrated_address_v1
func MakeIntegratedAddress(spendPub, primaryViewPub curve25519.PublicKeyBytes, paymentId PaymentId) DestinationV1 {
	return DestinationV1{
		AddressSpendPub: spendPub,
		AddressViewPub:  primaryViewPub,
		PaymentId:       paymentId,
	}
}

func (d DestinationV1) IsIntegrated() bool {
	return d.PaymentId != NullPaymentId
}

// NewRandomDestination destination to random keys, used for dummy outputs
func NewRandomDestination(r io.Reader, isSubaddress, isIntegrated bool) (d DestinationV1, err error) {
	var spend, view curve25519.Point
	if curve25519.RandomPoint(&spend, r) == nil || curve25519.RandomPoint(&view, r) == nil {
		return d, io.ErrUnexpectedEOF
	}
	d.AddressSpendPub = curve25519.PointBytes(&spend)
	d.AddressViewPub = curve25519.PointBytes(&view)
	d.IsSubaddress = isSubaddress
	if isIntegrated {
		if _, err = io.ReadFull(r, d.PaymentId[:]); err != nil {
			return d, err
		}
	}
	return d, nil
}
