package carrot

import (
	"io"

	"git.gammaspectra.live/P2Pool/carrot/monero/address"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

// MakeProveSpendKey make_carrot_provespend_key
func MakeProveSpendKey(masterSecret *MasterSecret) (proveSpend ProveSpendKey) {
	// k_ps = H_n(s_m)
	ScalarTranscript(proveSpend.Scalar(), masterSecret[:], DomainSeparatorProveSpendKey)
	return proveSpend
}

// MakeViewBalanceSecret make_carrot_viewbalance_secret
func MakeViewBalanceSecret(masterSecret *MasterSecret) (viewBalance ViewBalanceSecret) {
	// s_vb = H_32(s_m)
	HashedTranscript(viewBalance[:], masterSecret[:], DomainSeparatorViewBalanceSecret)
	return viewBalance
}

// MakeGenerateImageKey make_carrot_generateimage_key
func MakeGenerateImageKey(viewBalance *ViewBalanceSecret) (generateImage GenerateImageKey) {
	// k_gi = H_n(s_vb)
	ScalarTranscript(generateImage.Scalar(), viewBalance[:], DomainSeparatorGenerateImageKey)
	return generateImage
}

// MakeViewIncomingKey make_carrot_viewincoming_key
func MakeViewIncomingKey(viewBalance *ViewBalanceSecret) (viewIncoming ViewIncomingKey) {
	// k_v = H_n(s_vb)
	ScalarTranscript(viewIncoming.Scalar(), viewBalance[:], DomainSeparatorIncomingViewKey)
	return viewIncoming
}

// MakeGenerateAddressSecret make_carrot_generateaddress_secret
func MakeGenerateAddressSecret(viewBalance *ViewBalanceSecret) (generateAddress GenerateAddressSecret) {
	// s_ga = H_32(s_vb)
	HashedTranscript(generateAddress[:], viewBalance[:], DomainSeparatorGenerateAddressSecret)
	return generateAddress
}

// MakeSpendPub make_carrot_spend_pubkey
func MakeSpendPub(generateImage *GenerateImageKey, proveSpend *ProveSpendKey) curve25519.PublicKeyBytes {
	// K_s = k_gi G + k_ps T
	var K_s curve25519.Point
	return curve25519.PointBytes(crypto.ScalarMultGT(&K_s, generateImage.Scalar(), proveSpend.Scalar()))
}

// MakeAccountViewPub make_carrot_account_view_pubkey
func MakeAccountViewPub(viewIncoming *ViewIncomingKey, spendPub curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, bool) {
	// K_v = k_v K_s
	return crypto.ScalarMultKey(spendPub, viewIncoming.Scalar())
}

// MakePrimaryAddressViewPub make_carrot_primary_address_view_pubkey
func MakePrimaryAddressViewPub(viewIncoming *ViewIncomingKey) curve25519.PublicKeyBytes {
	// K^0_v = k_v G
	return crypto.ScalarBaseMultBytes(viewIncoming.Scalar())
}

// MakeIndexExtensionGenerator make_carrot_index_extension_generator
func MakeIndexExtensionGenerator(generateAddress *GenerateAddressSecret, major, minor uint32) (generator AddressIndexGeneratorSecret) {
	// s^j_gen = H_32[s_ga](j_major, j_minor)
	HashedTranscript(
		generator[:], generateAddress[:], DomainSeparatorAddressIndexGenerator,
		transcriptUint32(major), transcriptUint32(minor),
	)
	return generator
}

// MakeSubaddressScalar make_carrot_subaddress_scalar
func MakeSubaddressScalar(spendPub, accountViewPub curve25519.PublicKeyBytes, generator *AddressIndexGeneratorSecret, major, minor uint32) (subaddressScalar SubaddressScalar) {
	// k^j_subscal = H_n[s^j_gen](K_s, K_v, j_major, j_minor)
	ScalarTranscript(
		subaddressScalar.Scalar(), generator[:], DomainSeparatorSubaddressScalar,
		spendPub[:], accountViewPub[:], transcriptUint32(major), transcriptUint32(minor),
	)
	return subaddressScalar
}

// MakeSubaddressSpendPub K^j_s = k^j_subscal K_s
func MakeSubaddressSpendPub(subaddressScalar *SubaddressScalar, spendPub curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, bool) {
	return crypto.ScalarMultKey(spendPub, subaddressScalar.Scalar())
}

// MakeSubaddressViewPub K^j_v = k^j_subscal K_v
func MakeSubaddressViewPub(subaddressScalar *SubaddressScalar, accountViewPub curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, bool) {
	return crypto.ScalarMultKey(accountViewPub, subaddressScalar.Scalar())
}

// Account holds the full secret hierarchy derived from a master secret
// The device accessors expose each secret behind the narrowest interface that uses it
type Account struct {
	MasterSecret MasterSecret

	ProveSpend      ProveSpendKey
	ViewBalance     ViewBalanceSecret
	GenerateImage   GenerateImageKey
	ViewIncoming    ViewIncomingKey
	GenerateAddress GenerateAddressSecret

	// SpendPub K_s
	SpendPub curve25519.PublicKeyBytes
	// ViewPub K_v
	ViewPub curve25519.PublicKeyBytes
	// PrimaryViewPub K^0_v
	PrimaryViewPub curve25519.PublicKeyBytes
}

func NewAccount(masterSecret MasterSecret) *Account {
	a := &Account{
		MasterSecret: masterSecret,
	}

	a.ProveSpend = MakeProveSpendKey(&a.MasterSecret)
	a.ViewBalance = MakeViewBalanceSecret(&a.MasterSecret)
	a.GenerateImage = MakeGenerateImageKey(&a.ViewBalance)
	a.ViewIncoming = MakeViewIncomingKey(&a.ViewBalance)
	a.GenerateAddress = MakeGenerateAddressSecret(&a.ViewBalance)

	a.SpendPub = MakeSpendPub(&a.GenerateImage, &a.ProveSpend)
	// K_s always decodes, it was just encoded
	a.ViewPub, _ = MakeAccountViewPub(&a.ViewIncoming, a.SpendPub)
	a.PrimaryViewPub = MakePrimaryAddressViewPub(&a.ViewIncoming)

	return a
}

// NewRandomAccount reads s_m from r
func NewRandomAccount(r io.Reader) (*Account, error) {
	var masterSecret MasterSecret
	if _, err := io.ReadFull(r, masterSecret[:]); err != nil {
		return nil, err
	}
	defer masterSecret.Wipe()
	return NewAccount(masterSecret), nil
}

func (a *Account) ViewIncomingKeyDevice() ViewIncomingKeyDevice {
	return &a.ViewIncoming
}

func (a *Account) ViewBalanceSecretDevice() ViewBalanceSecretDevice {
	return &a.ViewBalance
}

func (a *Account) GenerateAddressSecretDevice() GenerateAddressSecretDevice {
	return &a.GenerateAddress
}

func (a *Account) GenerateImageKeyDevice() GenerateImageKeyDevice {
	return &a.GenerateImage
}

func (a *Account) MainDestination() DestinationV1 {
	return MakeMainAddress(a.SpendPub, a.PrimaryViewPub)
}

func (a *Account) IntegratedDestination(paymentId PaymentId) DestinationV1 {
	return MakeIntegratedAddress(a.SpendPub, a.PrimaryViewPub, paymentId)
}

// SubaddressDestination returns the main address for the zero index
func (a *Account) SubaddressDestination(index address.SubaddressIndex) *DestinationV1 {
	if index.IsZero() {
		d := a.MainDestination()
		return &d
	}
	return MakeSubaddress(a.SpendPub, a.ViewPub, &a.GenerateAddress, index.Account, index.Offset)
}

// Address base58 address of the given index, integrated addresses are built from IntegratedDestination
func (a *Account) Address(baseNetwork uint8, index address.SubaddressIndex) *address.Address {
	d := a.SubaddressDestination(index)
	if d == nil {
		return nil
	}
	typeNetwork := baseNetwork
	if d.IsSubaddress {
		typeNetwork = address.SubaddressNetwork(baseNetwork)
	}
	if typeNetwork == 0 {
		return nil
	}
	return address.FromRawAddress(typeNetwork, d.AddressSpendPub, d.AddressViewPub)
}

// subaddressScalar k^j_subscal, or 1 for the main address
func (a *Account) subaddressScalar(index address.SubaddressIndex) (subaddressScalar SubaddressScalar) {
	if index.IsZero() {
		subaddressScalar.Scalar().Set(curve25519.ScalarOne())
		return subaddressScalar
	}
	generator := MakeIndexExtensionGenerator(&a.GenerateAddress, index.Account, index.Offset)
	defer generator.Wipe()
	return MakeSubaddressScalar(a.SpendPub, a.ViewPub, &generator, index.Account, index.Offset)
}

// OnetimeAddressOpening opens K_o = x G + y T for an enote received on index
//
//	x = k_gi * k^j_subscal + k^o_g
//	y = k_ps * k^j_subscal + k^o_t
func (a *Account) OnetimeAddressOpening(index address.SubaddressIndex, extensionG *OnetimeExtensionG, extensionT *OnetimeExtensionT) (x, y curve25519.Scalar) {
	subaddressScalar := a.subaddressScalar(index)
	defer subaddressScalar.Wipe()

	x.MultiplyAdd(a.GenerateImage.Scalar(), subaddressScalar.Scalar(), extensionG.Scalar())
	y.MultiplyAdd(a.ProveSpend.Scalar(), subaddressScalar.Scalar(), extensionT.Scalar())
	return x, y
}

// KeyImage L = x Hp(K_o) of an enote received on index
func (a *Account) KeyImage(index address.SubaddressIndex, extensionG *OnetimeExtensionG, onetimeAddress curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error) {
	subaddressScalar := a.subaddressScalar(index)
	defer subaddressScalar.Wipe()

	return MakeKeyImage(a.GenerateImageKeyDevice(), &subaddressScalar, extensionG, onetimeAddress)
}

// MakeKeyImage L = k^j_subscal (k_gi Hp(K_o)) + k^o_g Hp(K_o), with k_gi held by the device
func MakeKeyImage(generateImageDevice GenerateImageKeyDevice, subaddressScalar *SubaddressScalar, extensionG *OnetimeExtensionG, onetimeAddress curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error) {
	partial, err := generateImageDevice.GenerateImageScalarMultHashToPoint(onetimeAddress)
	if err != nil {
		return curve25519.ZeroPublicKeyBytes, err
	}

	partialPoint := partial.Point()
	if partialPoint == nil {
		return curve25519.ZeroPublicKeyBytes, ErrBadAddressPoints
	}

	var keyImage, extension curve25519.Point
	keyImage.ScalarMult(subaddressScalar.Scalar(), partialPoint)
	extension.ScalarMult(extensionG.Scalar(), crypto.BiasedHashToPoint(onetimeAddress[:]))
	return curve25519.PointBytes(keyImage.Add(&keyImage, &extension)), nil
}

func (a *Account) Wipe() {
	a.MasterSecret.Wipe()
	a.ProveSpend.Wipe()
	a.ViewBalance.Wipe()
	a.GenerateImage.Wipe()
	a.ViewIncoming.Wipe()
	a.GenerateAddress.Wipe()
}
