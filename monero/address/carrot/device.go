package carrot

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

type DeviceErrorKind uint8

const (
	DeviceNotConnected = DeviceErrorKind(iota + 1)
	DevicePasswordNeeded
)

func (k DeviceErrorKind) String() string {
	switch k {
	case DeviceNotConnected:
		return "not connected"
	case DevicePasswordNeeded:
		return "password needed"
	default:
		return "unknown"
	}
}

// DeviceError is returned by devices that hold a secret they cannot currently use
type DeviceError struct {
	Kind DeviceErrorKind
}

func (e *DeviceError) Error() string {
	return "device error: " + e.Kind.String()
}

// ViewIncomingKeyDevice holds k_v
type ViewIncomingKeyDevice interface {
	// ViewKeyScalarMultEd25519 k_v * P
	ViewKeyScalarMultEd25519(p curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error)

	// ViewKeyScalarMultX25519 k_v * D
	ViewKeyScalarMultX25519(d curve25519.MontgomeryPoint) (MontgomeryECDH, error)

	// MakeJanusAnchorSpecial anchor_sp = H_16(D_e, input_context, Ko, k_v)
	MakeJanusAnchorSpecial(ephemeralPub curve25519.MontgomeryPoint, inputContext InputContext, onetimeAddress curve25519.PublicKeyBytes) (JanusAnchor, error)
}

// ViewBalanceSecretDevice holds s_vb
type ViewBalanceSecretDevice interface {
	// MakeInternalViewTag vt = H_3(s_vb || input_context || Ko)
	MakeInternalViewTag(inputContext InputContext, onetimeAddress curve25519.PublicKeyBytes) (ViewTag, error)

	// MakeInternalSenderReceiverSecret s^ctx_sr = H_32(s_vb, D_e, input_context)
	MakeInternalSenderReceiverSecret(ephemeralPub curve25519.MontgomeryPoint, inputContext InputContext) (SenderReceiverSecret, error)
}

// GenerateAddressSecretDevice holds s_ga
type GenerateAddressSecretDevice interface {
	// MakeIndexExtensionGenerator s^j_gen = H_32[s_ga](j_major, j_minor)
	MakeIndexExtensionGenerator(major, minor uint32) (AddressIndexGeneratorSecret, error)
}

// GenerateImageKeyDevice holds k_gi
type GenerateImageKeyDevice interface {
	// GenerateImageScalarMultHashToPoint L_partial = k_gi Hp(K_o)
	GenerateImageScalarMultHashToPoint(onetimeAddress curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error)
}

func (k *ViewIncomingKey) ViewKeyScalarMultEd25519(p curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error) {
	out, ok := crypto.ScalarMultKey(p, k.Scalar())
	if !ok {
		return curve25519.ZeroPublicKeyBytes, ErrBadAddressPoints
	}
	return out, nil
}

func (k *ViewIncomingKey) ViewKeyScalarMultX25519(d curve25519.MontgomeryPoint) (MontgomeryECDH, error) {
	return makeUncontextualizedSharedKeyReceiver(k, d), nil
}

func (k *ViewIncomingKey) MakeJanusAnchorSpecial(ephemeralPub curve25519.MontgomeryPoint, inputContext InputContext, onetimeAddress curve25519.PublicKeyBytes) (JanusAnchor, error) {
	return MakeJanusAnchorSpecial(ephemeralPub, inputContext, onetimeAddress, k), nil
}

func (s *ViewBalanceSecret) MakeInternalViewTag(inputContext InputContext, onetimeAddress curve25519.PublicKeyBytes) (ViewTag, error) {
	return MakeViewTag(s[:], inputContext, onetimeAddress), nil
}

func (s *ViewBalanceSecret) MakeInternalSenderReceiverSecret(ephemeralPub curve25519.MontgomeryPoint, inputContext InputContext) (SenderReceiverSecret, error) {
	return MakeSenderReceiverSecret(s[:], ephemeralPub, inputContext), nil
}

func (s *GenerateAddressSecret) MakeIndexExtensionGenerator(major, minor uint32) (AddressIndexGeneratorSecret, error) {
	return MakeIndexExtensionGenerator(s, major, minor), nil
}

func (k *GenerateImageKey) GenerateImageScalarMultHashToPoint(onetimeAddress curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error) {
	var out curve25519.Point
	return curve25519.PointBytes(out.ScalarMult(k.Scalar(), crypto.BiasedHashToPoint(onetimeAddress[:]))), nil
}

// LockedDevice stands in for any device that refuses to operate, for example a locked hardware wallet
type LockedDevice struct {
	Kind DeviceErrorKind
}

func (d LockedDevice) ViewKeyScalarMultEd25519(curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error) {
	return curve25519.ZeroPublicKeyBytes, &DeviceError{Kind: d.Kind}
}

func (d LockedDevice) ViewKeyScalarMultX25519(curve25519.MontgomeryPoint) (MontgomeryECDH, error) {
	return MontgomeryECDH{}, &DeviceError{Kind: d.Kind}
}

func (d LockedDevice) MakeJanusAnchorSpecial(curve25519.MontgomeryPoint, InputContext, curve25519.PublicKeyBytes) (JanusAnchor, error) {
	return JanusAnchor{}, &DeviceError{Kind: d.Kind}
}

func (d LockedDevice) MakeInternalViewTag(InputContext, curve25519.PublicKeyBytes) (ViewTag, error) {
	return ViewTag{}, &DeviceError{Kind: d.Kind}
}

func (d LockedDevice) MakeInternalSenderReceiverSecret(curve25519.MontgomeryPoint, InputContext) (SenderReceiverSecret, error) {
	return SenderReceiverSecret{}, &DeviceError{Kind: d.Kind}
}

func (d LockedDevice) MakeIndexExtensionGenerator(uint32, uint32) (AddressIndexGeneratorSecret, error) {
	return AddressIndexGeneratorSecret{}, &DeviceError{Kind: d.Kind}
}

func (d LockedDevice) GenerateImageScalarMultHashToPoint(curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, error) {
	return curve25519.ZeroPublicKeyBytes, &DeviceError{Kind: d.Kind}
}

// coerceDeviceError any device failure surfaces as ErrDeviceError to construction callers
func coerceDeviceError(err error) error {
	if err == nil {
		return nil
	}
	return ErrDeviceError
}
