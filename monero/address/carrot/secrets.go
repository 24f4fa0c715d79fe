package carrot

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

// Uniform 32-byte secrets. Callers own their lifetime and must Wipe them when done.

// MasterSecret s_m
type MasterSecret [32]byte

// ViewBalanceSecret s_vb
type ViewBalanceSecret [32]byte

// GenerateAddressSecret s_ga
type GenerateAddressSecret [32]byte

// AddressIndexGeneratorSecret s^j_gen
type AddressIndexGeneratorSecret [32]byte

// SenderReceiverSecret s^ctx_sr
type SenderReceiverSecret [32]byte

// MontgomeryECDH s_sr, the uncontextualized X25519 shared secret
type MontgomeryECDH curve25519.MontgomeryPoint

func (s *MasterSecret) Wipe()                { clear(s[:]) }
func (s *ViewBalanceSecret) Wipe()           { clear(s[:]) }
func (s *GenerateAddressSecret) Wipe()       { clear(s[:]) }
func (s *AddressIndexGeneratorSecret) Wipe() { clear(s[:]) }
func (s *SenderReceiverSecret) Wipe()        { clear(s[:]) }
func (s *MontgomeryECDH) Wipe()              { clear(s[:]) }

// Scalar secrets. The zero value is the zero scalar.

// ProveSpendKey k_ps
type ProveSpendKey curve25519.Scalar

// GenerateImageKey k_gi
type GenerateImageKey curve25519.Scalar

// ViewIncomingKey k_v
type ViewIncomingKey curve25519.Scalar

// SubaddressScalar k^j_subscal
type SubaddressScalar curve25519.Scalar

// EnoteEphemeralKey d_e
type EnoteEphemeralKey curve25519.Scalar

// AmountBlindingKey k_a
type AmountBlindingKey curve25519.Scalar

// OnetimeExtensionG k^o_g
type OnetimeExtensionG curve25519.Scalar

// OnetimeExtensionT k^o_t
type OnetimeExtensionT curve25519.Scalar

func (k *ProveSpendKey) Scalar() *curve25519.Scalar     { return (*curve25519.Scalar)(k) }
func (k *GenerateImageKey) Scalar() *curve25519.Scalar  { return (*curve25519.Scalar)(k) }
func (k *ViewIncomingKey) Scalar() *curve25519.Scalar   { return (*curve25519.Scalar)(k) }
func (k *SubaddressScalar) Scalar() *curve25519.Scalar  { return (*curve25519.Scalar)(k) }
func (k *EnoteEphemeralKey) Scalar() *curve25519.Scalar { return (*curve25519.Scalar)(k) }
func (k *AmountBlindingKey) Scalar() *curve25519.Scalar { return (*curve25519.Scalar)(k) }
func (k *OnetimeExtensionG) Scalar() *curve25519.Scalar { return (*curve25519.Scalar)(k) }
func (k *OnetimeExtensionT) Scalar() *curve25519.Scalar { return (*curve25519.Scalar)(k) }

func (k *ProveSpendKey) Bytes() curve25519.PrivateKeyBytes     { return scalarBytes(k.Scalar()) }
func (k *GenerateImageKey) Bytes() curve25519.PrivateKeyBytes  { return scalarBytes(k.Scalar()) }
func (k *ViewIncomingKey) Bytes() curve25519.PrivateKeyBytes   { return scalarBytes(k.Scalar()) }
func (k *SubaddressScalar) Bytes() curve25519.PrivateKeyBytes  { return scalarBytes(k.Scalar()) }
func (k *EnoteEphemeralKey) Bytes() curve25519.PrivateKeyBytes { return scalarBytes(k.Scalar()) }
func (k *AmountBlindingKey) Bytes() curve25519.PrivateKeyBytes { return scalarBytes(k.Scalar()) }
func (k *OnetimeExtensionG) Bytes() curve25519.PrivateKeyBytes { return scalarBytes(k.Scalar()) }
func (k *OnetimeExtensionT) Bytes() curve25519.PrivateKeyBytes { return scalarBytes(k.Scalar()) }

func (k *ProveSpendKey) Wipe()     { *k = ProveSpendKey{} }
func (k *GenerateImageKey) Wipe()  { *k = GenerateImageKey{} }
func (k *ViewIncomingKey) Wipe()   { *k = ViewIncomingKey{} }
func (k *SubaddressScalar) Wipe()  { *k = SubaddressScalar{} }
func (k *EnoteEphemeralKey) Wipe() { *k = EnoteEphemeralKey{} }
func (k *AmountBlindingKey) Wipe() { *k = AmountBlindingKey{} }
func (k *OnetimeExtensionG) Wipe() { *k = OnetimeExtensionG{} }
func (k *OnetimeExtensionT) Wipe() { *k = OnetimeExtensionT{} }

func scalarBytes(s *curve25519.Scalar) (out curve25519.PrivateKeyBytes) {
	copy(out[:], s.Bytes())
	return out
}
