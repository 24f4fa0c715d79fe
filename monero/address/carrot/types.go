package carrot

import (
	"crypto/subtle"

	"git.gammaspectra.live/P2Pool/carrot/monero"
	"git.gammaspectra.live/P2Pool/carrot/types"
	fasthex "github.com/tmthrgd/go-hex"
)

// JanusAnchor holds either anchor_norm, the randomness of a normal enote ephemeral private key,
// or anchor_sp, an HMAC binding a special enote to its ephemeral pubkey
//
//nolint:recvcheck
type JanusAnchor [monero.JanusAnchorSize]byte

// EncryptedJanusAnchor anchor_enc, a janus anchor XORd with a sender-receiver mask
//
//nolint:recvcheck
type EncryptedJanusAnchor [monero.JanusAnchorSize]byte

// EncryptedAmount a_enc
//
//nolint:recvcheck
type EncryptedAmount [monero.EncryptedAmountSize]byte

// PaymentId legacy integrated address payment id
//
//nolint:recvcheck
type PaymentId [monero.PaymentIdSize]byte

// EncryptedPaymentId pid_enc
//
//nolint:recvcheck
type EncryptedPaymentId [monero.PaymentIdSize]byte

// ViewTag vt
//
//nolint:recvcheck
type ViewTag [monero.CarrotViewTagSize]byte

// InputContext binds an enote to the transaction (or block) it is created in
//
//nolint:recvcheck
type InputContext [monero.InputContextSize]byte

var (
	NullJanusAnchor JanusAnchor
	NullPaymentId   PaymentId
)

type EnoteType uint8

const (
	EnoteTypePayment = EnoteType(iota)
	EnoteTypeChange
)

func (t EnoteType) String() string {
	switch t {
	case EnoteTypePayment:
		return "payment"
	case EnoteTypeChange:
		return "change"
	default:
		return "unknown"
	}
}

func (a JanusAnchor) String() string {
	return fasthex.EncodeToString(a[:])
}

// Equal constant time comparison
func (a JanusAnchor) Equal(b JanusAnchor) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

func (a JanusAnchor) MarshalJSON() ([]byte, error) {
	return types.MarshalHexJSON(a[:]), nil
}

func (a *JanusAnchor) UnmarshalJSON(b []byte) error {
	return types.UnmarshalHexJSON(a[:], b)
}

func (a EncryptedJanusAnchor) String() string {
	return fasthex.EncodeToString(a[:])
}

func (a EncryptedJanusAnchor) MarshalJSON() ([]byte, error) {
	return types.MarshalHexJSON(a[:]), nil
}

func (a *EncryptedJanusAnchor) UnmarshalJSON(b []byte) error {
	return types.UnmarshalHexJSON(a[:], b)
}

func (a EncryptedAmount) String() string {
	return fasthex.EncodeToString(a[:])
}

func (a EncryptedAmount) MarshalJSON() ([]byte, error) {
	return types.MarshalHexJSON(a[:]), nil
}

func (a *EncryptedAmount) UnmarshalJSON(b []byte) error {
	return types.UnmarshalHexJSON(a[:], b)
}

func (p PaymentId) String() string {
	return fasthex.EncodeToString(p[:])
}

func (p PaymentId) MarshalJSON() ([]byte, error) {
	return types.MarshalHexJSON(p[:]), nil
}

func (p *PaymentId) UnmarshalJSON(b []byte) error {
	return types.UnmarshalHexJSON(p[:], b)
}

func (p EncryptedPaymentId) String() string {
	return fasthex.EncodeToString(p[:])
}

func (p EncryptedPaymentId) MarshalJSON() ([]byte, error) {
	return types.MarshalHexJSON(p[:]), nil
}

func (p *EncryptedPaymentId) UnmarshalJSON(b []byte) error {
	return types.UnmarshalHexJSON(p[:], b)
}

// Equal constant time comparison
func (vt ViewTag) Equal(other ViewTag) bool {
	return subtle.ConstantTimeCompare(vt[:], other[:]) == 1
}

func (vt ViewTag) String() string {
	return fasthex.EncodeToString(vt[:])
}

func (vt ViewTag) MarshalJSON() ([]byte, error) {
	return types.MarshalHexJSON(vt[:]), nil
}

func (vt *ViewTag) UnmarshalJSON(b []byte) error {
	return types.UnmarshalHexJSON(vt[:], b)
}

func (c InputContext) String() string {
	return fasthex.EncodeToString(c[:])
}

func (c InputContext) MarshalJSON() ([]byte, error) {
	return types.MarshalHexJSON(c[:]), nil
}

func (c *InputContext) UnmarshalJSON(b []byte) error {
	return types.UnmarshalHexJSON(c[:], b)
}

// xorBytes dst = a XOR b, all of the same length
func xorBytes(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
