package carrot

import (
	"slices"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

// ScanResult what a successful scan recovers. Fields that a scan variant does not recover are left zero.
type ScanResult struct {
	// ExtensionG k^o_g
	ExtensionG OnetimeExtensionG `json:"-"`
	// ExtensionT k^o_t
	ExtensionT OnetimeExtensionT `json:"-"`

	// AddressSpendPub K^j_s the enote was sent to
	AddressSpendPub curve25519.PublicKeyBytes `json:"address_spend_pub"`

	Amount uint64 `json:"amount"`
	// AmountBlindingFactor k_a
	AmountBlindingFactor AmountBlindingKey `json:"-"`

	PaymentId PaymentId `json:"payment_id"`
	EnoteType EnoteType `json:"enote_type"`

	// InternalMessage the anchor of internal enotes
	InternalMessage JanusAnchor `json:"internal_message"`
}

func (r *ScanResult) Wipe() {
	r.ExtensionG.Wipe()
	r.ExtensionT.Wipe()
	r.AmountBlindingFactor.Wipe()
}

func isMainAddressSpendPub(spendPub curve25519.PublicKeyBytes, mainSpendPubs []curve25519.PublicKeyBytes) bool {
	return slices.Contains(mainSpendPubs, spendPub)
}

// MakeUncontextualizedSharedKeyReceiver s_sr = k_v D_e
func MakeUncontextualizedSharedKeyReceiver(viewIncomingDevice ViewIncomingKeyDevice, ephemeralPub curve25519.MontgomeryPoint) (MontgomeryECDH, error) {
	return viewIncomingDevice.ViewKeyScalarMultX25519(ephemeralPub)
}

func scanCoinbaseEnoteChecked(enote *CoinbaseEnoteV1, senderReceiverUnctx *MontgomeryECDH, mainSpendPubs []curve25519.PublicKeyBytes) (result ScanResult, ok bool) {
	info, ok := scanCoinbaseEnoteNoJanus(enote, senderReceiverUnctx)
	if !ok {
		return result, false
	}

	// coinbase outputs only pay main addresses, with no payment id
	if !isMainAddressSpendPub(info.AddressSpendPub, mainSpendPubs) ||
		!VerifyNormalJanusProtection(info.Anchor, enote.InputContext(), info.AddressSpendPub, false, NullPaymentId, enote.EphemeralPub) {
		info.Wipe()
		return result, false
	}

	return ScanResult{
		ExtensionG:           info.ExtensionG,
		ExtensionT:           info.ExtensionT,
		AddressSpendPub:      info.AddressSpendPub,
		Amount:               enote.Amount,
		AmountBlindingFactor: AmountBlindingKey(*curve25519.ScalarOne()),
		EnoteType:            EnoteTypePayment,
	}, true
}

// scanEnoteExternalNormalChecked the returned flag reports whether normal Janus protection verified
func scanEnoteExternalNormalChecked(enote *EnoteV1, encryptedPaymentId *EncryptedPaymentId, senderReceiverUnctx *MontgomeryECDH, isSubaddress func(spendPub curve25519.PublicKeyBytes) bool) (info scanAmountInfo, verifiedNormalJanus bool, ok bool) {
	if info, ok = scanEnoteExternalNoJanus(enote, encryptedPaymentId, senderReceiverUnctx); !ok {
		return info, false, false
	}

	verifiedNormalJanus = verifyNormalJanusProtectionAndConfirmPaymentId(
		enote.InputContext(), info.AddressSpendPub, isSubaddress(info.AddressSpendPub),
		enote.EphemeralPub, info.Anchor, &info.PaymentId,
	)
	return info, verifiedNormalJanus, true
}

// TryScanCoinbaseEnoteReceiver try_scan_carrot_coinbase_enote_receiver
// The recovered K^j_s must be one of mainSpendPubs
func TryScanCoinbaseEnoteReceiver(enote *CoinbaseEnoteV1, senderReceiverUnctx *MontgomeryECDH, mainSpendPubs []curve25519.PublicKeyBytes) (ScanResult, bool) {
	return scanCoinbaseEnoteChecked(enote, senderReceiverUnctx, mainSpendPubs)
}

// TryScanCoinbaseEnoteSenderWithEphemeralKey lets the sender of a coinbase enote confirm it pays destination
func TryScanCoinbaseEnoteSenderWithEphemeralKey(enote *CoinbaseEnoteV1, destination *DestinationV1, ephemeralPrivateKey *EnoteEphemeralKey) (result ScanResult, ok bool) {
	// s_sr = d_e ConvertPointE(K^j_v)
	senderReceiverUnctx, ok := MakeUncontextualizedSharedKeySender(ephemeralPrivateKey, destination.AddressViewPub)
	if !ok {
		return result, false
	}
	defer senderReceiverUnctx.Wipe()

	if result, ok = scanCoinbaseEnoteChecked(enote, &senderReceiverUnctx, []curve25519.PublicKeyBytes{destination.AddressSpendPub}); !ok {
		return result, false
	}

	if result.AddressSpendPub != destination.AddressSpendPub {
		result.Wipe()
		return ScanResult{}, false
	}
	return result, true
}

// TryScanCoinbaseEnoteSender as TryScanCoinbaseEnoteSenderWithEphemeralKey, deriving d_e from anchor_norm
func TryScanCoinbaseEnoteSender(enote *CoinbaseEnoteV1, destination *DestinationV1, anchor JanusAnchor) (ScanResult, bool) {
	ephemeralPrivateKey := MakeEnoteEphemeralPrivateKey(anchor, enote.InputContext(), destination.AddressSpendPub, destination.PaymentId)
	defer ephemeralPrivateKey.Wipe()

	return TryScanCoinbaseEnoteSenderWithEphemeralKey(enote, destination, &ephemeralPrivateKey)
}

// TryScanEnoteExternalReceiver try_scan_carrot_enote_external_receiver
// Enotes that fail normal Janus protection must carry a valid anchor_sp, as made by special self-sends.
// K^j_s not in mainSpendPubs is treated as a subaddress.
func TryScanEnoteExternalReceiver(enote *EnoteV1, encryptedPaymentId *EncryptedPaymentId, senderReceiverUnctx *MontgomeryECDH, mainSpendPubs []curve25519.PublicKeyBytes, viewIncomingDevice ViewIncomingKeyDevice) (result ScanResult, ok bool) {
	info, verifiedNormalJanus, ok := scanEnoteExternalNormalChecked(enote, encryptedPaymentId, senderReceiverUnctx, func(spendPub curve25519.PublicKeyBytes) bool {
		return !isMainAddressSpendPub(spendPub, mainSpendPubs)
	})
	if !ok {
		return result, false
	}

	if !verifiedNormalJanus && !verifySpecialJanusProtection(enote.FirstKeyImage, enote.EphemeralPub, enote.OnetimeAddress, viewIncomingDevice, info.Anchor) {
		info.Wipe()
		return result, false
	}

	return ScanResult{
		ExtensionG:           info.ExtensionG,
		ExtensionT:           info.ExtensionT,
		AddressSpendPub:      info.AddressSpendPub,
		Amount:               info.Amount,
		AmountBlindingFactor: info.AmountBlindingFactor,
		PaymentId:            info.PaymentId,
		EnoteType:            info.EnoteType,
	}, true
}

// TryScanEnoteExternalSenderWithSharedSecret lets the sender of a normal enote confirm it pays destination.
// With checkPaymentId the recovered pid must equal the one of destination.
func TryScanEnoteExternalSenderWithSharedSecret(enote *EnoteV1, encryptedPaymentId *EncryptedPaymentId, destination *DestinationV1, senderReceiverUnctx *MontgomeryECDH, checkPaymentId bool) (result ScanResult, ok bool) {
	info, verifiedNormalJanus, ok := scanEnoteExternalNormalChecked(enote, encryptedPaymentId, senderReceiverUnctx, func(curve25519.PublicKeyBytes) bool {
		return destination.IsSubaddress
	})
	if !ok {
		return result, false
	}

	if !verifiedNormalJanus ||
		info.AddressSpendPub != destination.AddressSpendPub ||
		(checkPaymentId && info.PaymentId != destination.PaymentId) ||
		info.EnoteType != EnoteTypePayment {
		info.Wipe()
		return result, false
	}

	return ScanResult{
		ExtensionG:           info.ExtensionG,
		ExtensionT:           info.ExtensionT,
		AddressSpendPub:      info.AddressSpendPub,
		Amount:               info.Amount,
		AmountBlindingFactor: info.AmountBlindingFactor,
		PaymentId:            info.PaymentId,
		EnoteType:            info.EnoteType,
	}, true
}

// TryScanEnoteExternalSenderWithEphemeralKey as TryScanEnoteExternalSenderWithSharedSecret, from d_e
func TryScanEnoteExternalSenderWithEphemeralKey(enote *EnoteV1, encryptedPaymentId *EncryptedPaymentId, destination *DestinationV1, ephemeralPrivateKey *EnoteEphemeralKey, checkPaymentId bool) (result ScanResult, ok bool) {
	// s_sr = d_e ConvertPointE(K^j_v)
	senderReceiverUnctx, ok := MakeUncontextualizedSharedKeySender(ephemeralPrivateKey, destination.AddressViewPub)
	if !ok {
		return result, false
	}
	defer senderReceiverUnctx.Wipe()

	return TryScanEnoteExternalSenderWithSharedSecret(enote, encryptedPaymentId, destination, &senderReceiverUnctx, checkPaymentId)
}

// TryScanEnoteExternalSender as TryScanEnoteExternalSenderWithSharedSecret, deriving d_e from anchor_norm
func TryScanEnoteExternalSender(enote *EnoteV1, encryptedPaymentId *EncryptedPaymentId, destination *DestinationV1, anchor JanusAnchor, checkPaymentId bool) (ScanResult, bool) {
	ephemeralPrivateKey := MakeEnoteEphemeralPrivateKey(anchor, enote.InputContext(), destination.AddressSpendPub, destination.PaymentId)
	defer ephemeralPrivateKey.Wipe()

	return TryScanEnoteExternalSenderWithEphemeralKey(enote, encryptedPaymentId, destination, &ephemeralPrivateKey, checkPaymentId)
}

// TryScanEnoteInternalReceiver try_scan_carrot_enote_internal_receiver
// Internal enotes are made and scanned by the same party, no Janus checks apply
func TryScanEnoteInternalReceiver(enote *EnoteV1, viewBalanceDevice ViewBalanceSecretDevice) (result ScanResult, ok bool) {
	inputContext := enote.InputContext()

	// vt = H_3(s_vb || input_context || Ko)
	nominalViewTag, err := viewBalanceDevice.MakeInternalViewTag(inputContext, enote.OnetimeAddress)
	if err != nil || !nominalViewTag.Equal(enote.ViewTag) {
		return result, false
	}

	// s^ctx_sr = H_32(s_vb, D_e, input_context)
	senderReceiverSecret, err := viewBalanceDevice.MakeInternalSenderReceiverSecret(enote.EphemeralPub, inputContext)
	if err != nil {
		return result, false
	}
	defer senderReceiverSecret.Wipe()

	info, ok := scanEnoteInternalBurnt(enote, &senderReceiverSecret)
	if !ok {
		return result, false
	}

	return ScanResult{
		ExtensionG:           info.ExtensionG,
		ExtensionT:           info.ExtensionT,
		AddressSpendPub:      info.AddressSpendPub,
		Amount:               info.Amount,
		AmountBlindingFactor: info.AmountBlindingFactor,
		EnoteType:            info.EnoteType,
		InternalMessage:      info.Anchor,
	}, true
}

// CanOpenOnetimeAddress checks x G + y T ?= Ko
func CanOpenOnetimeAddress(x, y *curve25519.Scalar, onetimeAddress curve25519.PublicKeyBytes) bool {
	var nominal curve25519.Point
	return curve25519.PointBytes(crypto.ScalarMultGT(&nominal, x, y)) == onetimeAddress
}
