package carrot

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/ringct"
)

// The functions in this file recover enote data without any Janus verification.
// Results must not be trusted until checked by the wrappers in scan.go.

type scanDestInfo struct {
	ExtensionG      OnetimeExtensionG
	ExtensionT      OnetimeExtensionT
	AddressSpendPub curve25519.PublicKeyBytes
	PaymentId       PaymentId
	Anchor          JanusAnchor
}

func (i *scanDestInfo) Wipe() {
	i.ExtensionG.Wipe()
	i.ExtensionT.Wipe()
}

func scanDestinationInfo(onetimeAddress, amountCommitment curve25519.PublicKeyBytes, encryptedAnchor EncryptedJanusAnchor, encryptedPaymentId *EncryptedPaymentId, senderReceiverSecret *SenderReceiverSecret) (info scanDestInfo, ok bool) {
	// K^j_s = Ko - K^o_ext = Ko - (k^o_g G + k^o_t T)
	if info.AddressSpendPub, ok = RecoverAddressSpendPub(onetimeAddress, senderReceiverSecret, amountCommitment); !ok {
		return info, false
	}

	// k^o_g = H_n("..g..", s^ctx_sr, C_a)
	info.ExtensionG = MakeOnetimeExtensionG(senderReceiverSecret, amountCommitment)
	// k^o_t = H_n("..t..", s^ctx_sr, C_a)
	info.ExtensionT = MakeOnetimeExtensionT(senderReceiverSecret, amountCommitment)

	// pid = pid_enc XOR m_pid, if applicable
	if encryptedPaymentId != nil {
		info.PaymentId = encryptedPaymentId.Decrypt(senderReceiverSecret, onetimeAddress)
	}

	// anchor = anchor_enc XOR m_anchor
	info.Anchor = encryptedAnchor.Decrypt(senderReceiverSecret, onetimeAddress)

	return info, true
}

// scanExternalNoAmount view tag test, then s^ctx_sr and destination info
func scanExternalNoAmount(onetimeAddress, amountCommitment curve25519.PublicKeyBytes, encryptedAnchor EncryptedJanusAnchor, viewTag ViewTag, ephemeralPub curve25519.MontgomeryPoint, encryptedPaymentId *EncryptedPaymentId, inputContext InputContext, senderReceiverUnctx *MontgomeryECDH) (senderReceiverSecret SenderReceiverSecret, info scanDestInfo, ok bool) {
	// if vt' != vt, then FAIL
	if !VerifyViewTag(senderReceiverUnctx[:], inputContext, onetimeAddress, viewTag) {
		return senderReceiverSecret, info, false
	}

	// s^ctx_sr = H_32(s_sr, D_e, input_context)
	senderReceiverSecret = MakeSenderReceiverSecret(senderReceiverUnctx[:], ephemeralPub, inputContext)

	if info, ok = scanDestinationInfo(onetimeAddress, amountCommitment, encryptedAnchor, encryptedPaymentId, &senderReceiverSecret); !ok {
		senderReceiverSecret.Wipe()
		return senderReceiverSecret, info, false
	}
	return senderReceiverSecret, info, true
}

func scanCoinbaseEnoteNoJanus(enote *CoinbaseEnoteV1, senderReceiverUnctx *MontgomeryECDH) (info scanDestInfo, ok bool) {
	inputContext := MakeCoinbaseInputContext(enote.BlockIndex)

	// C_a = G + a H
	amountCommitment := ringct.CalculateCommitmentCoinbase(enote.Amount)

	senderReceiverSecret, info, ok := scanExternalNoAmount(
		enote.OnetimeAddress, amountCommitment, enote.EncryptedAnchor, enote.ViewTag,
		enote.EphemeralPub, nil, inputContext, senderReceiverUnctx,
	)
	senderReceiverSecret.Wipe()
	return info, ok
}

type scanAmountInfo struct {
	scanDestInfo
	Amount               uint64
	AmountBlindingFactor AmountBlindingKey
	EnoteType            EnoteType
}

func (i *scanAmountInfo) Wipe() {
	i.scanDestInfo.Wipe()
	i.AmountBlindingFactor.Wipe()
}

func scanEnoteExternalNoJanus(enote *EnoteV1, encryptedPaymentId *EncryptedPaymentId, senderReceiverUnctx *MontgomeryECDH) (info scanAmountInfo, ok bool) {
	inputContext := enote.InputContext()

	senderReceiverSecret, destInfo, ok := scanExternalNoAmount(
		enote.OnetimeAddress, enote.AmountCommitment, enote.EncryptedAnchor, enote.ViewTag,
		enote.EphemeralPub, encryptedPaymentId, inputContext, senderReceiverUnctx,
	)
	if !ok {
		return info, false
	}
	defer senderReceiverSecret.Wipe()

	return withAmount(&senderReceiverSecret, enote, destInfo)
}

func scanEnoteInternalBurnt(enote *EnoteV1, senderReceiverSecret *SenderReceiverSecret) (info scanAmountInfo, ok bool) {
	destInfo, ok := scanDestinationInfo(enote.OnetimeAddress, enote.AmountCommitment, enote.EncryptedAnchor, nil, senderReceiverSecret)
	if !ok {
		return info, false
	}
	return withAmount(senderReceiverSecret, enote, destInfo)
}

func withAmount(senderReceiverSecret *SenderReceiverSecret, enote *EnoteV1, destInfo scanDestInfo) (info scanAmountInfo, ok bool) {
	// a, k_a, enote_type
	amount, amountBlindingFactor, enoteType, ok := TryGetAmount(senderReceiverSecret, enote.EncryptedAmount, enote.OnetimeAddress, destInfo.AddressSpendPub, enote.AmountCommitment)
	if !ok {
		destInfo.Wipe()
		return info, false
	}

	return scanAmountInfo{
		scanDestInfo:         destInfo,
		Amount:               amount,
		AmountBlindingFactor: amountBlindingFactor,
		EnoteType:            enoteType,
	}, true
}

// verifyNormalJanusProtectionAndConfirmPaymentId tries pid', then the null pid. On return the pid holds the one that passed.
func verifyNormalJanusProtectionAndConfirmPaymentId(inputContext InputContext, nominalSpendPub curve25519.PublicKeyBytes, isSubaddress bool, ephemeralPub curve25519.MontgomeryPoint, nominalAnchor JanusAnchor, nominalPaymentId *PaymentId) bool {
	// if can recompute D_e with pid', then PASS
	if VerifyNormalJanusProtection(nominalAnchor, inputContext, nominalSpendPub, isSubaddress, *nominalPaymentId, ephemeralPub) {
		return true
	}

	// if can recompute D_e with null pid, then PASS
	*nominalPaymentId = NullPaymentId
	return VerifyNormalJanusProtection(nominalAnchor, inputContext, nominalSpendPub, isSubaddress, NullPaymentId, ephemeralPub)
}

func verifySpecialJanusProtection(firstKeyImage curve25519.PublicKeyBytes, ephemeralPub curve25519.MontgomeryPoint, onetimeAddress curve25519.PublicKeyBytes, viewIncomingDevice ViewIncomingKeyDevice, nominalAnchor JanusAnchor) bool {
	// input_context = "R" || KI_1
	inputContext := MakeInputContext(firstKeyImage)

	// anchor_sp = H_16(D_e, input_context, Ko, k_v)
	expectedAnchor, err := viewIncomingDevice.MakeJanusAnchorSpecial(ephemeralPub, inputContext, onetimeAddress)
	if err != nil {
		return false
	}

	// anchor_sp ?= anchor'
	return expectedAnchor.Equal(nominalAnchor)
}
