package carrot

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/ringct"
)

// MakeEnoteEphemeralPrivateKey make_carrot_enote_ephemeral_privkey
// The transcript is unkeyed on purpose, d_e is derived from anchor_norm and public values only
func MakeEnoteEphemeralPrivateKey(anchor JanusAnchor, inputContext InputContext, spendPub curve25519.PublicKeyBytes, paymentId PaymentId) (ephemeralPrivateKey EnoteEphemeralKey) {
	// d_e = (H_64(anchor_norm, input_context, K^j_s, pid)) mod l
	ScalarTranscript(
		ephemeralPrivateKey.Scalar(), nil, DomainSeparatorEphemeralPrivateKey,
		anchor[:], inputContext[:], spendPub[:], paymentId[:],
	)
	return ephemeralPrivateKey
}

// MakeEnoteEphemeralPubCryptonote make_carrot_enote_ephemeral_pubkey_cryptonote
func MakeEnoteEphemeralPubCryptonote(ephemeralPrivateKey *EnoteEphemeralKey) (out curve25519.MontgomeryPoint) {
	// D_e = d_e B
	curve25519.MontgomeryScalarBaseMult(&out, ephemeralPrivateKey.Scalar())
	return out
}

// MakeEnoteEphemeralPubSubaddress make_carrot_enote_ephemeral_pubkey_subaddress
func MakeEnoteEphemeralPubSubaddress(ephemeralPrivateKey *EnoteEphemeralKey, spendPub curve25519.PublicKeyBytes) (out curve25519.MontgomeryPoint, ok bool) {
	K_s := spendPub.Point()
	if K_s == nil {
		return out, false
	}

	// K_e = d_e K^j_s
	var K_e curve25519.Point
	K_e.ScalarMult(ephemeralPrivateKey.Scalar(), K_s)

	// D_e = ConvertPointE(K_e)
	return curve25519.ConvertPointE(&K_e), true
}

// MakeEnoteEphemeralPub make_carrot_enote_ephemeral_pubkey
func MakeEnoteEphemeralPub(ephemeralPrivateKey *EnoteEphemeralKey, spendPub curve25519.PublicKeyBytes, isSubaddress bool) (curve25519.MontgomeryPoint, bool) {
	if isSubaddress {
		// D_e = d_e ConvertPointE(K^j_s)
		return MakeEnoteEphemeralPubSubaddress(ephemeralPrivateKey, spendPub)
	}
	// D_e = d_e B
	return MakeEnoteEphemeralPubCryptonote(ephemeralPrivateKey), true
}

// makeUncontextualizedSharedKeyReceiver make_carrot_uncontextualized_shared_key_receiver
func makeUncontextualizedSharedKeyReceiver(viewIncoming *ViewIncomingKey, ephemeralPub curve25519.MontgomeryPoint) (out MontgomeryECDH) {
	// s_sr = k_v D_e
	curve25519.MontgomeryScalarMult((*curve25519.MontgomeryPoint)(&out), viewIncoming.Scalar(), ephemeralPub)
	return out
}

// MakeUncontextualizedSharedKeySender make_carrot_uncontextualized_shared_key_sender
func MakeUncontextualizedSharedKeySender(ephemeralPrivateKey *EnoteEphemeralKey, viewPub curve25519.PublicKeyBytes) (out MontgomeryECDH, ok bool) {
	// if K^j_v not in prime order subgroup, then FAIL
	if curve25519.IsInvalidOrHasTorsion(viewPub) {
		return out, false
	}

	// s_sr = d_e ConvertPointE(K^j_v)
	curve25519.MontgomeryScalarMult((*curve25519.MontgomeryPoint)(&out), ephemeralPrivateKey.Scalar(), curve25519.ConvertPointE(viewPub.Point()))
	return out, true
}

// MakeCoinbaseInputContext make_carrot_input_context_coinbase
func MakeCoinbaseInputContext(blockIndex uint64) (inputContext InputContext) {
	// input_context = "C" || IntToBytes256(block_index)
	inputContext[0] = DomainSeparatorInputContextCoinbase
	binary.LittleEndian.PutUint64(inputContext[1:], blockIndex)
	return inputContext
}

// MakeInputContext make_carrot_input_context
func MakeInputContext(firstKeyImage curve25519.PublicKeyBytes) (inputContext InputContext) {
	// input_context = "R" || KI_1
	inputContext[0] = DomainSeparatorInputContextRingCT
	copy(inputContext[1:], firstKeyImage[:])
	return inputContext
}

// MakeSenderReceiverSecret make_carrot_sender_receiver_secret
// The key is s_sr for external enotes, s_vb for internal enotes
func MakeSenderReceiverSecret(senderReceiverUnctx []byte, ephemeralPub curve25519.MontgomeryPoint, inputContext InputContext) (out SenderReceiverSecret) {
	// s^ctx_sr = H_32(s_sr, D_e, input_context)
	HashedTranscript(
		out[:], senderReceiverUnctx, DomainSeparatorSenderReceiverSecret,
		ephemeralPub[:], inputContext[:],
	)
	return out
}

// MakeAmountBlindingFactor make_carrot_amount_blinding_factor
func MakeAmountBlindingFactor(senderReceiverSecret *SenderReceiverSecret, amount uint64, spendPub curve25519.PublicKeyBytes, enoteType EnoteType) (amountBlindingFactor AmountBlindingKey) {
	// k_a = H_n(s^ctx_sr, a, K^j_s, enote_type)
	ScalarTranscript(
		amountBlindingFactor.Scalar(), senderReceiverSecret[:], DomainSeparatorAmountBlindingFactor,
		transcriptUint64(amount), spendPub[:], transcriptUint8(uint8(enoteType)),
	)
	return amountBlindingFactor
}

// MakeAmountCommitment C_a = k_a G + a H
func MakeAmountCommitment(amount uint64, amountBlindingFactor *AmountBlindingKey) curve25519.PublicKeyBytes {
	return ringct.Commit(amount, amountBlindingFactor.Scalar())
}

// MakeOnetimeExtensionG make_carrot_onetime_address_extension_g
func MakeOnetimeExtensionG(senderReceiverSecret *SenderReceiverSecret, amountCommitment curve25519.PublicKeyBytes) (extensionG OnetimeExtensionG) {
	// k^o_g = H_n("..g..", s^ctx_sr, C_a)
	ScalarTranscript(
		extensionG.Scalar(), senderReceiverSecret[:], DomainSeparatorOnetimeExtensionG,
		amountCommitment[:],
	)
	return extensionG
}

// MakeOnetimeExtensionT make_carrot_onetime_address_extension_t
func MakeOnetimeExtensionT(senderReceiverSecret *SenderReceiverSecret, amountCommitment curve25519.PublicKeyBytes) (extensionT OnetimeExtensionT) {
	// k^o_t = H_n("..t..", s^ctx_sr, C_a)
	ScalarTranscript(
		extensionT.Scalar(), senderReceiverSecret[:], DomainSeparatorOnetimeExtensionT,
		amountCommitment[:],
	)
	return extensionT
}

// MakeOnetimeExtensionPub make_carrot_onetime_address_extension_pubkey
func MakeOnetimeExtensionPub(senderReceiverSecret *SenderReceiverSecret, amountCommitment curve25519.PublicKeyBytes) curve25519.PublicKeyBytes {
	extensionG := MakeOnetimeExtensionG(senderReceiverSecret, amountCommitment)
	defer extensionG.Wipe()
	extensionT := MakeOnetimeExtensionT(senderReceiverSecret, amountCommitment)
	defer extensionT.Wipe()

	// K^o_ext = k^o_g G + k^o_t T
	var K_ext curve25519.Point
	return curve25519.PointBytes(crypto.ScalarMultGT(&K_ext, extensionG.Scalar(), extensionT.Scalar()))
}

// MakeOnetimeAddress make_carrot_onetime_address
func MakeOnetimeAddress(spendPub curve25519.PublicKeyBytes, senderReceiverSecret *SenderReceiverSecret, amountCommitment curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, bool) {
	// Ko = K^j_s + K^o_ext
	return crypto.AddKeys(spendPub, MakeOnetimeExtensionPub(senderReceiverSecret, amountCommitment))
}

// RecoverAddressSpendPub recover_address_spend_pubkey
func RecoverAddressSpendPub(onetimeAddress curve25519.PublicKeyBytes, senderReceiverSecret *SenderReceiverSecret, amountCommitment curve25519.PublicKeyBytes) (curve25519.PublicKeyBytes, bool) {
	// K^j_s = Ko - K^o_ext
	return crypto.SubKeys(onetimeAddress, MakeOnetimeExtensionPub(senderReceiverSecret, amountCommitment))
}

// MakeViewTag make_carrot_view_tag
// The key is s_sr for external enotes, s_vb for internal enotes
func MakeViewTag(senderReceiverUnctx []byte, inputContext InputContext, onetimeAddress curve25519.PublicKeyBytes) (out ViewTag) {
	// vt = H_3(s_sr || input_context || Ko)
	HashedTranscript(
		out[:], senderReceiverUnctx, DomainSeparatorViewTag,
		inputContext[:], onetimeAddress[:],
	)
	return out
}

// VerifyViewTag test_carrot_view_tag
func VerifyViewTag(senderReceiverUnctx []byte, inputContext InputContext, onetimeAddress curve25519.PublicKeyBytes, viewTag ViewTag) bool {
	// vt' = H_3(s_sr || input_context || Ko)
	nominalViewTag := MakeViewTag(senderReceiverUnctx, inputContext, onetimeAddress)

	// vt' ?= vt
	return nominalViewTag.Equal(viewTag)
}

func makeAnchorEncryptionMask(senderReceiverSecret *SenderReceiverSecret, onetimeAddress curve25519.PublicKeyBytes) (out [16]byte) {
	// m_anchor = H_16(s^ctx_sr, Ko)
	HashedTranscript(
		out[:], senderReceiverSecret[:], DomainSeparatorEncryptionMaskAnchor,
		onetimeAddress[:],
	)
	return out
}

func makeAmountEncryptionMask(senderReceiverSecret *SenderReceiverSecret, onetimeAddress curve25519.PublicKeyBytes) (out [8]byte) {
	// m_a = H_8(s^ctx_sr, Ko)
	HashedTranscript(
		out[:], senderReceiverSecret[:], DomainSeparatorEncryptionMaskAmount,
		onetimeAddress[:],
	)
	return out
}

func makePaymentIdEncryptionMask(senderReceiverSecret *SenderReceiverSecret, onetimeAddress curve25519.PublicKeyBytes) (out [8]byte) {
	// m_pid = H_8(s^ctx_sr, Ko)
	HashedTranscript(
		out[:], senderReceiverSecret[:], DomainSeparatorEncryptionMaskPaymentId,
		onetimeAddress[:],
	)
	return out
}

// Encrypt anchor_enc = anchor XOR m_anchor
func (a JanusAnchor) Encrypt(senderReceiverSecret *SenderReceiverSecret, onetimeAddress curve25519.PublicKeyBytes) (out EncryptedJanusAnchor) {
	mask := makeAnchorEncryptionMask(senderReceiverSecret, onetimeAddress)
	xorBytes(out[:], a[:], mask[:])
	return out
}

// Decrypt anchor = anchor_enc XOR m_anchor
func (a EncryptedJanusAnchor) Decrypt(senderReceiverSecret *SenderReceiverSecret, onetimeAddress curve25519.PublicKeyBytes) (out JanusAnchor) {
	mask := makeAnchorEncryptionMask(senderReceiverSecret, onetimeAddress)
	xorBytes(out[:], a[:], mask[:])
	return out
}

// EncryptAmount a_enc = a XOR m_a, a little endian
func EncryptAmount(amount uint64, senderReceiverSecret *SenderReceiverSecret, onetimeAddress curve25519.PublicKeyBytes) (out EncryptedAmount) {
	mask := makeAmountEncryptionMask(senderReceiverSecret, onetimeAddress)
	var amountBytes [8]byte
	binary.LittleEndian.PutUint64(amountBytes[:], amount)
	xorBytes(out[:], amountBytes[:], mask[:])
	return out
}

// Decrypt a = a_enc XOR m_a
func (a EncryptedAmount) Decrypt(senderReceiverSecret *SenderReceiverSecret, onetimeAddress curve25519.PublicKeyBytes) uint64 {
	mask := makeAmountEncryptionMask(senderReceiverSecret, onetimeAddress)
	var amountBytes [8]byte
	xorBytes(amountBytes[:], a[:], mask[:])
	return binary.LittleEndian.Uint64(amountBytes[:])
}

// Encrypt pid_enc = pid XOR m_pid
func (p PaymentId) Encrypt(senderReceiverSecret *SenderReceiverSecret, onetimeAddress curve25519.PublicKeyBytes) (out EncryptedPaymentId) {
	mask := makePaymentIdEncryptionMask(senderReceiverSecret, onetimeAddress)
	xorBytes(out[:], p[:], mask[:])
	return out
}

// Decrypt pid = pid_enc XOR m_pid
func (p EncryptedPaymentId) Decrypt(senderReceiverSecret *SenderReceiverSecret, onetimeAddress curve25519.PublicKeyBytes) (out PaymentId) {
	mask := makePaymentIdEncryptionMask(senderReceiverSecret, onetimeAddress)
	xorBytes(out[:], p[:], mask[:])
	return out
}

// MakeJanusAnchorSpecial make_carrot_janus_anchor_special
func MakeJanusAnchorSpecial(ephemeralPub curve25519.MontgomeryPoint, inputContext InputContext, onetimeAddress curve25519.PublicKeyBytes, viewIncoming *ViewIncomingKey) (out JanusAnchor) {
	viewIncomingBytes := viewIncoming.Bytes()
	defer clear(viewIncomingBytes[:])

	// anchor_sp = H_16(D_e, input_context, Ko, k_v)
	HashedTranscript(
		out[:], viewIncomingBytes[:], DomainSeparatorJanusAnchorSpecial,
		ephemeralPub[:], inputContext[:], onetimeAddress[:],
	)
	return out
}

// TryRecomputeAmountCommitment try_recompute_carrot_amount_commitment
func TryRecomputeAmountCommitment(senderReceiverSecret *SenderReceiverSecret, nominalAmount uint64, nominalSpendPub curve25519.PublicKeyBytes, nominalEnoteType EnoteType, amountCommitment curve25519.PublicKeyBytes) (amountBlindingFactor AmountBlindingKey, ok bool) {
	// k_a' = H_n(s^ctx_sr, a', K^j_s', enote_type')
	amountBlindingFactor = MakeAmountBlindingFactor(senderReceiverSecret, nominalAmount, nominalSpendPub, nominalEnoteType)

	// C_a' = k_a' G + a' H
	nominalAmountCommitment := MakeAmountCommitment(nominalAmount, &amountBlindingFactor)

	// C_a' ?= C_a
	if nominalAmountCommitment != amountCommitment {
		amountBlindingFactor.Wipe()
		return amountBlindingFactor, false
	}
	return amountBlindingFactor, true
}

// TryGetAmount try_get_carrot_amount
// Tries the payment type first, then the change type
func TryGetAmount(senderReceiverSecret *SenderReceiverSecret, encryptedAmount EncryptedAmount, onetimeAddress, spendPub, amountCommitment curve25519.PublicKeyBytes) (amount uint64, amountBlindingFactor AmountBlindingKey, enoteType EnoteType, ok bool) {
	// a' = a_enc XOR m_a
	amount = encryptedAmount.Decrypt(senderReceiverSecret, onetimeAddress)

	for _, enoteType = range []EnoteType{EnoteTypePayment, EnoteTypeChange} {
		// if C_a ?= k_a' G + a' H, then PASS
		if amountBlindingFactor, ok = TryRecomputeAmountCommitment(senderReceiverSecret, amount, spendPub, enoteType, amountCommitment); ok {
			return amount, amountBlindingFactor, enoteType, true
		}
	}

	// neither attempt at recomputing passed: so FAIL
	return 0, AmountBlindingKey{}, EnoteTypePayment, false
}

// VerifyNormalJanusProtection verify_carrot_normal_janus_protection
func VerifyNormalJanusProtection(nominalAnchor JanusAnchor, inputContext InputContext, nominalSpendPub curve25519.PublicKeyBytes, isSubaddress bool, nominalPaymentId PaymentId, ephemeralPub curve25519.MontgomeryPoint) bool {
	// d_e' = H_n(anchor_norm, input_context, K^j_s, pid))
	nominalEphemeralPrivateKey := MakeEnoteEphemeralPrivateKey(nominalAnchor, inputContext, nominalSpendPub, nominalPaymentId)
	defer nominalEphemeralPrivateKey.Wipe()

	// recompute D_e' for d_e' and address type
	nominalEphemeralPub, ok := MakeEnoteEphemeralPub(&nominalEphemeralPrivateKey, nominalSpendPub, isSubaddress)
	if !ok {
		return false
	}

	// D_e' ?= D_e
	return nominalEphemeralPub.Equal(&ephemeralPub) == 1
}
