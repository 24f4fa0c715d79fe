package carrot

import (
	"io"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/ringct"
)

// PaymentProposalV1 pays a destination, possibly a third party
type PaymentProposalV1 struct {
	Destination DestinationV1 `json:"destination"`
	Amount      uint64        `json:"amount"`
	// Randomness anchor_norm, must be unique and non-zero within a transaction
	Randomness JanusAnchor `json:"randomness"`
}

// PaymentProposalSelfSendV1 pays back into the sender's own account
type PaymentProposalSelfSendV1 struct {
	// DestinationSpendPub K^j_s of the receiving address, within the sender's account
	DestinationSpendPub curve25519.PublicKeyBytes `json:"destination_address_spend_pubkey"`
	Amount              uint64                    `json:"amount"`
	EnoteType           EnoteType                 `json:"enote_type"`

	// EphemeralPub D_e, when it must be set explicitly
	EphemeralPub *curve25519.MontgomeryPoint `json:"enote_ephemeral_pubkey,omitempty"`

	// InternalMessage carried as the anchor of internal enotes
	InternalMessage *JanusAnchor `json:"internal_message,omitempty"`
}

// NewRandomPaymentProposal pays amount to a fresh random destination, with random anchor
func NewRandomPaymentProposal(r io.Reader, amount uint64, isSubaddress, isIntegrated bool) (p PaymentProposalV1, err error) {
	if p.Destination, err = NewRandomDestination(r, isSubaddress, isIntegrated); err != nil {
		return p, err
	}
	p.Amount = amount
	if _, err = io.ReadFull(r, p.Randomness[:]); err != nil {
		return p, err
	}
	return p, nil
}

func (p *PaymentProposalV1) ephemeralPrivateKey(inputContext InputContext) EnoteEphemeralKey {
	// d_e = H_n(anchor_norm, input_context, K^j_s, pid))
	return MakeEnoteEphemeralPrivateKey(p.Randomness, inputContext, p.Destination.AddressSpendPub, p.Destination.PaymentId)
}

// EphemeralPub D_e for this proposal in the given input context
func (p *PaymentProposalV1) EphemeralPub(inputContext InputContext) (curve25519.MontgomeryPoint, error) {
	ephemeralPrivateKey := p.ephemeralPrivateKey(inputContext)
	defer ephemeralPrivateKey.Wipe()

	ephemeralPub, ok := MakeEnoteEphemeralPub(&ephemeralPrivateKey, p.Destination.AddressSpendPub, p.Destination.IsSubaddress)
	if !ok {
		return ephemeralPub, ErrBadAddressPoints
	}
	return ephemeralPub, nil
}

// senderReceiverUnctx computes D_e and s_sr together, as both need d_e
func (p *PaymentProposalV1) senderReceiverUnctx(inputContext InputContext) (ephemeralPub curve25519.MontgomeryPoint, senderReceiverUnctx MontgomeryECDH, err error) {
	ephemeralPrivateKey := p.ephemeralPrivateKey(inputContext)
	defer ephemeralPrivateKey.Wipe()

	var ok bool
	if ephemeralPub, ok = MakeEnoteEphemeralPub(&ephemeralPrivateKey, p.Destination.AddressSpendPub, p.Destination.IsSubaddress); !ok {
		return ephemeralPub, senderReceiverUnctx, ErrBadAddressPoints
	}

	// s_sr = d_e ConvertPointE(K^j_v)
	if senderReceiverUnctx, ok = MakeUncontextualizedSharedKeySender(&ephemeralPrivateKey, p.Destination.AddressViewPub); !ok {
		return ephemeralPub, senderReceiverUnctx, ErrBadAddressPoints
	}

	return ephemeralPub, senderReceiverUnctx, nil
}

type outputProposalParts struct {
	AmountBlindingFactor AmountBlindingKey
	AmountCommitment     curve25519.PublicKeyBytes
	OnetimeAddress       curve25519.PublicKeyBytes
	EncryptedAmount      EncryptedAmount
	EncryptedPaymentId   EncryptedPaymentId
}

// makeOutputProposalParts derives everything below s^ctx_sr: k_a, C_a, Ko, a_enc, pid_enc
func makeOutputProposalParts(senderReceiverSecret *SenderReceiverSecret, spendPub curve25519.PublicKeyBytes, paymentId PaymentId, amount uint64, enoteType EnoteType, coinbase bool) (parts outputProposalParts, err error) {
	if coinbase {
		// k_a = 1
		*parts.AmountBlindingFactor.Scalar() = *curve25519.ScalarOne()
		// C_a = G + a H
		parts.AmountCommitment = ringct.CalculateCommitmentCoinbase(amount)
	} else {
		// k_a = H_n(s^ctx_sr, a, K^j_s, enote_type)
		parts.AmountBlindingFactor = MakeAmountBlindingFactor(senderReceiverSecret, amount, spendPub, enoteType)
		// C_a = k_a G + a H
		parts.AmountCommitment = MakeAmountCommitment(amount, &parts.AmountBlindingFactor)
	}

	// Ko = K^j_s + K^o_ext = K^j_s + (k^o_g G + k^o_t T)
	var ok bool
	if parts.OnetimeAddress, ok = MakeOnetimeAddress(spendPub, senderReceiverSecret, parts.AmountCommitment); !ok {
		parts.AmountBlindingFactor.Wipe()
		return parts, ErrBadAddressPoints
	}

	// a_enc = a XOR m_a
	parts.EncryptedAmount = EncryptAmount(amount, senderReceiverSecret, parts.OnetimeAddress)

	// pid_enc = pid XOR m_pid
	parts.EncryptedPaymentId = paymentId.Encrypt(senderReceiverSecret, parts.OnetimeAddress)

	return parts, nil
}

// makeExternalOutputProposalParts s^ctx_sr from s_sr, then the remaining parts and the view tag
func makeExternalOutputProposalParts(senderReceiverUnctx *MontgomeryECDH, spendPub curve25519.PublicKeyBytes, paymentId PaymentId, amount uint64, enoteType EnoteType, ephemeralPub curve25519.MontgomeryPoint, inputContext InputContext, coinbase bool) (senderReceiverSecret SenderReceiverSecret, parts outputProposalParts, viewTag ViewTag, err error) {
	// s^ctx_sr = H_32(s_sr, D_e, input_context)
	senderReceiverSecret = MakeSenderReceiverSecret(senderReceiverUnctx[:], ephemeralPub, inputContext)

	if parts, err = makeOutputProposalParts(&senderReceiverSecret, spendPub, paymentId, amount, enoteType, coinbase); err != nil {
		senderReceiverSecret.Wipe()
		return senderReceiverSecret, parts, viewTag, err
	}

	// vt = H_3(s_sr || input_context || Ko)
	viewTag = MakeViewTag(senderReceiverUnctx[:], inputContext, parts.OnetimeAddress)

	return senderReceiverSecret, parts, viewTag, nil
}

// GetCoinbaseOutputProposal get_coinbase_output_proposal_v1
func (p *PaymentProposalV1) GetCoinbaseOutputProposal(blockIndex uint64) (enote CoinbaseEnoteV1, err error) {
	// 1. sanity checks
	if p.Randomness == NullJanusAnchor {
		return enote, ErrMissingRandomness
	}
	if p.Destination.IsSubaddress || p.Destination.IsIntegrated() {
		return enote, ErrWrongAddressType
	}

	// 2. coinbase input context
	inputContext := MakeCoinbaseInputContext(blockIndex)

	// 3. make D_e and do external ECDH
	ephemeralPub, senderReceiverUnctx, err := p.senderReceiverUnctx(inputContext)
	if err != nil {
		return enote, err
	}
	defer senderReceiverUnctx.Wipe()

	// 4. build the output enote address pieces
	senderReceiverSecret, parts, viewTag, err := makeExternalOutputProposalParts(&senderReceiverUnctx, p.Destination.AddressSpendPub, NullPaymentId, p.Amount, EnoteTypePayment, ephemeralPub, inputContext, true)
	if err != nil {
		return enote, err
	}
	defer senderReceiverSecret.Wipe()

	// 5. anchor_enc = anchor XOR m_anchor
	encryptedAnchor := p.Randomness.Encrypt(&senderReceiverSecret, parts.OnetimeAddress)

	return CoinbaseEnoteV1{
		OnetimeAddress:  parts.OnetimeAddress,
		Amount:          p.Amount,
		EncryptedAnchor: encryptedAnchor,
		ViewTag:         viewTag,
		EphemeralPub:    ephemeralPub,
		BlockIndex:      blockIndex,
	}, nil
}

// GetNormalOutputProposal get_output_proposal_normal_v1
func (p *PaymentProposalV1) GetNormalOutputProposal(firstKeyImage curve25519.PublicKeyBytes) (proposal RCTOutputEnoteProposal, encryptedPaymentId EncryptedPaymentId, err error) {
	// 1. sanity checks
	if p.Randomness == NullJanusAnchor {
		return proposal, encryptedPaymentId, ErrMissingRandomness
	}

	// 2. input context: input_context = "R" || KI_1
	inputContext := MakeInputContext(firstKeyImage)

	// 3. make D_e and do external ECDH
	ephemeralPub, senderReceiverUnctx, err := p.senderReceiverUnctx(inputContext)
	if err != nil {
		return proposal, encryptedPaymentId, err
	}
	defer senderReceiverUnctx.Wipe()

	// 4. build the output enote address pieces
	senderReceiverSecret, parts, viewTag, err := makeExternalOutputProposalParts(&senderReceiverUnctx, p.Destination.AddressSpendPub, p.Destination.PaymentId, p.Amount, EnoteTypePayment, ephemeralPub, inputContext, false)
	if err != nil {
		return proposal, encryptedPaymentId, err
	}
	defer senderReceiverSecret.Wipe()

	// 5. anchor_enc = anchor XOR m_anchor
	encryptedAnchor := p.Randomness.Encrypt(&senderReceiverSecret, parts.OnetimeAddress)

	return RCTOutputEnoteProposal{
		Enote: EnoteV1{
			OnetimeAddress:   parts.OnetimeAddress,
			AmountCommitment: parts.AmountCommitment,
			EncryptedAmount:  parts.EncryptedAmount,
			EncryptedAnchor:  encryptedAnchor,
			ViewTag:          viewTag,
			EphemeralPub:     ephemeralPub,
			FirstKeyImage:    firstKeyImage,
		},
		Amount:               p.Amount,
		AmountBlindingFactor: parts.AmountBlindingFactor,
	}, parts.EncryptedPaymentId, nil
}

// GetEnoteEphemeralPubkeyForSelfSend resolves D_e of a self-send against the one of the other output in a 2-out set
func (p *PaymentProposalSelfSendV1) GetEnoteEphemeralPubkeyForSelfSend(otherEphemeralPub *curve25519.MontgomeryPoint) (curve25519.MontgomeryPoint, error) {
	switch {
	case p.EphemeralPub != nil && otherEphemeralPub != nil:
		if p.EphemeralPub.Equal(otherEphemeralPub) != 1 {
			return curve25519.MontgomeryPoint{}, ErrMismatchedEnoteEphemeralPubkey
		}
		return *p.EphemeralPub, nil
	case p.EphemeralPub != nil:
		return *p.EphemeralPub, nil
	case otherEphemeralPub != nil:
		return *otherEphemeralPub, nil
	default:
		return curve25519.MontgomeryPoint{}, ErrMissingEnoteEphemeralPubkey
	}
}

// GetSpecialOutputProposal get_output_proposal_special_v1
// Special self-sends are built with the view-incoming key only, and are authenticated to the receiver by anchor_sp
func (p *PaymentProposalSelfSendV1) GetSpecialOutputProposal(viewIncomingDevice ViewIncomingKeyDevice, firstKeyImage curve25519.PublicKeyBytes, otherEphemeralPub *curve25519.MontgomeryPoint) (proposal RCTOutputEnoteProposal, err error) {
	// 1. sanity checks
	if p.InternalMessage != nil {
		return proposal, ErrInvalidInternalMessage
	}

	// 2. D_e
	ephemeralPub, err := p.GetEnoteEphemeralPubkeyForSelfSend(otherEphemeralPub)
	if err != nil {
		return proposal, err
	}

	// 3. input context: input_context = "R" || KI_1
	inputContext := MakeInputContext(firstKeyImage)

	// 4. s_sr = k_v D_e
	senderReceiverUnctx, err := viewIncomingDevice.ViewKeyScalarMultX25519(ephemeralPub)
	if err != nil {
		return proposal, coerceDeviceError(err)
	}
	defer senderReceiverUnctx.Wipe()

	// 5. build the output enote address pieces
	senderReceiverSecret, parts, viewTag, err := makeExternalOutputProposalParts(&senderReceiverUnctx, p.DestinationSpendPub, NullPaymentId, p.Amount, p.EnoteType, ephemeralPub, inputContext, false)
	if err != nil {
		return proposal, err
	}
	defer senderReceiverSecret.Wipe()

	// 6. anchor_sp = H_16(D_e, input_context, Ko, k_v)
	anchor, err := viewIncomingDevice.MakeJanusAnchorSpecial(ephemeralPub, inputContext, parts.OnetimeAddress)
	if err != nil {
		parts.AmountBlindingFactor.Wipe()
		return proposal, coerceDeviceError(err)
	}

	// 7. anchor_enc = anchor_sp XOR m_anchor
	encryptedAnchor := anchor.Encrypt(&senderReceiverSecret, parts.OnetimeAddress)

	return RCTOutputEnoteProposal{
		Enote: EnoteV1{
			OnetimeAddress:   parts.OnetimeAddress,
			AmountCommitment: parts.AmountCommitment,
			EncryptedAmount:  parts.EncryptedAmount,
			EncryptedAnchor:  encryptedAnchor,
			ViewTag:          viewTag,
			EphemeralPub:     ephemeralPub,
			FirstKeyImage:    firstKeyImage,
		},
		Amount:               p.Amount,
		AmountBlindingFactor: parts.AmountBlindingFactor,
	}, nil
}

// GetInternalOutputProposal get_output_proposal_internal_v1
// Internal self-sends skip ECDH, s^ctx_sr and the view tag are keyed by s_vb directly
func (p *PaymentProposalSelfSendV1) GetInternalOutputProposal(viewBalanceDevice ViewBalanceSecretDevice, firstKeyImage curve25519.PublicKeyBytes, otherEphemeralPub *curve25519.MontgomeryPoint) (proposal RCTOutputEnoteProposal, err error) {
	// 1. D_e
	ephemeralPub, err := p.GetEnoteEphemeralPubkeyForSelfSend(otherEphemeralPub)
	if err != nil {
		return proposal, err
	}

	// 2. input context: input_context = "R" || KI_1
	inputContext := MakeInputContext(firstKeyImage)

	// 3. s^ctx_sr = H_32(s_vb, D_e, input_context)
	senderReceiverSecret, err := viewBalanceDevice.MakeInternalSenderReceiverSecret(ephemeralPub, inputContext)
	if err != nil {
		return proposal, coerceDeviceError(err)
	}
	defer senderReceiverSecret.Wipe()

	// 4. build the output enote address pieces
	parts, err := makeOutputProposalParts(&senderReceiverSecret, p.DestinationSpendPub, NullPaymentId, p.Amount, p.EnoteType, false)
	if err != nil {
		return proposal, err
	}

	// 5. vt = H_3(s_vb || input_context || Ko)
	viewTag, err := viewBalanceDevice.MakeInternalViewTag(inputContext, parts.OnetimeAddress)
	if err != nil {
		parts.AmountBlindingFactor.Wipe()
		return proposal, coerceDeviceError(err)
	}

	// 6. anchor_enc = internal message XOR m_anchor, where the message defaults to zeros
	var anchor JanusAnchor
	if p.InternalMessage != nil {
		anchor = *p.InternalMessage
	}
	encryptedAnchor := anchor.Encrypt(&senderReceiverSecret, parts.OnetimeAddress)

	return RCTOutputEnoteProposal{
		Enote: EnoteV1{
			OnetimeAddress:   parts.OnetimeAddress,
			AmountCommitment: parts.AmountCommitment,
			EncryptedAmount:  parts.EncryptedAmount,
			EncryptedAnchor:  encryptedAnchor,
			ViewTag:          viewTag,
			EphemeralPub:     ephemeralPub,
			FirstKeyImage:    firstKeyImage,
		},
		Amount:               p.Amount,
		AmountBlindingFactor: parts.AmountBlindingFactor,
	}, nil
}
