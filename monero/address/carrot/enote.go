package carrot

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

// EnoteV1 a non-coinbase output
type EnoteV1 struct {
	// OnetimeAddress K_o
	OnetimeAddress curve25519.PublicKeyBytes `json:"onetime_address"`
	// AmountCommitment C_a
	AmountCommitment curve25519.PublicKeyBytes `json:"amount_commitment"`
	EncryptedAmount  EncryptedAmount           `json:"encrypted_amount"`

	EncryptedAnchor EncryptedJanusAnchor `json:"encrypted_anchor"`
	ViewTag         ViewTag              `json:"view_tag"`

	// EphemeralPub D_e
	EphemeralPub curve25519.MontgomeryPoint `json:"ephemeral_pub"`

	// FirstKeyImage L_0, the first key image of the transaction spending into this enote
	FirstKeyImage curve25519.PublicKeyBytes `json:"tx_first_key_image"`
}

// CoinbaseEnoteV1 a coinbase output, with cleartext amount and implicit C_a = G + a H
type CoinbaseEnoteV1 struct {
	// OnetimeAddress K_o
	OnetimeAddress curve25519.PublicKeyBytes `json:"onetime_address"`
	Amount         uint64                    `json:"amount"`

	EncryptedAnchor EncryptedJanusAnchor `json:"encrypted_anchor"`
	ViewTag         ViewTag              `json:"view_tag"`

	// EphemeralPub D_e
	EphemeralPub curve25519.MontgomeryPoint `json:"ephemeral_pub"`

	BlockIndex uint64 `json:"block_index"`
}

// RCTOutputEnoteProposal an enote along with the opening of its amount commitment, needed for range proofs
type RCTOutputEnoteProposal struct {
	Enote EnoteV1 `json:"enote"`

	Amount               uint64            `json:"amount"`
	AmountBlindingFactor AmountBlindingKey `json:"-"`
}

func (e *EnoteV1) InputContext() InputContext {
	return MakeInputContext(e.FirstKeyImage)
}

func (e *CoinbaseEnoteV1) InputContext() InputContext {
	return MakeCoinbaseInputContext(e.BlockIndex)
}
