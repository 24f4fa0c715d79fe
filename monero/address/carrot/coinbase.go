package carrot

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/carrot/types"
)

// GetDeterministicCoinbaseRandomness anchor_norm for a coinbase output that anyone knowing seed can reproduce,
// as needed when several parties must build the exact same coinbase transaction
func GetDeterministicCoinbaseRandomness(seed types.Hash, blockIndex uint64, destination *DestinationV1) (out JanusAnchor) {
	inputContext := MakeCoinbaseInputContext(blockIndex)

	var counter uint32
	var nonce [4]byte

	for {
		// anchor = H_16[seed](input_context, K^j_s, K^j_v, nonce)
		HashedTranscript(
			out[:], seed[:], DomainSeparatorDeterministicCoinbaseRandomness,
			inputContext[:], destination.AddressSpendPub[:], destination.AddressViewPub[:], nonce[:],
		)
		if out != NullJanusAnchor {
			return out
		}
		counter++
		binary.LittleEndian.PutUint32(nonce[:], counter)
	}
}

// NewCoinbasePaymentProposal pays amount to destination with deterministic randomness
func NewCoinbasePaymentProposal(seed types.Hash, blockIndex uint64, destination DestinationV1, amount uint64) PaymentProposalV1 {
	return PaymentProposalV1{
		Destination: destination,
		Amount:      amount,
		Randomness:  GetDeterministicCoinbaseRandomness(seed, blockIndex, &destination),
	}
}
